package notification

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Ernie1234/e-commerce-microrepo/internal/domain"
	"github.com/Ernie1234/e-commerce-microrepo/internal/infrastructure/smtp"
	"github.com/Ernie1234/e-commerce-microrepo/internal/infrastructure/sns"
)

type Service interface {
	SendOTP(ctx context.Context, msg domain.OTPMessage) error
}

type service struct {
	mailer    smtp.Mailer
	smsSender sns.SMSSender
}

// NewService returns the OTP dispatcher. smsSender may be nil, in which case
// codes go out by email only.
func NewService(mailer smtp.Mailer, smsSender sns.SMSSender) Service {
	return &service{mailer: mailer, smsSender: smsSender}
}

// smsNotice tells an unverified phone that a code went to the account email.
// It never carries the code: only the inbox owner may activate or reset.
const smsNotice = "A verification code for your seller account was sent to your email address."

// SendOTP emails the code. When a phone number is present and SMS is
// configured the phone gets a notice without the code. Only email failure is
// returned.
func (s *service) SendOTP(ctx context.Context, msg domain.OTPMessage) error {
	subject, body := render(msg)
	if err := s.mailer.SendEmail(ctx, msg.Email, subject, body); err != nil {
		return fmt.Errorf("email otp: %w", err)
	}
	if msg.PhoneNumber != "" && s.smsSender != nil {
		if err := s.smsSender.SendSMS(ctx, msg.PhoneNumber, smsNotice); err != nil {
			slog.Warn("sms notice delivery failed", "email", msg.Email, "purpose", msg.Purpose, "err", err)
		}
	}
	return nil
}

func render(msg domain.OTPMessage) (subject, body string) {
	name := msg.Name
	if name == "" {
		name = "there"
	}
	switch msg.Purpose {
	case domain.PurposePasswordReset:
		subject = "Reset your password"
		body = fmt.Sprintf("Hi %s,\n\nUse the code %s to reset your password. It expires in 5 minutes.\n\nIf you did not ask for a reset, ignore this email.\n", name, msg.Code)
	case domain.PurposeSellerActivation:
		subject = "Verify your seller account"
		body = fmt.Sprintf("Hi %s,\n\nUse the code %s to activate your seller account. It expires in 5 minutes.\n", name, msg.Code)
	default:
		subject = "OTP Verification"
		body = fmt.Sprintf("Hi %s,\n\nUse the code %s to activate your account. It expires in 5 minutes.\n", name, msg.Code)
	}
	return subject, body
}
