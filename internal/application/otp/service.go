package otp

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math/big"

	"github.com/Ernie1234/e-commerce-microrepo/internal/domain"
	redisinfra "github.com/Ernie1234/e-commerce-microrepo/internal/infrastructure/redis"
)

// Store is the ephemeral OTP state the engine drives.
type Store interface {
	AdmitRequest(ctx context.Context, email string) (int, error)
	Save(ctx context.Context, email, code string) error
	Verify(ctx context.Context, email, code string) (remaining int, err error)
}

// Notifier delivers a code out of band.
type Notifier interface {
	SendOTP(ctx context.Context, msg domain.OTPMessage) error
}

type IssueRequest struct {
	Email       string
	Name        string
	PhoneNumber string
	Purpose     domain.Purpose
}

type Service interface {
	Issue(ctx context.Context, req IssueRequest) error
	Verify(ctx context.Context, email, code string) error
}

type ServiceDeps struct {
	Store    Store
	Notifier Notifier
	// Generate defaults to a crypto/rand six digit code.
	Generate func() (string, error)
}

type service struct {
	store    Store
	notifier Notifier
	generate func() (string, error)
}

func NewService(deps ServiceDeps) Service {
	gen := deps.Generate
	if gen == nil {
		gen = GenerateCode
	}
	return &service{store: deps.Store, notifier: deps.Notifier, generate: gen}
}

func (s *service) Issue(ctx context.Context, req IssueRequest) error {
	if _, err := s.store.AdmitRequest(ctx, req.Email); err != nil {
		if errors.Is(err, redisinfra.ErrOTPSpamLocked) {
			slog.Warn("otp request limit reached", "email", req.Email, "purpose", req.Purpose)
		}
		return mapStoreError(err, "admit otp request")
	}

	code, err := s.generate()
	if err != nil {
		return err
	}
	msg := domain.OTPMessage{
		Name:        req.Name,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		Code:        code,
		Purpose:     req.Purpose,
	}
	if err := s.notifier.SendOTP(ctx, msg); err != nil {
		return fmt.Errorf("send otp: %w", err)
	}
	if err := s.store.Save(ctx, req.Email, code); err != nil {
		return fmt.Errorf("save otp: %w", err)
	}
	return nil
}

func (s *service) Verify(ctx context.Context, email, code string) error {
	remaining, err := s.store.Verify(ctx, email, code)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, redisinfra.ErrOTPMismatch):
		return domain.Validation("Invalid OTP. %d %s left.", remaining, plural(remaining, "attempt", "attempts")).
			WithDetails(map[string]int{"remaining_attempts": remaining})
	case errors.Is(err, redisinfra.ErrOTPLocked), errors.Is(err, redisinfra.ErrOTPAttemptsExceeded):
		if errors.Is(err, redisinfra.ErrOTPAttemptsExceeded) {
			slog.Warn("otp verification locked", "email", email)
		}
		return domain.Unauthorized("Too many failed attempts. Please try again later.")
	case errors.Is(err, redisinfra.ErrOTPNotFound):
		return domain.Unauthorized("Invalid or expired OTP. Please request a new one.")
	default:
		return fmt.Errorf("verify otp: %w", err)
	}
}

func mapStoreError(err error, op string) error {
	switch {
	case errors.Is(err, redisinfra.ErrOTPLocked):
		return domain.RateLimited("Too many failed attempts. Account locked, wait before retrying.")
	case errors.Is(err, redisinfra.ErrOTPSpamLocked):
		return domain.RateLimited("OTP request limit exceeded. Please try again later.")
	case errors.Is(err, redisinfra.ErrOTPCooldown):
		return domain.RateLimited("Please wait before requesting another OTP.")
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}

// GenerateCode returns a uniformly random code in 100000-999999.
func GenerateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", fmt.Errorf("generate otp: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
