package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Ernie1234/e-commerce-microrepo/internal/application/otp"
	"github.com/Ernie1234/e-commerce-microrepo/internal/domain"
	redisinfra "github.com/Ernie1234/e-commerce-microrepo/internal/infrastructure/redis"
	"github.com/Ernie1234/e-commerce-microrepo/internal/pkg/id"
	"github.com/Ernie1234/e-commerce-microrepo/internal/pkg/validate"
	"golang.org/x/crypto/bcrypt"
)

type RegistrationRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email_addr"`
	Password string `json:"password" validate:"required,password_len"`
	Country  string `json:"country"`
}

type SellerRegistrationRequest struct {
	Name        string `json:"name" validate:"required"`
	Email       string `json:"email" validate:"required,email_addr"`
	Password    string `json:"password" validate:"required,password_len"`
	PhoneNumber string `json:"phone_number" validate:"required"`
	Country     string `json:"country"`
}

type VerifyRegistrationRequest struct {
	Email    string `json:"email" validate:"required,email_addr"`
	OTP      string `json:"otp" validate:"required"`
	Password string `json:"password" validate:"required,password_len"`
	Name     string `json:"name" validate:"required"`
}

type VerifySellerRequest struct {
	Email       string `json:"email" validate:"required,email_addr"`
	OTP         string `json:"otp" validate:"required"`
	Password    string `json:"password" validate:"required,password_len"`
	Name        string `json:"name" validate:"required"`
	PhoneNumber string `json:"phone_number" validate:"required"`
	Country     string `json:"country"`
}

type ResendOTPRequest struct {
	Email       string `json:"email" validate:"required,email_addr"`
	Name        string `json:"name" validate:"required"`
	Role        string `json:"role" validate:"omitempty,oneof=user seller"`
	PhoneNumber string `json:"phone_number" validate:"required_if=Role seller"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email_addr"`
}

type VerifyResetRequest struct {
	Email string `json:"email" validate:"required,email_addr"`
	OTP   string `json:"otp" validate:"required"`
}

type ResetPasswordRequest struct {
	Email       string `json:"email" validate:"required,email_addr"`
	NewPassword string `json:"newPassword" validate:"required,password_len"`
}

type Service interface {
	RequestRegistration(ctx context.Context, req RegistrationRequest) error
	VerifyRegistration(ctx context.Context, req VerifyRegistrationRequest) (*domain.User, error)
	RequestSellerRegistration(ctx context.Context, req SellerRegistrationRequest) error
	VerifySellerRegistration(ctx context.Context, req VerifySellerRequest) (*domain.User, error)
	ResendRegistrationOTP(ctx context.Context, req ResendOTPRequest) error
	RequestPasswordReset(ctx context.Context, req ForgotPasswordRequest) error
	VerifyPasswordResetOTP(ctx context.Context, req VerifyResetRequest) error
	ResetPassword(ctx context.Context, req ResetPasswordRequest) (*domain.User, error)
}

type userStore interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Create(ctx context.Context, u *domain.User) error
	UpdatePassword(ctx context.Context, userID, passwordHash string) error
}

type resetGrants interface {
	GrantPasswordReset(ctx context.Context, email string, ttl time.Duration) error
	HasPasswordResetGrant(ctx context.Context, email string) (bool, error)
	ConsumePasswordResetGrant(ctx context.Context, email string) error
}

type ServiceDeps struct {
	UserRepo   userStore
	OTP        otp.Service
	Grants     resetGrants
	BcryptCost int
	// ResetGrantTTL is how long a verified reset OTP keeps the reset window open.
	ResetGrantTTL time.Duration
}

type service struct {
	repo       userStore
	otp        otp.Service
	grants     resetGrants
	bcryptCost int
	grantTTL   time.Duration
	now        func() time.Time
}

func NewService(deps ServiceDeps) Service {
	cost := deps.BcryptCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	ttl := deps.ResetGrantTTL
	if ttl == 0 {
		ttl = 10 * time.Minute
	}
	return &service{
		repo:       deps.UserRepo,
		otp:        deps.OTP,
		grants:     deps.Grants,
		bcryptCost: cost,
		grantTTL:   ttl,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func (s *service) RequestRegistration(ctx context.Context, req RegistrationRequest) error {
	if err := validate.Struct(req); err != nil {
		return err
	}
	if err := s.ensureNewEmail(ctx, req.Email); err != nil {
		return err
	}
	return s.otp.Issue(ctx, otp.IssueRequest{
		Email:   req.Email,
		Name:    req.Name,
		Purpose: domain.PurposeUserActivation,
	})
}

func (s *service) VerifyRegistration(ctx context.Context, req VerifyRegistrationRequest) (*domain.User, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	return s.activate(ctx, req.OTP, &domain.User{
		Name:  req.Name,
		Email: req.Email,
		Role:  domain.RoleUser,
	}, req.Password)
}

func (s *service) RequestSellerRegistration(ctx context.Context, req SellerRegistrationRequest) error {
	if err := validate.Struct(req); err != nil {
		return err
	}
	if err := s.ensureNewEmail(ctx, req.Email); err != nil {
		return err
	}
	return s.otp.Issue(ctx, otp.IssueRequest{
		Email:       req.Email,
		Name:        req.Name,
		PhoneNumber: req.PhoneNumber,
		Purpose:     domain.PurposeSellerActivation,
	})
}

func (s *service) VerifySellerRegistration(ctx context.Context, req VerifySellerRequest) (*domain.User, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	return s.activate(ctx, req.OTP, &domain.User{
		Name:        req.Name,
		Email:       req.Email,
		Role:        domain.RoleSeller,
		PhoneNumber: req.PhoneNumber,
		Country:     req.Country,
	}, req.Password)
}

func (s *service) ResendRegistrationOTP(ctx context.Context, req ResendOTPRequest) error {
	if err := validate.Struct(req); err != nil {
		return err
	}
	if err := s.ensureNewEmail(ctx, req.Email); err != nil {
		return err
	}
	issue := otp.IssueRequest{Email: req.Email, Name: req.Name, Purpose: domain.PurposeUserActivation}
	if req.Role == domain.RoleSeller {
		issue.Purpose = domain.PurposeSellerActivation
		issue.PhoneNumber = req.PhoneNumber
	}
	return s.otp.Issue(ctx, issue)
}

func (s *service) RequestPasswordReset(ctx context.Context, req ForgotPasswordRequest) error {
	if err := validate.Struct(req); err != nil {
		return err
	}
	u, err := s.lookup(ctx, req.Email)
	if err != nil {
		return err
	}
	if u == nil {
		return domain.Validation("User not found")
	}
	return s.otp.Issue(ctx, otp.IssueRequest{
		Email:   u.Email,
		Name:    u.Name,
		Purpose: domain.PurposePasswordReset,
	})
}

func (s *service) VerifyPasswordResetOTP(ctx context.Context, req VerifyResetRequest) error {
	if err := validate.Struct(req); err != nil {
		return err
	}
	if err := s.otp.Verify(ctx, req.Email, req.OTP); err != nil {
		return err
	}
	if err := s.grants.GrantPasswordReset(ctx, req.Email, s.grantTTL); err != nil {
		return fmt.Errorf("grant password reset: %w", err)
	}
	return nil
}

func (s *service) ResetPassword(ctx context.Context, req ResetPasswordRequest) (*domain.User, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	u, err := s.lookup(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.Unauthorized("User not found!")
	}

	granted, err := s.grants.HasPasswordResetGrant(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("check reset grant: %w", err)
	}
	if !granted {
		return nil, errResetNotVerified()
	}

	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.NewPassword)) == nil {
		return nil, domain.Validation("New password cannot reuse old password.")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	// Claiming the grant is the atomic step; two racing resets cannot both pass it.
	if err := s.grants.ConsumePasswordResetGrant(ctx, req.Email); err != nil {
		if errors.Is(err, redisinfra.ErrResetNotGranted) {
			return nil, errResetNotVerified()
		}
		return nil, fmt.Errorf("consume reset grant: %w", err)
	}
	if err := s.repo.UpdatePassword(ctx, u.UserID, string(hash)); err != nil {
		return nil, fmt.Errorf("update password: %w", err)
	}

	u.PasswordHash = string(hash)
	u.UpdatedAt = s.now()
	return u.Redacted(), nil
}

// activate verifies the OTP and creates u with the given password.
func (s *service) activate(ctx context.Context, code string, u *domain.User, password string) (*domain.User, error) {
	if err := s.otp.Verify(ctx, u.Email, code); err != nil {
		return nil, err
	}

	// Another registration for the same email may have completed meanwhile.
	existing, err := s.lookup(ctx, u.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.Unauthorized("User already exists. Please log in.")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	now := s.now()
	u.UserID = id.New()
	u.PasswordHash = string(hash)
	u.CreatedAt = now
	u.UpdatedAt = now
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	slog.Info("account activated", "user_id", u.UserID, "role", u.Role)
	return u.Redacted(), nil
}

func (s *service) ensureNewEmail(ctx context.Context, email string) error {
	u, err := s.lookup(ctx, email)
	if err != nil {
		return err
	}
	if u != nil {
		return domain.Validation("User already exists")
	}
	return nil
}

// lookup returns the account for email, or nil when there is none.
func (s *service) lookup(ctx context.Context, email string) (*domain.User, error) {
	u, err := s.repo.GetByEmail(ctx, email)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	return u, nil
}

func errResetNotVerified() error {
	return domain.Unauthorized("Password reset not verified. Please verify the OTP first.")
}
