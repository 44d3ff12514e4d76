package http

import (
	"context"
	"time"

	"github.com/Ernie1234/e-commerce-microrepo/internal/domain"
	jwtinfra "github.com/Ernie1234/e-commerce-microrepo/internal/infrastructure/jwt"
)

// UserRepository is the minimal interface the router requires from the credential store.
type UserRepository interface {
	Get(ctx context.Context, userID string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Create(ctx context.Context, u *domain.User) error
	UpdatePassword(ctx context.Context, userID, passwordHash string) error
}

// OTPStore is the minimal interface the router requires from the ephemeral OTP state.
type OTPStore interface {
	AdmitRequest(ctx context.Context, email string) (int, error)
	Save(ctx context.Context, email, code string) error
	Verify(ctx context.Context, email, code string) (int, error)
	GrantPasswordReset(ctx context.Context, email string, ttl time.Duration) error
	HasPasswordResetGrant(ctx context.Context, email string) (bool, error)
	ConsumePasswordResetGrant(ctx context.Context, email string) error
}

// TokenProvider signs and verifies session tokens.
type TokenProvider interface {
	SignAccess(userID, role string) (string, error)
	SignRefresh(userID, role string) (string, error)
	VerifyAccess(token string) (*jwtinfra.Claims, error)
	VerifyRefresh(token string) (*jwtinfra.Claims, error)
}
