package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Ernie1234/e-commerce-microrepo/internal/domain"
	jwtinfra "github.com/Ernie1234/e-commerce-microrepo/internal/infrastructure/jwt"
	"github.com/Ernie1234/e-commerce-microrepo/internal/pkg/validate"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/singleflight"
)

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type LoginResult struct {
	AccessToken  string
	RefreshToken string
	User         *domain.User
}

type Service interface {
	Login(ctx context.Context, req LoginRequest) (*LoginResult, error)
	Refresh(ctx context.Context, refreshToken string) (accessToken string, err error)
	GetCurrentUser(ctx context.Context, userID string) (*domain.User, error)
}

type userStore interface {
	Get(ctx context.Context, userID string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

type tokenIssuer interface {
	SignAccess(userID, role string) (string, error)
	SignRefresh(userID, role string) (string, error)
	VerifyRefresh(token string) (*jwtinfra.Claims, error)
}

type ServiceDeps struct {
	UserRepo userStore
	Tokens   tokenIssuer
}

type service struct {
	repo    userStore
	tokens  tokenIssuer
	refresh singleflight.Group
}

func NewService(deps ServiceDeps) Service {
	return &service{repo: deps.UserRepo, tokens: deps.Tokens}
}

// errBadCredentials is shared by the unknown-email and wrong-password paths
// so the response does not reveal whether an account exists.
func errBadCredentials() error {
	return domain.Unauthorized("Invalid email or password.")
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	u, err := s.repo.GetByEmail(ctx, req.Email)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, errBadCredentials()
	}
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return nil, errBadCredentials()
	}

	access, err := s.tokens.SignAccess(u.UserID, u.Role)
	if err != nil {
		return nil, err
	}
	refresh, err := s.tokens.SignRefresh(u.UserID, u.Role)
	if err != nil {
		return nil, err
	}
	return &LoginResult{AccessToken: access, RefreshToken: refresh, User: u.Redacted()}, nil
}

// Refresh exchanges a valid refresh token for a new access token carrying the
// same id and role. The refresh token itself is not rotated. Concurrent
// refreshes for one user share a single store lookup and signing.
func (s *service) Refresh(ctx context.Context, refreshToken string) (string, error) {
	if refreshToken == "" {
		return "", domain.Unauthorized("Unauthorized! No refresh token.")
	}
	claims, err := s.tokens.VerifyRefresh(refreshToken)
	if err != nil {
		slog.Debug("refresh token rejected", "err", err)
		return "", domain.Unauthorized("Forbidden! Invalid refresh token.")
	}

	// The shared call must outlive whichever caller started it.
	shared := context.WithoutCancel(ctx)
	v, err, _ := s.refresh.Do(claims.UserID, func() (interface{}, error) {
		if _, err := s.repo.Get(shared, claims.UserID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, domain.Unauthorized("Forbidden! User not found.")
			}
			return nil, fmt.Errorf("lookup user: %w", err)
		}
		return s.tokens.SignAccess(claims.UserID, claims.Role)
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func (s *service) GetCurrentUser(ctx context.Context, userID string) (*domain.User, error) {
	u, err := s.repo.Get(ctx, userID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.Unauthorized("Account not found!")
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u.Redacted(), nil
}
