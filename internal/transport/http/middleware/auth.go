package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/Ernie1234/e-commerce-microrepo/internal/domain"
	jwtinfra "github.com/Ernie1234/e-commerce-microrepo/internal/infrastructure/jwt"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

type contextKey string

const (
	ClaimsKey contextKey = "claims"
	UserKey   contextKey = "user"
)

// AccessCookie is the cookie that carries the access token.
const AccessCookie = "accessToken"

type TokenVerifier interface {
	VerifyAccess(token string) (*jwtinfra.Claims, error)
}

// UserLoader resolves the account behind a verified token.
type UserLoader interface {
	GetCurrentUser(ctx context.Context, userID string) (*domain.User, error)
}

// Auth returns middleware that validates the access token from the accessToken
// cookie or a Bearer header, loads the account and injects both into context.
func Auth(verifier TokenVerifier, users UserLoader) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr := accessToken(r)
			if tokenStr == "" {
				writeJSONError(w, http.StatusUnauthorized, "Unauthorized! Token missing.")
				return
			}
			claims, err := verifier.VerifyAccess(tokenStr)
			if err != nil {
				writeJSONError(w, http.StatusUnauthorized, "Unauthorized! Token expired or invalid.")
				return
			}
			u, err := users.GetCurrentUser(r.Context(), claims.UserID)
			if err != nil {
				var de *domain.Error
				if errors.As(err, &de) {
					writeJSONError(w, http.StatusUnauthorized, de.Message)
					return
				}
				slog.Error("load authenticated user", "request_id", chimiddleware.GetReqID(r.Context()), "err", err)
				writeJSONError(w, http.StatusInternalServerError, "Something went wrong, please try again later!")
				return
			}
			ctx := context.WithValue(r.Context(), ClaimsKey, claims)
			ctx = context.WithValue(ctx, UserKey, u)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func accessToken(r *http.Request) string {
	if c, err := r.Cookie(AccessCookie); err == nil && c.Value != "" {
		return c.Value
	}
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	return ""
}

// ClaimsFromContext extracts JWT claims from the request context.
func ClaimsFromContext(ctx context.Context) (*jwtinfra.Claims, bool) {
	c, ok := ctx.Value(ClaimsKey).(*jwtinfra.Claims)
	return c, ok
}

// UserFromContext returns the account loaded by Auth.
func UserFromContext(ctx context.Context) (*domain.User, bool) {
	u, ok := ctx.Value(UserKey).(*domain.User)
	return u, ok
}
