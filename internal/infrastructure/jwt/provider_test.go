package jwtinfra

import (
	"testing"
	"time"

	"github.com/Ernie1234/e-commerce-microrepo/internal/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProvider(t *testing.T) *Provider {
	t.Helper()
	p, err := NewProvider(&config.Config{
		AccessTokenSecret:  "access-secret",
		RefreshTokenSecret: "refresh-secret",
		AccessTokenTTL:     15 * time.Minute,
		RefreshTokenTTL:    7 * 24 * time.Hour,
	})
	require.NoError(t, err)
	return p
}

func TestNewProvider_MissingSecrets(t *testing.T) {
	_, err := NewProvider(&config.Config{AccessTokenTTL: time.Minute, RefreshTokenTTL: time.Hour})
	assert.Error(t, err)
}

func TestAccessToken_RoundTrip(t *testing.T) {
	p := newTestProvider(t)
	tok, err := p.SignAccess("u1", "user")
	require.NoError(t, err)

	claims, err := p.VerifyAccess(tok)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "user", claims.Role)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), claims.ExpiresAt.Time, 5*time.Second)
}

func TestRefreshToken_Lifetime(t *testing.T) {
	p := newTestProvider(t)
	tok, err := p.SignRefresh("u1", "seller")
	require.NoError(t, err)

	claims, err := p.VerifyRefresh(tok)
	require.NoError(t, err)
	assert.Equal(t, "seller", claims.Role)
	assert.WithinDuration(t, time.Now().Add(7*24*time.Hour), claims.ExpiresAt.Time, 5*time.Second)
}

func TestTokensAreNotInterchangeable(t *testing.T) {
	p := newTestProvider(t)
	access, err := p.SignAccess("u1", "user")
	require.NoError(t, err)
	refresh, err := p.SignRefresh("u1", "user")
	require.NoError(t, err)

	_, err = p.VerifyRefresh(access)
	assert.Error(t, err)
	_, err = p.VerifyAccess(refresh)
	assert.Error(t, err)
}

func TestVerifyAccess_Expired(t *testing.T) {
	p := newTestProvider(t)
	tok, err := p.SignAccess("u1", "user")
	require.NoError(t, err)

	p.now = func() time.Time { return time.Now().Add(16 * time.Minute) }
	_, err = p.VerifyAccess(tok)
	require.Error(t, err)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestVerifyAccess_RejectsNoneAlgorithm(t *testing.T) {
	p := newTestProvider(t)
	claims := Claims{
		UserID: "u1",
		Role:   "user",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = p.VerifyAccess(tok)
	assert.Error(t, err)
}

func TestVerifyAccess_MissingRole(t *testing.T) {
	p := newTestProvider(t)
	tok, err := p.SignAccess("u1", "")
	require.NoError(t, err)

	_, err = p.VerifyAccess(tok)
	assert.ErrorContains(t, err, "missing id or role")
}
