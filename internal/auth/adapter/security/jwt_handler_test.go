package security_test

import (
	"context"
	"testing"
	"time"

	"pinstack/internal/auth/adapter/security"
	"pinstack/internal/auth/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTokenService(t *testing.T, ttl time.Duration) *security.JWTokenService {
	t.Helper()
	svc, err := security.NewJWTokenService(&config.Config{
		JWTSecretKey:   "unit-test-secret",
		JWTIssuer:      "pinstack-auth-service",
		AccessTokenTTL: ttl,
	})
	require.NoError(t, err)
	return svc
}

func TestGenerateAndValidateToken(t *testing.T) {
	svc := newTokenService(t, 15*time.Minute)

	token, err := svc.GenerateToken(context.Background(), "user-1", "dev@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "dev@example.com", claims.Email)
	assert.Equal(t, "pinstack-auth-service", claims.Issuer)
}

func TestValidateExpiredToken(t *testing.T) {
	svc := newTokenService(t, time.Nanosecond)

	token, err := svc.GenerateToken(context.Background(), "user-1", "dev@example.com")
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)

	_, err = svc.ValidateToken(context.Background(), token)
	assert.ErrorIs(t, err, security.ErrTokenExpired)
}

func TestValidateTamperedToken(t *testing.T) {
	svc := newTokenService(t, 15*time.Minute)
	other := newTokenService(t, 15*time.Minute)

	token, err := svc.GenerateToken(context.Background(), "user-1", "dev@example.com")
	require.NoError(t, err)

	// Same structure, different secret.
	foreign, err := security.NewJWTokenService(&config.Config{
		JWTSecretKey:   "a-different-secret",
		JWTIssuer:      "pinstack-auth-service",
		AccessTokenTTL: 15 * time.Minute,
	})
	require.NoError(t, err)

	_, err = foreign.ValidateToken(context.Background(), token)
	assert.Error(t, err)

	_, err = other.ValidateToken(context.Background(), "not.a.jwt")
	assert.ErrorIs(t, err, security.ErrTokenInvalid)
}

func TestValidateEmptyToken(t *testing.T) {
	svc := newTokenService(t, 15*time.Minute)

	_, err := svc.ValidateToken(context.Background(), "")
	assert.ErrorIs(t, err, security.ErrTokenInvalid)
}

func TestServiceConfigValidation(t *testing.T) {
	_, err := security.NewJWTokenService(&config.Config{
		JWTIssuer:      "issuer",
		AccessTokenTTL: time.Minute,
	})
	assert.Error(t, err, "missing secret is rejected")

	_, err = security.NewJWTokenService(&config.Config{
		JWTSecretKey:   "secret",
		AccessTokenTTL: time.Minute,
	})
	assert.Error(t, err, "missing issuer is rejected")

	_, err = security.NewJWTokenService(&config.Config{
		JWTSecretKey: "secret",
		JWTIssuer:    "issuer",
	})
	assert.Error(t, err, "non-positive TTL is rejected")
}
