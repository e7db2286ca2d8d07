package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskforge/taskforge-api/internal/config"
)

func newTestService(t *testing.T) *hmacJWTService {
	t.Helper()

	svc, err := NewJWTService(config.AuthConfig{
		JWTSecret:                   strings.Repeat("s", 32),
		TokenLifetimeMinutes:        30,
		RefreshTokenLifetimeMinutes: 10080,
	})
	require.NoError(t, err)

	impl, ok := svc.(*hmacJWTService)
	require.True(t, ok)
	return impl
}

func TestNewJWTService(t *testing.T) {
	t.Parallel()

	t.Run("rejects short secret", func(t *testing.T) {
		_, err := NewJWTService(config.AuthConfig{
			JWTSecret:                   "too-short",
			TokenLifetimeMinutes:        30,
			RefreshTokenLifetimeMinutes: 10080,
		})
		assert.Error(t, err)
	})

	t.Run("accepts 32 character secret", func(t *testing.T) {
		_, err := NewJWTService(config.AuthConfig{
			JWTSecret:                   strings.Repeat("s", 32),
			TokenLifetimeMinutes:        30,
			RefreshTokenLifetimeMinutes: 10080,
		})
		assert.NoError(t, err)
	})
}

func TestAccessTokenRoundTrip(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc := newTestService(t)
	userID := uuid.New()

	token, err := svc.GenerateToken(ctx, userID)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "access", claims.TokenType)
	assert.Equal(t, userID.String(), claims.Subject)
	assert.True(t, claims.ExpiresAt.After(claims.IssuedAt))
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc := newTestService(t)
	userID := uuid.New()

	token, err := svc.GenerateRefreshToken(ctx, userID)
	require.NoError(t, err)

	claims, err := svc.ValidateRefreshToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "refresh", claims.TokenType)
}

func TestTokenTypeEnforcement(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc := newTestService(t)
	userID := uuid.New()

	access, err := svc.GenerateToken(ctx, userID)
	require.NoError(t, err)
	refresh, err := svc.GenerateRefreshToken(ctx, userID)
	require.NoError(t, err)

	t.Run("refresh token rejected as access token", func(t *testing.T) {
		_, err := svc.ValidateToken(ctx, refresh)
		assert.ErrorIs(t, err, ErrWrongTokenType)
	})

	t.Run("access token rejected as refresh token", func(t *testing.T) {
		_, err := svc.ValidateRefreshToken(ctx, access)
		assert.ErrorIs(t, err, ErrWrongTokenType)
	})
}

func TestTokenExpiry(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	userID := uuid.New()

	t.Run("expired access token", func(t *testing.T) {
		svc := newTestService(t)

		// Issue the token in the past, beyond the lifetime plus clock skew.
		issuedAt := time.Now().Add(-35*time.Minute - svc.clockSkew)
		svc.timeFunc = func() time.Time { return issuedAt }
		token, err := svc.GenerateToken(ctx, userID)
		require.NoError(t, err)

		svc.timeFunc = time.Now
		_, err = svc.ValidateToken(ctx, token)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})

	t.Run("expired refresh token", func(t *testing.T) {
		svc := newTestService(t)

		issuedAt := time.Now().Add(-10090*time.Minute - svc.clockSkew)
		svc.timeFunc = func() time.Time { return issuedAt }
		token, err := svc.GenerateRefreshToken(ctx, userID)
		require.NoError(t, err)

		svc.timeFunc = time.Now
		_, err = svc.ValidateRefreshToken(ctx, token)
		assert.ErrorIs(t, err, ErrExpiredRefreshToken)
	})

	t.Run("token within clock skew still accepted", func(t *testing.T) {
		svc := newTestService(t)

		issuedAt := time.Now().Add(-30*time.Minute - 30*time.Second)
		svc.timeFunc = func() time.Time { return issuedAt }
		token, err := svc.GenerateToken(ctx, userID)
		require.NoError(t, err)

		svc.timeFunc = time.Now
		_, err = svc.ValidateToken(ctx, token)
		assert.NoError(t, err)
	})
}

func TestInvalidTokens(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc := newTestService(t)
	userID := uuid.New()

	t.Run("garbage token", func(t *testing.T) {
		_, err := svc.ValidateToken(ctx, "not.a.token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("empty token", func(t *testing.T) {
		_, err := svc.ValidateToken(ctx, "")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("token signed with a different key", func(t *testing.T) {
		other, err := NewJWTService(config.AuthConfig{
			JWTSecret:                   strings.Repeat("x", 32),
			TokenLifetimeMinutes:        30,
			RefreshTokenLifetimeMinutes: 10080,
		})
		require.NoError(t, err)

		token, err := other.GenerateToken(ctx, userID)
		require.NoError(t, err)

		_, err = svc.ValidateToken(ctx, token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("tampered payload", func(t *testing.T) {
		token, err := svc.GenerateToken(ctx, userID)
		require.NoError(t, err)

		parts := strings.Split(token, ".")
		require.Len(t, parts, 3)
		tampered := parts[0] + ".eyJ1aWQiOiJvdGhlciJ9." + parts[2]

		_, err = svc.ValidateToken(ctx, tampered)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
