package token_adapter

import (
	"context"
	"testing"
	"time"

	"marketplace-service/internal/core/domain"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKey = "0123456789abcdef-test-key"

func newUser() *domain.User {
	return &domain.User{ID: uuid.New(), Name: "Alice", Email: "alice@example.com"}
}

func TestTokenRoundTrip(t *testing.T) {
	svc, err := NewTokenService(testKey, "marketplace-service")
	require.NoError(t, err)
	ctx := context.Background()
	user := newUser()

	token, err := svc.GenerateToken(ctx, user, time.Hour)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, user.Email, claims.Email)
}

func TestTokenRejections(t *testing.T) {
	ctx := context.Background()
	svc, err := NewTokenService(testKey, "marketplace-service")
	require.NoError(t, err)
	user := newUser()

	t.Run("expired", func(t *testing.T) {
		past, _ := NewTokenService(testKey, "marketplace-service")
		past.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
		token, err := past.GenerateToken(ctx, user, time.Hour)
		require.NoError(t, err)

		_, err = svc.ValidateToken(ctx, token)
		assert.ErrorIs(t, err, domain.ErrTokenInvalid)
	})

	t.Run("other key", func(t *testing.T) {
		other, _ := NewTokenService("another-signing-key-value", "marketplace-service")
		token, err := other.GenerateToken(ctx, user, time.Hour)
		require.NoError(t, err)

		_, err = svc.ValidateToken(ctx, token)
		assert.ErrorIs(t, err, domain.ErrTokenInvalid)
	})

	t.Run("other issuer", func(t *testing.T) {
		other, _ := NewTokenService(testKey, "someone-else")
		token, err := other.GenerateToken(ctx, user, time.Hour)
		require.NoError(t, err)

		_, err = svc.ValidateToken(ctx, token)
		assert.ErrorIs(t, err, domain.ErrTokenInvalid)
	})

	t.Run("none algorithm", func(t *testing.T) {
		token, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"user_id": user.ID.String()}).
			SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = svc.ValidateToken(ctx, token)
		assert.ErrorIs(t, err, domain.ErrTokenInvalid)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := svc.ValidateToken(ctx, "not.a.token")
		assert.ErrorIs(t, err, domain.ErrTokenInvalid)
	})
}

func TestNewTokenServiceRejectsShortKey(t *testing.T) {
	_, err := NewTokenService("short", "x")
	assert.Error(t, err)
}
