package port

import (
	"context"
	"marketplace-service/internal/core/domain"
	"time"
)

// TokenServicePort - выпуск и проверка токенов доступа.
type TokenServicePort interface {
	GenerateToken(ctx context.Context, user *domain.User, ttl time.Duration) (string, error)
	// ValidateToken возвращает domain.ErrTokenInvalid для поддельного или просроченного токена.
	ValidateToken(ctx context.Context, tokenString string) (*domain.Claims, error)
}
