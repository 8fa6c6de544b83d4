package usecase

import (
	"context"
	"marketplace-service/internal/contextkeys"
	"marketplace-service/internal/core/domain"
	"marketplace-service/internal/core/port"
)

type ValidateTokenUseCase struct {
	tokenSvc port.TokenServicePort
}

func NewValidateTokenUseCase(tokenSvc port.TokenServicePort) *ValidateTokenUseCase {
	return &ValidateTokenUseCase{tokenSvc: tokenSvc}
}

func (uc *ValidateTokenUseCase) Execute(ctx context.Context, token string) (*domain.Claims, error) {
	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{"use_case": "ValidateToken"})

	if token == "" {
		ucLogger.Warn("Empty token", nil)
		return nil, domain.ErrTokenInvalid
	}

	claims, err := uc.tokenSvc.ValidateToken(ctx, token)
	if err != nil {
		ucLogger.Warn("Token validation failed", port.Fields{"error": err.Error()})
		return nil, domain.ErrTokenInvalid
	}

	ucLogger.Debug("Token is valid", port.Fields{"user_id": claims.UserID})
	return claims, nil
}
