package usecase

import (
	"context"
	"marketplace-service/internal/contextkeys"
	"marketplace-service/internal/core/domain"
	"marketplace-service/internal/core/port"
	"marketplace-service/internal/core/port/usecases_port"

	"github.com/google/uuid"
)

type GetCurrentUserUseCase struct {
	users      port.UserRepositoryPort
	favorites  port.FavoritesRepositoryPort
	properties port.PropertyRepositoryPort
}

func NewGetCurrentUserUseCase(users port.UserRepositoryPort, favorites port.FavoritesRepositoryPort, properties port.PropertyRepositoryPort) *GetCurrentUserUseCase {
	return &GetCurrentUserUseCase{users: users, favorites: favorites, properties: properties}
}

func (uc *GetCurrentUserUseCase) Execute(ctx context.Context, userID uuid.UUID) (*usecases_port.Profile, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case": "GetCurrentUser",
		"user_id":  userID,
	})
	ucLogger.Info("Use case started", nil)

	user, err := uc.users.FindByID(ctx, userID)
	if err != nil {
		ucLogger.Error("Repository failed to find user", err, nil)
		return nil, domain.NewInternalError("find user", err)
	}
	if user == nil {
		ucLogger.Warn("User not found", nil)
		return nil, domain.ErrUserNotFound
	}

	favorites, err := loadFavoriteProperties(ctx, uc.favorites, uc.properties, userID)
	if err != nil {
		ucLogger.Error("Failed to load favorites", err, nil)
		return nil, err
	}

	ucLogger.Info("Use case finished successfully", nil)
	return &usecases_port.Profile{User: *user, Favorites: favorites}, nil
}
