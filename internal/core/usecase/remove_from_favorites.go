package usecase

import (
	"context"
	"marketplace-service/internal/contextkeys"
	"marketplace-service/internal/core/domain"
	"marketplace-service/internal/core/port"

	"github.com/google/uuid"
)

type RemoveFromFavoritesUseCase struct {
	favorites port.FavoritesRepositoryPort
}

func NewRemoveFromFavoritesUseCase(favorites port.FavoritesRepositoryPort) *RemoveFromFavoritesUseCase {
	return &RemoveFromFavoritesUseCase{favorites: favorites}
}

func (uc *RemoveFromFavoritesUseCase) Execute(ctx context.Context, userID, propertyID uuid.UUID) error {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case":    "RemoveFromFavorites",
		"user_id":     userID,
		"property_id": propertyID,
	})
	ucLogger.Info("Use case started", nil)

	removed, err := uc.favorites.Remove(ctx, userID, propertyID)
	if err != nil {
		ucLogger.Error("Repository returned an error", err, nil)
		return domain.NewInternalError("remove favorite", err)
	}
	if !removed {
		ucLogger.Warn("Property was not in favorites", nil)
		return domain.ErrNotInFavorites
	}

	ucLogger.Info("Use case finished successfully", nil)
	return nil
}
