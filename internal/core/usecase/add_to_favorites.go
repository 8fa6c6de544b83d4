package usecase

import (
	"context"
	"marketplace-service/internal/contextkeys"
	"marketplace-service/internal/core/domain"
	"marketplace-service/internal/core/port"

	"github.com/google/uuid"
)

type AddToFavoritesUseCase struct {
	favorites  port.FavoritesRepositoryPort
	properties port.PropertyRepositoryPort
}

func NewAddToFavoritesUseCase(favorites port.FavoritesRepositoryPort, properties port.PropertyRepositoryPort) *AddToFavoritesUseCase {
	return &AddToFavoritesUseCase{favorites: favorites, properties: properties}
}

func (uc *AddToFavoritesUseCase) Execute(ctx context.Context, userID, propertyID uuid.UUID) error {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case":    "AddToFavorites",
		"user_id":     userID,
		"property_id": propertyID,
	})
	ucLogger.Info("Use case started", nil)

	property, err := uc.properties.GetByID(ctx, propertyID)
	if err != nil {
		ucLogger.Error("Repository failed to get property", err, nil)
		return domain.NewInternalError("get property", err)
	}
	if property == nil {
		ucLogger.Warn("Property not found", nil)
		return domain.ErrPropertyNotFound
	}

	added, err := uc.favorites.Add(ctx, userID, propertyID)
	if err != nil {
		ucLogger.Error("Repository returned an error", err, nil)
		return domain.NewInternalError("add favorite", err)
	}
	if !added {
		ucLogger.Warn("Property already in favorites", nil)
		return domain.ErrAlreadyFavorite
	}

	ucLogger.Info("Use case finished successfully", nil)
	return nil
}
