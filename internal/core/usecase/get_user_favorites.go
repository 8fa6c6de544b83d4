package usecase

import (
	"context"
	"marketplace-service/internal/contextkeys"
	"marketplace-service/internal/core/domain"
	"marketplace-service/internal/core/port"

	"github.com/google/uuid"
)

type GetUserFavoritesUseCase struct {
	favorites  port.FavoritesRepositoryPort
	properties port.PropertyRepositoryPort
}

func NewGetUserFavoritesUseCase(favorites port.FavoritesRepositoryPort, properties port.PropertyRepositoryPort) *GetUserFavoritesUseCase {
	return &GetUserFavoritesUseCase{favorites: favorites, properties: properties}
}

// Execute возвращает избранные объекты в порядке добавления (новые первыми).
func (uc *GetUserFavoritesUseCase) Execute(ctx context.Context, userID uuid.UUID) ([]domain.Property, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case": "GetUserFavorites",
		"user_id":  userID,
	})
	ucLogger.Info("Use case started", nil)

	properties, err := loadFavoriteProperties(ctx, uc.favorites, uc.properties, userID)
	if err != nil {
		ucLogger.Error("Failed to load favorites", err, nil)
		return nil, err
	}

	ucLogger.Info("Use case finished successfully", port.Fields{"count": len(properties)})
	return properties, nil
}

func loadFavoriteProperties(ctx context.Context, favorites port.FavoritesRepositoryPort, properties port.PropertyRepositoryPort, userID uuid.UUID) ([]domain.Property, error) {
	ids, err := favorites.FindIDsByUser(ctx, userID)
	if err != nil {
		return nil, domain.NewInternalError("find favorite ids", err)
	}
	if len(ids) == 0 {
		return []domain.Property{}, nil
	}

	found, err := properties.GetByIDs(ctx, ids)
	if err != nil {
		return nil, domain.NewInternalError("load favorite properties", err)
	}

	byID := make(map[uuid.UUID]domain.Property, len(found))
	for _, p := range found {
		byID[p.ID] = p
	}
	result := make([]domain.Property, 0, len(ids))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			result = append(result, p)
		}
	}
	return result, nil
}
