package postgres

import (
	"context"
	"fmt"
	"marketplace-service/internal/contextkeys"
	"marketplace-service/internal/core/port"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// FavoritesRepository - избранное пользователей в таблице user_favorites.
type FavoritesRepository struct {
	pool *pgxpool.Pool
}

func NewFavoritesRepository(pool *pgxpool.Pool) (*FavoritesRepository, error) {
	if pool == nil {
		return nil, fmt.Errorf("pgxpool.Pool cannot be nil")
	}
	return &FavoritesRepository{pool: pool}, nil
}

// Add возвращает false, если запись уже существовала.
func (r *FavoritesRepository) Add(ctx context.Context, userID, propertyID uuid.UUID) (bool, error) {
	repoLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component":   "PostgresFavoritesRepository",
		"method":      "Add",
		"user_id":     userID,
		"property_id": propertyID,
	})

	query := `INSERT INTO user_favorites (user_id, property_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`
	cmdTag, err := r.pool.Exec(ctx, query, userID, propertyID)
	if err != nil {
		repoLogger.Error("Failed to add favorite", err, port.Fields{"query": query})
		return false, fmt.Errorf("failed to add favorite: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		repoLogger.Debug("Favorite already exists.", nil)
		return false, nil
	}
	return true, nil
}

func (r *FavoritesRepository) Remove(ctx context.Context, userID, propertyID uuid.UUID) (bool, error) {
	repoLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component":   "PostgresFavoritesRepository",
		"method":      "Remove",
		"user_id":     userID,
		"property_id": propertyID,
	})

	query := `DELETE FROM user_favorites WHERE user_id = $1 AND property_id = $2`
	cmdTag, err := r.pool.Exec(ctx, query, userID, propertyID)
	if err != nil {
		repoLogger.Error("Failed to remove favorite", err, port.Fields{"query": query})
		return false, fmt.Errorf("failed to remove favorite: %w", err)
	}
	return cmdTag.RowsAffected() > 0, nil
}

// FindIDsByUser возвращает ID избранных объектов, последние добавленные первыми.
func (r *FavoritesRepository) FindIDsByUser(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	repoLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "PostgresFavoritesRepository",
		"method":    "FindIDsByUser",
		"user_id":   userID,
	})

	query := `SELECT property_id FROM user_favorites WHERE user_id = $1 ORDER BY created_at DESC, property_id ASC`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		repoLogger.Error("Failed to query favorite IDs", err, port.Fields{"query": query})
		return nil, fmt.Errorf("failed to query favorite IDs: %w", err)
	}
	defer rows.Close()

	ids := make([]uuid.UUID, 0)
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			repoLogger.Error("Failed to scan favorite ID row", err, nil)
			return nil, fmt.Errorf("failed to scan favorite ID: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during favorite IDs iteration: %w", err)
	}
	return ids, nil
}
