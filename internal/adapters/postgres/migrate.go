package postgres

import (
	"context"
	_ "embed"
	"fmt"

	"marketplace-service/internal/core/port"

	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed migrations/schema.sql
var schemaSQL string

// Migrate создает таблицы и индексы. Повторный запуск безопасен.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

var (
	_ port.PropertyRepositoryPort       = (*PropertyRepository)(nil)
	_ port.UserRepositoryPort           = (*UserRepository)(nil)
	_ port.FavoritesRepositoryPort      = (*FavoritesRepository)(nil)
	_ port.RecommendationRepositoryPort = (*RecommendationRepository)(nil)
)
