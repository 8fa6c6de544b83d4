// Package cli содержит команды утилиты обслуживания marketplace-cli.
package cli

import (
	"context"
	"fmt"
	"marketplace-service/internal"
	postgres_adapter "marketplace-service/internal/adapters/postgres"
	"marketplace-service/internal/configs"
	"marketplace-service/internal/contextkeys"
	"marketplace-service/internal/core/port"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

// environment - ресурсы, открытые на время выполнения одной команды.
type environment struct {
	config      *configs.AppConfig
	logging     *internal.Logging
	logger      port.LoggerPort
	pool        *pgxpool.Pool
	redisClient *redis.Client
	repos       internal.Repositories
}

// openEnvironment подключается к PostgreSQL и применяет схему. При REDIS_ENABLED
// репозиторий объектов оборачивается кэшем, и запись сбрасывает закэшированные выборки.
func openEnvironment(ctx context.Context, cmd *cobra.Command) (*environment, error) {
	envFile, _ := cmd.Flags().GetString("env-file")

	cfg, err := configs.LoadCLIConfig(envFile)
	if err != nil {
		return nil, fmt.Errorf("error loading configuration: %w", err)
	}

	logging, err := internal.NewLogging(cfg)
	if err != nil {
		return nil, err
	}
	env := &environment{
		config:  cfg,
		logging: logging,
		logger:  logging.Logger.WithFields(port.Fields{"component": "cli", "command": cmd.Name()}),
	}

	pool, err := internal.OpenPostgres(ctx, cfg)
	if err != nil {
		env.Close()
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	env.pool = pool

	if err := postgres_adapter.Migrate(ctx, pool); err != nil {
		env.Close()
		return nil, fmt.Errorf("failed to apply database schema: %w", err)
	}

	env.repos, err = internal.NewPostgresRepositories(pool)
	if err != nil {
		env.Close()
		return nil, err
	}

	if cfg.Redis.Enabled {
		env.repos, env.redisClient, err = internal.WithQueryCache(ctx, cfg, env.repos)
		if err != nil {
			env.Close()
			return nil, err
		}
	}
	return env, nil
}

// withLogger кладет логгер команды в контекст.
func (e *environment) withLogger(ctx context.Context) context.Context {
	return contextkeys.ContextWithLogger(ctx, e.logger)
}

func (e *environment) Close() {
	if e.redisClient != nil {
		if err := e.redisClient.Close(); err != nil {
			e.logger.Error("Error closing Redis client", err, nil)
		}
	}
	if e.pool != nil {
		e.pool.Close()
	}
	e.logging.Close()
}
