package internal

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	logger_adapter "marketplace-service/internal/adapters/logger"
	"marketplace-service/internal/adapters/memory"
	postgres_adapter "marketplace-service/internal/adapters/postgres"
	redis_adapter "marketplace-service/internal/adapters/redis"
	"marketplace-service/internal/configs"
	"marketplace-service/internal/core/port"
	fluentlogger "marketplace-service/pkg/fluent_logger"
	"marketplace-service/pkg/postgres"
	"strings"

	"github.com/fluent/fluent-logger-golang/fluent"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// Logging - собранная система логирования и ресурсы, которые нужно закрыть при остановке.
type Logging struct {
	Logger       port.LoggerPort
	fluentClient *fluent.Fluent
}

// Close закрывает клиента Fluent Bit, если он был создан.
func (l *Logging) Close() {
	if l.fluentClient == nil {
		return
	}
	if err := l.fluentClient.Close(); err != nil {
		// Логируем в stdout, так как fluent может быть уже недоступен
		fmt.Printf("ERROR: Error closing fluent client: %v\n", err)
	}
}

// NewLogging собирает stdout логгер и, если включено, Fluent Bit в один MultiLogger.
func NewLogging(cfg *configs.AppConfig) (*Logging, error) {
	var activeLoggers []port.LoggerPort

	stdoutLogger := logger_adapter.NewSlogAdapter(logger_adapter.SlogConfig{
		Level:    parseLogLevel(cfg.StdoutLogger.Level),
		IsJSON:   cfg.StdoutLogger.JSON,
		UseColor: cfg.StdoutLogger.UseColor,
	})
	activeLoggers = append(activeLoggers, stdoutLogger)

	var fluentClient *fluent.Fluent
	if cfg.FluentBit.Enabled {
		var err error
		fluentClient, err = fluentlogger.NewClient(fluentlogger.Config{
			Host:  cfg.FluentBit.Host,
			Port:  cfg.FluentBit.Port,
			Async: true,
		})
		if err != nil {
			stdoutLogger.Error("Failed to create fluentbit client", err, nil)
			return nil, fmt.Errorf("failed to create fluentbit client: %w", err)
		}

		fluentAdapter, err := logger_adapter.NewFluentLoggerAdapter(fluentClient, cfg.FluentBit.Tag, parseLogLevel(cfg.FluentBit.Level))
		if err != nil {
			stdoutLogger.Error("Failed to create fluentbit adapter", err, nil)
			fluentClient.Close()
			return nil, err
		}
		activeLoggers = append(activeLoggers, fluentAdapter)
	}

	multiLogger, err := logger_adapter.NewMultiloggerAdapter(activeLoggers...)
	if err != nil {
		return nil, fmt.Errorf("failed to create multi-logger: %w", err)
	}

	baseLogger := multiLogger.WithFields(port.Fields{"service_name": cfg.AppName})
	baseLogger.Info("Logger system initialized", port.Fields{
		"active_loggers": len(activeLoggers), "fluent_enabled": cfg.FluentBit.Enabled,
	})

	return &Logging{Logger: baseLogger, fluentClient: fluentClient}, nil
}

// Repositories - набор хранилищ, с которыми работают use cases.
type Repositories struct {
	Properties      port.PropertyRepositoryPort
	Users           port.UserRepositoryPort
	Favorites       port.FavoritesRepositoryPort
	Recommendations port.RecommendationRepositoryPort
}

// NewMemoryRepositories - хранилища в памяти процесса (STORAGE_DRIVER=memory).
func NewMemoryRepositories() Repositories {
	store := memory.NewStore()
	return Repositories{
		Properties:      store.Properties(),
		Users:           store.Users(),
		Favorites:       store.Favorites(),
		Recommendations: store.Recommendations(),
	}
}

// OpenPostgres создает пул соединений по конфигурации приложения.
func OpenPostgres(ctx context.Context, cfg *configs.AppConfig) (*pgxpool.Pool, error) {
	return postgres.NewClient(ctx, postgres.Config{
		DatabaseURL: cfg.Database.URL,
		MaxConns:    cfg.Database.MaxConns,
		MinConns:    cfg.Database.MinConns,
	})
}

// NewPostgresRepositories создает репозитории поверх пула pgx.
func NewPostgresRepositories(pool *pgxpool.Pool) (Repositories, error) {
	properties, err := postgres_adapter.NewPropertyRepository(pool)
	if err != nil {
		return Repositories{}, fmt.Errorf("failed to create property repository: %w", err)
	}
	users, err := postgres_adapter.NewUserRepository(pool)
	if err != nil {
		return Repositories{}, fmt.Errorf("failed to create user repository: %w", err)
	}
	favorites, err := postgres_adapter.NewFavoritesRepository(pool)
	if err != nil {
		return Repositories{}, fmt.Errorf("failed to create favorites repository: %w", err)
	}
	recommendations, err := postgres_adapter.NewRecommendationRepository(pool)
	if err != nil {
		return Repositories{}, fmt.Errorf("failed to create recommendation repository: %w", err)
	}
	return Repositories{
		Properties:      properties,
		Users:           users,
		Favorites:       favorites,
		Recommendations: recommendations,
	}, nil
}

// WithQueryCache оборачивает репозиторий объектов кэшем Redis. Возвращает клиента,
// которого нужно закрыть при остановке.
func WithQueryCache(ctx context.Context, cfg *configs.AppConfig, repos Repositories) (Repositories, *redis.Client, error) {
	client, err := redis_adapter.NewClient(ctx, redis_adapter.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return repos, nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	cached, err := redis_adapter.NewCachedPropertyRepository(repos.Properties, client, cfg.Redis.QueryTTL)
	if err != nil {
		client.Close()
		return repos, nil, fmt.Errorf("failed to create property query cache: %w", err)
	}
	repos.Properties = cached
	return repos, client, nil
}

func parseLogLevel(levelStr string) slog.Level {
	switch strings.ToLower(levelStr) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		log.Printf("Warning: Unknown log level '%s'. Defaulting to 'info'.", levelStr)
		return slog.LevelInfo
	}
}
