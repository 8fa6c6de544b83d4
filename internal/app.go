package internal

import (
	"context"
	"errors"
	"fmt"
	token_adapter "marketplace-service/internal/adapters/jwt"
	postgres_adapter "marketplace-service/internal/adapters/postgres"
	rabbitmq_adapter "marketplace-service/internal/adapters/rabbitmq"
	"marketplace-service/internal/adapters/rest"
	"marketplace-service/internal/configs"
	"marketplace-service/internal/constants"
	"marketplace-service/internal/core/port"
	"marketplace-service/internal/core/usecase"
	"marketplace-service/pkg/rabbitmq/rabbitmq_common"
	"marketplace-service/pkg/rabbitmq/rabbitmq_producer"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

type App struct {
	config    *configs.AppConfig
	apiServer *rest.Server

	dbPool      *pgxpool.Pool
	redisClient *redis.Client
	connManager *rabbitmq_common.ConnectionManager
	publisher   *rabbitmq_producer.Publisher

	logging *Logging
	logger  port.LoggerPort
}

func NewApp() (*App, error) {
	appConfig, err := configs.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("error loading application configuration: %w", err)
	}

	// --- 1. ИНИЦИАЛИЗАЦИЯ ЛОГГЕРОВ ---
	logging, err := NewLogging(appConfig)
	if err != nil {
		return nil, err
	}
	baseLogger := logging.Logger

	application := &App{
		config:  appConfig,
		logging: logging,
		logger:  baseLogger.WithFields(port.Fields{"component": "app"}),
	}
	if err := application.init(baseLogger); err != nil {
		application.shutdown()
		return nil, err
	}
	return application, nil
}

// init создает адаптеры, use cases и REST сервер. При ошибке уже созданные ресурсы
// освобождает вызывающий через shutdown.
func (a *App) init(baseLogger port.LoggerPort) error {
	ctx := context.Background()
	appLogger := a.logger

	// --- 2. ХРАНИЛИЩА ---
	var repos Repositories
	switch a.config.Storage.Driver {
	case configs.StorageDriverMemory:
		repos = NewMemoryRepositories()
		appLogger.Warn("Using in-memory storage, data will be lost on restart", nil)
	default:
		dbPool, err := OpenPostgres(ctx, a.config)
		if err != nil {
			appLogger.Error("Failed to connect to PostgreSQL", err, nil)
			return fmt.Errorf("failed to connect to PostgreSQL: %w", err)
		}
		a.dbPool = dbPool
		appLogger.Info("Successfully connected to PostgreSQL pool!", nil)

		if err := postgres_adapter.Migrate(ctx, dbPool); err != nil {
			appLogger.Error("Failed to apply database schema", err, nil)
			return fmt.Errorf("failed to apply database schema: %w", err)
		}

		repos, err = NewPostgresRepositories(dbPool)
		if err != nil {
			appLogger.Error("Failed to create postgres repositories", err, nil)
			return err
		}
	}

	if a.config.Redis.Enabled {
		var err error
		repos, a.redisClient, err = WithQueryCache(ctx, a.config, repos)
		if err != nil {
			appLogger.Error("Failed to enable property query cache", err, nil)
			return err
		}
		appLogger.Info("Property query cache enabled", port.Fields{"addr": a.config.Redis.Addr, "ttl": a.config.Redis.QueryTTL.String()})
	}

	// --- 3. БРОКЕР СООБЩЕНИЙ ---
	var events port.RecommendationEventsPort
	if a.config.RabbitMQ.Enabled {
		pkgLogger := rabbitmq_adapter.NewPkgLoggerBridge(baseLogger.WithFields(port.Fields{"component": "rabbitmq"}))

		connManager, err := rabbitmq_common.NewConnectionManager(rabbitmq_common.Config{URL: a.config.RabbitMQ.URL, ConnectionName: a.config.AppName}, pkgLogger)
		if err != nil {
			appLogger.Error("Failed to connect to RabbitMQ", err, nil)
			return fmt.Errorf("failed to create RabbitMQ connection manager: %w", err)
		}
		a.connManager = connManager

		publisher, err := rabbitmq_producer.NewPublisher(rabbitmq_producer.PublisherConfig{
			ExchangeName:    a.config.RabbitMQ.Exchange,
			ExchangeType:    constants.ExchangeMarketplaceEventsType,
			Durable:         true,
			DeclareExchange: true,
			Logger:          pkgLogger,
		}, connManager)
		if err != nil {
			appLogger.Error("Failed to create RabbitMQ publisher", err, nil)
			return fmt.Errorf("failed to create RabbitMQ publisher: %w", err)
		}
		a.publisher = publisher

		eventsAdapter, err := rabbitmq_adapter.NewRecommendationEventsPublisher(publisher, a.config.RabbitMQ.RoutingKey, appLogger)
		if err != nil {
			return fmt.Errorf("failed to create recommendation events publisher: %w", err)
		}
		events = eventsAdapter
		appLogger.Info("Recommendation events publishing enabled", port.Fields{"exchange": a.config.RabbitMQ.Exchange})
	}

	tokenService, err := token_adapter.NewTokenService(a.config.JWT.Secret, a.config.JWT.Issuer)
	if err != nil {
		appLogger.Error("Failed to create token service", err, nil)
		return fmt.Errorf("failed to create token service: %w", err)
	}
	appLogger.Info("All persistence and service adapters initialized.", nil)

	// --- 4. USE CASES ---
	ttl := a.config.JWT.AccessTokenTTL
	validateTokenUC := usecase.NewValidateTokenUseCase(tokenService)

	handlers := rest.Handlers{
		Auth: rest.NewAuthHandler(
			usecase.NewRegisterUserUseCase(repos.Users, tokenService, ttl),
			usecase.NewLoginUserUseCase(repos.Users, tokenService, ttl),
			usecase.NewGetCurrentUserUseCase(repos.Users, repos.Favorites, repos.Properties),
		),
		Properties: rest.NewPropertyHandler(
			usecase.NewQueryPropertiesUseCase(repos.Properties),
			usecase.NewCreatePropertyUseCase(repos.Properties),
			usecase.NewGetPropertyUseCase(repos.Properties),
			usecase.NewListOwnPropertiesUseCase(repos.Properties),
			usecase.NewUpdatePropertyUseCase(repos.Properties),
			usecase.NewDeletePropertyUseCase(repos.Properties),
		),
		Favorites: rest.NewFavoritesHandler(
			usecase.NewAddToFavoritesUseCase(repos.Favorites, repos.Properties),
			usecase.NewRemoveFromFavoritesUseCase(repos.Favorites),
			usecase.NewGetUserFavoritesUseCase(repos.Favorites, repos.Properties),
		),
		Recommendations: rest.NewRecommendationHandler(
			usecase.NewRecommendPropertyUseCase(repos.Properties, repos.Users, repos.Recommendations, events),
			usecase.NewListReceivedRecommendationsUseCase(repos.Properties, repos.Users, repos.Recommendations),
			usecase.NewSearchCandidateUsersUseCase(repos.Users),
			usecase.NewMarkRecommendationReadUseCase(repos.Recommendations),
		),
	}

	// --- 5. REST API ---
	restCfg := a.config.Rest
	a.apiServer = rest.NewServer(rest.ServerConfig{
		Port:               restCfg.Port,
		ReadTimeout:        restCfg.ReadTimeout,
		WriteTimeout:       restCfg.WriteTimeout,
		AllowedOrigins:     restCfg.AllowedOrigins,
		RecommendRateLimit: restCfg.RecommendRateLimit,
		AuthRateLimit:      restCfg.AuthRateLimit,
	}, handlers, rest.NewAuthMiddleware(validateTokenUC), baseLogger)
	appLogger.Info("REST API server configured.", nil)

	return nil
}

// Run запускает все компоненты приложения и управляет их жизненным циклом.
func (a *App) Run() error {
	defer a.shutdown()

	a.logger.Info("Application is starting...", nil)

	serverErrors := make(chan error, 1)
	go func() {
		if err := a.apiServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrors <- err
		}
	}()

	// Ожидание сигнала на завершение или ошибки сервера
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	a.logger.Info("Application running. Waiting for signals or server error...", nil)
	select {
	case receivedSignal := <-quit:
		a.logger.Warn("Received OS signal, shutting down...", port.Fields{"signal": receivedSignal.String()})
		return nil
	case err := <-serverErrors:
		a.logger.Error("Server failed, shutting down", err, nil)
		return err
	}
}

// shutdown останавливает компоненты в порядке, обратном запуску.
func (a *App) shutdown() {
	a.logger.Info("Shutdown sequence initiated...", nil)

	if a.apiServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), a.config.Rest.ShutdownTimeout)
		if err := a.apiServer.Stop(ctx); err != nil {
			a.logger.Error("Error during API server shutdown", err, nil)
		}
		cancel()
	}

	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			a.logger.Error("Error closing RabbitMQ publisher", err, nil)
		}
	}
	if a.connManager != nil {
		if err := a.connManager.Close(); err != nil {
			a.logger.Error("Error closing RabbitMQ connection", err, nil)
		}
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Error("Error closing Redis client", err, nil)
		}
	}

	if a.dbPool != nil {
		a.dbPool.Close()
		a.logger.Info("PostgreSQL pool closed.", nil)
	}

	a.logger.Info("Application shut down gracefully.", nil)
	a.logging.Close()
}
