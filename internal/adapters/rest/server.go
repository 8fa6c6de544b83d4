package rest

import (
	"context"
	"fmt"
	"marketplace-service/internal/core/port"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ServerConfig - параметры HTTP сервера.
type ServerConfig struct {
	Port           string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	AllowedOrigins []string

	// Запросов в минуту с одного IP, 0 отключает ограничение
	RecommendRateLimit int
	AuthRateLimit      int
}

// Handlers - набор обработчиков, которые монтирует сервер.
type Handlers struct {
	Auth            *AuthHandler
	Properties      *PropertyHandler
	Favorites       *FavoritesHandler
	Recommendations *RecommendationHandler
}

// Server - наш REST API сервер.
type Server struct {
	httpServer *http.Server
	logger     port.LoggerPort
}

// NewServer создает новый экземпляр сервера.
func NewServer(cfg ServerConfig, handlers Handlers, authMW *AuthMiddleware, baseLogger port.LoggerPort) *Server {
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      NewRouter(cfg, handlers, authMW, baseLogger),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return &Server{
		httpServer: srv,
		logger:     baseLogger.WithFields(port.Fields{"component": "rest_server"}),
	}
}

// NewRouter собирает chi роутер со всеми маршрутами API.
func NewRouter(cfg ServerConfig, handlers Handlers, authMW *AuthMiddleware, baseLogger port.LoggerPort) http.Handler {
	r := chi.NewRouter()

	r.Use(LoggerMiddleware(baseLogger))
	r.Use(middleware.Recoverer)
	r.Use(MetricsMiddleware)

	if len(cfg.AllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   cfg.AllowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", traceIDHeader},
			ExposedHeaders:   []string{traceIDHeader},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		RespondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.SetHeader("Content-Type", "application/json"))

		r.Route("/auth", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(rateLimit(cfg.AuthRateLimit))
				r.Post("/register", handlers.Auth.Register)
				r.Post("/login", handlers.Auth.Login)
			})
			r.With(authMW.Authenticate).Get("/me", handlers.Auth.Me)
		})

		r.Route("/properties", func(r chi.Router) {
			// Каталог и карточка объекта доступны без авторизации
			r.Get("/", handlers.Properties.QueryProperties)
			r.Get("/{id}", handlers.Properties.GetProperty)

			r.Group(func(r chi.Router) {
				r.Use(authMW.Authenticate)
				r.Get("/mine", handlers.Properties.ListOwnProperties)
				r.Post("/", handlers.Properties.CreateProperty)
				r.Patch("/{id}", handlers.Properties.UpdateProperty)
				r.Delete("/{id}", handlers.Properties.DeleteProperty)
			})
		})

		r.Route("/favorites", func(r chi.Router) {
			r.Use(authMW.Authenticate)
			r.Get("/", handlers.Favorites.GetUserFavorites)
			r.Post("/{propertyId}", handlers.Favorites.AddToFavorites)
			r.Delete("/{propertyId}", handlers.Favorites.RemoveFromFavorites)
		})

		r.Route("/recommendations", func(r chi.Router) {
			r.Use(authMW.Authenticate)
			r.With(rateLimit(cfg.RecommendRateLimit)).Post("/", handlers.Recommendations.Recommend)
			r.Get("/received", handlers.Recommendations.ListReceived)
			r.Get("/search-users", handlers.Recommendations.SearchUsers)
			r.Patch("/{id}/read", handlers.Recommendations.MarkRead)
		})
	})

	return r
}

// rateLimit ограничивает число запросов в минуту с одного IP.
func rateLimit(requestsPerMinute int) func(http.Handler) http.Handler {
	if requestsPerMinute <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	return httprate.Limit(
		requestsPerMinute,
		time.Minute,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			WriteJSONError(w, http.StatusTooManyRequests, "Too many requests, please try again later")
		}),
	)
}

// Start запускает HTTP-сервер.
func (s *Server) Start() error {
	s.logger.Info("Starting REST API server", port.Fields{"address": s.httpServer.Addr})
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		s.logger.Error("Could not start server", err, nil)
		return fmt.Errorf("could not start server: %w", err)
	}
	return nil
}

// Stop корректно останавливает сервер.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping REST API server...", nil)
	return s.httpServer.Shutdown(ctx)
}
