package rest

import (
	"marketplace-service/internal/contextkeys"
	"marketplace-service/internal/core/port"
	"marketplace-service/internal/core/port/usecases_port"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

type AuthMiddleware struct {
	validateUC usecases_port.ValidateTokenUseCasePort
}

func NewAuthMiddleware(validateUC usecases_port.ValidateTokenUseCasePort) *AuthMiddleware {
	return &AuthMiddleware{validateUC: validateUC}
}

// Authenticate - middleware для проверки JWT. ID пользователя кладется в контекст запроса.
func (am *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := contextkeys.LoggerFromContext(r.Context())

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			WriteJSONError(w, http.StatusUnauthorized, "Authorization header required")
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader || tokenString == "" {
			WriteJSONError(w, http.StatusUnauthorized, "Invalid token format")
			return
		}

		claims, err := am.validateUC.Execute(r.Context(), tokenString)
		if err != nil {
			logger.Warn("Token validation failed", port.Fields{"error": err.Error()})
			WriteJSONError(w, http.StatusUnauthorized, "Invalid token")
			return
		}

		// Логгер запроса дополняется user_id для всех последующих слоев
		userLogger := logger.WithFields(port.Fields{"user_id": claims.UserID})
		ctx := contextkeys.ContextWithUserID(r.Context(), claims.UserID)
		ctx = contextkeys.ContextWithLogger(ctx, userLogger)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// userIDFromRequest достает ID пользователя, добавленный Authenticate.
func userIDFromRequest(w http.ResponseWriter, r *http.Request, logger port.LoggerPort) (uuid.UUID, bool) {
	userID, ok := contextkeys.UserIDFromContext(r.Context())
	if !ok {
		logger.Error("Invalid or missing user ID in context", nil, nil)
		WriteJSONError(w, http.StatusUnauthorized, "Invalid user ID in context")
		return uuid.Nil, false
	}
	return userID, true
}
