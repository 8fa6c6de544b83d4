package rest

import (
	"marketplace-service/internal/contextkeys"
	"marketplace-service/internal/core/port"
	"marketplace-service/internal/core/port/usecases_port"
	"net/http"

	"github.com/goccy/go-json"
)

type AuthHandler struct {
	registerUC usecases_port.RegisterUserUseCasePort
	loginUC    usecases_port.LoginUserUseCasePort
	meUC       usecases_port.GetCurrentUserUseCasePort
}

func NewAuthHandler(
	registerUC usecases_port.RegisterUserUseCasePort,
	loginUC usecases_port.LoginUserUseCasePort,
	meUC usecases_port.GetCurrentUserUseCasePort,
) *AuthHandler {
	return &AuthHandler{
		registerUC: registerUC,
		loginUC:    loginUC,
		meUC:       meUC,
	}
}

// Register обрабатывает POST /api/v1/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "Register"})

	var reqDTO RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&reqDTO); err != nil {
		logger.Warn("Failed to decode request body for register", port.Fields{"error": err.Error()})
		WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validateRequest(reqDTO); err != nil {
		writeDomainError(w, logger, err, "")
		return
	}

	user, token, err := h.registerUC.Execute(r.Context(), reqDTO.Name, reqDTO.Email, reqDTO.Password)
	if err != nil {
		writeDomainError(w, logger, err, "Registration failed")
		return
	}

	RespondWithJSON(w, http.StatusCreated, AuthResponse{User: toUserResponse(user), Token: token})
}

// Login обрабатывает POST /api/v1/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "Login"})

	var reqDTO LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&reqDTO); err != nil {
		logger.Warn("Failed to decode request body for login", port.Fields{"error": err.Error()})
		WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validateRequest(reqDTO); err != nil {
		writeDomainError(w, logger, err, "")
		return
	}

	user, token, err := h.loginUC.Execute(r.Context(), reqDTO.Email, reqDTO.Password)
	if err != nil {
		writeDomainError(w, logger, err, "Login failed")
		return
	}

	RespondWithJSON(w, http.StatusOK, AuthResponse{User: toUserResponse(user), Token: token})
}

// Me обрабатывает GET /api/v1/auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "Me"})

	userID, ok := userIDFromRequest(w, r, logger)
	if !ok {
		return
	}

	profile, err := h.meUC.Execute(r.Context(), userID)
	if err != nil {
		writeDomainError(w, logger, err, "Failed to load profile")
		return
	}

	RespondWithJSON(w, http.StatusOK, toProfileResponse(profile))
}
