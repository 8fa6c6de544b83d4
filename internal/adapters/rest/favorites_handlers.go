package rest

import (
	"marketplace-service/internal/contextkeys"
	"marketplace-service/internal/core/port"
	"marketplace-service/internal/core/port/usecases_port"
	"net/http"
)

type FavoritesHandler struct {
	addUC    usecases_port.AddToFavoritesUseCasePort
	removeUC usecases_port.RemoveFromFavoritesUseCasePort
	getUC    usecases_port.GetUserFavoritesUseCasePort
}

func NewFavoritesHandler(
	addUC usecases_port.AddToFavoritesUseCasePort,
	removeUC usecases_port.RemoveFromFavoritesUseCasePort,
	getUC usecases_port.GetUserFavoritesUseCasePort,
) *FavoritesHandler {
	return &FavoritesHandler{
		addUC:    addUC,
		removeUC: removeUC,
		getUC:    getUC,
	}
}

// GetUserFavorites обрабатывает GET /api/v1/favorites
func (h *FavoritesHandler) GetUserFavorites(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "GetUserFavorites"})

	userID, ok := userIDFromRequest(w, r, logger)
	if !ok {
		return
	}

	properties, err := h.getUC.Execute(r.Context(), userID)
	if err != nil {
		writeDomainError(w, logger, err, "Error fetching favorite properties")
		return
	}

	RespondWithJSON(w, http.StatusOK, toPropertyResponses(properties))
}

// AddToFavorites обрабатывает POST /api/v1/favorites/{propertyId}
func (h *FavoritesHandler) AddToFavorites(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "AddToFavorites"})

	userID, ok := userIDFromRequest(w, r, logger)
	if !ok {
		return
	}
	propertyID, ok := propertyIDFromPath(w, r, "propertyId", logger)
	if !ok {
		return
	}

	if err := h.addUC.Execute(r.Context(), userID, propertyID); err != nil {
		writeDomainError(w, logger, err, "Error adding property to favorites")
		return
	}

	RespondWithJSON(w, http.StatusOK, MessageResponse{Message: "Property added to favorites"})
}

// RemoveFromFavorites обрабатывает DELETE /api/v1/favorites/{propertyId}
func (h *FavoritesHandler) RemoveFromFavorites(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "RemoveFromFavorites"})

	userID, ok := userIDFromRequest(w, r, logger)
	if !ok {
		return
	}
	propertyID, ok := propertyIDFromPath(w, r, "propertyId", logger)
	if !ok {
		return
	}

	if err := h.removeUC.Execute(r.Context(), userID, propertyID); err != nil {
		writeDomainError(w, logger, err, "Error removing property from favorites")
		return
	}

	RespondWithJSON(w, http.StatusOK, MessageResponse{Message: "Property removed from favorites"})
}
