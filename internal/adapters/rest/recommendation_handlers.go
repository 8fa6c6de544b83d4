package rest

import (
	"marketplace-service/internal/contextkeys"
	"marketplace-service/internal/core/domain"
	"marketplace-service/internal/core/port"
	"marketplace-service/internal/core/port/usecases_port"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

type RecommendationHandler struct {
	recommendUC usecases_port.RecommendPropertyUseCasePort
	receivedUC  usecases_port.ListReceivedRecommendationsUseCasePort
	searchUC    usecases_port.SearchCandidateUsersUseCasePort
	markReadUC  usecases_port.MarkRecommendationReadUseCasePort
}

func NewRecommendationHandler(
	recommendUC usecases_port.RecommendPropertyUseCasePort,
	receivedUC usecases_port.ListReceivedRecommendationsUseCasePort,
	searchUC usecases_port.SearchCandidateUsersUseCasePort,
	markReadUC usecases_port.MarkRecommendationReadUseCasePort,
) *RecommendationHandler {
	return &RecommendationHandler{
		recommendUC: recommendUC,
		receivedUC:  receivedUC,
		searchUC:    searchUC,
		markReadUC:  markReadUC,
	}
}

// Recommend обрабатывает POST /api/v1/recommendations
func (h *RecommendationHandler) Recommend(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "Recommend"})

	userID, ok := userIDFromRequest(w, r, logger)
	if !ok {
		return
	}

	var reqDTO RecommendRequest
	if err := json.NewDecoder(r.Body).Decode(&reqDTO); err != nil {
		logger.Warn("Failed to decode request body for recommend", port.Fields{"error": err.Error()})
		WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	view, err := h.recommendUC.Execute(r.Context(), usecases_port.RecommendInput{
		PropertyID: reqDTO.PropertyID,
		FromUserID: userID,
		ToEmail:    reqDTO.ToEmail,
		Message:    reqDTO.Message,
	})
	if err != nil {
		writeDomainError(w, logger, err, "Failed to recommend property")
		return
	}

	RespondWithJSON(w, http.StatusCreated, RecommendResponse{
		Success: true,
		Data:    toCreatedRecommendationResponse(view),
		Message: "Property recommended successfully!",
	})
}

// ListReceived обрабатывает GET /api/v1/recommendations/received
func (h *RecommendationHandler) ListReceived(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "ListReceived"})

	userID, ok := userIDFromRequest(w, r, logger)
	if !ok {
		return
	}

	views, err := h.receivedUC.Execute(r.Context(), userID)
	if err != nil {
		writeDomainError(w, logger, err, "Failed to fetch recommendations")
		return
	}

	response := make([]RecommendationResponse, len(views))
	for i := range views {
		response[i] = toRecommendationResponse(&views[i])
	}
	RespondWithJSON(w, http.StatusOK, response)
}

// SearchUsers обрабатывает GET /api/v1/recommendations/search-users?query=
func (h *RecommendationHandler) SearchUsers(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "SearchUsers"})

	userID, ok := userIDFromRequest(w, r, logger)
	if !ok {
		return
	}

	users, err := h.searchUC.Execute(r.Context(), r.URL.Query().Get("query"), userID)
	if err != nil {
		writeDomainError(w, logger, err, "Failed to search users")
		return
	}

	response := make([]UserSummaryResponse, len(users))
	for i, u := range users {
		response[i] = toUserSummaryResponse(u)
	}
	RespondWithJSON(w, http.StatusOK, response)
}

// MarkRead обрабатывает PATCH /api/v1/recommendations/{id}/read
func (h *RecommendationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "MarkRead"})

	userID, ok := userIDFromRequest(w, r, logger)
	if !ok {
		return
	}

	recommendationID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, logger, domain.ErrRecommendationNotFound, "")
		return
	}

	if err := h.markReadUC.Execute(r.Context(), userID, recommendationID); err != nil {
		writeDomainError(w, logger, err, "Failed to update recommendation")
		return
	}

	RespondWithJSON(w, http.StatusOK, MessageResponse{Message: "Recommendation marked as read"})
}
