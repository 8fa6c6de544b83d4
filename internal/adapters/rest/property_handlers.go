package rest

import (
	"marketplace-service/internal/contextkeys"
	"marketplace-service/internal/core/port"
	"marketplace-service/internal/core/port/usecases_port"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

type PropertyHandler struct {
	queryUC   usecases_port.QueryPropertiesUseCasePort
	createUC  usecases_port.CreatePropertyUseCasePort
	getUC     usecases_port.GetPropertyUseCasePort
	listOwnUC usecases_port.ListOwnPropertiesUseCasePort
	updateUC  usecases_port.UpdatePropertyUseCasePort
	deleteUC  usecases_port.DeletePropertyUseCasePort
}

func NewPropertyHandler(
	queryUC usecases_port.QueryPropertiesUseCasePort,
	createUC usecases_port.CreatePropertyUseCasePort,
	getUC usecases_port.GetPropertyUseCasePort,
	listOwnUC usecases_port.ListOwnPropertiesUseCasePort,
	updateUC usecases_port.UpdatePropertyUseCasePort,
	deleteUC usecases_port.DeletePropertyUseCasePort,
) *PropertyHandler {
	return &PropertyHandler{
		queryUC:   queryUC,
		createUC:  createUC,
		getUC:     getUC,
		listOwnUC: listOwnUC,
		updateUC:  updateUC,
		deleteUC:  deleteUC,
	}
}

// QueryProperties обрабатывает GET /api/v1/properties
func (h *PropertyHandler) QueryProperties(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "QueryProperties"})

	query, err := parsePropertyQuery(r.URL.Query())
	if err != nil {
		logger.Warn("Invalid query parameters", port.Fields{"error": err.Error(), "query": r.URL.RawQuery})
		WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	page, err := h.queryUC.Execute(r.Context(), query)
	if err != nil {
		writeDomainError(w, logger, err, "Error fetching properties")
		return
	}

	RespondWithJSON(w, http.StatusOK, toPaginatedPropertiesResponse(page))
}

// GetProperty обрабатывает GET /api/v1/properties/{id}
func (h *PropertyHandler) GetProperty(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "GetProperty"})

	id, ok := propertyIDFromPath(w, r, "id", logger)
	if !ok {
		return
	}

	property, err := h.getUC.Execute(r.Context(), id)
	if err != nil {
		writeDomainError(w, logger, err, "Error fetching property")
		return
	}

	RespondWithJSON(w, http.StatusOK, toPropertyResponse(property))
}

// ListOwnProperties обрабатывает GET /api/v1/properties/mine
func (h *PropertyHandler) ListOwnProperties(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "ListOwnProperties"})

	userID, ok := userIDFromRequest(w, r, logger)
	if !ok {
		return
	}

	properties, err := h.listOwnUC.Execute(r.Context(), userID)
	if err != nil {
		writeDomainError(w, logger, err, "Error fetching your properties")
		return
	}

	RespondWithJSON(w, http.StatusOK, toPropertyResponses(properties))
}

// CreateProperty обрабатывает POST /api/v1/properties
func (h *PropertyHandler) CreateProperty(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "CreateProperty"})

	userID, ok := userIDFromRequest(w, r, logger)
	if !ok {
		return
	}

	var reqDTO PropertyRequest
	if err := json.NewDecoder(r.Body).Decode(&reqDTO); err != nil {
		logger.Warn("Failed to decode request body for create property", port.Fields{"error": err.Error()})
		WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validateRequest(reqDTO); err != nil {
		writeDomainError(w, logger, err, "")
		return
	}
	input, err := reqDTO.toDomain()
	if err != nil {
		writeDomainError(w, logger, err, "")
		return
	}

	property, err := h.createUC.Execute(r.Context(), userID, input)
	if err != nil {
		writeDomainError(w, logger, err, "Error creating property")
		return
	}

	RespondWithJSON(w, http.StatusCreated, toPropertyResponse(property))
}

// UpdateProperty обрабатывает PATCH /api/v1/properties/{id}
func (h *PropertyHandler) UpdateProperty(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "UpdateProperty"})

	userID, ok := userIDFromRequest(w, r, logger)
	if !ok {
		return
	}
	id, ok := propertyIDFromPath(w, r, "id", logger)
	if !ok {
		return
	}

	var reqDTO PropertyPatchRequest
	if err := decodeStrictJSON(r, &reqDTO); err != nil {
		logger.Warn("Failed to decode request body for update property", port.Fields{"error": err.Error()})
		WriteJSONError(w, http.StatusBadRequest, "Invalid updates")
		return
	}
	if err := validateRequest(reqDTO); err != nil {
		writeDomainError(w, logger, err, "")
		return
	}
	patch, err := reqDTO.toDomain()
	if err != nil {
		writeDomainError(w, logger, err, "")
		return
	}

	property, err := h.updateUC.Execute(r.Context(), userID, id, patch)
	if err != nil {
		writeDomainError(w, logger, err, "Error updating property")
		return
	}

	RespondWithJSON(w, http.StatusOK, toPropertyResponse(property))
}

// DeleteProperty обрабатывает DELETE /api/v1/properties/{id}
func (h *PropertyHandler) DeleteProperty(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "DeleteProperty"})

	userID, ok := userIDFromRequest(w, r, logger)
	if !ok {
		return
	}
	id, ok := propertyIDFromPath(w, r, "id", logger)
	if !ok {
		return
	}

	if err := h.deleteUC.Execute(r.Context(), userID, id); err != nil {
		writeDomainError(w, logger, err, "Error deleting property")
		return
	}

	RespondWithJSON(w, http.StatusOK, MessageResponse{Message: "Property deleted successfully"})
}

func propertyIDFromPath(w http.ResponseWriter, r *http.Request, param string, logger port.LoggerPort) (uuid.UUID, bool) {
	raw := chi.URLParam(r, param)
	id, err := uuid.Parse(raw)
	if err != nil {
		logger.Warn("Invalid property ID format", port.Fields{"property_id": raw})
		WriteJSONError(w, http.StatusBadRequest, "Invalid property ID format")
		return uuid.Nil, false
	}
	return id, true
}
