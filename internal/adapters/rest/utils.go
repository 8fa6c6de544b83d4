package rest

import (
	"errors"
	"marketplace-service/internal/core/domain"
	"marketplace-service/internal/core/port"
	"net/http"

	"github.com/goccy/go-json"
)

// WriteJSONError отправляет JSON-ответ с полем "error" и заданным статусом
func WriteJSONError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)

	json.NewEncoder(w).Encode(ErrorResponse{Error: message})
}

func RespondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		http.Error(w, "Failed to marshal JSON response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

// statusForError сопоставляет категорию доменной ошибки с HTTP статусом.
func statusForError(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// writeDomainError пишет ответ по ошибке use case. Для внутренних ошибок клиент
// получает только internalMsg, подробности остаются в логе.
func writeDomainError(w http.ResponseWriter, logger port.LoggerPort, err error, internalMsg string) {
	status := statusForError(err)
	if status == http.StatusInternalServerError {
		logger.Error("Use case failed", err, nil)
		WriteJSONError(w, status, internalMsg)
		return
	}
	logger.Warn("Request rejected", port.Fields{"status_code": status, "reason": err.Error()})
	WriteJSONError(w, status, err.Error())
}

// decodeStrictJSON читает тело запроса, неизвестные поля считаются ошибкой.
func decodeStrictJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}
