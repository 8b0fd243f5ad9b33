package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/custodia-labs/paperlens/internal/core/domain"
	"github.com/custodia-labs/paperlens/internal/logger"
)

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	var (
		validation *domain.ValidationError
		server     *domain.ServerError
		network    *domain.NetworkError
	)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, domain.ErrUnsupportedFile):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrEmptyQuestion),
		errors.As(err, &validation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNoDocument),
		errors.Is(err, domain.ErrNoLayout),
		errors.Is(err, domain.ErrInputDisabled),
		errors.Is(err, domain.ErrDropInProgress):
		return http.StatusConflict
	case errors.Is(err, domain.ErrNoImage):
		return http.StatusUnprocessableEntity
	case errors.As(err, &server), errors.As(err, &network):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Debug("http: encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]string{"error": message})
}

// writeDomainError writes err with its mapped status and user-facing message.
func writeDomainError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		logger.Warn("http: %v", err)
	}
	writeError(w, status, domain.UserMessage(err))
}
