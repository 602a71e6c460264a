package handlers

import (
	"encoding/json"
	"net/http"

	apperrors "github.com/zatekoja/diningconcierge/pkg/errors"
)

func respondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}

func respondWithError(w http.ResponseWriter, statusCode int, message string) {
	respondWithJSON(w, statusCode, map[string]string{
		"error": message,
	})
}

// statusForError maps application error types onto HTTP status codes
func statusForError(err error) int {
	switch {
	case apperrors.IsType(err, apperrors.ErrorTypeValidation):
		return http.StatusBadRequest
	case apperrors.IsType(err, apperrors.ErrorTypeNotFound):
		return http.StatusNotFound
	case apperrors.IsType(err, apperrors.ErrorTypeUnsupported):
		return http.StatusUnprocessableEntity
	case apperrors.IsType(err, apperrors.ErrorTypeExternal):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func respondWithAppError(w http.ResponseWriter, err error) {
	status := statusForError(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		message = "internal server error"
	}
	respondWithError(w, status, message)
}
