// internal/api/handlers/responses.go
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"medialocker/internal/logging"
	"medialocker/internal/shared"
)

// ErrorResponse is a standard format for API error messages.
type ErrorResponse struct {
	Error string `json:"error"`
}

// MessageResponse is a standard format for simple API messages.
type MessageResponse struct {
	Message string `json:"message"`
}

// pagedResponse is the envelope for paginated listings.
type pagedResponse struct {
	Items      interface{} `json:"items"`
	TotalCount int         `json:"total_count"`
	Page       int         `json:"page"`
	PageSize   int         `json:"page_size"`
}

// respondWithError sends a JSON error response.
func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, ErrorResponse{Error: message})
}

// respondWithJSON sends a JSON response.
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		http.Error(w, `{"error":"Failed to marshal JSON response"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

// respondWithServiceError translates the error taxonomy into HTTP
// statuses. Anything unrecognized is a 500 with a generic body; the
// real cause goes to the log only.
func respondWithServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, shared.ErrInvalidCredentials),
		errors.Is(err, shared.ErrUnauthenticated),
		errors.Is(err, shared.ErrTokenExpired),
		errors.Is(err, shared.ErrTokenInvalid),
		errors.Is(err, shared.ErrTokenMalformed):
		respondWithError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, shared.ErrForbidden),
		errors.Is(err, shared.ErrNotOwner),
		errors.Is(err, shared.ErrSelfProtection):
		respondWithError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, shared.ErrUserNotFound),
		errors.Is(err, shared.ErrImageNotFound):
		respondWithError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, shared.ErrDuplicateUsername),
		errors.Is(err, shared.ErrInvalidRole):
		respondWithError(w, http.StatusBadRequest, err.Error())
	default:
		logging.Log.Errorf("handler: internal error: %v", err)
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
	}
}
