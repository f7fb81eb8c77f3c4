package utils

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"heritage/backend"
	"heritage/models"
)

func RespondWithError(w http.ResponseWriter, code int, msg string) {
	RespondWithJSON(w, code, map[string]string{"error": msg})
}

// Sends a JSON response
func RespondWithJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// RespondWithBackendError maps a failed backend call onto a response,
// showing the backend's message when it gave one.
func RespondWithBackendError(w http.ResponseWriter, err error, fallback string) {
	RespondWithError(w, BackendStatus(err), backend.UserMessage(err, fallback))
}

// BackendStatus picks the status to answer with after a failed backend call.
// Client errors pass through; anything else is a bad gateway.
func BackendStatus(err error) int {
	var apiErr *backend.APIError
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case errors.As(err, &apiErr) && apiErr.Status >= 400 && apiErr.Status < 500:
		return apiErr.Status
	}
	return http.StatusBadGateway
}

// DecodeJSON reads a size-limited JSON body into v.
func DecodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, 1<<20))
	return dec.Decode(v)
}

type M map[string]interface{}
