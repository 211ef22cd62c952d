// Package http provides the JSON HTTP handlers and routing for the packing
// list service.
package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/packlist/packlist/internal/apperr"
)

// errorResponse is the body of every error reply.
type errorResponse struct {
	Error string `json:"error"`
}

// writeJSON encodes v as the response body with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps a domain error kind to its HTTP status and writes a JSON
// error body. Unknown errors collapse to a generic 500 so internal details
// never reach the client.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, apperr.ErrValidation):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, apperr.ErrInvalidCredentials):
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: err.Error()})
	case errors.Is(err, apperr.ErrInvalidRequest):
		writeJSON(w, http.StatusForbidden, errorResponse{Error: err.Error()})
	case errors.Is(err, apperr.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	case errors.Is(err, apperr.ErrDuplicateUsername), errors.Is(err, apperr.ErrDuplicateEmail):
		writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
	default:
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}
