package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/packlist/packlist/internal/apperr"
	"github.com/packlist/packlist/internal/middleware"
	"github.com/packlist/packlist/internal/models"
)

// ListService defines the packing list operations required by the HTTP
// handlers.
type ListService interface {
	Create(ctx context.Context, ownerID int64, title, description string, tripDate string) (int64, error)
	Update(ctx context.Context, listID, ownerID int64, title, description string, tripDate string) error
	Delete(ctx context.Context, listID, ownerID int64) error
	Get(ctx context.Context, listID, ownerID int64) (*models.ListWithCounts, error)
	ListAllForUser(ctx context.Context, ownerID int64) ([]models.ListWithCounts, error)
}

// ListHandler handles packing list requests. Every route runs behind
// SessionAuth, so the owner id is always in the request context.
type ListHandler struct {
	// ListService performs the underlying list operations.
	ListService ListService
}

// ListRequest represents the JSON payload for creating or updating a list.
type ListRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	TripDate    string `json:"trip_date"`
}

// Index returns all lists of the authenticated user, newest first, each
// with its item counts.
func (h *ListHandler) Index(w http.ResponseWriter, r *http.Request) {
	ownerID, _ := middleware.UserIDFromContext(r.Context())
	lists, err := h.ListService.ListAllForUser(r.Context(), ownerID)
	if err != nil {
		writeError(w, err)
		return
	}
	if lists == nil {
		lists = []models.ListWithCounts{}
	}
	writeJSON(w, http.StatusOK, lists)
}

// Create adds a new list for the authenticated user.
func (h *ListHandler) Create(w http.ResponseWriter, r *http.Request) {
	ownerID, _ := middleware.UserIDFromContext(r.Context())

	var req ListRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	id, err := h.ListService.Create(r.Context(), ownerID, req.Title, req.Description, req.TripDate)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]int64{"id": id})
}

// Get returns a single owned list with item counts.
func (h *ListHandler) Get(w http.ResponseWriter, r *http.Request) {
	ownerID, _ := middleware.UserIDFromContext(r.Context())
	listID, ok := pathID(r, "listID")
	if !ok {
		writeError(w, apperr.ErrNotFound)
		return
	}

	list, err := h.ListService.Get(r.Context(), listID, ownerID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// Update rewrites an owned list's title, description and trip date.
func (h *ListHandler) Update(w http.ResponseWriter, r *http.Request) {
	ownerID, _ := middleware.UserIDFromContext(r.Context())
	listID, ok := pathID(r, "listID")
	if !ok {
		writeError(w, apperr.ErrNotFound)
		return
	}

	var req ListRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	if err := h.ListService.Update(r.Context(), listID, ownerID, req.Title, req.Description, req.TripDate); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Delete removes an owned list and all its items.
func (h *ListHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ownerID, _ := middleware.UserIDFromContext(r.Context())
	listID, ok := pathID(r, "listID")
	if !ok {
		writeError(w, apperr.ErrNotFound)
		return
	}

	if err := h.ListService.Delete(r.Context(), listID, ownerID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// pathID parses a positive integer URL parameter. A malformed id behaves
// like a missing entity.
func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}
