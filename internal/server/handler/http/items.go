package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/packlist/packlist/internal/apperr"
	"github.com/packlist/packlist/internal/middleware"
	"github.com/packlist/packlist/internal/models"
)

// ItemService defines the item operations required by the HTTP handlers.
type ItemService interface {
	Add(ctx context.Context, listID, ownerID int64, name string, quantity int, categoryID *int64, notes string) error
	Update(ctx context.Context, itemID, ownerID int64, name string, quantity int, categoryID *int64, notes string) error
	TogglePacked(ctx context.Context, itemID, ownerID int64) (bool, error)
	Delete(ctx context.Context, itemID, ownerID int64) error
	ListForList(ctx context.Context, listID, ownerID int64) ([]models.ItemWithCategoryName, error)
	Stats(ctx context.Context, listID, ownerID int64) (*models.ListStats, error)
}

// ItemHandler handles item requests. Every route runs behind SessionAuth.
type ItemHandler struct {
	// ItemService performs the underlying item operations.
	ItemService ItemService
}

// ItemRequest represents the JSON payload for adding or updating an item.
// Quantity defaults to 1 when omitted.
type ItemRequest struct {
	Name       string `json:"name"`
	Quantity   *int   `json:"quantity"`
	CategoryID *int64 `json:"category_id"`
	Notes      string `json:"notes"`
}

func (req *ItemRequest) quantity() int {
	if req.Quantity == nil {
		return 1
	}
	return *req.Quantity
}

// ListForList returns all items of an owned list, unpacked first.
func (h *ItemHandler) ListForList(w http.ResponseWriter, r *http.Request) {
	ownerID, _ := middleware.UserIDFromContext(r.Context())
	listID, ok := pathID(r, "listID")
	if !ok {
		writeError(w, apperr.ErrNotFound)
		return
	}

	items, err := h.ItemService.ListForList(r.Context(), listID, ownerID)
	if err != nil {
		writeError(w, err)
		return
	}
	if items == nil {
		items = []models.ItemWithCategoryName{}
	}
	writeJSON(w, http.StatusOK, items)
}

// Add inserts a new item into an owned list.
func (h *ItemHandler) Add(w http.ResponseWriter, r *http.Request) {
	ownerID, _ := middleware.UserIDFromContext(r.Context())
	listID, ok := pathID(r, "listID")
	if !ok {
		writeError(w, apperr.ErrNotFound)
		return
	}

	var req ItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	if err := h.ItemService.Add(r.Context(), listID, ownerID, req.Name, req.quantity(), req.CategoryID, req.Notes); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

// Update rewrites an owned item's fields.
func (h *ItemHandler) Update(w http.ResponseWriter, r *http.Request) {
	ownerID, _ := middleware.UserIDFromContext(r.Context())
	itemID, ok := pathID(r, "itemID")
	if !ok {
		writeError(w, apperr.ErrNotFound)
		return
	}

	var req ItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	if err := h.ItemService.Update(r.Context(), itemID, ownerID, req.Name, req.quantity(), req.CategoryID, req.Notes); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// TogglePacked flips an owned item's packed flag and returns the new value.
func (h *ItemHandler) TogglePacked(w http.ResponseWriter, r *http.Request) {
	ownerID, _ := middleware.UserIDFromContext(r.Context())
	itemID, ok := pathID(r, "itemID")
	if !ok {
		writeError(w, apperr.ErrNotFound)
		return
	}

	packed, err := h.ItemService.TogglePacked(r.Context(), itemID, ownerID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"is_packed": packed})
}

// Delete removes an owned item.
func (h *ItemHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ownerID, _ := middleware.UserIDFromContext(r.Context())
	itemID, ok := pathID(r, "itemID")
	if !ok {
		writeError(w, apperr.ErrNotFound)
		return
	}

	if err := h.ItemService.Delete(r.Context(), itemID, ownerID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Stats returns packing progress for an owned list.
func (h *ItemHandler) Stats(w http.ResponseWriter, r *http.Request) {
	ownerID, _ := middleware.UserIDFromContext(r.Context())
	listID, ok := pathID(r, "listID")
	if !ok {
		writeError(w, apperr.ErrNotFound)
		return
	}

	stats, err := h.ItemService.Stats(r.Context(), listID, ownerID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
