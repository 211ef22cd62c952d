package http

import (
	"context"
	"net/http"

	"github.com/packlist/packlist/internal/models"
)

// CategoryService defines the catalog operation required by the HTTP
// handlers.
type CategoryService interface {
	List(ctx context.Context) ([]models.Category, error)
}

// CategoryHandler serves the read-only category catalog.
type CategoryHandler struct {
	// CategoryService performs the underlying catalog lookup.
	CategoryService CategoryService
}

// Index returns every category ordered by name.
func (h *CategoryHandler) Index(w http.ResponseWriter, r *http.Request) {
	categories, err := h.CategoryService.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if categories == nil {
		categories = []models.Category{}
	}
	writeJSON(w, http.StatusOK, categories)
}
