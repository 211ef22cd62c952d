package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/packlist/packlist/internal/apperr"
	"github.com/packlist/packlist/internal/models"
)

// CategoryRepository defines the persistence operations required by the
// category service.
type CategoryRepository interface {
	// List fetches every category ordered by name.
	List(ctx context.Context) ([]models.Category, error)
}

// CategoryService exposes the read-only category catalog.
type CategoryService struct {
	repo CategoryRepository
	log  *zap.Logger
}

// NewCategoryService constructs a new CategoryService using the provided
// repository.
func NewCategoryService(repo CategoryRepository, log *zap.Logger) *CategoryService {
	return &CategoryService{repo: repo, log: log}
}

// List returns all categories ordered by name.
func (s *CategoryService) List(ctx context.Context) ([]models.Category, error) {
	categories, err := s.repo.List(ctx)
	if err != nil {
		s.log.Error("store failure", zap.String("op", "List"), zap.Error(err))
		return nil, apperr.ErrStoreUnavailable
	}
	return categories, nil
}
