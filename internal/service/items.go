package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/packlist/packlist/internal/apperr"
	"github.com/packlist/packlist/internal/models"
)

// ItemRepository defines the persistence operations required by the item
// service. Every operation is scoped to the owner of the parent list.
type ItemRepository interface {
	// Add inserts an item into an owned list.
	Add(ctx context.Context, listID, ownerID int64, name string, quantity int, categoryID *int64, notes string) error
	// Update rewrites an owned item's fields.
	Update(ctx context.Context, itemID, ownerID int64, name string, quantity int, categoryID *int64, notes string) error
	// TogglePacked flips an owned item's packed flag, returning the new value.
	TogglePacked(ctx context.Context, itemID, ownerID int64) (bool, error)
	// Delete removes an owned item.
	Delete(ctx context.Context, itemID, ownerID int64) error
	// ListForList fetches all items of an owned list.
	ListForList(ctx context.Context, listID, ownerID int64) ([]models.ItemWithCategoryName, error)
	// Stats aggregates packing progress for an owned list.
	Stats(ctx context.Context, listID, ownerID int64) (*models.ListStats, error)
}

// ItemService implements item operations on top of an ItemRepository.
type ItemService struct {
	repo ItemRepository
	log  *zap.Logger
}

// NewItemService constructs a new ItemService using the provided repository.
func NewItemService(repo ItemRepository, log *zap.Logger) *ItemService {
	return &ItemService{repo: repo, log: log}
}

// Add validates the fields and inserts an item into a list held by ownerID.
// A list that is missing or not owned fails with apperr.ErrNotFound before
// any write happens.
func (s *ItemService) Add(ctx context.Context, listID, ownerID int64, name string, quantity int, categoryID *int64, notes string) error {
	if err := validateItemFields(name, quantity); err != nil {
		return err
	}
	if err := s.repo.Add(ctx, listID, ownerID, name, quantity, categoryID, notes); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return err
		}
		return s.storeFailure("Add", err)
	}
	return nil
}

// Update validates the fields and rewrites an owned item.
func (s *ItemService) Update(ctx context.Context, itemID, ownerID int64, name string, quantity int, categoryID *int64, notes string) error {
	if err := validateItemFields(name, quantity); err != nil {
		return err
	}
	if err := s.repo.Update(ctx, itemID, ownerID, name, quantity, categoryID, notes); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return err
		}
		return s.storeFailure("Update", err)
	}
	return nil
}

// TogglePacked flips an owned item's packed flag and returns the new value.
// It is the only operation that mutates packing state.
func (s *ItemService) TogglePacked(ctx context.Context, itemID, ownerID int64) (bool, error) {
	packed, err := s.repo.TogglePacked(ctx, itemID, ownerID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return false, err
		}
		return false, s.storeFailure("TogglePacked", err)
	}
	return packed, nil
}

// Delete removes an owned item.
func (s *ItemService) Delete(ctx context.Context, itemID, ownerID int64) error {
	if err := s.repo.Delete(ctx, itemID, ownerID); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return err
		}
		return s.storeFailure("Delete", err)
	}
	return nil
}

// ListForList fetches all items of an owned list, unpacked first, then by
// category and item name.
func (s *ItemService) ListForList(ctx context.Context, listID, ownerID int64) ([]models.ItemWithCategoryName, error) {
	items, err := s.repo.ListForList(ctx, listID, ownerID)
	if err != nil {
		return nil, s.storeFailure("ListForList", err)
	}
	return items, nil
}

// Stats aggregates packing progress for an owned list.
func (s *ItemService) Stats(ctx context.Context, listID, ownerID int64) (*models.ListStats, error) {
	stats, err := s.repo.Stats(ctx, listID, ownerID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, err
		}
		return nil, s.storeFailure("Stats", err)
	}
	return stats, nil
}

func (s *ItemService) storeFailure(op string, err error) error {
	s.log.Error("store failure", zap.String("op", op), zap.Error(err))
	return apperr.ErrStoreUnavailable
}

// validateItemFields checks item name and quantity.
func validateItemFields(name string, quantity int) error {
	if name == "" {
		return fmt.Errorf("%w: item name is required", apperr.ErrValidation)
	}
	if len(name) > maxTitleLen {
		return fmt.Errorf("%w: item name is too long (max %d characters)", apperr.ErrValidation, maxTitleLen)
	}
	if quantity < 1 {
		return fmt.Errorf("%w: quantity must be at least 1", apperr.ErrValidation)
	}
	return nil
}
