package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/packlist/packlist/internal/apperr"
	"github.com/packlist/packlist/internal/models"
)

// dateFormat is the accepted form of a trip date.
const dateFormat = "2006-01-02"

// maxTitleLen bounds list titles and item names.
const maxTitleLen = 100

// ListRepository defines the persistence operations required by the packing
// list service.
type ListRepository interface {
	// Create inserts a new list and returns its id.
	Create(ctx context.Context, ownerID int64, title, description string, tripDate *string) (int64, error)
	// Update rewrites an owned list's fields.
	Update(ctx context.Context, listID, ownerID int64, title, description string, tripDate *string) error
	// Delete removes an owned list and, through the schema, its items.
	Delete(ctx context.Context, listID, ownerID int64) error
	// Get fetches an owned list with item counts.
	Get(ctx context.Context, listID, ownerID int64) (*models.ListWithCounts, error)
	// ListAllForUser fetches all lists of the owner, newest first.
	ListAllForUser(ctx context.Context, ownerID int64) ([]models.ListWithCounts, error)
}

// ListService implements packing list operations on top of a ListRepository.
type ListService struct {
	repo ListRepository
	log  *zap.Logger
}

// NewListService constructs a new ListService using the provided repository.
func NewListService(repo ListRepository, log *zap.Logger) *ListService {
	return &ListService{repo: repo, log: log}
}

// Create validates the fields and inserts a new list for the owner,
// returning its id. An empty trip date is stored as absent.
func (s *ListService) Create(ctx context.Context, ownerID int64, title, description string, tripDate string) (int64, error) {
	date, err := validateListFields(title, tripDate)
	if err != nil {
		return 0, err
	}
	id, err := s.repo.Create(ctx, ownerID, title, description, date)
	if err != nil {
		return 0, s.storeFailure("Create", err)
	}
	return id, nil
}

// Update validates the fields and rewrites an owned list. A list that is
// missing or owned by someone else fails with apperr.ErrNotFound.
func (s *ListService) Update(ctx context.Context, listID, ownerID int64, title, description string, tripDate string) error {
	date, err := validateListFields(title, tripDate)
	if err != nil {
		return err
	}
	if err := s.repo.Update(ctx, listID, ownerID, title, description, date); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return err
		}
		return s.storeFailure("Update", err)
	}
	return nil
}

// Delete removes an owned list together with all its items.
func (s *ListService) Delete(ctx context.Context, listID, ownerID int64) error {
	if err := s.repo.Delete(ctx, listID, ownerID); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return err
		}
		return s.storeFailure("Delete", err)
	}
	return nil
}

// Get fetches an owned list with its item counts.
func (s *ListService) Get(ctx context.Context, listID, ownerID int64) (*models.ListWithCounts, error) {
	lc, err := s.repo.Get(ctx, listID, ownerID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, err
		}
		return nil, s.storeFailure("Get", err)
	}
	return lc, nil
}

// ListAllForUser fetches every list of the owner, most recent first.
func (s *ListService) ListAllForUser(ctx context.Context, ownerID int64) ([]models.ListWithCounts, error) {
	lists, err := s.repo.ListAllForUser(ctx, ownerID)
	if err != nil {
		return nil, s.storeFailure("ListAllForUser", err)
	}
	return lists, nil
}

func (s *ListService) storeFailure(op string, err error) error {
	s.log.Error("store failure", zap.String("op", op), zap.Error(err))
	return apperr.ErrStoreUnavailable
}

// validateListFields checks title and trip date, returning the normalized
// date (nil when empty).
func validateListFields(title, tripDate string) (*string, error) {
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", apperr.ErrValidation)
	}
	if len(title) > maxTitleLen {
		return nil, fmt.Errorf("%w: title is too long (max %d characters)", apperr.ErrValidation, maxTitleLen)
	}
	if tripDate == "" {
		return nil, nil
	}
	parsed, err := time.Parse(dateFormat, tripDate)
	if err != nil || parsed.Format(dateFormat) != tripDate {
		return nil, fmt.Errorf("%w: invalid trip date format", apperr.ErrValidation)
	}
	return &tripDate, nil
}
