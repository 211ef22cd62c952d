package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/packlist/packlist/internal/apperr"
)

func setupItemMock(t *testing.T) (*PostgresItemRepository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock database: %v", err)
	}
	repo := NewPostgresItemRepository(db)
	cleanup := func() { db.Close() }
	return repo, mock, cleanup
}

func TestItemAdd_Success(t *testing.T) {
	repo, mock, cleanup := setupItemMock(t)
	defer cleanup()

	catID := int64(2)
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO items (packing_list_id, category_id, name, quantity, notes)`)).
		WithArgs(int64(5), int64(1), catID, "Sunscreen", 2, "SPF 50").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Add(context.Background(), 5, 1, "Sunscreen", 2, &catID, "SPF 50")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestItemAdd_ParentNotOwned(t *testing.T) {
	repo, mock, cleanup := setupItemMock(t)
	defer cleanup()

	// The INSERT selects from packing_lists; a foreign list contributes no
	// source row, so nothing is inserted.
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO items (packing_list_id, category_id, name, quantity, notes)`)).
		WithArgs(int64(5), int64(99), nil, "Sunscreen", 1, "").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Add(context.Background(), 5, 99, "Sunscreen", 1, nil, "")
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("Add error = %v; want %v", err, apperr.ErrNotFound)
	}
}

func TestItemUpdate_Success(t *testing.T) {
	repo, mock, cleanup := setupItemMock(t)
	defer cleanup()

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE items i`)).
		WithArgs(int64(7), int64(1), "Towel", 3, nil, "").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Update(context.Background(), 7, 1, "Towel", 3, nil, ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestItemUpdate_NotOwned(t *testing.T) {
	repo, mock, cleanup := setupItemMock(t)
	defer cleanup()

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE items i`)).
		WithArgs(int64(7), int64(99), "Towel", 3, nil, "").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), 7, 99, "Towel", 3, nil, "")
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("Update error = %v; want %v", err, apperr.ErrNotFound)
	}
}

func TestTogglePacked_ReturnsNewValue(t *testing.T) {
	repo, mock, cleanup := setupItemMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(`SET is_packed = NOT i.is_packed`)).
		WithArgs(int64(7), int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"is_packed"}).AddRow(true))

	packed, err := repo.TogglePacked(context.Background(), 7, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !packed {
		t.Errorf("TogglePacked = false; want true")
	}
}

func TestTogglePacked_NotOwned(t *testing.T) {
	repo, mock, cleanup := setupItemMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(`SET is_packed = NOT i.is_packed`)).
		WithArgs(int64(7), int64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"is_packed"}))

	_, err := repo.TogglePacked(context.Background(), 7, 99)
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("TogglePacked error = %v; want %v", err, apperr.ErrNotFound)
	}
}

func TestItemDelete_NotOwned(t *testing.T) {
	repo, mock, cleanup := setupItemMock(t)
	defer cleanup()

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM items i`)).
		WithArgs(int64(7), int64(99)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), 7, 99)
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("Delete error = %v; want %v", err, apperr.ErrNotFound)
	}
}

func itemColumns() []string {
	return []string{
		"id", "packing_list_id", "category_id", "name", "quantity",
		"is_packed", "notes", "created_at", "category_name",
	}
}

func TestListForList_ResolvesCategoryNames(t *testing.T) {
	repo, mock, cleanup := setupItemMock(t)
	defer cleanup()

	// Uncategorized items sort before named categories within their
	// packed-status group, so NULLS FIRST must be explicit under Postgres.
	rows := sqlmock.NewRows(itemColumns()).
		AddRow(int64(2), int64(5), nil, "Snacks", 4, false, "", someTime(), "").
		AddRow(int64(1), int64(5), int64(2), "Charger", 1, false, "", someTime(), "Electronics").
		AddRow(int64(3), int64(5), int64(1), "Shirt", 3, true, "", someTime(), "Clothing")
	mock.ExpectQuery(regexp.QuoteMeta(`ORDER BY i.is_packed ASC, c.name ASC NULLS FIRST, i.name ASC`)).
		WithArgs(int64(5), int64(1)).
		WillReturnRows(rows)

	items, err := repo.ListForList(context.Background(), 5, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("got %d items; want 3", len(items))
	}
	if items[0].Name != "Snacks" || items[0].CategoryName != "" {
		t.Errorf("items[0] = %+v; want the uncategorized item first", items[0])
	}
	if items[0].CategoryID != nil {
		t.Errorf("items[0].CategoryID = %v; want nil", items[0].CategoryID)
	}
	if items[1].CategoryName != "Electronics" {
		t.Errorf("items[1].CategoryName = %q; want Electronics", items[1].CategoryName)
	}
	if !items[2].IsPacked {
		t.Errorf("items[2].IsPacked = false; want true")
	}
}

func TestStats_NotOwned(t *testing.T) {
	repo, mock, cleanup := setupItemMock(t)
	defer cleanup()

	// Aggregation runs over the list row; a non-owned list yields no row at
	// all rather than a zero row.
	mock.ExpectQuery(regexp.QuoteMeta(`COUNT(DISTINCT i.category_id) AS categories_used`)).
		WithArgs(int64(5), int64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"total_items", "packed_items", "unpacked_items", "categories_used"}))

	_, err := repo.Stats(context.Background(), 5, 99)
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("Stats error = %v; want %v", err, apperr.ErrNotFound)
	}
}

func TestStats_EmptyList(t *testing.T) {
	repo, mock, cleanup := setupItemMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(`COUNT(DISTINCT i.category_id) AS categories_used`)).
		WithArgs(int64(5), int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"total_items", "packed_items", "unpacked_items", "categories_used"}).
			AddRow(0, 0, 0, 0))

	stats, err := repo.Stats(context.Background(), 5, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.TotalItems != 0 || stats.CompletionPercentage != 0 {
		t.Errorf("stats = %+v; want all zeros", stats)
	}
}

func TestStats_Completion(t *testing.T) {
	repo, mock, cleanup := setupItemMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(`COUNT(DISTINCT i.category_id) AS categories_used`)).
		WithArgs(int64(5), int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"total_items", "packed_items", "unpacked_items", "categories_used"}).
			AddRow(3, 1, 2, 2))

	stats, err := repo.Stats(context.Background(), 5, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.PackedItems+stats.UnpackedItems != stats.TotalItems {
		t.Errorf("packed + unpacked = %d; want %d", stats.PackedItems+stats.UnpackedItems, stats.TotalItems)
	}
	if stats.CompletionPercentage != 33.3 {
		t.Errorf("CompletionPercentage = %v; want 33.3", stats.CompletionPercentage)
	}
}

func TestCompletionPercentage(t *testing.T) {
	tests := []struct {
		packed, total int
		want          float64
	}{
		{0, 0, 0},
		{0, 1, 0},
		{1, 1, 100},
		{1, 2, 50},
		{1, 3, 33.3},
		{2, 3, 66.7},
		{999, 1000, 99.9},
	}

	for _, tt := range tests {
		if got := completionPercentage(tt.packed, tt.total); got != tt.want {
			t.Errorf("completionPercentage(%d, %d) = %v; want %v", tt.packed, tt.total, got, tt.want)
		}
	}
}
