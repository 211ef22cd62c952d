package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"

	"github.com/packlist/packlist/internal/apperr"
	"github.com/packlist/packlist/internal/models"
)

// PostgresItemRepository implements item persistence against PostgreSQL.
// Ownership of an item is the ownership of its parent list, checked
// transitively inside every statement rather than by a separate read, so
// there is no window between the check and the mutation.
type PostgresItemRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresItemRepository creates a new PostgresItemRepository using the
// provided *sql.DB.
func NewPostgresItemRepository(db *sql.DB) *PostgresItemRepository {
	return &PostgresItemRepository{DB: db}
}

// Add inserts an item into a list the owner holds. The parent check is the
// INSERT's SELECT source: a list that is missing or not owned produces no
// row to insert, which maps to apperr.ErrNotFound. categoryID is stored as
// given; the foreign key enforces existence.
func (r *PostgresItemRepository) Add(ctx context.Context, listID, ownerID int64, name string, quantity int, categoryID *int64, notes string) error {
	res, err := r.DB.ExecContext(ctx, `
		INSERT INTO items (packing_list_id, category_id, name, quantity, notes)
		SELECT pl.id, $3::bigint, $4::text, $5::int, $6::text
		FROM packing_lists pl
		WHERE pl.id = $1 AND pl.user_id = $2
	`, listID, ownerID, categoryID, name, quantity, notes)
	if err != nil {
		return fmt.Errorf("Add item: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("Add item rows affected: %w", err)
	}
	if affected == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// Update rewrites an item's fields in a single conditional statement joined
// against the owning list.
func (r *PostgresItemRepository) Update(ctx context.Context, itemID, ownerID int64, name string, quantity int, categoryID *int64, notes string) error {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE items i
		SET name = $3, quantity = $4, category_id = $5, notes = $6
		FROM packing_lists pl
		WHERE i.id = $1 AND pl.id = i.packing_list_id AND pl.user_id = $2
	`, itemID, ownerID, name, quantity, categoryID, notes)
	if err != nil {
		return fmt.Errorf("Update item: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("Update item rows affected: %w", err)
	}
	if affected == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// TogglePacked flips the packed flag of an owned item and returns the new
// value. Read and write are one UPDATE ... RETURNING, so concurrent toggles
// serialize on the row instead of racing a separate read.
func (r *PostgresItemRepository) TogglePacked(ctx context.Context, itemID, ownerID int64) (bool, error) {
	var packed bool
	err := r.DB.QueryRowContext(ctx, `
		UPDATE items i
		SET is_packed = NOT i.is_packed
		FROM packing_lists pl
		WHERE i.id = $1 AND pl.id = i.packing_list_id AND pl.user_id = $2
		RETURNING i.is_packed
	`, itemID, ownerID).Scan(&packed)
	if errors.Is(err, sql.ErrNoRows) {
		return false, apperr.ErrNotFound
	}
	if err != nil {
		return false, fmt.Errorf("TogglePacked: %w", err)
	}
	return packed, nil
}

// Delete removes an owned item.
func (r *PostgresItemRepository) Delete(ctx context.Context, itemID, ownerID int64) error {
	res, err := r.DB.ExecContext(ctx, `
		DELETE FROM items i
		USING packing_lists pl
		WHERE i.id = $1 AND pl.id = i.packing_list_id AND pl.user_id = $2
	`, itemID, ownerID)
	if err != nil {
		return fmt.Errorf("Delete item: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("Delete item rows affected: %w", err)
	}
	if affected == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// ListForList fetches all items of an owned list with category names
// resolved, unpacked first, then by category name and item name. An absent
// category resolves to an empty name and sorts before all named categories
// within its packed-status group.
func (r *PostgresItemRepository) ListForList(ctx context.Context, listID, ownerID int64) ([]models.ItemWithCategoryName, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT i.id, i.packing_list_id, i.category_id, i.name, i.quantity,
		       i.is_packed, i.notes, i.created_at,
		       COALESCE(c.name, '') AS category_name
		FROM items i
		LEFT JOIN categories c ON i.category_id = c.id
		INNER JOIN packing_lists pl ON i.packing_list_id = pl.id
		WHERE i.packing_list_id = $1 AND pl.user_id = $2
		ORDER BY i.is_packed ASC, c.name ASC NULLS FIRST, i.name ASC
	`, listID, ownerID)
	if err != nil {
		return nil, fmt.Errorf("ListForList: %w", err)
	}
	defer rows.Close()

	var items []models.ItemWithCategoryName
	for rows.Next() {
		var (
			it         models.ItemWithCategoryName
			categoryID sql.NullInt64
		)
		err := rows.Scan(
			&it.ID, &it.PackingListID, &categoryID, &it.Name, &it.Quantity,
			&it.IsPacked, &it.Notes, &it.CreatedAt,
			&it.CategoryName,
		)
		if err != nil {
			return nil, fmt.Errorf("ListForList scan: %w", err)
		}
		if categoryID.Valid {
			it.CategoryID = &categoryID.Int64
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListForList rows: %w", err)
	}
	return items, nil
}

// Stats aggregates packing progress for an owned list. The aggregation runs
// over the list row itself, so a missing or non-owned list yields no row
// and apperr.ErrNotFound, while an owned empty list yields zeros.
func (r *PostgresItemRepository) Stats(ctx context.Context, listID, ownerID int64) (*models.ListStats, error) {
	var s models.ListStats
	err := r.DB.QueryRowContext(ctx, `
		SELECT COUNT(i.id) AS total_items,
		       COUNT(i.id) FILTER (WHERE i.is_packed) AS packed_items,
		       COUNT(i.id) FILTER (WHERE NOT i.is_packed) AS unpacked_items,
		       COUNT(DISTINCT i.category_id) AS categories_used
		FROM packing_lists pl
		LEFT JOIN items i ON i.packing_list_id = pl.id
		WHERE pl.id = $1 AND pl.user_id = $2
		GROUP BY pl.id
	`, listID, ownerID).Scan(&s.TotalItems, &s.PackedItems, &s.UnpackedItems, &s.CategoriesUsed)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("Stats: %w", err)
	}
	s.CompletionPercentage = completionPercentage(s.PackedItems, s.TotalItems)
	return &s, nil
}

// completionPercentage returns packed/total as a percentage rounded to one
// decimal place, 0 for an empty list.
func completionPercentage(packed, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(packed)/float64(total)*1000) / 10
}
