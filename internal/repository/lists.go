package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/packlist/packlist/internal/apperr"
	"github.com/packlist/packlist/internal/models"
)

// dateFormat is the wire and storage form of a trip date.
const dateFormat = "2006-01-02"

// PostgresListRepository implements packing list persistence against
// PostgreSQL.
type PostgresListRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresListRepository creates a new PostgresListRepository using the
// provided *sql.DB.
func NewPostgresListRepository(db *sql.DB) *PostgresListRepository {
	return &PostgresListRepository{DB: db}
}

// Create inserts a new packing list for the owner and returns its id.
// tripDate may be nil for lists without a date.
func (r *PostgresListRepository) Create(ctx context.Context, ownerID int64, title, description string, tripDate *string) (int64, error) {
	var id int64
	err := r.DB.QueryRowContext(ctx, `
		INSERT INTO packing_lists (user_id, title, description, trip_date)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, ownerID, title, description, tripDate).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("Create list: %w", err)
	}
	return id, nil
}

// Update rewrites title, description and trip date of a list in a single
// conditional statement. Zero affected rows means the list does not exist
// for this owner and maps to apperr.ErrNotFound. An update that writes the
// same values still counts as a matched row.
func (r *PostgresListRepository) Update(ctx context.Context, listID, ownerID int64, title, description string, tripDate *string) error {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE packing_lists
		SET title = $3, description = $4, trip_date = $5, updated_at = now()
		WHERE id = $1 AND user_id = $2
	`, listID, ownerID, title, description, tripDate)
	if err != nil {
		return fmt.Errorf("Update list: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("Update list rows affected: %w", err)
	}
	if affected == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// Delete removes a list owned by ownerID. Child items go with it through the
// ON DELETE CASCADE foreign key, so the whole removal is one atomic
// statement.
func (r *PostgresListRepository) Delete(ctx context.Context, listID, ownerID int64) error {
	res, err := r.DB.ExecContext(ctx, `
		DELETE FROM packing_lists WHERE id = $1 AND user_id = $2
	`, listID, ownerID)
	if err != nil {
		return fmt.Errorf("Delete list: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("Delete list rows affected: %w", err)
	}
	if affected == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// Get fetches a single list with its item counts. The LEFT JOIN keeps lists
// without items, yielding zero counts instead of no row.
func (r *PostgresListRepository) Get(ctx context.Context, listID, ownerID int64) (*models.ListWithCounts, error) {
	row := r.DB.QueryRowContext(ctx, `
		SELECT pl.id, pl.user_id, pl.title, pl.description, pl.trip_date,
		       pl.created_at, pl.updated_at,
		       COUNT(i.id) AS total_items,
		       COUNT(i.id) FILTER (WHERE i.is_packed) AS packed_items
		FROM packing_lists pl
		LEFT JOIN items i ON i.packing_list_id = pl.id
		WHERE pl.id = $1 AND pl.user_id = $2
		GROUP BY pl.id
	`, listID, ownerID)

	lc, err := scanListWithCounts(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("Get list: %w", err)
	}
	return lc, nil
}

// ListAllForUser fetches every list of the owner with item counts, most
// recently created first.
func (r *PostgresListRepository) ListAllForUser(ctx context.Context, ownerID int64) ([]models.ListWithCounts, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT pl.id, pl.user_id, pl.title, pl.description, pl.trip_date,
		       pl.created_at, pl.updated_at,
		       COUNT(i.id) AS total_items,
		       COUNT(i.id) FILTER (WHERE i.is_packed) AS packed_items
		FROM packing_lists pl
		LEFT JOIN items i ON i.packing_list_id = pl.id
		WHERE pl.user_id = $1
		GROUP BY pl.id
		ORDER BY pl.created_at DESC
	`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("ListAllForUser: %w", err)
	}
	defer rows.Close()

	var lists []models.ListWithCounts
	for rows.Next() {
		lc, err := scanListWithCounts(rows)
		if err != nil {
			return nil, fmt.Errorf("ListAllForUser scan: %w", err)
		}
		lists = append(lists, *lc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListAllForUser rows: %w", err)
	}
	return lists, nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanListWithCounts(row rowScanner) (*models.ListWithCounts, error) {
	var (
		lc       models.ListWithCounts
		tripDate sql.NullTime
	)
	err := row.Scan(
		&lc.ID, &lc.UserID, &lc.Title, &lc.Description, &tripDate,
		&lc.CreatedAt, &lc.UpdatedAt,
		&lc.TotalItems, &lc.PackedItems,
	)
	if err != nil {
		return nil, err
	}
	if tripDate.Valid {
		d := tripDate.Time.Format(dateFormat)
		lc.TripDate = &d
	}
	return &lc, nil
}
