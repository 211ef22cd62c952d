package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/packlist/packlist/internal/models"
)

// PostgresCategoryRepository implements the read-only category catalog.
type PostgresCategoryRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresCategoryRepository creates a new PostgresCategoryRepository
// using the provided *sql.DB.
func NewPostgresCategoryRepository(db *sql.DB) *PostgresCategoryRepository {
	return &PostgresCategoryRepository{DB: db}
}

// List fetches every category ordered by name.
func (r *PostgresCategoryRepository) List(ctx context.Context) ([]models.Category, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, name FROM categories ORDER BY name ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("List categories: %w", err)
	}
	defer rows.Close()

	var categories []models.Category
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("List categories scan: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("List categories rows: %w", err)
	}
	return categories, nil
}
