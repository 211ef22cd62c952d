// Package repository provides PostgreSQL persistence for users, packing
// lists, items and categories. Every query that touches user-owned data
// carries the owner in its WHERE clause, so an ownership failure and a
// missing row are indistinguishable by construction.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/packlist/packlist/internal/apperr"
	"github.com/packlist/packlist/internal/models"
)

// PostgresUserRepository implements user persistence against PostgreSQL.
type PostgresUserRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresUserRepository creates a new PostgresUserRepository with the
// given database connection.
func NewPostgresUserRepository(db *sql.DB) *PostgresUserRepository {
	return &PostgresUserRepository{DB: db}
}

// UsernameExists reports whether a user with the given username exists.
func (r *PostgresUserRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := r.DB.QueryRowContext(
		ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)`,
		username,
	).Scan(&exists)
	return exists, err
}

// EmailExists reports whether a user with the given email exists.
func (r *PostgresUserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.DB.QueryRowContext(
		ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`,
		email,
	).Scan(&exists)
	return exists, err
}

// CreateUser inserts a new user and returns its id. A unique-constraint
// violation is translated to the matching duplicate error, which covers the
// race between the existence pre-checks and the insert.
func (r *PostgresUserRepository) CreateUser(ctx context.Context, username, email, passwordHash string) (int64, error) {
	var id int64
	err := r.DB.QueryRowContext(
		ctx,
		`INSERT INTO users (username, email, password_hash) VALUES ($1, $2, $3) RETURNING id`,
		username, email, passwordHash,
	).Scan(&id)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			switch pqErr.Constraint {
			case "users_username_key":
				return 0, apperr.ErrDuplicateUsername
			case "users_email_key":
				return 0, apperr.ErrDuplicateEmail
			}
		}
		return 0, fmt.Errorf("CreateUser: %w", err)
	}
	return id, nil
}

// FindByIdentifier fetches a user whose username or email matches the given
// identifier. Returns apperr.ErrNotFound when no user matches.
func (r *PostgresUserRepository) FindByIdentifier(ctx context.Context, identifier string) (*models.User, error) {
	var u models.User
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, username, email, password_hash, created_at
		FROM users WHERE username = $1 OR email = $1
	`, identifier).Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("FindByIdentifier: %w", err)
	}
	return &u, nil
}

// FindByID fetches a user by id. Returns apperr.ErrNotFound when absent.
func (r *PostgresUserRepository) FindByID(ctx context.Context, id int64) (*models.User, error) {
	var u models.User
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, username, email, password_hash, created_at
		FROM users WHERE id = $1
	`, id).Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("FindByID: %w", err)
	}
	return &u, nil
}
