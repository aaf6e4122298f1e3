// Copyright (c) 2026 Parley. All rights reserved.
// Author: dev@parleyhq.io

package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/parleyhq/parley/internal/platform/apperr"
	"github.com/parleyhq/parley/internal/platform/database/schema"
	"github.com/parleyhq/parley/internal/platform/dberr"
)

// userRepository implements the [UserRepository] interface using pgx.
type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository constructs a PostgreSQL backed user store.
func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &userRepository{pool: pool}
}

// # User Repository Implementation

// FindByID returns the user with the given ID.
func (repository *userRepository) FindByID(ctx context.Context, id string) (*User, error) {
	return repository.findBy(ctx, schema.UserAccount.ID, id)
}

// FindByEmail returns the user with the given email address.
func (repository *userRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	return repository.findBy(ctx, schema.UserAccount.Email, email)
}

// FindByUsername returns the user with the given username.
func (repository *userRepository) FindByUsername(ctx context.Context, username string) (*User, error) {
	return repository.findBy(ctx, schema.UserAccount.Username, username)
}

// findBy performs a single-row account lookup on one unique column.
func (repository *userRepository) findBy(ctx context.Context, column, value string) (*User, error) {

	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1 AND %s IS NULL
	`,
		schema.UserAccount.ID,
		schema.UserAccount.Username,
		schema.UserAccount.Email,
		schema.UserAccount.Password,
		schema.UserAccount.DisplayName,
		schema.UserAccount.AvatarURL,
		schema.UserAccount.CreatedAt,
		schema.UserAccount.UpdatedAt,
		schema.UserAccount.DeletedAt,
		schema.UserAccount.Table,
		column,
		schema.UserAccount.DeletedAt,
	)

	user := &User{}
	err := repository.pool.QueryRow(ctx, query, value).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.DisplayName,
		&user.AvatarURL,
		&user.CreatedAt,
		&user.UpdatedAt,
		&user.DeletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("user")
		}
		return nil, fmt.Errorf("postgres: failed to find user by %s: %w", column, err)
	}

	return user, nil
}

/*
Create persists a new user account.

Parameters:
  - ctx: context.Context
  - user: *User with ID, Username, Email and PasswordHash populated

Returns:
  - error: Execution failures
*/
func (repository *userRepository) Create(ctx context.Context, user *User) error {

	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6)
	`,
		schema.UserAccount.Table,
		schema.UserAccount.ID,
		schema.UserAccount.Username,
		schema.UserAccount.Email,
		schema.UserAccount.Password,
		schema.UserAccount.DisplayName,
		schema.UserAccount.AvatarURL,
	)

	_, err := repository.pool.Exec(ctx, query,
		user.ID,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.DisplayName,
		user.AvatarURL,
	)
	if err != nil {
		// Registration races past the service-level uniqueness checks land
		// here as unique violations and must answer Conflict, not 500.
		return dberr.Wrap(err, "User")
	}

	return nil
}

// Roles returns the role names granted to a user.
func (repository *userRepository) Roles(ctx context.Context, userID string) ([]string, error) {

	query := fmt.Sprintf(
		"SELECT %s FROM %s WHERE %s = $1",
		schema.UserRole.Role, schema.UserRole.Table, schema.UserRole.UserID,
	)

	return repository.collectStrings(ctx, query, userID, "roles")
}

// Moderating returns the board ids the user moderates.
func (repository *userRepository) Moderating(ctx context.Context, userID string) ([]string, error) {

	query := fmt.Sprintf(
		"SELECT %s FROM %s WHERE %s = $1",
		schema.ForumModerator.BoardID, schema.ForumModerator.Table, schema.ForumModerator.UserID,
	)

	return repository.collectStrings(ctx, query, userID, "moderated boards")
}

// collectStrings runs a single-column query and gathers the rows.
func (repository *userRepository) collectStrings(ctx context.Context, query, userID, what string) ([]string, error) {
	rows, err := repository.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to query %s: %w", what, err)
	}
	defer rows.Close()

	var values []string
	for rows.Next() {
		var value string
		if err := rows.Scan(&value); err != nil {
			return nil, fmt.Errorf("postgres: failed to scan %s: %w", what, err)
		}
		values = append(values, value)
	}

	return values, rows.Err()
}
