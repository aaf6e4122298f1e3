// Copyright (c) 2026 Parley. All rights reserved.
// Author: dev@parleyhq.io

package account

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/parleyhq/parley/internal/platform/apperr"
	"github.com/parleyhq/parley/internal/platform/database/schema"
	"github.com/parleyhq/parley/internal/users/auth"
)

// accountRepository implements the [AccountRepository] interface using pgx.
type accountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository constructs a PostgreSQL backed account store.
func NewAccountRepository(pool *pgxpool.Pool) AccountRepository {
	return &accountRepository{pool: pool}
}

// # Account Repository Implementation

// FindByID retrieves a user record from the users.account table.
func (repository *accountRepository) FindByID(ctx context.Context, id string) (*auth.User, error) {

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
		schema.UserAccount.ID,
		schema.UserAccount.DeletedAt,
	)

	user := &auth.User{}
	err := repository.pool.QueryRow(ctx, query, id).Scan(
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
		return nil, fmt.Errorf("postgres: failed to find account: %w", err)
	}

	return user, nil
}

/*
UpdateProfile syncs the mutable profile fields of a user.

Description: This method specifically writes the DisplayName and AvatarURL
fields, while refreshing the updatedat timestamp.

Parameters:
  - ctx: context.Context
  - user: *auth.User

Returns:
  - error: apperr.NotFound if the account is gone, or update failures
*/
func (repository *accountRepository) UpdateProfile(ctx context.Context, user *auth.User) error {

	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3, %s = NOW()
		WHERE %s = $1 AND %s IS NULL
	`,
		schema.UserAccount.Table,
		schema.UserAccount.DisplayName,
		schema.UserAccount.AvatarURL,
		schema.UserAccount.UpdatedAt,
		schema.UserAccount.ID,
		schema.UserAccount.DeletedAt,
	)

	tag, err := repository.pool.Exec(ctx, query, user.ID, user.DisplayName, user.AvatarURL)
	if err != nil {
		return fmt.Errorf("postgres: failed to update profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("user")
	}

	return nil
}

/*
UpdatePassword replaces the stored password hash for a user.

Parameters:
  - ctx: context.Context
  - userID: string
  - passwordHash: string

Returns:
  - error: apperr.NotFound if the account is gone, or update failures
*/
func (repository *accountRepository) UpdatePassword(ctx context.Context, userID, passwordHash string) error {

	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = NOW()
		WHERE %s = $1 AND %s IS NULL
	`,
		schema.UserAccount.Table,
		schema.UserAccount.Password,
		schema.UserAccount.UpdatedAt,
		schema.UserAccount.ID,
		schema.UserAccount.DeletedAt,
	)

	tag, err := repository.pool.Exec(ctx, query, userID, passwordHash)
	if err != nil {
		return fmt.Errorf("postgres: failed to update password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("user")
	}

	return nil
}

// SoftDelete flags a user account as logically destroyed.
func (repository *accountRepository) SoftDelete(ctx context.Context, id string) error {

	query := fmt.Sprintf(
		"UPDATE %s SET %s = NOW() WHERE %s = $1 AND %s IS NULL",
		schema.UserAccount.Table,
		schema.UserAccount.DeletedAt,
		schema.UserAccount.ID,
		schema.UserAccount.DeletedAt,
	)

	tag, err := repository.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("postgres: failed to delete account: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("user")
	}

	return nil
}
