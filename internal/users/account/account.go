// Copyright (c) 2026 Parley. All rights reserved.
// Author: dev@parleyhq.io

/*
Package account handles member profile management and account lifecycle.

It provides functionalities for users to view and update their own profile,
change their password, and close their account. Profile edits are pushed
into the Redis identity mirror so open sessions observe them without a
re-login; closing an account removes the mirror entirely, which kills every
live session at once.

# Architecture

  - Entities: This package depends on the auth package for the User entity.
  - AccountRepository: Postgres persistence for the mutable profile subset.
  - Service: Orchestrates profile, password, and deletion flows.
*/
package account

import (
	"context"

	"github.com/parleyhq/parley/internal/users/auth"
)

// # Field Identifiers

const (
	FieldAvatarURL       = "avatar_url"
	FieldCurrentPassword = "current_password"
	FieldNewPassword     = "new_password"
)

// # Repository Contracts

// AccountRepository defines the persistence contract for profile management.
type AccountRepository interface {
	/*
		FindByID retrieves a user record by their unique ID.

		Parameters:
		  - ctx: context.Context
		  - id: string (UUID)

		Returns:
		  - *auth.User: Loaded account entity
		  - error: apperr.NotFound or storage failures
	*/
	FindByID(ctx context.Context, id string) (*auth.User, error)

	/*
		UpdateProfile syncs the mutable profile fields of an existing user.

		Parameters:
		  - ctx: context.Context
		  - user: *auth.User (Hydrated entity with changes)

		Returns:
		  - error: Storage or constraint failures
	*/
	UpdateProfile(ctx context.Context, user *auth.User) error

	/*
		UpdatePassword replaces the stored password hash for a user.

		Parameters:
		  - ctx: context.Context
		  - userID: string
		  - passwordHash: string (bcrypt hash, never plain text)

		Returns:
		  - error: Execution failures
	*/
	UpdatePassword(ctx context.Context, userID, passwordHash string) error

	/*
		SoftDelete flags an account as logically deleted.

		Parameters:
		  - ctx: context.Context
		  - id: string

		Returns:
		  - error: Execution failures
	*/
	SoftDelete(ctx context.Context, id string) error
}
