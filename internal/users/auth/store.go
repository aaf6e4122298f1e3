// Copyright (c) 2026 Parley. All rights reserved.
// Author: dev@parleyhq.io

package auth

import "context"

// # Data Access Contracts

// UserRepository defines the PostgreSQL data access contract for accounts.
type UserRepository interface {
	// FindByID returns the user with the given ID.
	// It returns apperr.NotFound if the user is absent or soft-deleted.
	FindByID(ctx context.Context, id string) (*User, error)

	// FindByEmail returns the user with the given email address.
	FindByEmail(ctx context.Context, email string) (*User, error)

	// FindByUsername returns the user with the given username.
	FindByUsername(ctx context.Context, username string) (*User, error)

	// Create persists a new user account.
	Create(ctx context.Context, user *User) error

	// Roles returns the role names granted to a user.
	Roles(ctx context.Context, userID string) ([]string, error)

	// Moderating returns the board ids the user moderates.
	Moderating(ctx context.Context, userID string) ([]string, error)
}

// IdentityMirror defines the Redis write contract for the identity data the
// session validator reads on every authenticated request.
//
// # Consistency
//
// Postgres is the system of record; the mirror is a login-time projection.
// Role or moderator changes take effect on a user's next login, when the
// mirror is rewritten from the database.
type IdentityMirror interface {
	// WriteSession stores the session timestamp under the user's session key.
	WriteSession(ctx context.Context, userID, sessionID string, timestamp int64) error

	// WriteIdentity stores the user's profile hash, role set, and moderated
	// board set in one round trip.
	WriteIdentity(ctx context.Context, userID string, profile map[string]string, roles, moderating []string) error

	// DeleteSession removes one session key, invalidating the tokens bound
	// to it.
	DeleteSession(ctx context.Context, userID, sessionID string) error

	// UpdateProfile patches fields of the user's profile hash so open
	// sessions see profile edits without a re-login.
	UpdateProfile(ctx context.Context, userID string, profile map[string]string) error

	// DeleteIdentity removes every mirror key belonging to a user: the
	// profile hash, grant sets, view history, and all session keys.
	DeleteIdentity(ctx context.Context, userID string) error
}
