// Copyright (c) 2026 Parley. All rights reserved.
// Author: dev@parleyhq.io

/*
Package identity provides read-only access to the fast identity store.

The identity store is a Redis mirror of everything the request pipeline needs
to know about a logged-in user: the live session timestamp, the display
profile, the role set, and the set of boards the user moderates. The mirror
is written at login time (see internal/users/auth) and read on every
authenticated request.

Architecture:

  - Store: The read-side contract consumed by the session validator.
  - RedisStore: The production implementation over go-redis.
  - Writes: NONE. This package never mutates the store; invalidation and
    refresh are the login/logout flow's responsibility.
*/
package identity

import (
	"context"
	"errors"
)

// ErrNotFound reports that the requested identity record does not exist.
//
// Callers must not distinguish the missing-record case from other failures
// in anything user-observable; the session validator collapses both into
// the same uniform rejection.
var ErrNotFound = errors.New("identity: record not found")

// Store defines the read-only identity lookups used during request
// authentication.
type Store interface {

	/*
		SessionTimestamp returns the random-epoch timestamp stored for the
		given session.

		Parameters:
		  - ctx: context.Context
		  - userID: string
		  - sessionID: string

		Returns:
		  - int64: The stored timestamp in epoch milliseconds
		  - error: ErrNotFound when the session key is absent, or connectivity errors
	*/
	SessionTimestamp(ctx context.Context, userID, sessionID string) (int64, error)

	/*
		UserProfile returns the display profile hash for the user.

		Parameters:
		  - ctx: context.Context
		  - userID: string

		Returns:
		  - map[string]string: Field map (username, avatar, ...)
		  - error: ErrNotFound when the hash is absent, or connectivity errors
	*/
	UserProfile(ctx context.Context, userID string) (map[string]string, error)

	/*
		RoleSet returns the set of role names granted to the user.

		Parameters:
		  - ctx: context.Context
		  - userID: string

		Returns:
		  - []string: Unique, unordered role names (empty for no roles)
		  - error: Connectivity errors
	*/
	RoleSet(ctx context.Context, userID string) ([]string, error)

	/*
		ModerationSet returns the set of board ids the user moderates.

		Parameters:
		  - ctx: context.Context
		  - userID: string

		Returns:
		  - []string: Unique, unordered board ids (empty for none)
		  - error: Connectivity errors
	*/
	ModerationSet(ctx context.Context, userID string) ([]string, error)
}
