// Copyright (c) 2026 Parley. All rights reserved.
// Author: dev@parleyhq.io

package session

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/parleyhq/parley/internal/identity"
	"github.com/parleyhq/parley/internal/platform/apperr"
	"github.com/parleyhq/parley/internal/platform/constants"
	"github.com/parleyhq/parley/internal/platform/sec"
)

// ErrSessionInvalid is the single, uniform rejection for EVERY session
// liveness failure: missing session key, rotated timestamp, vanished user
// mirror, or an unreachable identity store.
//
// # Security
//
// The uniformity is deliberate. If the validator reported which sub-check
// failed, a caller holding a stale token could distinguish "I was logged
// out" from "my account was deleted" from "the store is down" and probe
// account state without authenticating. Callers must not wrap or replace
// this error with anything more specific.
var ErrSessionInvalid = apperr.Unauthorized(constants.SessionInvalidMessage)

// Validator checks session liveness and assembles request credentials.
//
// # Trust boundary
//
// Validate receives claims that are already signature-verified by
// [sec.TokenService]. It never re-verifies signatures; its sole job is the
// business-level question "is this session still live, and who is it?".
type Validator struct {
	store identity.Store
}

// NewValidator creates a [Validator] backed by the given identity store.
func NewValidator(store identity.Store) *Validator {
	return &Validator{store: store}
}

/*
Validate turns verified token claims into an immutable [Credential].

Description: The liveness check is an exact-equality comparison between the
token's embedded timestamp and the identity store's current timestamp for
the session. A mismatch (including an absent record) means the session was
invalidated — logged out, or superseded by a newer login that rotated the
timestamp. Profile, role set, and moderation set are then fetched
concurrently; they have no data dependency on each other.

Parameters:
  - ctx: context.Context
  - claims: *sec.SessionClaims (signature-verified upstream)

Returns:
  - *Credential: The assembled credential
  - error: ErrSessionInvalid on ANY failure, without discrimination
*/
func (validator *Validator) Validate(ctx context.Context, claims *sec.SessionClaims) (*Credential, error) {

	// 1. Session lookup. Absence and store failure are intentionally
	// indistinguishable in the returned error.
	storedTimestamp, err := validator.store.SessionTimestamp(ctx, claims.UserID, claims.SessionID)
	if err != nil {
		return nil, ErrSessionInvalid
	}

	// 2. Exact timestamp equality. A re-login mints a fresh timestamp under
	// the same user, so older tokens fail here.
	if storedTimestamp != claims.Timestamp {
		return nil, ErrSessionInvalid
	}

	// 3. Scatter-gather the independent identity reads.
	var (
		profile    map[string]string
		roles      []string
		moderating []string
	)

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		value, fetchErr := validator.store.UserProfile(groupCtx, claims.UserID)
		if fetchErr != nil {
			return fetchErr
		}
		profile = value
		return nil
	})
	group.Go(func() error {
		value, fetchErr := validator.store.RoleSet(groupCtx, claims.UserID)
		if fetchErr != nil {
			return fetchErr
		}
		roles = value
		return nil
	})
	group.Go(func() error {
		value, fetchErr := validator.store.ModerationSet(groupCtx, claims.UserID)
		if fetchErr != nil {
			return fetchErr
		}
		moderating = value
		return nil
	})

	if err := group.Wait(); err != nil {
		return nil, ErrSessionInvalid
	}

	// 4. Assemble the credential.
	return NewCredential(
		claims.UserID,
		claims.SessionID,
		profile["username"],
		profile["avatar"],
		roles,
		moderating,
	), nil
}
