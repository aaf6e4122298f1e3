// Copyright (c) 2026 Parley. All rights reserved.
// Author: dev@parleyhq.io

package session_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parleyhq/parley/internal/identity"
	"github.com/parleyhq/parley/internal/platform/sec"
	"github.com/parleyhq/parley/internal/session"
)

// fakeIdentityStore satisfies identity.Store with canned answers.
type fakeIdentityStore struct {
	timestamp     int64
	timestampErr  error
	profile       map[string]string
	profileErr    error
	roles         []string
	rolesErr      error
	moderating    []string
	moderatingErr error
}

func (s *fakeIdentityStore) SessionTimestamp(_ context.Context, _, _ string) (int64, error) {
	return s.timestamp, s.timestampErr
}

func (s *fakeIdentityStore) UserProfile(_ context.Context, _ string) (map[string]string, error) {
	return s.profile, s.profileErr
}

func (s *fakeIdentityStore) RoleSet(_ context.Context, _ string) ([]string, error) {
	return s.roles, s.rolesErr
}

func (s *fakeIdentityStore) ModerationSet(_ context.Context, _ string) ([]string, error) {
	return s.moderating, s.moderatingErr
}

func claims(userID, sessionID string, timestamp int64) *sec.SessionClaims {
	return &sec.SessionClaims{UserID: userID, SessionID: sessionID, Timestamp: timestamp}
}

/*
TestValidator_Validate_Live tests the happy path: a live session produces a
fully populated credential.
*/
func TestValidator_Validate_Live(t *testing.T) {
	store := &fakeIdentityStore{
		timestamp:  1756600000123,
		profile:    map[string]string{"username": "ada", "avatar": "a.png"},
		roles:      []string{"administrator"},
		moderating: []string{"board-1"},
	}
	validator := session.NewValidator(store)

	credential, err := validator.Validate(context.Background(), claims("u1", "s1", 1756600000123))
	require.NoError(t, err)

	assert.Equal(t, "u1", credential.UserID)
	assert.Equal(t, "s1", credential.SessionID)
	assert.Equal(t, "ada", credential.Username)
	assert.Equal(t, "a.png", credential.Avatar)
	assert.True(t, credential.IsAdmin())
	assert.True(t, credential.Moderates("board-1"))
	assert.False(t, credential.Moderates("board-2"))
	assert.True(t, credential.ModeratesAnything())
}

/*
TestValidator_Validate_UniformRejection tests that every liveness failure
produces the exact same error value. A caller holding a stale token must
not be able to tell logout, re-login elsewhere, account deletion, and a
store outage apart.
*/
func TestValidator_Validate_UniformRejection(t *testing.T) {
	tests := []struct {
		name  string
		store *fakeIdentityStore
	}{
		{
			name: "session_key_absent",
			store: &fakeIdentityStore{
				timestampErr: identity.ErrNotFound,
			},
		},
		{
			name: "session_store_unreachable",
			store: &fakeIdentityStore{
				timestampErr: errors.New("connection refused"),
			},
		},
		{
			name: "timestamp_rotated_by_relogin",
			store: &fakeIdentityStore{
				timestamp: 1756600999999, // newer than the token's
				profile:   map[string]string{"username": "ada"},
			},
		},
		{
			name: "profile_mirror_vanished",
			store: &fakeIdentityStore{
				timestamp:  1756600000123,
				profileErr: identity.ErrNotFound,
			},
		},
		{
			name: "role_read_failed",
			store: &fakeIdentityStore{
				timestamp: 1756600000123,
				profile:   map[string]string{"username": "ada"},
				rolesErr:  errors.New("connection refused"),
			},
		},
		{
			name: "moderation_read_failed",
			store: &fakeIdentityStore{
				timestamp:     1756600000123,
				profile:       map[string]string{"username": "ada"},
				moderatingErr: errors.New("connection refused"),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			validator := session.NewValidator(tt.store)

			credential, err := validator.Validate(context.Background(), claims("u1", "s1", 1756600000123))

			assert.Nil(t, credential)
			// Identical error value, not merely the same kind.
			assert.Equal(t, session.ErrSessionInvalid, err)
		})
	}
}

/*
TestValidator_Validate_ExactEquality tests that the timestamp comparison is
exact equality, not ordering: even a token timestamp NEWER than the stored
one is rejected.
*/
func TestValidator_Validate_ExactEquality(t *testing.T) {
	store := &fakeIdentityStore{
		timestamp: 1756600000123,
		profile:   map[string]string{"username": "ada"},
	}
	validator := session.NewValidator(store)

	_, err := validator.Validate(context.Background(), claims("u1", "s1", 1756600000124))
	assert.Equal(t, session.ErrSessionInvalid, err)
}

/*
TestCredential_NilSafety tests that every accessor answers the anonymous
(nil) credential without panicking.
*/
func TestCredential_NilSafety(t *testing.T) {
	var anonymous *session.Credential

	assert.False(t, anonymous.IsAdmin())
	assert.False(t, anonymous.HasRole("member"))
	assert.False(t, anonymous.Moderates("board-1"))
	assert.False(t, anonymous.ModeratesAnything())
	assert.Nil(t, anonymous.Roles())
	assert.Nil(t, anonymous.Moderating())
}

/*
TestCredential_EmptyBoardID tests that an empty board id never matches a
moderation grant.
*/
func TestCredential_EmptyBoardID(t *testing.T) {
	credential := session.NewCredential("u1", "s1", "ada", "", nil, []string{"board-1"})

	assert.False(t, credential.Moderates(""))
	assert.True(t, credential.Moderates("board-1"))
}
