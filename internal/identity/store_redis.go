// Copyright (c) 2026 Parley. All rights reserved.
// Author: dev@parleyhq.io

package identity

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/parleyhq/parley/internal/platform/constants"
)

// RedisStore implements [Store] over a Redis client.
//
// # Key shapes
//
//	user:<id>                      profile hash (username, avatar)
//	user:<id>:session:<sid>        session timestamp (epoch millis, string)
//	user:<id>:roles                role name set
//	user:<id>:moderating           moderated board id set
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a new Redis-backed identity [Store].
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

/*
SessionTimestamp retrieves the stored timestamp for a session key.

Description: Returns ErrNotFound when the session key is absent — a session
is absent either because it never existed or because logout/re-login
removed or superseded it; the read side does not care which.

Parameters:
  - ctx: context.Context
  - userID: string
  - sessionID: string

Returns:
  - int64: Stored epoch milliseconds
  - error: ErrNotFound or connectivity errors
*/
func (store *RedisStore) SessionTimestamp(ctx context.Context, userID, sessionID string) (int64, error) {

	// Compose the session key
	key := constants.RedisPrefixUser + userID + constants.RedisSuffixSession + sessionID

	// Fetch the raw timestamp value
	raw, err := store.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, ErrNotFound
		}
		return 0, fmt.Errorf("identity: session lookup failed: %w", err)
	}

	// The value is written as a decimal string by the login flow
	timestamp, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("identity: malformed session timestamp %q: %w", raw, err)
	}

	return timestamp, nil
}

/*
UserProfile retrieves the display profile hash for a user.

Description: Returns ErrNotFound for an empty hash (HGETALL reports absence
as an empty map, never redis.Nil).

Parameters:
  - ctx: context.Context
  - userID: string

Returns:
  - map[string]string: Profile fields
  - error: ErrNotFound or connectivity errors
*/
func (store *RedisStore) UserProfile(ctx context.Context, userID string) (map[string]string, error) {

	// Compose the profile key
	key := constants.RedisPrefixUser + userID

	// Fetch the full hash
	profile, err := store.client.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("identity: profile lookup failed: %w", err)
	}

	// An empty hash means the user mirror was never written or has been evicted
	if len(profile) == 0 {
		return nil, ErrNotFound
	}

	return profile, nil
}

/*
RoleSet retrieves the role names granted to a user.

Parameters:
  - ctx: context.Context
  - userID: string

Returns:
  - []string: Role names (possibly empty)
  - error: Connectivity errors
*/
func (store *RedisStore) RoleSet(ctx context.Context, userID string) ([]string, error) {

	// Compose the role set key
	key := constants.RedisPrefixUser + userID + constants.RedisSuffixRoles

	// SMEMBERS returns an empty slice for a missing key, which is a valid
	// answer here: a user with no explicit roles is simply a member.
	roles, err := store.client.SMembers(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("identity: role lookup failed: %w", err)
	}

	return roles, nil
}

/*
ModerationSet retrieves the board ids the user moderates.

Parameters:
  - ctx: context.Context
  - userID: string

Returns:
  - []string: Board ids (possibly empty)
  - error: Connectivity errors
*/
func (store *RedisStore) ModerationSet(ctx context.Context, userID string) ([]string, error) {

	// Compose the moderation set key
	key := constants.RedisPrefixUser + userID + constants.RedisSuffixModerating

	// Missing key means the user moderates nothing
	boards, err := store.client.SMembers(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("identity: moderation lookup failed: %w", err)
	}

	return boards, nil
}
