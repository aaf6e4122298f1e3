// Copyright (c) 2026 Parley. All rights reserved.
// Author: dev@parleyhq.io

package auth

import (
	"context"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/parleyhq/parley/internal/platform/constants"
	"github.com/parleyhq/parley/pkg/slice"
)

// identityMirror implements [IdentityMirror] over a Redis client.
//
// Key shapes match what the session validator reads:
//
//	user:<id>                      profile hash (username, avatar)
//	user:<id>:session:<sid>        session timestamp (epoch millis, string)
//	user:<id>:roles                role name set
//	user:<id>:moderating           moderated board id set
type identityMirror struct {
	client *redis.Client
}

// NewIdentityMirror constructs a Redis backed identity mirror.
func NewIdentityMirror(client *redis.Client) IdentityMirror {
	return &identityMirror{client: client}
}

/*
WriteSession stores the session timestamp under the user's session key.

Description: The timestamp is written as a decimal string and compared for
exact equality during validation, so a re-login overwriting the same
session id invalidates tokens minted before it. The key carries no TTL;
only logout or supersession removes it.

Parameters:
  - ctx: context.Context
  - userID: string
  - sessionID: string
  - timestamp: int64 (epoch milliseconds baked into the session token)

Returns:
  - error: Connectivity errors
*/
func (mirror *identityMirror) WriteSession(ctx context.Context, userID, sessionID string, timestamp int64) error {
	key := constants.RedisPrefixUser + userID + constants.RedisSuffixSession + sessionID

	if err := mirror.client.Set(ctx, key, strconv.FormatInt(timestamp, 10), 0).Err(); err != nil {
		return fmt.Errorf("auth: session mirror write failed: %w", err)
	}
	return nil
}

/*
WriteIdentity stores the profile hash, role set, and moderated board set.

Description: All three structures are replaced wholesale inside one
pipeline; the old sets are deleted first so revoked grants do not linger.

Parameters:
  - ctx: context.Context
  - userID: string
  - profile: map[string]string (username, avatar)
  - roles: []string (role names, possibly empty)
  - moderating: []string (board ids, possibly empty)

Returns:
  - error: Connectivity errors
*/
func (mirror *identityMirror) WriteIdentity(ctx context.Context, userID string, profile map[string]string, roles, moderating []string) error {
	profileKey := constants.RedisPrefixUser + userID
	rolesKey := profileKey + constants.RedisSuffixRoles
	moderatingKey := profileKey + constants.RedisSuffixModerating

	pipeline := mirror.client.TxPipeline()
	pipeline.HSet(ctx, profileKey, profile)
	pipeline.Del(ctx, rolesKey, moderatingKey)
	if len(roles) > 0 {
		pipeline.SAdd(ctx, rolesKey, slice.Map(roles, func(role string) interface{} { return role })...)
	}
	if len(moderating) > 0 {
		pipeline.SAdd(ctx, moderatingKey, slice.Map(moderating, func(boardID string) interface{} { return boardID })...)
	}

	if _, err := pipeline.Exec(ctx); err != nil {
		return fmt.Errorf("auth: identity mirror write failed: %w", err)
	}
	return nil
}

/*
DeleteSession removes one session key.

Every token minted against that session fails validation from this point
on, regardless of its JWT expiry.

Parameters:
  - ctx: context.Context
  - userID: string
  - sessionID: string

Returns:
  - error: Connectivity errors
*/
func (mirror *identityMirror) DeleteSession(ctx context.Context, userID, sessionID string) error {
	key := constants.RedisPrefixUser + userID + constants.RedisSuffixSession + sessionID

	if err := mirror.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("auth: session mirror delete failed: %w", err)
	}
	return nil
}

/*
UpdateProfile patches fields of the user's profile hash.

Description: Only the supplied fields are touched; the hash keeps its
other entries. This keeps profile edits visible to open sessions without
forcing a re-login.

Parameters:
  - ctx: context.Context
  - userID: string
  - profile: map[string]string (fields to overwrite)

Returns:
  - error: Connectivity errors
*/
func (mirror *identityMirror) UpdateProfile(ctx context.Context, userID string, profile map[string]string) error {
	if len(profile) == 0 {
		return nil
	}

	key := constants.RedisPrefixUser + userID
	if err := mirror.client.HSet(ctx, key, profile).Err(); err != nil {
		return fmt.Errorf("auth: profile mirror update failed: %w", err)
	}
	return nil
}

/*
DeleteIdentity removes every mirror key belonging to a user.

Description: Sweeps "user:<id>" and everything under "user:<id>:*" with
SCAN, which covers the profile hash, the role and moderation sets, the
view history hash, and every live session key. Once the session keys are
gone, all of the user's tokens fail validation.

Parameters:
  - ctx: context.Context
  - userID: string

Returns:
  - error: Connectivity errors
*/
func (mirror *identityMirror) DeleteIdentity(ctx context.Context, userID string) error {
	base := constants.RedisPrefixUser + userID

	keys := []string{base}
	iterator := mirror.client.Scan(ctx, 0, base+":*", 0).Iterator()
	for iterator.Next(ctx) {
		keys = append(keys, iterator.Val())
	}
	if err := iterator.Err(); err != nil {
		return fmt.Errorf("auth: identity mirror scan failed: %w", err)
	}

	if err := mirror.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("auth: identity mirror delete failed: %w", err)
	}
	return nil
}
