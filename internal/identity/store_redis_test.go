// Copyright (c) 2026 Parley. All rights reserved.
// Author: dev@parleyhq.io

package identity_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parleyhq/parley/internal/identity"
)

// newTestStore spins up an in-process Redis and a store wired to it.
func newTestStore(t *testing.T) (*identity.RedisStore, *miniredis.Miniredis) {
	t.Helper()

	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return identity.NewRedisStore(client), server
}

/*
TestRedisStore_SessionTimestamp covers the session key read paths.
*/
func TestRedisStore_SessionTimestamp(t *testing.T) {
	store, server := newTestStore(t)
	ctx := context.Background()

	t.Run("present", func(t *testing.T) {
		server.Set("user:u1:session:s1", "1756600000123")

		timestamp, err := store.SessionTimestamp(ctx, "u1", "s1")
		require.NoError(t, err)
		assert.Equal(t, int64(1756600000123), timestamp)
	})

	t.Run("absent", func(t *testing.T) {
		_, err := store.SessionTimestamp(ctx, "u1", "never-seen")
		assert.ErrorIs(t, err, identity.ErrNotFound)
	})

	t.Run("malformed_value", func(t *testing.T) {
		server.Set("user:u1:session:s2", "not-a-number")

		_, err := store.SessionTimestamp(ctx, "u1", "s2")
		require.Error(t, err)
		assert.NotErrorIs(t, err, identity.ErrNotFound)
	})
}

/*
TestRedisStore_UserProfile covers the profile hash read paths.
*/
func TestRedisStore_UserProfile(t *testing.T) {
	store, server := newTestStore(t)
	ctx := context.Background()

	t.Run("present", func(t *testing.T) {
		server.HSet("user:u1", "username", "ada")
		server.HSet("user:u1", "avatar", "https://cdn.parleyhq.io/a/ada.png")

		profile, err := store.UserProfile(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, "ada", profile["username"])
		assert.Equal(t, "https://cdn.parleyhq.io/a/ada.png", profile["avatar"])
	})

	t.Run("absent", func(t *testing.T) {
		// HGETALL reports absence as an empty map, never redis.Nil.
		_, err := store.UserProfile(ctx, "ghost")
		assert.ErrorIs(t, err, identity.ErrNotFound)
	})
}

/*
TestRedisStore_Grants covers role and moderation set reads, including the
missing-key case, which is a valid empty answer rather than an error.
*/
func TestRedisStore_Grants(t *testing.T) {
	store, server := newTestStore(t)
	ctx := context.Background()

	t.Run("roles_present", func(t *testing.T) {
		server.SAdd("user:u1:roles", "administrator", "member")

		roles, err := store.RoleSet(ctx, "u1")
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"administrator", "member"}, roles)
	})

	t.Run("roles_absent_is_empty", func(t *testing.T) {
		roles, err := store.RoleSet(ctx, "plain-member")
		require.NoError(t, err)
		assert.Empty(t, roles)
	})

	t.Run("moderation_present", func(t *testing.T) {
		server.SAdd("user:u1:moderating", "board-1", "board-2")

		boards, err := store.ModerationSet(ctx, "u1")
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"board-1", "board-2"}, boards)
	})

	t.Run("moderation_absent_is_empty", func(t *testing.T) {
		boards, err := store.ModerationSet(ctx, "plain-member")
		require.NoError(t, err)
		assert.Empty(t, boards)
	})
}
