// Copyright (c) 2026 Parley. All rights reserved.
// Author: dev@parleyhq.io

package views_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parleyhq/parley/internal/views"
)

func newTestClient(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()

	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return client, server
}

/*
TestRedisStore_RecordAndLastCounted tests the dedup entry round trip at
millisecond resolution.
*/
func TestRedisStore_RecordAndLastCounted(t *testing.T) {
	client, _ := newTestClient(t)
	store := views.NewRedisStore(client)
	ctx := context.Background()

	at := time.Date(2026, 8, 1, 12, 0, 0, 500*int(time.Millisecond), time.UTC)
	require.NoError(t, store.Record(ctx, "viewer-1thread-1", at))

	stored, tracked, err := store.LastCounted(ctx, "viewer-1thread-1")
	require.NoError(t, err)
	assert.True(t, tracked)
	assert.True(t, stored.Equal(at))
}

/*
TestRedisStore_AbsentKey tests that an unseen key reports untracked with no
error.
*/
func TestRedisStore_AbsentKey(t *testing.T) {
	client, _ := newTestClient(t)
	store := views.NewRedisStore(client)

	_, tracked, err := store.LastCounted(context.Background(), "never-seen")
	require.NoError(t, err)
	assert.False(t, tracked)
}

/*
TestRedisStore_EntryExpiry tests that entries carry the store-level TTL and
vanish after it elapses.
*/
func TestRedisStore_EntryExpiry(t *testing.T) {
	client, server := newTestClient(t)
	store := views.NewRedisStore(client)
	ctx := context.Background()

	require.NoError(t, store.Record(ctx, "viewer-1thread-1", time.Now()))
	require.True(t, server.Exists("views:seen:viewer-1thread-1"))

	server.FastForward(31 * time.Minute)

	_, tracked, err := store.LastCounted(ctx, "viewer-1thread-1")
	require.NoError(t, err)
	assert.False(t, tracked)
}

/*
TestRedisStore_CorruptValue tests that an unparsable entry is treated as
absent so the caller rewrites it.
*/
func TestRedisStore_CorruptValue(t *testing.T) {
	client, server := newTestClient(t)
	store := views.NewRedisStore(client)

	server.Set("views:seen:viewer-1thread-1", "garbage")

	_, tracked, err := store.LastCounted(context.Background(), "viewer-1thread-1")
	require.NoError(t, err)
	assert.False(t, tracked)
}

/*
TestRedisHistory_RoundTrip tests the per-user view history hash: upserts
replace older timestamps and reads skip corrupt fields.
*/
func TestRedisHistory_RoundTrip(t *testing.T) {
	client, server := newTestClient(t)
	history := views.NewRedisHistory(client)
	ctx := context.Background()

	first := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	second := first.Add(2 * time.Hour)

	require.NoError(t, history.RecordThreadView(ctx, "u1", "thread-1", first))
	require.NoError(t, history.RecordThreadView(ctx, "u1", "thread-2", first))
	require.NoError(t, history.RecordThreadView(ctx, "u1", "thread-1", second))

	// A corrupt field must not fail the whole read.
	server.HSet("user:u1:thread_views", "thread-broken", "garbage")

	viewed, err := history.ThreadViews(ctx, "u1")
	require.NoError(t, err)

	require.Len(t, viewed, 2)
	assert.True(t, viewed["thread-1"].Equal(second))
	assert.True(t, viewed["thread-2"].Equal(first))
}

/*
TestRedisHistory_EmptyUser tests that a user with no history reads as an
empty map.
*/
func TestRedisHistory_EmptyUser(t *testing.T) {
	client, _ := newTestClient(t)
	history := views.NewRedisHistory(client)

	viewed, err := history.ThreadViews(context.Background(), "ghost")
	require.NoError(t, err)
	assert.Empty(t, viewed)
}
