// Copyright (c) 2026 Parley. All rights reserved.
// Author: dev@parleyhq.io

package views

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/parleyhq/parley/internal/platform/constants"
)

// RedisStore implements [Store] on Redis string keys with a store-level TTL.
//
// Entries are transient by design: the TTL is the eviction horizon promised
// by the dedup contract, and an evicted entry merely lets one extra view
// count.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore creates a Redis-backed dedup [Store] with the default entry TTL.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client, ttl: constants.ViewKeyTTL}
}

/*
LastCounted retrieves the last-counted timestamp for a dedup key.

Parameters:
  - ctx: context.Context
  - key: string

Returns:
  - time.Time: Stored timestamp (epoch millis resolution)
  - bool: Presence
  - error: Connectivity errors
*/
func (store *RedisStore) LastCounted(ctx context.Context, key string) (time.Time, bool, error) {

	// Namespaced key keeps dedup entries apart from session/identity data
	raw, err := store.client.Get(ctx, constants.RedisPrefixViewSeen+key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return time.Time{}, false, nil
		}
		return time.Time{}, false, fmt.Errorf("views: dedup read failed: %w", err)
	}

	millis, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		// A corrupt value is as good as absent; the caller will rewrite it.
		return time.Time{}, false, nil
	}

	return time.UnixMilli(millis), true, nil
}

/*
Record stores or refreshes the last-counted timestamp for a dedup key.

Description: Plain SET with TTL — last writer wins. Concurrent re-views
racing to refresh the same key is an accepted benign race (worst case one
extra counted view).

Parameters:
  - ctx: context.Context
  - key: string
  - at: time.Time

Returns:
  - error: Connectivity errors
*/
func (store *RedisStore) Record(ctx context.Context, key string, at time.Time) error {
	value := strconv.FormatInt(at.UnixMilli(), 10)
	if err := store.client.Set(ctx, constants.RedisPrefixViewSeen+key, value, store.ttl).Err(); err != nil {
		return fmt.Errorf("views: dedup write failed: %w", err)
	}
	return nil
}
