// Copyright (c) 2026 Parley. All rights reserved.
// Author: dev@parleyhq.io

package views

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/parleyhq/parley/internal/platform/constants"
)

// History tracks, per signed-in user, when each thread was last viewed.
// Unlike the dedup cache this is a user-facing convenience (unread markers),
// not a counting control — entries live in a per-user hash and are only
// ever replaced with newer timestamps.
type History interface {

	/*
		ThreadViews returns the user's last-viewed timestamp per thread.

		Parameters:
		  - ctx: context.Context
		  - userID: string

		Returns:
		  - map[string]time.Time: threadID -> last viewed (empty map when none)
		  - error: Connectivity errors
	*/
	ThreadViews(ctx context.Context, userID string) (map[string]time.Time, error)

	/*
		RecordThreadView upserts the user's last-viewed timestamp for a thread.

		Parameters:
		  - ctx: context.Context
		  - userID: string
		  - threadID: string
		  - at: time.Time

		Returns:
		  - error: Connectivity errors
	*/
	RecordThreadView(ctx context.Context, userID, threadID string, at time.Time) error
}

// RedisHistory implements [History] on a per-user Redis hash:
// user:<id>:thread_views, field = thread id, value = epoch millis.
type RedisHistory struct {
	client *redis.Client
}

// NewRedisHistory creates a Redis-backed [History].
func NewRedisHistory(client *redis.Client) *RedisHistory {
	return &RedisHistory{client: client}
}

// ThreadViews implements [History].
func (history *RedisHistory) ThreadViews(ctx context.Context, userID string) (map[string]time.Time, error) {
	key := constants.RedisPrefixUser + userID + constants.RedisSuffixThreadViews

	fields, err := history.client.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("views: thread view history read failed: %w", err)
	}

	viewTimes := make(map[string]time.Time, len(fields))
	for threadID, raw := range fields {
		millis, parseErr := strconv.ParseInt(raw, 10, 64)
		if parseErr != nil {
			// Skip corrupt fields rather than failing the whole read.
			continue
		}
		viewTimes[threadID] = time.UnixMilli(millis)
	}
	return viewTimes, nil
}

// RecordThreadView implements [History].
func (history *RedisHistory) RecordThreadView(ctx context.Context, userID, threadID string, at time.Time) error {
	key := constants.RedisPrefixUser + userID + constants.RedisSuffixThreadViews
	value := strconv.FormatInt(at.UnixMilli(), 10)

	if err := history.client.HSet(ctx, key, threadID, value).Err(); err != nil {
		return fmt.Errorf("views: thread view history write failed: %w", err)
	}
	return nil
}
