// Copyright (c) 2026 Parley. All rights reserved.
// Author: dev@parleyhq.io

package views

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/parleyhq/parley/internal/platform/constants"
)

// Result is the outcome of one view check.
type Result struct {
	// Counted reports whether this view incremented the thread's counter.
	Counted bool
	// NewViewerID is a freshly minted viewer identity for the client to
	// send back on future requests. Empty when the client already supplied
	// a recognized id.
	NewViewerID string
}

// Service implements the view-dedup decision.
//
// # Identity sources
//
// Two identities are tried in order: the client-claimed viewer id, then the
// client network address. The address doubles as a secondary guard — a
// client cannot bypass the cooldown merely by dropping its stored id,
// because a fresh or unknown viewer id defers the count decision to the
// address key. A shared NAT or proxy address therefore suppresses counts
// across clients behind it; that imprecision is accepted.
type Service struct {
	store    Store
	counter  Counter
	logger   *slog.Logger
	cooldown time.Duration

	// now and mintViewerID are swappable for tests.
	now          func() time.Time
	mintViewerID func() string
}

// NewService creates a view-dedup [Service] with the standard cooldown.
func NewService(store Store, counter Counter, logger *slog.Logger) *Service {
	return &Service{
		store:        store,
		counter:      counter,
		logger:       logger,
		cooldown:     constants.ViewCooldown,
		now:          time.Now,
		mintViewerID: func() string { return uuid.NewString() },
	}
}

/*
CheckView decides whether one thread view should count.

Description: The claimed viewer key is authoritative when it is already
tracked. An untracked claimed id is recorded (starting that viewer's
tracking) but THIS view's count decision falls through to the address key.
With no claimed id at all, a new viewer id is minted and returned, and the
address key likewise decides the count.

Parameters:
  - ctx: context.Context
  - viewerID: string (client-claimed identity, may be empty)
  - remoteAddress: string (network address fallback identity)
  - threadID: string

Returns:
  - Result: Count decision plus any newly minted viewer id
*/
func (service *Service) CheckView(ctx context.Context, viewerID, remoteAddress, threadID string) Result {
	now := service.now()
	addressKey := remoteAddress + threadID

	// No claimed identity: mint one, start tracking it, and let the
	// address key decide this view.
	if viewerID == "" {
		minted := service.mintViewerID()
		service.record(ctx, minted+threadID, now)
		counted := service.decideByKey(ctx, addressKey, now)
		if counted {
			service.countAsync(threadID)
		}
		return Result{Counted: counted, NewViewerID: minted}
	}

	// Claimed identity present: its key is authoritative when tracked.
	viewerKey := viewerID + threadID
	lastCounted, tracked, err := service.store.LastCounted(ctx, viewerKey)
	if err != nil {
		// Fail open: treat the id as untracked and keep going; the worst
		// case is one extra counted view.
		service.logger.Warn("view_dedup_read_failed", slog.String("thread_id", threadID), slog.Any("error", err))
		tracked = false
	}

	if tracked {
		counted := service.cooled(lastCounted, now)
		if counted {
			// Refresh resets the window; a suppressed view must NOT extend
			// its own freshness.
			service.record(ctx, viewerKey, now)
			service.countAsync(threadID)
		}
		return Result{Counted: counted}
	}

	// First sighting of this claimed id: start tracking it, then the
	// address key governs whether this view counts (an unknown id must not
	// be a cooldown bypass).
	service.record(ctx, viewerKey, now)
	counted := service.decideByKey(ctx, addressKey, now)
	if counted {
		service.countAsync(threadID)
	}
	return Result{Counted: counted}
}

// decideByKey applies the count decision for one dedup key: absent keys are
// recorded and count; tracked keys count only past the cooldown, refreshing
// on count. Store failures fail open toward counting.
func (service *Service) decideByKey(ctx context.Context, key string, now time.Time) bool {
	lastCounted, tracked, err := service.store.LastCounted(ctx, key)
	if err != nil {
		service.logger.Warn("view_dedup_read_failed", slog.String("key", key), slog.Any("error", err))
		service.record(ctx, key, now)
		return true
	}

	if !tracked {
		service.record(ctx, key, now)
		return true
	}

	if service.cooled(lastCounted, now) {
		service.record(ctx, key, now)
		return true
	}

	return false
}

// cooled reports whether the cooldown window has fully elapsed. The
// boundary itself counts: a re-view at exactly cooldown is a fresh view.
func (service *Service) cooled(lastCounted, now time.Time) bool {
	return now.Sub(lastCounted) >= service.cooldown
}

// record writes a dedup entry, swallowing failures (fail open).
func (service *Service) record(ctx context.Context, key string, at time.Time) {
	if err := service.store.Record(ctx, key, at); err != nil {
		service.logger.Warn("view_dedup_write_failed", slog.String("key", key), slog.Any("error", err))
	}
}

// countAsync dispatches the counter increment on its own goroutine with its
// own deadline. The increment is best-effort telemetry: it never blocks the
// surrounding request and its failure is logged, not returned.
func (service *Service) countAsync(threadID string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), constants.ViewCountTimeout)
		defer cancel()
		if err := service.counter.IncViewCount(ctx, threadID); err != nil {
			service.logger.Warn("view_count_increment_failed", slog.String("thread_id", threadID), slog.Any("error", err))
		}
	}()
}
