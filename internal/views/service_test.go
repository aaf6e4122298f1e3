// Copyright (c) 2026 Parley. All rights reserved.
// Author: dev@parleyhq.io

package views

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryStore is an in-memory dedup Store. A non-nil err fails every call.
type memoryStore struct {
	mu      sync.Mutex
	entries map[string]time.Time
	err     error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{entries: make(map[string]time.Time)}
}

func (s *memoryStore) LastCounted(_ context.Context, key string) (time.Time, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return time.Time{}, false, s.err
	}
	at, ok := s.entries[key]
	return at, ok, nil
}

func (s *memoryStore) Record(_ context.Context, key string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.entries[key] = at
	return nil
}

// countingCounter records increments and signals each one.
type countingCounter struct {
	increments atomic.Int64
	signal     chan struct{}
}

func newCountingCounter() *countingCounter {
	return &countingCounter{signal: make(chan struct{}, 16)}
}

func (c *countingCounter) IncViewCount(_ context.Context, _ string) error {
	c.increments.Add(1)
	c.signal <- struct{}{}
	return nil
}

// awaitIncrements blocks until n asynchronous increments have landed.
func (c *countingCounter) awaitIncrements(t *testing.T, n int64) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for c.increments.Load() < n {
		select {
		case <-c.signal:
		case <-deadline:
			t.Fatalf("expected %d increments, saw %d", n, c.increments.Load())
		}
	}
}

// newTestService wires a Service with a fake clock starting at base.
func newTestService(store Store, counter Counter, base time.Time) (*Service, *time.Time) {
	clock := base
	service := NewService(store, counter, slog.New(slog.NewTextHandler(io.Discard, nil)))
	service.now = func() time.Time { return clock }
	service.mintViewerID = func() string { return "minted-viewer" }
	return service, &clock
}

/*
TestCheckView_CooldownSequence tests the canonical sequence for one tracked
viewer: first view counts, a re-view inside the window is suppressed, and a
re-view past the window counts again.
*/
func TestCheckView_CooldownSequence(t *testing.T) {
	store := newMemoryStore()
	counter := newCountingCounter()
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	service, clock := newTestService(store, counter, base)
	ctx := context.Background()

	// t=0: the viewer id is untracked, so the address key decides — it is
	// also untracked, so the view counts.
	result := service.CheckView(ctx, "viewer-1", "10.0.0.1", "thread-1")
	assert.True(t, result.Counted)
	assert.Empty(t, result.NewViewerID)
	counter.awaitIncrements(t, 1)

	// t=30s: inside the window. Suppressed.
	*clock = base.Add(30 * time.Second)
	result = service.CheckView(ctx, "viewer-1", "10.0.0.1", "thread-1")
	assert.False(t, result.Counted)

	// t=61s: the window has elapsed since the COUNTED view at t=0 — the
	// suppressed view at t=30s must not have extended it.
	*clock = base.Add(61 * time.Second)
	result = service.CheckView(ctx, "viewer-1", "10.0.0.1", "thread-1")
	assert.True(t, result.Counted)
	counter.awaitIncrements(t, 2)
}

/*
TestCheckView_BoundaryCounts tests that a re-view at exactly the cooldown
boundary counts as a fresh view.
*/
func TestCheckView_BoundaryCounts(t *testing.T) {
	store := newMemoryStore()
	counter := newCountingCounter()
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	service, clock := newTestService(store, counter, base)
	ctx := context.Background()

	service.CheckView(ctx, "viewer-1", "10.0.0.1", "thread-1")
	counter.awaitIncrements(t, 1)

	*clock = base.Add(service.cooldown)
	result := service.CheckView(ctx, "viewer-1", "10.0.0.1", "thread-1")
	assert.True(t, result.Counted)
}

/*
TestCheckView_MintsViewerID tests that a request without a claimed identity
gets a freshly minted one, and that the minted id is tracked from this
view onward.
*/
func TestCheckView_MintsViewerID(t *testing.T) {
	store := newMemoryStore()
	counter := newCountingCounter()
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	service, clock := newTestService(store, counter, base)
	ctx := context.Background()

	result := service.CheckView(ctx, "", "10.0.0.1", "thread-1")
	assert.True(t, result.Counted)
	assert.Equal(t, "minted-viewer", result.NewViewerID)
	counter.awaitIncrements(t, 1)

	// The client sends the minted id back within the window: the id is now
	// tracked and authoritative, so the view is suppressed — no second id
	// is minted.
	*clock = base.Add(10 * time.Second)
	result = service.CheckView(ctx, "minted-viewer", "10.0.0.1", "thread-1")
	assert.False(t, result.Counted)
	assert.Empty(t, result.NewViewerID)
}

/*
TestCheckView_UnknownIDNoBypass tests the secondary guard: presenting a
fresh, never-seen viewer id does not bypass a cooldown the address is
already inside.
*/
func TestCheckView_UnknownIDNoBypass(t *testing.T) {
	store := newMemoryStore()
	counter := newCountingCounter()
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	service, clock := newTestService(store, counter, base)
	ctx := context.Background()

	// Establish the address cooldown with a first counted view.
	result := service.CheckView(ctx, "viewer-1", "10.0.0.1", "thread-1")
	require.True(t, result.Counted)
	counter.awaitIncrements(t, 1)

	// Same address, brand new claimed id, inside the window: the unknown
	// id defers to the address key, which suppresses.
	*clock = base.Add(10 * time.Second)
	result = service.CheckView(ctx, "viewer-2", "10.0.0.1", "thread-1")
	assert.False(t, result.Counted)

	// A different address with another fresh id is a genuinely different
	// client and counts.
	result = service.CheckView(ctx, "viewer-3", "10.0.0.2", "thread-1")
	assert.True(t, result.Counted)
	counter.awaitIncrements(t, 2)
}

/*
TestCheckView_PerThreadIsolation tests that cooldowns are scoped per
(viewer, thread) pair: viewing one thread never suppresses another.
*/
func TestCheckView_PerThreadIsolation(t *testing.T) {
	store := newMemoryStore()
	counter := newCountingCounter()
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	service, _ := newTestService(store, counter, base)
	ctx := context.Background()

	assert.True(t, service.CheckView(ctx, "viewer-1", "10.0.0.1", "thread-1").Counted)
	assert.True(t, service.CheckView(ctx, "viewer-1", "10.0.0.1", "thread-2").Counted)
	counter.awaitIncrements(t, 2)
}

/*
TestCheckView_FailOpen tests that a broken dedup store degrades to counting
every view rather than failing the request or suppressing views.
*/
func TestCheckView_FailOpen(t *testing.T) {
	store := newMemoryStore()
	store.err = errors.New("connection refused")
	counter := newCountingCounter()
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	service, _ := newTestService(store, counter, base)
	ctx := context.Background()

	result := service.CheckView(ctx, "viewer-1", "10.0.0.1", "thread-1")
	assert.True(t, result.Counted)

	result = service.CheckView(ctx, "viewer-1", "10.0.0.1", "thread-1")
	assert.True(t, result.Counted)
	counter.awaitIncrements(t, 2)
}
