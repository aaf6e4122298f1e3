// Copyright (c) 2026 Parley. All rights reserved.
// Author: dev@parleyhq.io

/*
Package views decides whether a thread view should increment the shared
view counter.

There is no durable per-viewer ledger. Instead, a short-lived deduplication
cache maps a (viewer identity, thread) pair to the last time that pair was
counted; re-views inside the cooldown window are suppressed. Identities come
from a client-held viewer id (round-tripped in the X-Parley-Viewer header)
with the client network address as a fallback and secondary guard.

Correctness stance: losing a cache entry risks ONE extra counted view, never
an under-count and never a failed request — every store failure fails open
toward counting.
*/
package views

import (
	"context"
	"time"
)

// Store is the dedup cache contract: a get/put key-value store whose entries
// expire externally (store-level TTL). No transactions; concurrent refreshes
// of the same key are benign last-writer-wins races.
type Store interface {

	/*
		LastCounted returns the last-counted timestamp for a dedup key.

		Parameters:
		  - ctx: context.Context
		  - key: string (viewer identity + thread id)

		Returns:
		  - time.Time: The stored timestamp (zero when absent)
		  - bool: Whether the key was present
		  - error: Connectivity errors
	*/
	LastCounted(ctx context.Context, key string) (time.Time, bool, error)

	/*
		Record stores or refreshes the last-counted timestamp for a key.

		Parameters:
		  - ctx: context.Context
		  - key: string
		  - at: time.Time

		Returns:
		  - error: Connectivity errors
	*/
	Record(ctx context.Context, key string, at time.Time) error
}

// Counter is the write side of view tracking: the shared per-thread view
// counter owned by the forum resource store.
type Counter interface {
	// IncViewCount bumps the thread's view counter by one.
	IncViewCount(ctx context.Context, threadID string) error
}
