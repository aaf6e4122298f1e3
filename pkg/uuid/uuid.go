// Copyright (c) 2026 Parley. All rights reserved.
// Author: dev@parleyhq.io

/*
Package uuid provides unique identifiers for the platform.

It wraps the standard UUID library to generate Version 7 values for entity
primary keys, which are optimized for database performance.

Advantages:

  - Sortable: Naturally ordered by creation time (millisecond precision).
  - Friendly: Prevents index fragmentation in PostgreSQL (B-tree optimal).
  - Compact: 128-bit storage, compatible with standard 'uuid' types.

Viewer identities for the view-dedup cache use random Version 4 values
instead — they are client-held opaque tokens where time-ordering would only
leak information.
*/
package uuid

import "github.com/google/uuid"

// # Generators

// New generates a new UUIDv7 string.
func New() string {

	// Create a new version 7 UUID (time-sortable)
	id, err := uuid.NewV7()

	// entropy failure is an unrecoverable system-level error
	if err != nil {
		panic("uuid: failed to generate UUID: " + err.Error())
	}

	// Convert the UUID to a string
	return id.String()
}

// NewRandom generates a new random UUIDv4 string (no embedded timestamp).
func NewRandom() string {
	return uuid.NewString()
}
