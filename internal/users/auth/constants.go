// Copyright (c) 2026 Parley. All rights reserved.
// Author: dev@parleyhq.io

package auth

import "time"

// # Authentication Constraints

const (
	// SessionTokenTTL is the duration a signed session token remains valid.
	// The Redis session entry has no expiry of its own: a session dies when
	// logout removes it, a re-login supersedes its timestamp, or this token
	// lifetime runs out, whichever comes first.
	SessionTokenTTL = 30 * 24 * time.Hour

	// MinPasswordLength is the shortest password registration accepts.
	MinPasswordLength = 8
)
