// Copyright (c) 2026 Parley. All rights reserved.
// Author: dev@parleyhq.io

/*
Package constants provides centralized, immutable values for the entire platform.

It defines default timeouts, rate limits, and cross-cutting keys that are shared
between different layers of the system.

Categories:

  - Server Timing: Read/Write/Idle timeouts for the HTTP server.
  - Rate Limiting: Burst capacities and IP tracking TTLs.
  - Security: JWT issuer and session claim names.
  - View Tracking: Dedup cooldown and the viewer-identity header.

Using this package ensures Magic Strings and Magic Numbers are eliminated
from the business logic.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "parley-api"
	AppVersion = "0.1.0-dev"
)

// # Server Timing

const (
	// DefaultReadTimeout is the maximum duration for reading the entire request.
	DefaultReadTimeout = 5 * time.Second

	// DefaultWriteTimeout is the maximum duration before timing out writes of the response.
	DefaultWriteTimeout = 10 * time.Second

	// DefaultIdleTimeout is the maximum amount of time to wait for the next request.
	DefaultIdleTimeout = 120 * time.Second

	// DefaultReadHeaderTimeout is the amount of time allowed to read request headers.
	DefaultReadHeaderTimeout = 2 * time.Second

	// GlobalRequestTimeout is the deadline for the entire request lifecycle.
	// Predicate fan-out and identity lookups inherit this deadline through the
	// request context; no tighter timeout is imposed below it.
	GlobalRequestTimeout = 30 * time.Second

	// ShutdownTimeout is how long we wait for in-flight requests to complete during shutdown.
	ShutdownTimeout = 30 * time.Second
)

// # Rate Limiting

const (
	// DefaultRateLimitRPS is the requests per second allowed per IP.
	DefaultRateLimitRPS = 100.0

	// DefaultRateLimitBurst is the maximum burst allowed for the rate limiter.
	DefaultRateLimitBurst = 150

	// RateLimitCleanupInterval is how often old IP entries are removed from memory.
	RateLimitCleanupInterval = 1 * time.Minute

	// RateLimitClientTTL is how long a client must be idle before its entry is deleted.
	RateLimitClientTTL = 3 * time.Minute
)

// # Authentication

const (
	// AuthIssuer is the standard 'iss' claim in JWTs.
	AuthIssuer = "parleyhq.io"

	// SessionInvalidMessage is the single client-facing message for every
	// session-liveness failure. Missing session, rotated timestamp, and
	// vanished user records all produce this exact message so a caller
	// cannot probe which sub-check rejected them.
	SessionInvalidMessage = "Session is no longer valid"
)

// # View Tracking

const (
	// ViewerHeader carries the client's dedup viewer identity. The server
	// returns a freshly minted id in this header when the client did not
	// supply one.
	ViewerHeader = "X-Parley-Viewer"

	// ViewCooldown is the minimum elapsed time between two counted views
	// from the same dedup key.
	ViewCooldown = 60 * time.Second

	// ViewKeyTTL is the store-level eviction horizon for dedup entries.
	// Losing an entry only risks one extra counted view, so entries are
	// deliberately short-lived.
	ViewKeyTTL = 30 * time.Minute

	// ViewCountTimeout bounds the detached, fire-and-forget counter
	// increment so an unreachable database cannot leak goroutines.
	ViewCountTimeout = 5 * time.Second
)

// # HTTP Headers

const (
	HeaderXRequestID    = "X-Request-ID"
	HeaderXRealIP       = "X-Real-IP"
	HeaderXForwardedFor = "X-Forwarded-For"
	HeaderOrigin        = "Origin"
	HeaderAuthorization = "Authorization"
)

// # JSON Field Identifiers

const (
	FieldError = "error"
	FieldCode  = "code"
)

// # Roles

const (
	// RoleAdmin grants unrestricted access to every resource action.
	RoleAdmin = "administrator"

	// RoleMember is the default role for registered users.
	RoleMember = "member"
)

// # Redis Key Taxonomy

const (
	// RedisPrefixUser is the user profile hash: user:<id>.
	RedisPrefixUser = "user:"

	// RedisSuffixSession composes the session key: user:<id>:session:<sid>.
	RedisSuffixSession = ":session:"

	// RedisSuffixRoles composes the role set key: user:<id>:roles.
	RedisSuffixRoles = ":roles"

	// RedisSuffixModerating composes the moderation set key: user:<id>:moderating.
	RedisSuffixModerating = ":moderating"

	// RedisSuffixThreadViews composes the per-user thread view hash: user:<id>:thread_views.
	RedisSuffixThreadViews = ":thread_views"

	// RedisPrefixViewSeen prefixes dedup entries: views:seen:<identity><threadID>.
	RedisPrefixViewSeen = "views:seen:"
)
