// Copyright (c) 2026 Parley. All rights reserved.
// Author: dev@parleyhq.io

/*
Package session turns a signature-verified token into a request credential.

It owns the two halves of request authentication that come AFTER signature
verification:

  - Credential: The immutable, request-scoped identity bundle.
  - Validator: The session-liveness check against the identity store.

A Credential exists only if the session was found live; there is no partial
or forged credential. Anonymous requests carry a nil *Credential, and every
accessor is nil-safe so callers can use one code path for both cases.
*/
package session

import "github.com/parleyhq/parley/internal/platform/constants"

// adminRole is the role name that grants the blanket admin override in
// every authorization policy.
const adminRole = constants.RoleAdmin

// Credential is the verified identity attached to an authenticated request.
//
// # Immutability
//
// A Credential is assembled once by [Validator.Validate], read for the rest
// of the request, and discarded. The role and moderation sets are private so
// nothing downstream can grow a credential's authority after construction.
//
// # Display vs. authorization
//
// Username and Avatar are display metadata only; authorization decisions
// consult exclusively [Credential.IsAdmin], [Credential.HasRole], and
// [Credential.Moderates].
type Credential struct {
	// UserID is the stable account identifier.
	UserID string
	// SessionID identifies this login among the user's sessions.
	SessionID string
	// Username is display metadata, never used for authorization.
	Username string
	// Avatar is display metadata, never used for authorization.
	Avatar string

	roles      map[string]struct{}
	moderating map[string]struct{}
}

// NewCredential assembles an immutable credential from identity store data.
// The role and moderation slices are copied; the caller keeps no handle
// into the credential's internals.
func NewCredential(userID, sessionID, username, avatar string, roles, moderating []string) *Credential {
	credential := &Credential{
		UserID:     userID,
		SessionID:  sessionID,
		Username:   username,
		Avatar:     avatar,
		roles:      make(map[string]struct{}, len(roles)),
		moderating: make(map[string]struct{}, len(moderating)),
	}
	for _, role := range roles {
		credential.roles[role] = struct{}{}
	}
	for _, boardID := range moderating {
		credential.moderating[boardID] = struct{}{}
	}
	return credential
}

// HasRole reports whether the credential carries the named role.
// A nil credential (anonymous request) has no roles.
func (c *Credential) HasRole(role string) bool {
	if c == nil {
		return false
	}
	_, ok := c.roles[role]
	return ok
}

// IsAdmin reports whether the credential carries the administrator role.
// Always false for anonymous requests.
func (c *Credential) IsAdmin() bool {
	return c.HasRole(adminRole)
}

// Moderates reports whether the credential's user moderates the given board.
// Always false for anonymous requests and for an empty board id.
func (c *Credential) Moderates(boardID string) bool {
	if c == nil || boardID == "" {
		return false
	}
	_, ok := c.moderating[boardID]
	return ok
}

// ModeratesAnything reports whether the user moderates at least one board.
// The permission evaluator uses this to skip the board-resolution lookup
// for users who cannot possibly be moderators of the resource.
func (c *Credential) ModeratesAnything() bool {
	return c != nil && len(c.moderating) > 0
}

// Roles returns a copy of the role names for display/introspection.
func (c *Credential) Roles() []string {
	if c == nil {
		return nil
	}
	roles := make([]string, 0, len(c.roles))
	for role := range c.roles {
		roles = append(roles, role)
	}
	return roles
}

// Moderating returns a copy of the moderated board ids for display/introspection.
func (c *Credential) Moderating() []string {
	if c == nil {
		return nil
	}
	boards := make([]string, 0, len(c.moderating))
	for boardID := range c.moderating {
		boards = append(boards, boardID)
	}
	return boards
}
