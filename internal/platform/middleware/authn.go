// Copyright (c) 2026 Parley. All rights reserved.
// Author: dev@parleyhq.io

package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/parleyhq/parley/internal/platform/apperr"
	"github.com/parleyhq/parley/internal/platform/constants"
	"github.com/parleyhq/parley/internal/platform/ctxutil"
	"github.com/parleyhq/parley/internal/platform/respond"
	"github.com/parleyhq/parley/internal/platform/sec"
	"github.com/parleyhq/parley/internal/session"
)

// TokenVerifier defines the interface needed to verify token signatures.
//
// # Why an interface?
//
// Defining TokenVerifier here decouples the middleware from [sec.TokenService],
// allowing us to easily inject mocks during unit testing.
type TokenVerifier interface {
	VerifyToken(tokenStr string) (*sec.SessionClaims, error)
}

// SessionValidator checks session liveness for verified claims.
type SessionValidator interface {
	Validate(ctx context.Context, claims *sec.SessionClaims) (*session.Credential, error)
}

// Authenticate resolves the request's credential from the Authorization header.
//
// # Flow
//  1. Check for 'Authorization: Bearer <token>' header.
//  2. If absent, request proceeds as anonymous.
//  3. If present, verify the token's signature via [TokenVerifier].
//  4. Check session liveness via [SessionValidator].
//  5. Inject the [*session.Credential] into the request context.
//
// # Invalid sessions are anonymous, not errors
//
// A token whose session is no longer live (logged out, superseded by a
// newer login) does NOT abort the request: the request simply proceeds
// without a credential, and downstream policies treat it as unauthenticated.
// Only a malformed Authorization header is rejected outright.
func Authenticate(verifier TokenVerifier, validator SessionValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			authHeader := request.Header.Get(constants.HeaderAuthorization)

			// ── 1. Anonymous Access ───────────────────────────────────────────
			if authHeader == "" {
				next.ServeHTTP(writer, request)
				return
			}

			// ── 2. Format Validation ──────────────────────────────────────────
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				respond.Error(writer, request, apperr.Unauthorized("Invalid authorization format"))
				return
			}

			// ── 3. Signature Verification ─────────────────────────────────────
			claims, err := verifier.VerifyToken(parts[1])
			if err != nil {
				// Forged or expired token: treat as anonymous rather than
				// confirming anything about the token's contents.
				next.ServeHTTP(writer, request)
				return
			}

			// ── 4. Session Liveness ───────────────────────────────────────────
			credential, err := validator.Validate(request.Context(), claims)
			if err != nil {
				// Uniformly invalid session: proceed anonymous.
				next.ServeHTTP(writer, request)
				return
			}

			// ── 5. Context Injection ──────────────────────────────────────────
			ctx := ctxutil.WithCredential(request.Context(), credential)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// RequireAuth blocks requests that do not carry a live credential.
//
// # Usage
//
// Must be registered in the router AFTER [Authenticate].
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if ctxutil.GetCredential(request.Context()) == nil {
			respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
			return
		}
		next.ServeHTTP(writer, request)
	})
}
