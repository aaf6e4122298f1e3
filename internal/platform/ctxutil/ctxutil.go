// Copyright (c) 2026 Parley. All rights reserved.
// Author: dev@parleyhq.io

// Package ctxutil provides helpers for interacting with values stored in [context.Context].
package ctxutil

import (
	"context"
	"log/slog"

	"github.com/parleyhq/parley/internal/platform/ctxkey"
	"github.com/parleyhq/parley/internal/session"
)

// # Request Tracing

// WithRequestID returns a new context with the provided request ID attached.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxkey.KeyRequestID, id)
}

// GetRequestID retrieves the request ID from the context.
// Returns an empty string if not found.
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(ctxkey.KeyRequestID).(string)
	return id
}

// # Structured Logging

// WithLogger returns a new context with the provided logger attached.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxkey.KeyLogger, logger)
}

// GetLogger retrieves the logger from the context.
// If no logger is found, it returns the global default logger.
func GetLogger(ctx context.Context) *slog.Logger {
	logger, ok := ctx.Value(ctxkey.KeyLogger).(*slog.Logger)
	if !ok {
		return slog.Default()
	}
	return logger
}

// # Identity & Access

// WithCredential returns a new context with the verified credential attached.
func WithCredential(ctx context.Context, credential *session.Credential) context.Context {
	return context.WithValue(ctx, ctxkey.KeyCredential, credential)
}

// GetCredential retrieves the [*session.Credential] from the [context.Context].
// Returns nil for anonymous requests — every Credential accessor is nil-safe,
// so callers can pass the result straight to the permission evaluator.
func GetCredential(ctx context.Context) *session.Credential {
	credential, ok := ctx.Value(ctxkey.KeyCredential).(*session.Credential)
	if !ok {
		return nil
	}
	return credential
}
