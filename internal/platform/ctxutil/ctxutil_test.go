// Copyright (c) 2026 Parley. All rights reserved.
// Author: dev@parleyhq.io

package ctxutil_test

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/parleyhq/parley/internal/platform/ctxutil"
	"github.com/parleyhq/parley/internal/session"
)

/*
TestContext_RequestID verifies that Request IDs can be injected and retrieved.
*/
func TestContext_RequestID(t *testing.T) {
	ctx := context.Background()
	requestID := "test-request-id"

	// 1. Initially should be empty
	assert.Empty(t, ctxutil.GetRequestID(ctx))

	// 2. Inject and retrieve
	ctx = ctxutil.WithRequestID(ctx, requestID)
	assert.Equal(t, requestID, ctxutil.GetRequestID(ctx))
}

/*
TestContext_Logger verifies that a custom logger can be stored in context.
*/
func TestContext_Logger(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	// 1. Initially should return the default logger
	assert.Equal(t, slog.Default(), ctxutil.GetLogger(ctx))

	// 2. Inject and retrieve
	ctx = ctxutil.WithLogger(ctx, logger)
	assert.Equal(t, logger, ctxutil.GetLogger(ctx))
}

/*
TestContext_Credential verifies that a verified credential can be stored in
context, and that an anonymous context yields nil rather than a zero value.
*/
func TestContext_Credential(t *testing.T) {
	ctx := context.Background()

	// 1. Anonymous context carries no credential
	assert.Nil(t, ctxutil.GetCredential(ctx))

	// 2. Inject and retrieve
	credential := session.NewCredential("user-123", "session-456", "ada", "", []string{"administrator"}, nil)
	ctx = ctxutil.WithCredential(ctx, credential)
	retrieved := ctxutil.GetCredential(ctx)

	assert.NotNil(t, retrieved)
	assert.Equal(t, "user-123", retrieved.UserID)
	assert.True(t, retrieved.IsAdmin())
}
