// Copyright (c) 2026 Parley. All rights reserved.
// Author: dev@parleyhq.io

// Package dberr provides a bridge between low-level database errors and
// higher-level application errors.
package dberr

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/parleyhq/parley/internal/platform/apperr"
)

// Postgres SQLSTATE codes this package classifies.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
)

// Wrap inspects a database error and wraps it into a meaningful [apperr.AppError].
// It hides internal database details from the client while classifying the
// error type. The resource name is used in the client-facing message.
func Wrap(err error, resource string) error {
	if err == nil {
		return nil
	}

	// 1. Not Found mapping
	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.NotFound(resource)
	}

	// 2. Constraint mapping. A unique violation surfaces as a Conflict so
	// races past the service-level uniqueness check still answer correctly;
	// a foreign key violation means the referenced row vanished mid-flight.
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeUniqueViolation:
			return apperr.Conflict(resource + " already exists")
		case codeForeignKeyViolation:
			return apperr.NotFound(resource)
		}
	}

	// 3. Unknown query errors become Internal Server Errors
	return apperr.Internal(err)
}
