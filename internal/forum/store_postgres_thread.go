// Copyright (c) 2026 Parley. All rights reserved.
// Author: dev@parleyhq.io

package forum

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/parleyhq/parley/internal/platform/apperr"
	"github.com/parleyhq/parley/internal/platform/database/schema"
)

// threadRepository implements the [ThreadRepository] interface using pgx.
type threadRepository struct {
	pool *pgxpool.Pool
}

// NewThreadRepository constructs a PostgreSQL backed thread store.
func NewThreadRepository(pool *pgxpool.Pool) ThreadRepository {
	return &threadRepository{pool: pool}
}

// # Thread Repository Implementation

/*
ListByBoard returns a page of the board's live threads and the total count.

Sticky threads sort first, then newest activity. Soft-deleted threads are
excluded here because listings are a member-facing surface; staff inspect
deleted threads through direct lookup, where the permission layer decides.
The total rides a COUNT(*) OVER() window so pagination needs no second
query.

Parameters:
  - ctx: context.Context
  - boardID: string UUID of the enclosing board
  - limit: int
  - offset: int

Returns:
  - []*Thread: The page of threads
  - int: Total live-thread count for pagination
  - error: Database execution errors
*/
func (repository *threadRepository) ListByBoard(ctx context.Context, boardID string, limit, offset int) ([]*Thread, int, error) {

	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s, %s, %s,
			COUNT(*) OVER() AS total_count
		FROM %s
		WHERE %s = $1 AND %s = FALSE
		ORDER BY %s DESC, %s DESC
		LIMIT $2 OFFSET $3
	`,
		schema.ForumThread.ID,
		schema.ForumThread.BoardID,
		schema.ForumThread.CreatedBy,
		schema.ForumThread.Locked,
		schema.ForumThread.Sticky,
		schema.ForumThread.Deleted,
		schema.ForumThread.ViewCount,
		schema.ForumThread.CreatedAt,
		schema.ForumThread.UpdatedAt,
		schema.ForumThread.Table,
		schema.ForumThread.BoardID,
		schema.ForumThread.Deleted,
		schema.ForumThread.Sticky,
		schema.ForumThread.UpdatedAt,
	)

	rows, err := repository.pool.Query(ctx, query, boardID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres: failed to list threads: %w", err)
	}
	defer rows.Close()

	var threads []*Thread
	var totalCount int
	for rows.Next() {
		thread := &Thread{}
		err := rows.Scan(
			&thread.ID,
			&thread.BoardID,
			&thread.CreatedBy,
			&thread.Locked,
			&thread.Sticky,
			&thread.Deleted,
			&thread.ViewCount,
			&thread.CreatedAt,
			&thread.UpdatedAt,
			&totalCount,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("postgres: failed to scan thread: %w", err)
		}
		threads = append(threads, thread)
	}

	return threads, totalCount, rows.Err()
}

/*
FindByID retrieves a thread record by its primary key.

Soft-deleted threads are still returned: the caller's permission check
decides whether the caller may see them, and a repository-level filter
would make the staff inspection path impossible.

Parameters:
  - ctx: context.Context
  - id: string UUID primary key of the target thread

Returns:
  - *Thread: The hydrated thread entity, or nil when absent
  - error: apperr.NotFound if the thread does not exist, or execution errors
*/
func (repository *threadRepository) FindByID(ctx context.Context, id string) (*Thread, error) {

	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1
	`,
		schema.ForumThread.ID,
		schema.ForumThread.BoardID,
		schema.ForumThread.CreatedBy,
		schema.ForumThread.Locked,
		schema.ForumThread.Sticky,
		schema.ForumThread.Deleted,
		schema.ForumThread.ViewCount,
		schema.ForumThread.CreatedAt,
		schema.ForumThread.UpdatedAt,
		schema.ForumThread.Table,
		schema.ForumThread.ID,
	)

	thread := &Thread{}
	err := repository.pool.QueryRow(ctx, query, id).Scan(
		&thread.ID,
		&thread.BoardID,
		&thread.CreatedBy,
		&thread.Locked,
		&thread.Sticky,
		&thread.Deleted,
		&thread.ViewCount,
		&thread.CreatedAt,
		&thread.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("thread")
		}
		return nil, fmt.Errorf("postgres: failed to find thread by id: %w", err)
	}

	return thread, nil
}

/*
Create persists a new thread and its first post in a single transaction.

A thread row without a first post must never be observable, so both inserts
commit or neither does.

Parameters:
  - ctx: context.Context
  - thread: *Thread with ID, BoardID and CreatedBy populated
  - firstPost: *Post with ID, UserID, Title and Body populated

Returns:
  - error: Execution or commit failures
*/
func (repository *threadRepository) Create(ctx context.Context, thread *Thread, firstPost *Post) error {

	transaction, err := repository.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("postgres: failed to begin thread transaction: %w", err)
	}
	defer transaction.Rollback(ctx)

	threadQuery := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s)
		VALUES ($1, $2, $3)
	`,
		schema.ForumThread.Table,
		schema.ForumThread.ID,
		schema.ForumThread.BoardID,
		schema.ForumThread.CreatedBy,
	)

	if _, err := transaction.Exec(ctx, threadQuery, thread.ID, thread.BoardID, thread.CreatedBy); err != nil {
		return fmt.Errorf("postgres: failed to create thread: %w", err)
	}

	postQuery := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, TRUE)
	`,
		schema.ForumPost.Table,
		schema.ForumPost.ID,
		schema.ForumPost.ThreadID,
		schema.ForumPost.UserID,
		schema.ForumPost.Title,
		schema.ForumPost.Body,
		schema.ForumPost.FirstPost,
	)

	if _, err := transaction.Exec(ctx, postQuery, firstPost.ID, thread.ID, firstPost.UserID, firstPost.Title, firstPost.Body); err != nil {
		return fmt.Errorf("postgres: failed to create first post: %w", err)
	}

	if err := transaction.Commit(ctx); err != nil {
		return fmt.Errorf("postgres: failed to commit thread transaction: %w", err)
	}

	return nil
}

// SetLocked updates the thread's lock flag.
func (repository *threadRepository) SetLocked(ctx context.Context, id string, locked bool) error {
	return repository.setFlag(ctx, id, schema.ForumThread.Locked, locked)
}

// SetSticky updates the thread's sticky flag.
func (repository *threadRepository) SetSticky(ctx context.Context, id string, sticky bool) error {
	return repository.setFlag(ctx, id, schema.ForumThread.Sticky, sticky)
}

// setFlag flips a single boolean column on a thread row.
func (repository *threadRepository) setFlag(ctx context.Context, id, column string, value bool) error {

	query := fmt.Sprintf(
		"UPDATE %s SET %s = $1, %s = NOW() WHERE %s = $2",
		schema.ForumThread.Table, column, schema.ForumThread.UpdatedAt, schema.ForumThread.ID,
	)

	result, err := repository.pool.Exec(ctx, query, value, id)
	if err != nil {
		return fmt.Errorf("postgres: failed to update thread %s: %w", column, err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound("thread")
	}

	return nil
}

/*
Move reassigns the thread to another board.

Parameters:
  - ctx: context.Context
  - id: string UUID of the thread to move
  - boardID: string UUID of the destination board

Returns:
  - error: apperr.NotFound if the thread is absent, or execution errors
*/
func (repository *threadRepository) Move(ctx context.Context, id string, boardID string) error {

	query := fmt.Sprintf(
		"UPDATE %s SET %s = $1, %s = NOW() WHERE %s = $2",
		schema.ForumThread.Table, schema.ForumThread.BoardID, schema.ForumThread.UpdatedAt, schema.ForumThread.ID,
	)

	result, err := repository.pool.Exec(ctx, query, boardID, id)
	if err != nil {
		return fmt.Errorf("postgres: failed to move thread: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound("thread")
	}

	return nil
}

/*
SoftDelete hides a thread without physical row removal.

Parameters:
  - ctx: context.Context
  - id: string target unique identifier

Returns:
  - error: apperr.NotFound if missing, otherwise execution errors
*/
func (repository *threadRepository) SoftDelete(ctx context.Context, id string) error {
	return repository.setFlag(ctx, id, schema.ForumThread.Deleted, true)
}

/*
Purge permanently removes the thread and all its posts.

Posts go first so the thread's foreign key constraint never fires; both
deletions ride a single transaction.

Parameters:
  - ctx: context.Context
  - id: string target unique identifier

Returns:
  - error: apperr.NotFound if the thread is absent, or execution errors
*/
func (repository *threadRepository) Purge(ctx context.Context, id string) error {

	transaction, err := repository.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("postgres: failed to begin purge transaction: %w", err)
	}
	defer transaction.Rollback(ctx)

	postQuery := fmt.Sprintf(
		"DELETE FROM %s WHERE %s = $1",
		schema.ForumPost.Table, schema.ForumPost.ThreadID,
	)
	if _, err := transaction.Exec(ctx, postQuery, id); err != nil {
		return fmt.Errorf("postgres: failed to purge thread posts: %w", err)
	}

	threadQuery := fmt.Sprintf(
		"DELETE FROM %s WHERE %s = $1",
		schema.ForumThread.Table, schema.ForumThread.ID,
	)
	result, err := transaction.Exec(ctx, threadQuery, id)
	if err != nil {
		return fmt.Errorf("postgres: failed to purge thread: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound("thread")
	}

	if err := transaction.Commit(ctx); err != nil {
		return fmt.Errorf("postgres: failed to commit purge transaction: %w", err)
	}

	return nil
}

/*
IncViewCount performs a thread-safe counter update.

The database applies the addition natively; readers never observe a
read-modify-write window, so concurrent viewers cannot lose increments.

Parameters:
  - ctx: context.Context
  - id: string target unique identifier

Returns:
  - error: Execution failures
*/
func (repository *threadRepository) IncViewCount(ctx context.Context, id string) error {

	query := fmt.Sprintf(
		"UPDATE %s SET %s = %s + 1 WHERE %s = $1",
		schema.ForumThread.Table, schema.ForumThread.ViewCount, schema.ForumThread.ViewCount, schema.ForumThread.ID,
	)

	if _, err := repository.pool.Exec(ctx, query, id); err != nil {
		return fmt.Errorf("postgres: failed to increment view count: %w", err)
	}

	return nil
}
