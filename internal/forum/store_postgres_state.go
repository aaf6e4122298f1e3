// Copyright (c) 2026 Parley. All rights reserved.
// Author: dev@parleyhq.io

package forum

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/parleyhq/parley/internal/platform/database/schema"
)

/*
stateReader implements the [StateReader] interface using pgx.

Every method issues a single narrow query against live rows. Predicate
answers are never cached: a permission check must observe moderation
actions (lock, hide, delete) the moment they land, so the small extra
read cost buys freshness the engine depends on.
*/
type stateReader struct {
	pool *pgxpool.Pool
}

// NewStateReader constructs a PostgreSQL backed resource state reader.
func NewStateReader(pool *pgxpool.Pool) StateReader {
	return &stateReader{pool: pool}
}

// # Board Resolution
//
// The board methods answer "which visible board does this resource live
// in". An unknown id is a legitimate negative answer here, not an error:
// the policy tables convert it into a not-found decision.

// BoardVisible reports whether the board exists and is visible.
func (reader *stateReader) BoardVisible(ctx context.Context, boardID string) (bool, error) {

	query := fmt.Sprintf(
		"SELECT %s FROM %s WHERE %s = $1",
		schema.ForumBoard.Visible, schema.ForumBoard.Table, schema.ForumBoard.ID,
	)

	var visible bool
	err := reader.pool.QueryRow(ctx, query, boardID).Scan(&visible)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("postgres: failed to check board visibility: %w", err)
	}

	return visible, nil
}

// ThreadBoard resolves a thread's board id and visibility in one read.
func (reader *stateReader) ThreadBoard(ctx context.Context, threadID string) (string, bool, error) {

	query := fmt.Sprintf(`
		SELECT b.%s, b.%s
		FROM %s t
		JOIN %s b ON b.%s = t.%s
		WHERE t.%s = $1
	`,
		schema.ForumBoard.ID,
		schema.ForumBoard.Visible,
		schema.ForumThread.Table,
		schema.ForumBoard.Table,
		schema.ForumBoard.ID,
		schema.ForumThread.BoardID,
		schema.ForumThread.ID,
	)

	var boardID string
	var visible bool
	err := reader.pool.QueryRow(ctx, query, threadID).Scan(&boardID, &visible)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("postgres: failed to resolve thread board: %w", err)
	}

	return boardID, visible, nil
}

// PostBoard resolves a post's board id and visibility in one read.
func (reader *stateReader) PostBoard(ctx context.Context, postID string) (string, bool, error) {

	query := fmt.Sprintf(`
		SELECT b.%s, b.%s
		FROM %s p
		JOIN %s t ON t.%s = p.%s
		JOIN %s b ON b.%s = t.%s
		WHERE p.%s = $1
	`,
		schema.ForumBoard.ID,
		schema.ForumBoard.Visible,
		schema.ForumPost.Table,
		schema.ForumThread.Table,
		schema.ForumThread.ID,
		schema.ForumPost.ThreadID,
		schema.ForumBoard.Table,
		schema.ForumBoard.ID,
		schema.ForumThread.BoardID,
		schema.ForumPost.ID,
	)

	var boardID string
	var visible bool
	err := reader.pool.QueryRow(ctx, query, postID).Scan(&boardID, &visible)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("postgres: failed to resolve post board: %w", err)
	}

	return boardID, visible, nil
}

// # Flag and Ownership Queries
//
// Unlike board resolution, a vanished row here is an infrastructure
// failure: the evaluator only asks about a flag after the request named
// the resource, so the row is expected to exist and its absence must
// surface as an error rather than masquerade as a policy answer.

// ThreadLocked reports the thread's lock flag.
func (reader *stateReader) ThreadLocked(ctx context.Context, threadID string) (bool, error) {

	query := fmt.Sprintf(
		"SELECT %s FROM %s WHERE %s = $1",
		schema.ForumThread.Locked, schema.ForumThread.Table, schema.ForumThread.ID,
	)

	var locked bool
	if err := reader.pool.QueryRow(ctx, query, threadID).Scan(&locked); err != nil {
		return false, fmt.Errorf("postgres: failed to check thread lock: %w", err)
	}

	return locked, nil
}

// ThreadDeleted reports the thread's soft-deletion flag.
func (reader *stateReader) ThreadDeleted(ctx context.Context, threadID string) (bool, error) {

	query := fmt.Sprintf(
		"SELECT %s FROM %s WHERE %s = $1",
		schema.ForumThread.Deleted, schema.ForumThread.Table, schema.ForumThread.ID,
	)

	var deleted bool
	if err := reader.pool.QueryRow(ctx, query, threadID).Scan(&deleted); err != nil {
		return false, fmt.Errorf("postgres: failed to check thread deletion: %w", err)
	}

	return deleted, nil
}

// PostLocked reports the lock flag of the post's enclosing thread.
func (reader *stateReader) PostLocked(ctx context.Context, postID string) (bool, error) {

	query := fmt.Sprintf(`
		SELECT t.%s
		FROM %s p
		JOIN %s t ON t.%s = p.%s
		WHERE p.%s = $1
	`,
		schema.ForumThread.Locked,
		schema.ForumPost.Table,
		schema.ForumThread.Table,
		schema.ForumThread.ID,
		schema.ForumPost.ThreadID,
		schema.ForumPost.ID,
	)

	var locked bool
	if err := reader.pool.QueryRow(ctx, query, postID).Scan(&locked); err != nil {
		return false, fmt.Errorf("postgres: failed to check post thread lock: %w", err)
	}

	return locked, nil
}

// PostThreadDeleted reports the deletion flag of the post's enclosing thread.
func (reader *stateReader) PostThreadDeleted(ctx context.Context, postID string) (bool, error) {

	query := fmt.Sprintf(`
		SELECT t.%s
		FROM %s p
		JOIN %s t ON t.%s = p.%s
		WHERE p.%s = $1
	`,
		schema.ForumThread.Deleted,
		schema.ForumPost.Table,
		schema.ForumThread.Table,
		schema.ForumThread.ID,
		schema.ForumPost.ThreadID,
		schema.ForumPost.ID,
	)

	var deleted bool
	if err := reader.pool.QueryRow(ctx, query, postID).Scan(&deleted); err != nil {
		return false, fmt.Errorf("postgres: failed to check post thread deletion: %w", err)
	}

	return deleted, nil
}

// PostDeleted reports the post's own soft-deletion flag.
func (reader *stateReader) PostDeleted(ctx context.Context, postID string) (bool, error) {

	query := fmt.Sprintf(
		"SELECT %s FROM %s WHERE %s = $1",
		schema.ForumPost.Deleted, schema.ForumPost.Table, schema.ForumPost.ID,
	)

	var deleted bool
	if err := reader.pool.QueryRow(ctx, query, postID).Scan(&deleted); err != nil {
		return false, fmt.Errorf("postgres: failed to check post deletion: %w", err)
	}

	return deleted, nil
}

// ThreadOwner returns the user id that started the thread.
func (reader *stateReader) ThreadOwner(ctx context.Context, threadID string) (string, error) {

	query := fmt.Sprintf(
		"SELECT %s FROM %s WHERE %s = $1",
		schema.ForumThread.CreatedBy, schema.ForumThread.Table, schema.ForumThread.ID,
	)

	var owner string
	if err := reader.pool.QueryRow(ctx, query, threadID).Scan(&owner); err != nil {
		return "", fmt.Errorf("postgres: failed to resolve thread owner: %w", err)
	}

	return owner, nil
}

// PostOwner returns the user id that authored the post.
func (reader *stateReader) PostOwner(ctx context.Context, postID string) (string, error) {

	query := fmt.Sprintf(
		"SELECT %s FROM %s WHERE %s = $1",
		schema.ForumPost.UserID, schema.ForumPost.Table, schema.ForumPost.ID,
	)

	var owner string
	if err := reader.pool.QueryRow(ctx, query, postID).Scan(&owner); err != nil {
		return "", fmt.Errorf("postgres: failed to resolve post owner: %w", err)
	}

	return owner, nil
}

// IsFirstPost reports whether the post opened its thread.
func (reader *stateReader) IsFirstPost(ctx context.Context, postID string) (bool, error) {

	query := fmt.Sprintf(
		"SELECT %s FROM %s WHERE %s = $1",
		schema.ForumPost.FirstPost, schema.ForumPost.Table, schema.ForumPost.ID,
	)

	var first bool
	if err := reader.pool.QueryRow(ctx, query, postID).Scan(&first); err != nil {
		return false, fmt.Errorf("postgres: failed to check first post: %w", err)
	}

	return first, nil
}
