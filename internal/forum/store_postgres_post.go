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

// postRepository implements the [PostRepository] interface using pgx.
type postRepository struct {
	pool *pgxpool.Pool
}

// NewPostRepository constructs a PostgreSQL backed post store.
func NewPostRepository(pool *pgxpool.Pool) PostRepository {
	return &postRepository{pool: pool}
}

// # Post Repository Implementation

/*
ListByThread returns a page of the thread's posts in creation order.

Soft-deleted posts stay in the result set with their Deleted flag raised;
the transport layer blanks their bodies for non-staff callers so replies
that quote them keep their anchor.

Parameters:
  - ctx: context.Context
  - threadID: string UUID of the enclosing thread
  - limit: int
  - offset: int

Returns:
  - []*Post: The page of posts
  - int: Total post count for pagination
  - error: Database execution errors
*/
func (repository *postRepository) ListByThread(ctx context.Context, threadID string, limit, offset int) ([]*Post, int, error) {

	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s, %s, %s,
			COUNT(*) OVER() AS total_count
		FROM %s
		WHERE %s = $1
		ORDER BY %s ASC
		LIMIT $2 OFFSET $3
	`,
		schema.ForumPost.ID,
		schema.ForumPost.ThreadID,
		schema.ForumPost.UserID,
		schema.ForumPost.Title,
		schema.ForumPost.Body,
		schema.ForumPost.Deleted,
		schema.ForumPost.FirstPost,
		schema.ForumPost.CreatedAt,
		schema.ForumPost.UpdatedAt,
		schema.ForumPost.Table,
		schema.ForumPost.ThreadID,
		schema.ForumPost.CreatedAt,
	)

	rows, err := repository.pool.Query(ctx, query, threadID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres: failed to list posts: %w", err)
	}
	defer rows.Close()

	var posts []*Post
	var totalCount int
	for rows.Next() {
		post := &Post{}
		err := rows.Scan(
			&post.ID,
			&post.ThreadID,
			&post.UserID,
			&post.Title,
			&post.Body,
			&post.Deleted,
			&post.FirstPost,
			&post.CreatedAt,
			&post.UpdatedAt,
			&totalCount,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("postgres: failed to scan post: %w", err)
		}
		posts = append(posts, post)
	}

	return posts, totalCount, rows.Err()
}

/*
FindByID retrieves a post record by its primary key.

Parameters:
  - ctx: context.Context
  - id: string UUID primary key of the target post

Returns:
  - *Post: The hydrated post entity, or nil when absent
  - error: apperr.NotFound if the post does not exist, or execution errors
*/
func (repository *postRepository) FindByID(ctx context.Context, id string) (*Post, error) {

	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1
	`,
		schema.ForumPost.ID,
		schema.ForumPost.ThreadID,
		schema.ForumPost.UserID,
		schema.ForumPost.Title,
		schema.ForumPost.Body,
		schema.ForumPost.Deleted,
		schema.ForumPost.FirstPost,
		schema.ForumPost.CreatedAt,
		schema.ForumPost.UpdatedAt,
		schema.ForumPost.Table,
		schema.ForumPost.ID,
	)

	post := &Post{}
	err := repository.pool.QueryRow(ctx, query, id).Scan(
		&post.ID,
		&post.ThreadID,
		&post.UserID,
		&post.Title,
		&post.Body,
		&post.Deleted,
		&post.FirstPost,
		&post.CreatedAt,
		&post.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("post")
		}
		return nil, fmt.Errorf("postgres: failed to find post by id: %w", err)
	}

	return post, nil
}

/*
Create persists a new reply post.

First posts are written by the thread repository inside the thread creation
transaction; this method always inserts with the first-post flag lowered.

Parameters:
  - ctx: context.Context
  - post: *Post with ID, ThreadID, UserID, Title and Body populated

Returns:
  - error: Execution failures
*/
func (repository *postRepository) Create(ctx context.Context, post *Post) error {

	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, FALSE)
	`,
		schema.ForumPost.Table,
		schema.ForumPost.ID,
		schema.ForumPost.ThreadID,
		schema.ForumPost.UserID,
		schema.ForumPost.Title,
		schema.ForumPost.Body,
		schema.ForumPost.FirstPost,
	)

	_, err := repository.pool.Exec(ctx, query,
		post.ID,
		post.ThreadID,
		post.UserID,
		post.Title,
		post.Body,
	)
	if err != nil {
		return fmt.Errorf("postgres: failed to create post: %w", err)
	}

	return nil
}

/*
Update persists changes to the post's title and body.

Parameters:
  - ctx: context.Context
  - post: *Post carrying the target ID and the new Title and Body

Returns:
  - error: apperr.NotFound if the post is absent or deleted, or execution errors
*/
func (repository *postRepository) Update(ctx context.Context, post *Post) error {

	query := fmt.Sprintf(`
		UPDATE %s SET %s = $1, %s = $2, %s = NOW()
		WHERE %s = $3 AND %s = FALSE
	`,
		schema.ForumPost.Table,
		schema.ForumPost.Title,
		schema.ForumPost.Body,
		schema.ForumPost.UpdatedAt,
		schema.ForumPost.ID,
		schema.ForumPost.Deleted,
	)

	result, err := repository.pool.Exec(ctx, query, post.Title, post.Body, post.ID)
	if err != nil {
		return fmt.Errorf("postgres: failed to update post: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound("post")
	}

	return nil
}

// SoftDelete marks the post as deleted without removing the row.
func (repository *postRepository) SoftDelete(ctx context.Context, id string) error {

	query := fmt.Sprintf(
		"UPDATE %s SET %s = TRUE, %s = NOW() WHERE %s = $1",
		schema.ForumPost.Table, schema.ForumPost.Deleted, schema.ForumPost.UpdatedAt, schema.ForumPost.ID,
	)

	result, err := repository.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("postgres: failed to delete post: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound("post")
	}

	return nil
}

// Purge permanently removes the post.
func (repository *postRepository) Purge(ctx context.Context, id string) error {

	query := fmt.Sprintf(
		"DELETE FROM %s WHERE %s = $1",
		schema.ForumPost.Table, schema.ForumPost.ID,
	)

	result, err := repository.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("postgres: failed to purge post: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound("post")
	}

	return nil
}
