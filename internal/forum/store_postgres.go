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
	"github.com/parleyhq/parley/internal/platform/dberr"
)

// # PostgreSQL Repositories

// boardRepository implements the [BoardRepository] interface using pgx.
type boardRepository struct {
	pool *pgxpool.Pool
}

// NewBoardRepository constructs a PostgreSQL backed board store.
func NewBoardRepository(pool *pgxpool.Pool) BoardRepository {
	return &boardRepository{pool: pool}
}

// # Board Repository Implementation

/*
List returns every board ordered by name.

Hidden boards are included: the permission layer decides per-caller what is
visible, and filtering here would starve staff listings.

Parameters:
  - ctx: context.Context

Returns:
  - []*Board: All boards ordered by name
  - error: Database execution errors
*/
func (repository *boardRepository) List(ctx context.Context) ([]*Board, error) {

	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s
		FROM %s
		ORDER BY %s ASC
	`,
		schema.ForumBoard.ID,
		schema.ForumBoard.Name,
		schema.ForumBoard.Slug,
		schema.ForumBoard.Description,
		schema.ForumBoard.Visible,
		schema.ForumBoard.CreatedAt,
		schema.ForumBoard.UpdatedAt,
		schema.ForumBoard.Table,
		schema.ForumBoard.Name,
	)

	rows, err := repository.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to list boards: %w", err)
	}
	defer rows.Close()

	var boards []*Board
	for rows.Next() {
		board := &Board{}
		err := rows.Scan(
			&board.ID,
			&board.Name,
			&board.Slug,
			&board.Description,
			&board.Visible,
			&board.CreatedAt,
			&board.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("postgres: failed to scan board: %w", err)
		}
		boards = append(boards, board)
	}

	return boards, rows.Err()
}

/*
FindByID retrieves a board record by its primary key.

Parameters:
  - ctx: context.Context
  - id: string UUID primary key of the target board

Returns:
  - *Board: The hydrated board entity, or nil when absent
  - error: apperr.NotFound if the board does not exist, or execution errors
*/
func (repository *boardRepository) FindByID(ctx context.Context, id string) (*Board, error) {

	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1
	`,
		schema.ForumBoard.ID,
		schema.ForumBoard.Name,
		schema.ForumBoard.Slug,
		schema.ForumBoard.Description,
		schema.ForumBoard.Visible,
		schema.ForumBoard.CreatedAt,
		schema.ForumBoard.UpdatedAt,
		schema.ForumBoard.Table,
		schema.ForumBoard.ID,
	)

	board := &Board{}
	err := repository.pool.QueryRow(ctx, query, id).Scan(
		&board.ID,
		&board.Name,
		&board.Slug,
		&board.Description,
		&board.Visible,
		&board.CreatedAt,
		&board.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("board")
		}
		return nil, fmt.Errorf("postgres: failed to find board by id: %w", err)
	}

	return board, nil
}

/*
Create persists a new board.

The caller is responsible for generating and setting the ID and Slug before
calling this method.

Parameters:
  - ctx: context.Context
  - board: *Board

Returns:
  - error: apperr.Conflict on a duplicate slug, or execution errors
*/
func (repository *boardRepository) Create(ctx context.Context, board *Board) error {

	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5)
	`,
		schema.ForumBoard.Table,
		schema.ForumBoard.ID,
		schema.ForumBoard.Name,
		schema.ForumBoard.Slug,
		schema.ForumBoard.Description,
		schema.ForumBoard.Visible,
	)

	_, err := repository.pool.Exec(ctx, query,
		board.ID,
		board.Name,
		board.Slug,
		board.Description,
		board.Visible,
	)
	if err != nil {
		// Duplicate slugs surface here as unique violations.
		return dberr.Wrap(err, "Board")
	}

	return nil
}
