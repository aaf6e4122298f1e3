// Copyright (c) 2026 Parley. All rights reserved.
// Author: dev@parleyhq.io

package forum

import "context"

// # Board Data Access

// BoardRepository defines the data access contract for boards.
type BoardRepository interface {

	/*
		List returns all boards, hidden ones included; visibility filtering
		is the authorization layer's concern, not the repository's.

		Parameters:
		  - ctx: context.Context

		Returns:
		  - []*Board: All boards ordered by name
		  - error: Database retrieval failures
	*/
	List(ctx context.Context) ([]*Board, error)

	/*
		FindByID returns the board with the given ID.

		Parameters:
		  - ctx: context.Context
		  - id: string

		Returns:
		  - *Board: Hydrated entity
		  - error: apperr.NotFound or database failures
	*/
	FindByID(ctx context.Context, id string) (*Board, error)

	/*
		Create persists a new board.

		Parameters:
		  - ctx: context.Context
		  - board: *Board

		Returns:
		  - error: Persistence failures
	*/
	Create(ctx context.Context, board *Board) error
}

// # Thread Data Access

// ThreadRepository defines the data access contract for threads.
type ThreadRepository interface {

	// ListByBoard returns a page of the board's live threads, stickies
	// first, together with the total live-thread count for pagination.
	ListByBoard(ctx context.Context, boardID string, limit, offset int) ([]*Thread, int, error)

	// FindByID returns the thread with the given ID.
	// It returns apperr.NotFound if the thread is absent.
	FindByID(ctx context.Context, id string) (*Thread, error)

	// Create persists a new thread together with its first post in one
	// transaction; a thread without a first post must never exist.
	Create(ctx context.Context, thread *Thread, firstPost *Post) error

	// SetLocked updates the thread's lock flag.
	SetLocked(ctx context.Context, id string, locked bool) error

	// SetSticky updates the thread's sticky flag.
	SetSticky(ctx context.Context, id string, sticky bool) error

	// Move reassigns the thread to another board.
	Move(ctx context.Context, id string, boardID string) error

	// SoftDelete marks the thread as deleted without removing rows.
	SoftDelete(ctx context.Context, id string) error

	// Purge permanently removes the thread and its posts.
	Purge(ctx context.Context, id string) error

	// IncViewCount atomically bumps the thread's shared view counter.
	// This is the write dispatched (fire-and-forget) by the view-dedup
	// service; it must be safe under concurrent callers.
	IncViewCount(ctx context.Context, id string) error
}

// # Post Data Access

// PostRepository defines the data access contract for posts.
type PostRepository interface {

	// ListByThread returns a page of the thread's posts in creation order,
	// together with the total post count for pagination.
	ListByThread(ctx context.Context, threadID string, limit, offset int) ([]*Post, int, error)

	// FindByID returns the post with the given ID.
	// It returns apperr.NotFound if the post is absent.
	FindByID(ctx context.Context, id string) (*Post, error)

	// Create persists a new post.
	Create(ctx context.Context, post *Post) error

	// Update persists changes to the post's title and body.
	Update(ctx context.Context, post *Post) error

	// SoftDelete marks the post as deleted without removing the row.
	SoftDelete(ctx context.Context, id string) error

	// Purge permanently removes the post.
	Purge(ctx context.Context, id string) error
}

// # Live Predicate Queries
//
// StateReader mirrors the permission evaluator's ResourceReader contract.
// The distinction between "boolean answer" and "error" is load-bearing:
// an unknown board/thread/post in the *Board methods is a legitimate
// (false) visibility answer, while a vanished row under the flag and
// ownership queries is an infrastructure error that must propagate — the
// evaluator never converts a failed fetch into a policy decision.

// StateReader exposes the fresh-per-request resource state predicates.
type StateReader interface {

	// BoardVisible reports whether the board is in the visible board mapping.
	// Unknown boards are (false, nil).
	BoardVisible(ctx context.Context, boardID string) (bool, error)

	// ThreadBoard resolves a thread's board id and visibility in one read.
	// Unknown threads are ("", false, nil).
	ThreadBoard(ctx context.Context, threadID string) (string, bool, error)

	// PostBoard resolves a post's board id and visibility in one read.
	// Unknown posts are ("", false, nil).
	PostBoard(ctx context.Context, postID string) (string, bool, error)

	// ThreadLocked reports the thread's lock flag.
	ThreadLocked(ctx context.Context, threadID string) (bool, error)

	// ThreadDeleted reports the thread's soft-deletion flag.
	ThreadDeleted(ctx context.Context, threadID string) (bool, error)

	// PostLocked reports the lock flag of the post's enclosing thread.
	PostLocked(ctx context.Context, postID string) (bool, error)

	// PostThreadDeleted reports the deletion flag of the post's enclosing thread.
	PostThreadDeleted(ctx context.Context, postID string) (bool, error)

	// PostDeleted reports the post's own soft-deletion flag.
	PostDeleted(ctx context.Context, postID string) (bool, error)

	// ThreadOwner returns the user id that started the thread.
	ThreadOwner(ctx context.Context, threadID string) (string, error)

	// PostOwner returns the user id that authored the post.
	PostOwner(ctx context.Context, postID string) (string, error)

	// IsFirstPost reports whether the post opened its thread.
	IsFirstPost(ctx context.Context, postID string) (bool, error)
}
