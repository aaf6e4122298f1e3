// Copyright (c) 2026 Parley. All rights reserved.
// Author: dev@parleyhq.io

/*
Package forum implements the discussion-forum resource domain: boards,
threads, and posts.

Architecture:

  - Models: Board, Thread, Post entities.
  - Repositories: Abstracted pgx-backed persistence contracts.
  - StateReader: The live resource-state predicate queries consumed by the
    permission evaluator (lock/deletion flags, ownership, board visibility,
    first-post identity). These are always read fresh — never cached — so a
    just-deleted or just-locked resource is reflected in the very next
    authorization decision.
  - Service: Orchestrates domain operations once authorization has passed.
  - Handler: chi HTTP delivery, wiring per-route authorization policies and
    the view-dedup check.
*/
package forum

import "time"

// Board is a top-level forum category containing threads.
type Board struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	// Visible controls whether the board participates in the public board
	// mapping. Hidden boards (and everything under them) answer NotFound to
	// non-staff callers.
	Visible   bool      `json:"visible"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Thread is an ordered conversation under a board. Its title lives on the
// first post.
type Thread struct {
	ID      string `json:"id"`
	BoardID string `json:"board_id"`
	// CreatedBy is the user id that started the thread (owns its first post).
	CreatedBy string `json:"created_by"`
	Locked    bool   `json:"locked"`
	Sticky    bool   `json:"sticky"`
	Deleted   bool   `json:"deleted"`
	// ViewCount is the dedup-guarded shared view counter.
	ViewCount int64     `json:"view_count"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Post is a single message inside a thread.
type Post struct {
	ID       string `json:"id"`
	ThreadID string `json:"thread_id"`
	UserID   string `json:"user_id"`
	Title    string `json:"title"`
	Body     string `json:"body"`
	Deleted  bool   `json:"deleted"`
	// FirstPost marks the thread-opening post, which can only be removed by
	// deleting the whole thread.
	FirstPost bool      `json:"first_post"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// # Field Identifiers

// Global field names for validation and payload mapping in the forum domain.
const (
	FieldName        = "name"
	FieldDescription = "description"
	FieldTitle       = "title"
	FieldBody        = "body"
	FieldBoardID     = "board_id"
)
