// Copyright (c) 2026 Parley. All rights reserved.
// Author: dev@parleyhq.io

package forum

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/parleyhq/parley/internal/authorize"
	"github.com/parleyhq/parley/internal/platform/apperr"
	"github.com/parleyhq/parley/internal/session"
	"github.com/parleyhq/parley/internal/views"
	"github.com/parleyhq/parley/pkg/slice"
	"github.com/parleyhq/parley/pkg/slug"
	"github.com/parleyhq/parley/pkg/uuid"
)

// # Service

// Service orchestrates forum use cases.
//
// Every resource operation runs through the permission evaluator before any
// write or member-facing read; the repositories themselves never filter by
// caller, so this layer is the only place access decisions happen.
type Service struct {
	boards    BoardRepository
	threads   ThreadRepository
	posts     PostRepository
	evaluator *authorize.Evaluator
	viewDedup *views.Service
	history   views.History
	logger    *slog.Logger
}

// NewService constructs a forum [Service] with its dependencies.
func NewService(
	boards BoardRepository,
	threads ThreadRepository,
	posts PostRepository,
	evaluator *authorize.Evaluator,
	viewDedup *views.Service,
	history views.History,
	logger *slog.Logger,
) *Service {
	return &Service{
		boards:    boards,
		threads:   threads,
		posts:     posts,
		evaluator: evaluator,
		viewDedup: viewDedup,
		history:   history,
		logger:    logger,
	}
}

// # Board Use Cases

/*
ListBoards returns the boards visible to the caller.

Description: Hidden boards are filtered out unless the caller is an
administrator or moderates that particular board. This is a listing
surface, so the filter is silent — hidden boards simply do not appear.

Parameters:
  - ctx: context.Context
  - credential: *session.Credential (nil for anonymous)

Returns:
  - []*Board: The caller-visible boards
  - error: Storage errors
*/
func (service *Service) ListBoards(ctx context.Context, credential *session.Credential) ([]*Board, error) {
	boards, err := service.boards.List(ctx)
	if err != nil {
		return nil, err
	}

	visible := slice.Filter(boards, func(board *Board) bool {
		return board.Visible || credential.IsAdmin() || credential.Moderates(board.ID)
	})
	return visible, nil
}

/*
GetBoard returns one board.

Description: Hidden boards answer not-found to everyone but administrators
and their own moderators, the same concealment the evaluator applies to
the resources underneath them.

Parameters:
  - ctx: context.Context
  - credential: *session.Credential (nil for anonymous)
  - boardID: string

Returns:
  - *Board: The board
  - error: apperr.NotFound for unknown or concealed boards, or storage errors
*/
func (service *Service) GetBoard(ctx context.Context, credential *session.Credential, boardID string) (*Board, error) {
	board, err := service.boards.FindByID(ctx, boardID)
	if err != nil {
		return nil, err
	}
	if !board.Visible && !credential.IsAdmin() && !credential.Moderates(board.ID) {
		return nil, apperr.NotFound("board")
	}
	return board, nil
}

// CreateBoardInput holds the data required to open a new board.
type CreateBoardInput struct {
	Name        string
	Description string
	Visible     bool
}

/*
CreateBoard opens a new board. Administrators only.

Parameters:
  - ctx: context.Context
  - credential: *session.Credential
  - input: CreateBoardInput

Returns:
  - *Board: Created entity
  - error: apperr.Forbidden for non-admins, or storage errors
*/
func (service *Service) CreateBoard(ctx context.Context, credential *session.Credential, input CreateBoardInput) (*Board, error) {
	if !credential.IsAdmin() {
		return nil, apperr.Forbidden("You do not have permission to perform this action")
	}

	board := &Board{
		ID:          uuid.New(),
		Name:        input.Name,
		Slug:        slug.From(input.Name),
		Description: input.Description,
		Visible:     input.Visible,
	}
	if err := service.boards.Create(ctx, board); err != nil {
		return nil, fmt.Errorf("forum_create_board_failed: %w", err)
	}

	service.logger.Info("board_created",
		slog.String("board_id", board.ID),
		slog.String("created_by", credential.UserID),
	)
	return board, nil
}

// # Thread Use Cases

/*
ListThreads returns a page of a board's threads.

Parameters:
  - ctx: context.Context
  - credential: *session.Credential (nil for anonymous)
  - boardID: string
  - limit: int
  - offset: int

Returns:
  - []*Thread: The page of threads
  - int: Total live-thread count for pagination
  - error: Permission rejection or storage errors
*/
func (service *Service) ListThreads(ctx context.Context, credential *session.Credential, boardID string, limit, offset int) ([]*Thread, int, error) {
	err := service.evaluator.Evaluate(ctx, credential, authorize.Request{
		Action:  authorize.ActionListThreads,
		BoardID: boardID,
	})
	if err != nil {
		return nil, 0, err
	}

	return service.threads.ListByBoard(ctx, boardID, limit, offset)
}

// ThreadView bundles a thread with the outcome of its view check.
type ThreadView struct {
	Thread *Thread
	// NewViewerID is non-empty when the request carried no viewer identity
	// and one was minted; the transport layer returns it to the client.
	NewViewerID string
}

/*
GetThread returns one thread, running the view-dedup check.

Description: The permission check runs first: callers who may not see the
thread never touch the dedup cache, so probing hidden threads leaves no
trace and counts no views. On an admitted read the dedup decision may
dispatch a fire-and-forget counter increment; the thread snapshot returned
here predates that increment, which is acceptable for a display counter.
Signed-in callers also get the view stamped into their personal history.

Parameters:
  - ctx: context.Context
  - credential: *session.Credential (nil for anonymous)
  - threadID: string
  - viewerID: string (client-claimed dedup identity, may be empty)
  - remoteAddress: string (network address fallback identity)

Returns:
  - *ThreadView: The thread plus any newly minted viewer id
  - error: Permission rejection or storage errors
*/
func (service *Service) GetThread(ctx context.Context, credential *session.Credential, threadID, viewerID, remoteAddress string) (*ThreadView, error) {
	err := service.evaluator.Evaluate(ctx, credential, authorize.Request{
		Action:   authorize.ActionFindThread,
		ThreadID: threadID,
	})
	if err != nil {
		return nil, err
	}

	thread, err := service.threads.FindByID(ctx, threadID)
	if err != nil {
		return nil, err
	}

	result := service.viewDedup.CheckView(ctx, viewerID, remoteAddress, threadID)

	// Personal history is best-effort; a Redis hiccup must not fail the read.
	if credential != nil {
		if err := service.history.RecordThreadView(ctx, credential.UserID, threadID, time.Now()); err != nil {
			service.logger.Warn("thread_history_write_failed",
				slog.String("user_id", credential.UserID),
				slog.Any("error", err),
			)
		}
	}

	return &ThreadView{Thread: thread, NewViewerID: result.NewViewerID}, nil
}

// CreateThreadInput holds the data required to start a thread.
type CreateThreadInput struct {
	BoardID string
	Title   string
	Body    string
}

/*
CreateThread starts a new thread with its first post.

Parameters:
  - ctx: context.Context
  - credential: *session.Credential (must be authenticated)
  - input: CreateThreadInput

Returns:
  - *Thread: Created entity
  - error: Permission rejection or storage errors
*/
func (service *Service) CreateThread(ctx context.Context, credential *session.Credential, input CreateThreadInput) (*Thread, error) {
	err := service.evaluator.Evaluate(ctx, credential, authorize.Request{
		Action:  authorize.ActionCreateThread,
		BoardID: input.BoardID,
	})
	if err != nil {
		return nil, err
	}

	thread := &Thread{
		ID:        uuid.New(),
		BoardID:   input.BoardID,
		CreatedBy: credential.UserID,
	}
	firstPost := &Post{
		ID:     uuid.New(),
		UserID: credential.UserID,
		Title:  input.Title,
		Body:   input.Body,
	}
	if err := service.threads.Create(ctx, thread, firstPost); err != nil {
		return nil, fmt.Errorf("forum_create_thread_failed: %w", err)
	}

	return thread, nil
}

// SetThreadLocked locks or unlocks a thread.
func (service *Service) SetThreadLocked(ctx context.Context, credential *session.Credential, threadID string, locked bool) error {
	err := service.evaluator.Evaluate(ctx, credential, authorize.Request{
		Action:   authorize.ActionLockThread,
		ThreadID: threadID,
	})
	if err != nil {
		return err
	}
	return service.threads.SetLocked(ctx, threadID, locked)
}

// SetThreadSticky pins or unpins a thread. Staff only.
func (service *Service) SetThreadSticky(ctx context.Context, credential *session.Credential, threadID string, sticky bool) error {
	err := service.evaluator.Evaluate(ctx, credential, authorize.Request{
		Action:   authorize.ActionStickyThread,
		ThreadID: threadID,
	})
	if err != nil {
		return err
	}
	return service.threads.SetSticky(ctx, threadID, sticky)
}

/*
MoveThread relocates a thread to another board. Staff only.

The caller's staff standing is judged against the thread's current board;
the destination only needs to exist.

Parameters:
  - ctx: context.Context
  - credential: *session.Credential
  - threadID: string
  - boardID: string (destination)

Returns:
  - error: Permission rejection, apperr.NotFound for an unknown
    destination, or storage errors
*/
func (service *Service) MoveThread(ctx context.Context, credential *session.Credential, threadID, boardID string) error {
	err := service.evaluator.Evaluate(ctx, credential, authorize.Request{
		Action:   authorize.ActionMoveThread,
		ThreadID: threadID,
	})
	if err != nil {
		return err
	}

	if _, err := service.boards.FindByID(ctx, boardID); err != nil {
		return err
	}
	return service.threads.Move(ctx, threadID, boardID)
}

// DeleteThread soft-deletes a thread. Staff only.
func (service *Service) DeleteThread(ctx context.Context, credential *session.Credential, threadID string) error {
	err := service.evaluator.Evaluate(ctx, credential, authorize.Request{
		Action:   authorize.ActionDeleteThread,
		ThreadID: threadID,
	})
	if err != nil {
		return err
	}
	return service.threads.SoftDelete(ctx, threadID)
}

// PurgeThread permanently removes a thread and its posts. Staff only.
func (service *Service) PurgeThread(ctx context.Context, credential *session.Credential, threadID string) error {
	err := service.evaluator.Evaluate(ctx, credential, authorize.Request{
		Action:   authorize.ActionPurgeThread,
		ThreadID: threadID,
	})
	if err != nil {
		return err
	}

	service.logger.Info("thread_purged",
		slog.String("thread_id", threadID),
		slog.String("purged_by", credential.UserID),
	)
	return service.threads.Purge(ctx, threadID)
}

/*
ThreadHistory returns the signed-in caller's personally viewed threads.

Parameters:
  - ctx: context.Context
  - credential: *session.Credential (must be authenticated)
  - threadIDs: []string: Optional filter; empty means the full history

Returns:
  - map[string]string: RFC 3339 view times keyed by thread id
  - error: Storage errors
*/
func (service *Service) ThreadHistory(ctx context.Context, credential *session.Credential, threadIDs []string) (map[string]string, error) {
	viewed, err := service.history.ThreadViews(ctx, credential.UserID)
	if err != nil {
		return nil, fmt.Errorf("forum_thread_history_failed: %w", err)
	}

	// Clients listing a board page only need the entries for the threads
	// on that page.
	if len(threadIDs) > 0 {
		wanted := make(map[string]struct{}, len(threadIDs))
		for _, threadID := range threadIDs {
			wanted[threadID] = struct{}{}
		}
		for threadID := range viewed {
			if _, ok := wanted[threadID]; !ok {
				delete(viewed, threadID)
			}
		}
	}

	history := make(map[string]string, len(viewed))
	for threadID, at := range viewed {
		history[threadID] = at.UTC().Format(time.RFC3339)
	}
	return history, nil
}

// # Post Use Cases

/*
ListPosts returns a page of a thread's posts.

Description: Soft-deleted posts keep their place in the page so replies
that quote them stay anchored, but their content is redacted unless the
caller is staff for the thread's board.

Parameters:
  - ctx: context.Context
  - credential: *session.Credential (nil for anonymous)
  - threadID: string
  - limit: int
  - offset: int

Returns:
  - []*Post: The page of posts, deleted entries redacted per caller
  - int: Total post count for pagination
  - error: Permission rejection or storage errors
*/
func (service *Service) ListPosts(ctx context.Context, credential *session.Credential, threadID string, limit, offset int) ([]*Post, int, error) {
	err := service.evaluator.Evaluate(ctx, credential, authorize.Request{
		Action:   authorize.ActionListPosts,
		ThreadID: threadID,
	})
	if err != nil {
		return nil, 0, err
	}

	posts, total, err := service.posts.ListByThread(ctx, threadID, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	if !service.staffForThread(ctx, credential, threadID) {
		for _, post := range posts {
			if post.Deleted {
				post.Title = ""
				post.Body = ""
			}
		}
	}
	return posts, total, nil
}

// staffForThread reports whether the caller is an administrator or
// moderates the thread's board. Resolution failures degrade to false, the
// stricter answer.
func (service *Service) staffForThread(ctx context.Context, credential *session.Credential, threadID string) bool {
	if credential.IsAdmin() {
		return true
	}
	if !credential.ModeratesAnything() {
		return false
	}
	thread, err := service.threads.FindByID(ctx, threadID)
	if err != nil {
		return false
	}
	return credential.Moderates(thread.BoardID)
}

/*
GetPost returns one post.

Parameters:
  - ctx: context.Context
  - credential: *session.Credential (nil for anonymous)
  - postID: string

Returns:
  - *Post: The post
  - error: Permission rejection or storage errors
*/
func (service *Service) GetPost(ctx context.Context, credential *session.Credential, postID string) (*Post, error) {
	err := service.evaluator.Evaluate(ctx, credential, authorize.Request{
		Action: authorize.ActionFindPost,
		PostID: postID,
	})
	if err != nil {
		return nil, err
	}
	return service.posts.FindByID(ctx, postID)
}

// CreatePostInput holds the data required to reply to a thread.
type CreatePostInput struct {
	ThreadID string
	Title    string
	Body     string
}

/*
CreatePost appends a reply to a thread.

Parameters:
  - ctx: context.Context
  - credential: *session.Credential (must be authenticated)
  - input: CreatePostInput

Returns:
  - *Post: Created entity
  - error: Permission rejection or storage errors
*/
func (service *Service) CreatePost(ctx context.Context, credential *session.Credential, input CreatePostInput) (*Post, error) {
	err := service.evaluator.Evaluate(ctx, credential, authorize.Request{
		Action:   authorize.ActionCreatePost,
		ThreadID: input.ThreadID,
	})
	if err != nil {
		return nil, err
	}

	post := &Post{
		ID:       uuid.New(),
		ThreadID: input.ThreadID,
		UserID:   credential.UserID,
		Title:    input.Title,
		Body:     input.Body,
	}
	if err := service.posts.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("forum_create_post_failed: %w", err)
	}
	return post, nil
}

// UpdatePostInput holds the editable fields of a post.
type UpdatePostInput struct {
	PostID string
	Title  string
	Body   string
}

/*
UpdatePost edits a post's title and body.

Parameters:
  - ctx: context.Context
  - credential: *session.Credential (must be authenticated)
  - input: UpdatePostInput

Returns:
  - *Post: The updated post
  - error: Permission rejection or storage errors
*/
func (service *Service) UpdatePost(ctx context.Context, credential *session.Credential, input UpdatePostInput) (*Post, error) {
	err := service.evaluator.Evaluate(ctx, credential, authorize.Request{
		Action: authorize.ActionUpdatePost,
		PostID: input.PostID,
	})
	if err != nil {
		return nil, err
	}

	post := &Post{ID: input.PostID, Title: input.Title, Body: input.Body}
	if err := service.posts.Update(ctx, post); err != nil {
		return nil, err
	}
	return service.posts.FindByID(ctx, input.PostID)
}

// DeletePost soft-deletes a post. The thread's first post can never be
// deleted this way; the permission tables reject it for every caller.
func (service *Service) DeletePost(ctx context.Context, credential *session.Credential, postID string) error {
	err := service.evaluator.Evaluate(ctx, credential, authorize.Request{
		Action: authorize.ActionDeletePost,
		PostID: postID,
	})
	if err != nil {
		return err
	}
	return service.posts.SoftDelete(ctx, postID)
}

// PurgePost permanently removes a post. Administrators only, and never the
// thread's first post.
func (service *Service) PurgePost(ctx context.Context, credential *session.Credential, postID string) error {
	err := service.evaluator.Evaluate(ctx, credential, authorize.Request{
		Action: authorize.ActionPurgePost,
		PostID: postID,
	})
	if err != nil {
		return err
	}

	service.logger.Info("post_purged",
		slog.String("post_id", postID),
		slog.String("purged_by", credential.UserID),
	)
	return service.posts.Purge(ctx, postID)
}
