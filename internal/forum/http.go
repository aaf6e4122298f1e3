// Copyright (c) 2026 Parley. All rights reserved.
// Author: dev@parleyhq.io

package forum

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/parleyhq/parley/internal/platform/constants"
	"github.com/parleyhq/parley/internal/platform/middleware"
	requestutil "github.com/parleyhq/parley/internal/platform/request"
	"github.com/parleyhq/parley/internal/platform/respond"
	"github.com/parleyhq/parley/internal/platform/validate"
	"github.com/parleyhq/parley/pkg/pagination"
	"github.com/parleyhq/parley/pkg/query"
)

// # Definitions & Constructors

// Handler implements the forum's HTTP endpoints.
//
// # Scope
//
// This layer owns transport concerns only: routing, payload decoding,
// validation, the viewer-identity header round-trip, and status codes.
// Access decisions live in the [Service] behind it.
type Handler struct {
	forumService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{forumService: service}
}

// Routes returns a [chi.Router] configured with the forum routes.
//
// # Endpoints
//   - GET  /boards                       : List visible boards.
//   - GET  /boards/{boardID}/threads     : List a board's threads.
//   - GET  /threads/{threadID}           : Fetch a thread (runs view dedup).
//   - GET  /threads/{threadID}/posts     : List a thread's posts.
//   - GET  /posts/{postID}               : Fetch a post.
//
// Everything else requires an authenticated session.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Route("/boards", func(r chi.Router) {
		r.Get("/", handler.listBoards)
		r.Get("/{boardID}", handler.getBoard)
		r.Get("/{boardID}/threads", handler.listThreads)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Post("/", handler.createBoard)
			r.Post("/{boardID}/threads", handler.createThread)
		})
	})

	router.Route("/threads", func(r chi.Router) {
		r.Get("/{threadID}", handler.getThread)
		r.Get("/{threadID}/posts", handler.listPosts)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Get("/history", handler.threadHistory)
			r.Post("/{threadID}/posts", handler.createPost)
			r.Put("/{threadID}/lock", handler.lockThread)
			r.Put("/{threadID}/sticky", handler.stickyThread)
			r.Put("/{threadID}/move", handler.moveThread)
			r.Delete("/{threadID}", handler.deleteThread)
			r.Delete("/{threadID}/purge", handler.purgeThread)
		})
	})

	router.Route("/posts", func(r chi.Router) {
		r.Get("/{postID}", handler.getPost)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Patch("/{postID}", handler.updatePost)
			r.Delete("/{postID}", handler.deletePost)
			r.Delete("/{postID}/purge", handler.purgePost)
		})
	})

	return router
}

// # Request Payloads

type createBoardRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Visible     bool   `json:"visible"`
}

type createThreadRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

type createPostRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

type updatePostRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

type lockRequest struct {
	Locked bool `json:"locked"`
}

type stickyRequest struct {
	Sticky bool `json:"sticky"`
}

type moveRequest struct {
	BoardID string `json:"board_id"`
}

// # Board Endpoints

/*
ListBoards returns the boards visible to the caller.

GET /api/v1/forum/boards

Response:
  - 200: []Board: Caller-visible boards
*/
func (handler *Handler) listBoards(writer http.ResponseWriter, request *http.Request) {
	boards, err := handler.forumService.ListBoards(request.Context(), requestutil.Credential(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, boards)
}

/*
GetBoard returns one board.

GET /api/v1/forum/boards/{boardID}

Response:
  - 200: Board: The board
  - 404: ErrNotFound: Board hidden from this caller or unknown
*/
func (handler *Handler) getBoard(writer http.ResponseWriter, request *http.Request) {
	board, err := handler.forumService.GetBoard(
		request.Context(),
		requestutil.Credential(request),
		chi.URLParam(request, "boardID"),
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, board)
}

/*
CreateBoard opens a new board. Administrators only.

POST /api/v1/forum/boards

Request:
  - Body: createBoardRequest (Name, Description, Visible)

Response:
  - 201: Board: Created board
  - 403: ErrForbidden: Caller is not an administrator
*/
func (handler *Handler) createBoard(writer http.ResponseWriter, request *http.Request) {
	var input createBoardRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldName, input.Name).
		MaxLen(FieldName, input.Name, 80).
		MaxLen(FieldDescription, input.Description, 500)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	board, err := handler.forumService.CreateBoard(request.Context(), requestutil.Credential(request), CreateBoardInput{
		Name:        input.Name,
		Description: input.Description,
		Visible:     input.Visible,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, board)
}

/*
ListThreads returns a page of a board's threads.

GET /api/v1/forum/boards/{boardID}/threads?page=&limit=

Response:
  - 200: Paged thread list
  - 404: ErrNotFound: Board hidden from this caller or unknown
*/
func (handler *Handler) listThreads(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)

	threads, total, err := handler.forumService.ListThreads(
		request.Context(),
		requestutil.Credential(request),
		requestutil.ID(request, "boardID"),
		params.Limit,
		params.Offset(),
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{
		"threads": threads,
		"meta":    pagination.NewMeta(params.Page, params.Limit, total),
	})
}

// # Thread Endpoints

/*
GetThread fetches a single thread and runs the view-dedup check.

GET /api/v1/forum/threads/{threadID}

Description: The client's viewer identity rides the X-Parley-Viewer
request header. When the request carries none, a fresh identity is minted
and returned in the same response header; clients persist it and send it
back on subsequent visits.

Response:
  - 200: Thread (X-Parley-Viewer header set when an identity was minted)
  - 404: ErrNotFound: Thread hidden from this caller or unknown
*/
func (handler *Handler) getThread(writer http.ResponseWriter, request *http.Request) {
	view, err := handler.forumService.GetThread(
		request.Context(),
		requestutil.Credential(request),
		requestutil.ID(request, "threadID"),
		request.Header.Get(constants.ViewerHeader),
		middleware.RealIP(request),
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if view.NewViewerID != "" {
		writer.Header().Set(constants.ViewerHeader, view.NewViewerID)
	}
	respond.OK(writer, view.Thread)
}

/*
CreateThread starts a new thread in a board.

POST /api/v1/forum/boards/{boardID}/threads

Request:
  - Body: createThreadRequest (Title, Body)

Response:
  - 201: Thread: Created thread
  - 403: ErrForbidden: Board denies the caller
  - 404: ErrNotFound: Board hidden from this caller or unknown
*/
func (handler *Handler) createThread(writer http.ResponseWriter, request *http.Request) {
	var input createThreadRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldTitle, input.Title).
		MaxLen(FieldTitle, input.Title, 200).
		Required(FieldBody, input.Body).
		MaxLen(FieldBody, input.Body, 50000)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	thread, err := handler.forumService.CreateThread(request.Context(), requestutil.Credential(request), CreateThreadInput{
		BoardID: requestutil.ID(request, "boardID"),
		Title:   input.Title,
		Body:    input.Body,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, thread)
}

/*
LockThread locks or unlocks a thread. Staff, or the thread's owner.

PUT /api/v1/forum/threads/{threadID}/lock

Request:
  - Body: lockRequest (Locked)

Response:
  - 204: No Content
*/
func (handler *Handler) lockThread(writer http.ResponseWriter, request *http.Request) {
	var input lockRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	err := handler.forumService.SetThreadLocked(
		request.Context(),
		requestutil.Credential(request),
		requestutil.ID(request, "threadID"),
		input.Locked,
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

/*
StickyThread pins or unpins a thread. Staff only.

PUT /api/v1/forum/threads/{threadID}/sticky

Request:
  - Body: stickyRequest (Sticky)

Response:
  - 204: No Content
*/
func (handler *Handler) stickyThread(writer http.ResponseWriter, request *http.Request) {
	var input stickyRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	err := handler.forumService.SetThreadSticky(
		request.Context(),
		requestutil.Credential(request),
		requestutil.ID(request, "threadID"),
		input.Sticky,
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

/*
MoveThread relocates a thread to another board. Staff only.

PUT /api/v1/forum/threads/{threadID}/move

Request:
  - Body: moveRequest (BoardID)

Response:
  - 204: No Content
  - 404: ErrNotFound: Unknown destination board
*/
func (handler *Handler) moveThread(writer http.ResponseWriter, request *http.Request) {
	var input moveRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldBoardID, input.BoardID).UUID(FieldBoardID, input.BoardID)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	err := handler.forumService.MoveThread(
		request.Context(),
		requestutil.Credential(request),
		requestutil.ID(request, "threadID"),
		input.BoardID,
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

// DeleteThread soft-deletes a thread. Staff only.
//
// DELETE /api/v1/forum/threads/{threadID}
func (handler *Handler) deleteThread(writer http.ResponseWriter, request *http.Request) {
	err := handler.forumService.DeleteThread(
		request.Context(),
		requestutil.Credential(request),
		requestutil.ID(request, "threadID"),
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

// PurgeThread permanently removes a thread and its posts. Staff only.
//
// DELETE /api/v1/forum/threads/{threadID}/purge
func (handler *Handler) purgeThread(writer http.ResponseWriter, request *http.Request) {
	err := handler.forumService.PurgeThread(
		request.Context(),
		requestutil.Credential(request),
		requestutil.ID(request, "threadID"),
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

/*
ThreadHistory returns the caller's personally viewed threads.

GET /api/v1/forum/threads/history?ids=

Description: The optional "ids" parameter is a comma-separated list of
thread ids that narrows the response to just those threads.

Response:
  - 200: map of thread id to last-view time
*/
func (handler *Handler) threadHistory(writer http.ResponseWriter, request *http.Request) {
	credential, err := requestutil.RequiredCredential(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	threadIDs := query.StringSlice(request.URL.Query().Get("ids"))

	history, err := handler.forumService.ThreadHistory(request.Context(), credential, threadIDs)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, history)
}

// # Post Endpoints

/*
ListPosts returns a page of a thread's posts.

GET /api/v1/forum/threads/{threadID}/posts?page=&limit=

Response:
  - 200: Paged post list (deleted posts redacted for non-staff)
  - 404: ErrNotFound: Thread hidden from this caller or unknown
*/
func (handler *Handler) listPosts(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)

	posts, total, err := handler.forumService.ListPosts(
		request.Context(),
		requestutil.Credential(request),
		requestutil.ID(request, "threadID"),
		params.Limit,
		params.Offset(),
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{
		"posts": posts,
		"meta":  pagination.NewMeta(params.Page, params.Limit, total),
	})
}

// GetPost fetches a single post.
//
// GET /api/v1/forum/posts/{postID}
func (handler *Handler) getPost(writer http.ResponseWriter, request *http.Request) {
	post, err := handler.forumService.GetPost(
		request.Context(),
		requestutil.Credential(request),
		requestutil.ID(request, "postID"),
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, post)
}

/*
CreatePost appends a reply to a thread.

POST /api/v1/forum/threads/{threadID}/posts

Request:
  - Body: createPostRequest (Title, Body)

Response:
  - 201: Post: Created post
  - 403: ErrForbidden: Thread locked for the caller
  - 404: ErrNotFound: Thread hidden from this caller or unknown
*/
func (handler *Handler) createPost(writer http.ResponseWriter, request *http.Request) {
	var input createPostRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldBody, input.Body).
		MaxLen(FieldTitle, input.Title, 200).
		MaxLen(FieldBody, input.Body, 50000)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	post, err := handler.forumService.CreatePost(request.Context(), requestutil.Credential(request), CreatePostInput{
		ThreadID: requestutil.ID(request, "threadID"),
		Title:    input.Title,
		Body:     input.Body,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, post)
}

/*
UpdatePost edits a post's title and body. Owner, or staff.

PATCH /api/v1/forum/posts/{postID}

Request:
  - Body: updatePostRequest (Title, Body)

Response:
  - 200: Post: Updated post
  - 403: ErrForbidden: Thread locked or caller is not the author
  - 404: ErrNotFound: Post hidden from this caller, deleted, or unknown
*/
func (handler *Handler) updatePost(writer http.ResponseWriter, request *http.Request) {
	var input updatePostRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldBody, input.Body).
		MaxLen(FieldTitle, input.Title, 200).
		MaxLen(FieldBody, input.Body, 50000)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	post, err := handler.forumService.UpdatePost(request.Context(), requestutil.Credential(request), UpdatePostInput{
		PostID: requestutil.ID(request, "postID"),
		Title:  input.Title,
		Body:   input.Body,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, post)
}

// DeletePost soft-deletes a post. Owner or staff; never the first post.
//
// DELETE /api/v1/forum/posts/{postID}
func (handler *Handler) deletePost(writer http.ResponseWriter, request *http.Request) {
	err := handler.forumService.DeletePost(
		request.Context(),
		requestutil.Credential(request),
		requestutil.ID(request, "postID"),
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

// PurgePost permanently removes a post. Administrators only; never the
// first post.
//
// DELETE /api/v1/forum/posts/{postID}/purge
func (handler *Handler) purgePost(writer http.ResponseWriter, request *http.Request) {
	err := handler.forumService.PurgePost(
		request.Context(),
		requestutil.Credential(request),
		requestutil.ID(request, "postID"),
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
