// Copyright (c) 2026 Parley. All rights reserved.
// Author: dev@parleyhq.io

/*
Package authorize decides whether a request may perform a resource action.

It implements the per-action permission policies for boards, threads, and
posts as DATA rather than control flow:

  - Policy: an action's declaration of (a) which predicates it needs,
    (b) which resource scope it operates on, and (c) an ordered rule list
    mapping predicate combinations to an outcome, first match wins.
  - Evaluator: fans out the minimal set of asynchronous predicate reads
    concurrently (scatter), waits for all of them (gather), and reduces the
    resolved [Facts] through the policy's rule list (pure function).

Outcomes:

  - Allow is the absence of an error.
  - NotFound hides the resource's existence from callers who may not see it.
  - Forbidden admits the resource exists but rejects the action.

Any predicate fetch that itself fails (store unreachable, row vanished
mid-flight) propagates as an infrastructure error — it is never coerced
into NotFound or Forbidden.

Anonymous requests are first-class: a nil credential resolves the identity
predicates (admin, mod, owner) to false without touching any store.
*/
package authorize

// Action names one authorizable operation on a forum resource.
type Action string

// Thread actions.
const (
	// ActionFindThread views a single thread.
	ActionFindThread Action = "thread.find"
	// ActionListThreads lists the threads of a board.
	ActionListThreads Action = "thread.list"
	// ActionCreateThread starts a new thread on a board.
	ActionCreateThread Action = "thread.create"
	// ActionLockThread locks or unlocks a thread.
	ActionLockThread Action = "thread.lock"
	// ActionMoveThread moves a thread to another board.
	ActionMoveThread Action = "thread.move"
	// ActionStickyThread pins or unpins a thread.
	ActionStickyThread Action = "thread.sticky"
	// ActionDeleteThread soft-deletes a thread.
	ActionDeleteThread Action = "thread.delete"
	// ActionPurgeThread permanently removes a thread.
	ActionPurgeThread Action = "thread.purge"
)

// Post actions.
const (
	// ActionFindPost views a single post.
	ActionFindPost Action = "post.find"
	// ActionListPosts lists the posts of a thread.
	ActionListPosts Action = "post.list"
	// ActionCreatePost replies to a thread.
	ActionCreatePost Action = "post.create"
	// ActionUpdatePost edits a post's content.
	ActionUpdatePost Action = "post.update"
	// ActionDeletePost soft-deletes a post.
	ActionDeletePost Action = "post.delete"
	// ActionPurgePost permanently removes a post.
	ActionPurgePost Action = "post.purge"
)

// Request identifies the action and the resource it targets. Exactly the
// id matching the action's scope is consulted: BoardID for board-scoped
// actions, ThreadID for thread-scoped, PostID for post-scoped.
type Request struct {
	Action   Action
	BoardID  string
	ThreadID string
	PostID   string
}
