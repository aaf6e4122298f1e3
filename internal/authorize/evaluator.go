// Copyright (c) 2026 Parley. All rights reserved.
// Author: dev@parleyhq.io

package authorize

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/parleyhq/parley/internal/platform/apperr"
	"github.com/parleyhq/parley/internal/session"
)

// ResourceReader supplies the live resource-state predicates. Results are
// fetched fresh per decision — stale lock/deletion state could leak access
// to content that has since been hidden.
type ResourceReader interface {

	/*
		BoardVisible reports whether the board exists in the visible board
		mapping.

		Parameters:
		  - ctx: context.Context
		  - boardID: string

		Returns:
		  - bool: true when the board is listed
		  - error: Query failures only; an unlisted board is (false, nil)
	*/
	BoardVisible(ctx context.Context, boardID string) (bool, error)

	/*
		ThreadBoard resolves a thread's board id and that board's visibility
		in one read.

		Parameters:
		  - ctx: context.Context
		  - threadID: string

		Returns:
		  - string: The owning board id ("" when the thread is unknown)
		  - bool: Board visibility (false when the thread is unknown)
		  - error: Query failures only
	*/
	ThreadBoard(ctx context.Context, threadID string) (string, bool, error)

	/*
		PostBoard resolves a post's board id and that board's visibility in
		one read.

		Parameters:
		  - ctx: context.Context
		  - postID: string

		Returns:
		  - string: The owning board id ("" when the post is unknown)
		  - bool: Board visibility (false when the post is unknown)
		  - error: Query failures only
	*/
	PostBoard(ctx context.Context, postID string) (string, bool, error)

	// ThreadLocked reports the thread's lock flag.
	ThreadLocked(ctx context.Context, threadID string) (bool, error)

	// ThreadDeleted reports the thread's soft-deletion flag.
	ThreadDeleted(ctx context.Context, threadID string) (bool, error)

	// PostLocked reports the lock flag of the post's enclosing thread.
	PostLocked(ctx context.Context, postID string) (bool, error)

	// PostThreadDeleted reports the soft-deletion flag of the post's
	// enclosing thread.
	PostThreadDeleted(ctx context.Context, postID string) (bool, error)

	// PostDeleted reports the post's own soft-deletion flag.
	PostDeleted(ctx context.Context, postID string) (bool, error)

	// ThreadOwner returns the user id that started the thread.
	ThreadOwner(ctx context.Context, threadID string) (string, error)

	// PostOwner returns the user id that authored the post.
	PostOwner(ctx context.Context, postID string) (string, error)

	// IsFirstPost reports whether the post is its thread's first post.
	IsFirstPost(ctx context.Context, postID string) (bool, error)
}

// Evaluator composes predicate reads and policy reduction into one
// admit/deny decision per resource action.
type Evaluator struct {
	reader ResourceReader
}

// NewEvaluator creates an [Evaluator] backed by the given resource reader.
func NewEvaluator(reader ResourceReader) *Evaluator {
	return &Evaluator{reader: reader}
}

/*
Evaluate authorizes one action for one (possibly anonymous) credential.

Description: Looks up the action's policy, scatters the policy's predicate
reads concurrently, gathers them, and reduces the facts through the
policy's ordered rule list.

Parameters:
  - ctx: context.Context (cancellation discards in-flight predicate results)
  - credential: *session.Credential (nil for anonymous requests)
  - request: Request

Returns:
  - error: nil for Allow; apperr.NotFound / apperr.Forbidden for the two
    policy rejections; any other error is an infrastructure failure
    propagated untouched
*/
func (evaluator *Evaluator) Evaluate(ctx context.Context, credential *session.Credential, request Request) error {
	policy, ok := PolicyFor(request.Action)
	if !ok {
		return fmt.Errorf("authorize: no policy registered for action %q", request.Action)
	}

	facts, err := evaluator.resolve(ctx, credential, policy, request)
	if err != nil {
		// Infrastructure failure. Never synthesize a policy decision from a
		// failed fetch.
		return err
	}

	switch policy.Decide(facts) {
	case OutcomeAllow:
		return nil
	case OutcomeNotFound:
		return apperr.NotFound(policy.Resource)
	default:
		return apperr.Forbidden("You do not have permission to perform this action")
	}
}

// resolve scatters the policy's predicate fetches and gathers them into a
// Facts value. Each Facts field is written by at most one goroutine; the
// value is read only after Wait, so a cancelled fan-out can never mutate a
// decision that has already been taken.
func (evaluator *Evaluator) resolve(ctx context.Context, credential *session.Credential, policy *Policy, request Request) (Facts, error) {
	var facts Facts

	// Identity-only predicates cost nothing: a nil credential resolves them
	// false and the admin check is a set lookup on data fetched at
	// authentication time.
	if policy.Needs(PredicateAdmin) {
		facts.Admin = credential.IsAdmin()
	}

	group, groupCtx := errgroup.WithContext(ctx)

	// Mod and BoardVisible share one board-resolution read. The read is
	// issued when visibility is needed, or when a mod check is live (the
	// user moderates at least one board — otherwise Mod is false with no
	// lookup at all).
	wantMod := policy.Needs(PredicateMod) && credential.ModeratesAnything()
	if policy.Needs(PredicateBoardVisible) || wantMod {
		group.Go(func() error {
			boardID, visible, err := evaluator.boardOf(groupCtx, policy.Scope, request)
			if err != nil {
				return err
			}
			if policy.Needs(PredicateBoardVisible) {
				facts.BoardVisible = visible
			}
			if wantMod {
				facts.Mod = credential.Moderates(boardID)
			}
			return nil
		})
	}

	// Ownership requires an authenticated caller; anonymous requests are
	// never owners and trigger no read.
	if policy.Needs(PredicateOwner) && credential != nil {
		group.Go(func() error {
			ownerID, err := evaluator.ownerOf(groupCtx, policy.Scope, request)
			if err != nil {
				return err
			}
			facts.Owner = ownerID != "" && ownerID == credential.UserID
			return nil
		})
	}

	if policy.Needs(PredicateLocked) {
		group.Go(func() error {
			locked, err := evaluator.lockedOf(groupCtx, policy.Scope, request)
			if err != nil {
				return err
			}
			facts.Locked = locked
			return nil
		})
	}

	if policy.Needs(PredicateDeleted) {
		group.Go(func() error {
			deleted, err := evaluator.reader.PostDeleted(groupCtx, request.PostID)
			if err != nil {
				return err
			}
			facts.Deleted = deleted
			return nil
		})
	}

	if policy.Needs(PredicateThreadDeleted) {
		group.Go(func() error {
			deleted, err := evaluator.threadDeletedOf(groupCtx, policy.Scope, request)
			if err != nil {
				return err
			}
			facts.ThreadDeleted = deleted
			return nil
		})
	}

	if policy.Needs(PredicateFirstPost) {
		group.Go(func() error {
			first, err := evaluator.reader.IsFirstPost(groupCtx, request.PostID)
			if err != nil {
				return err
			}
			facts.FirstPost = first
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return Facts{}, fmt.Errorf("authorize: predicate fetch for %s failed: %w", request.Action, err)
	}
	return facts, nil
}

// # Scope-directed fetchers

func (evaluator *Evaluator) boardOf(ctx context.Context, scope Scope, request Request) (string, bool, error) {
	switch scope {
	case ScopeBoard:
		visible, err := evaluator.reader.BoardVisible(ctx, request.BoardID)
		return request.BoardID, visible, err
	case ScopeThread:
		return evaluator.reader.ThreadBoard(ctx, request.ThreadID)
	default:
		return evaluator.reader.PostBoard(ctx, request.PostID)
	}
}

func (evaluator *Evaluator) ownerOf(ctx context.Context, scope Scope, request Request) (string, error) {
	if scope == ScopePost {
		return evaluator.reader.PostOwner(ctx, request.PostID)
	}
	return evaluator.reader.ThreadOwner(ctx, request.ThreadID)
}

func (evaluator *Evaluator) lockedOf(ctx context.Context, scope Scope, request Request) (bool, error) {
	if scope == ScopePost {
		return evaluator.reader.PostLocked(ctx, request.PostID)
	}
	return evaluator.reader.ThreadLocked(ctx, request.ThreadID)
}

func (evaluator *Evaluator) threadDeletedOf(ctx context.Context, scope Scope, request Request) (bool, error) {
	if scope == ScopePost {
		return evaluator.reader.PostThreadDeleted(ctx, request.PostID)
	}
	return evaluator.reader.ThreadDeleted(ctx, request.ThreadID)
}
