// Copyright (c) 2026 Parley. All rights reserved.
// Author: dev@parleyhq.io

package authorize_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parleyhq/parley/internal/authorize"
	"github.com/parleyhq/parley/internal/platform/apperr"
	"github.com/parleyhq/parley/internal/session"
)

// fakeReader satisfies authorize.ResourceReader with canned state and
// counts the reads the evaluator actually issues.
type fakeReader struct {
	boardID      string
	boardVisible bool
	locked       bool
	deleted      bool
	threadDead   bool
	owner        string
	firstPost    bool
	err          error

	reads atomic.Int64
}

func (r *fakeReader) BoardVisible(_ context.Context, _ string) (bool, error) {
	r.reads.Add(1)
	return r.boardVisible, r.err
}

func (r *fakeReader) ThreadBoard(_ context.Context, _ string) (string, bool, error) {
	r.reads.Add(1)
	return r.boardID, r.boardVisible, r.err
}

func (r *fakeReader) PostBoard(_ context.Context, _ string) (string, bool, error) {
	r.reads.Add(1)
	return r.boardID, r.boardVisible, r.err
}

func (r *fakeReader) ThreadLocked(_ context.Context, _ string) (bool, error) {
	r.reads.Add(1)
	return r.locked, r.err
}

func (r *fakeReader) ThreadDeleted(_ context.Context, _ string) (bool, error) {
	r.reads.Add(1)
	return r.threadDead, r.err
}

func (r *fakeReader) PostLocked(_ context.Context, _ string) (bool, error) {
	r.reads.Add(1)
	return r.locked, r.err
}

func (r *fakeReader) PostThreadDeleted(_ context.Context, _ string) (bool, error) {
	r.reads.Add(1)
	return r.threadDead, r.err
}

func (r *fakeReader) PostDeleted(_ context.Context, _ string) (bool, error) {
	r.reads.Add(1)
	return r.deleted, r.err
}

func (r *fakeReader) ThreadOwner(_ context.Context, _ string) (string, error) {
	r.reads.Add(1)
	return r.owner, r.err
}

func (r *fakeReader) PostOwner(_ context.Context, _ string) (string, error) {
	r.reads.Add(1)
	return r.owner, r.err
}

func (r *fakeReader) IsFirstPost(_ context.Context, _ string) (bool, error) {
	r.reads.Add(1)
	return r.firstPost, r.err
}

func member(userID string, moderating ...string) *session.Credential {
	return session.NewCredential(userID, "s1", "ada", "", nil, moderating)
}

func admin(userID string) *session.Credential {
	return session.NewCredential(userID, "s1", "root", "", []string{"administrator"}, nil)
}

/*
TestEvaluate_Outcomes tests the three outcome materializations across
representative requests.
*/
func TestEvaluate_Outcomes(t *testing.T) {
	tests := []struct {
		name       string
		reader     *fakeReader
		credential *session.Credential
		request    authorize.Request
		check      func(t *testing.T, err error)
	}{
		{
			name:       "allow_is_nil_error",
			reader:     &fakeReader{boardID: "b1", boardVisible: true},
			credential: nil,
			request:    authorize.Request{Action: authorize.ActionFindThread, ThreadID: "t1"},
			check: func(t *testing.T, err error) {
				assert.NoError(t, err)
			},
		},
		{
			name:       "hidden_board_is_not_found",
			reader:     &fakeReader{boardID: "b1", boardVisible: false},
			credential: nil,
			request:    authorize.Request{Action: authorize.ActionFindThread, ThreadID: "t1"},
			check: func(t *testing.T, err error) {
				assert.True(t, apperr.IsNotFound(err))
			},
		},
		{
			name:       "unknown_thread_is_not_found",
			reader:     &fakeReader{}, // no board row resolves: ("", false, nil)
			credential: member("u1"),
			request:    authorize.Request{Action: authorize.ActionFindThread, ThreadID: "ghost"},
			check: func(t *testing.T, err error) {
				assert.True(t, apperr.IsNotFound(err))
			},
		},
		{
			name:       "locked_thread_reply_is_forbidden",
			reader:     &fakeReader{boardID: "b1", boardVisible: true, locked: true},
			credential: member("u1"),
			request:    authorize.Request{Action: authorize.ActionCreatePost, ThreadID: "t1"},
			check: func(t *testing.T, err error) {
				ae := apperr.As(err)
				require.NotNil(t, ae)
				assert.Equal(t, "FORBIDDEN", ae.Code)
			},
		},
		{
			name:       "moderator_bypasses_lock",
			reader:     &fakeReader{boardID: "b1", boardVisible: true, locked: true},
			credential: member("u1", "b1"),
			request:    authorize.Request{Action: authorize.ActionCreatePost, ThreadID: "t1"},
			check: func(t *testing.T, err error) {
				assert.NoError(t, err)
			},
		},
		{
			name:       "moderator_of_other_board_does_not",
			reader:     &fakeReader{boardID: "b1", boardVisible: true, locked: true},
			credential: member("u1", "b2"),
			request:    authorize.Request{Action: authorize.ActionCreatePost, ThreadID: "t1"},
			check: func(t *testing.T, err error) {
				ae := apperr.As(err)
				require.NotNil(t, ae)
				assert.Equal(t, "FORBIDDEN", ae.Code)
			},
		},
		{
			name:       "owner_edits_own_post",
			reader:     &fakeReader{boardID: "b1", boardVisible: true, owner: "u1"},
			credential: member("u1"),
			request:    authorize.Request{Action: authorize.ActionUpdatePost, PostID: "p1"},
			check: func(t *testing.T, err error) {
				assert.NoError(t, err)
			},
		},
		{
			name:       "admin_cannot_delete_first_post",
			reader:     &fakeReader{boardID: "b1", boardVisible: true, owner: "u1", firstPost: true},
			credential: admin("u9"),
			request:    authorize.Request{Action: authorize.ActionDeletePost, PostID: "p1"},
			check: func(t *testing.T, err error) {
				ae := apperr.As(err)
				require.NotNil(t, ae)
				assert.Equal(t, "FORBIDDEN", ae.Code)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			evaluator := authorize.NewEvaluator(tt.reader)
			err := evaluator.Evaluate(context.Background(), tt.credential, tt.request)
			tt.check(t, err)
		})
	}
}

/*
TestEvaluate_InfrastructureErrors tests that a failed predicate fetch
propagates as a plain error and is never coerced into a policy outcome.
*/
func TestEvaluate_InfrastructureErrors(t *testing.T) {
	reader := &fakeReader{err: errors.New("connection reset")}
	evaluator := authorize.NewEvaluator(reader)

	err := evaluator.Evaluate(context.Background(), member("u1"), authorize.Request{
		Action:   authorize.ActionFindThread,
		ThreadID: "t1",
	})

	require.Error(t, err)
	assert.False(t, apperr.IsNotFound(err))
	assert.Nil(t, apperr.As(err))
	assert.ErrorContains(t, err, "connection reset")
}

/*
TestEvaluate_MinimalFetching tests that the evaluator reads only what the
policy needs: identity-only facts trigger no store reads at all.
*/
func TestEvaluate_MinimalFetching(t *testing.T) {
	t.Run("staff_only_action_anonymous", func(t *testing.T) {
		// Move is staff-only (admin + mod facts). An anonymous caller
		// moderates nothing, so not even the board resolution runs.
		reader := &fakeReader{}
		evaluator := authorize.NewEvaluator(reader)

		err := evaluator.Evaluate(context.Background(), nil, authorize.Request{
			Action:   authorize.ActionMoveThread,
			ThreadID: "t1",
		})

		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, "FORBIDDEN", ae.Code)
		assert.Zero(t, reader.reads.Load())
	})

	t.Run("mod_and_visibility_share_one_read", func(t *testing.T) {
		reader := &fakeReader{boardID: "b1", boardVisible: true}
		evaluator := authorize.NewEvaluator(reader)

		err := evaluator.Evaluate(context.Background(), member("u1", "b1"), authorize.Request{
			Action:   authorize.ActionFindThread,
			ThreadID: "t1",
		})

		require.NoError(t, err)
		assert.Equal(t, int64(1), reader.reads.Load())
	})

	t.Run("anonymous_owner_check_skipped", func(t *testing.T) {
		// Lock needs the owner fact, but anonymous callers are never
		// owners, so only the board resolution read runs.
		reader := &fakeReader{boardID: "b1", boardVisible: true}
		evaluator := authorize.NewEvaluator(reader)

		err := evaluator.Evaluate(context.Background(), nil, authorize.Request{
			Action:   authorize.ActionLockThread,
			ThreadID: "t1",
		})

		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, "FORBIDDEN", ae.Code)
		assert.Equal(t, int64(1), reader.reads.Load())
	})
}

/*
TestEvaluate_UnknownAction tests the guard against unregistered actions.
*/
func TestEvaluate_UnknownAction(t *testing.T) {
	evaluator := authorize.NewEvaluator(&fakeReader{})

	err := evaluator.Evaluate(context.Background(), nil, authorize.Request{Action: "board.explode"})
	require.Error(t, err)
	assert.Nil(t, apperr.As(err))
}
