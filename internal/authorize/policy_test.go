// Copyright (c) 2026 Parley. All rights reserved.
// Author: dev@parleyhq.io

package authorize_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parleyhq/parley/internal/authorize"
)

/*
TestRegistry_Complete tests that every action has a registered policy and
that each policy's rule list terminates unconditionally (decisions are
total over every fact combination).
*/
func TestRegistry_Complete(t *testing.T) {
	actions := authorize.Actions()
	require.NotEmpty(t, actions)

	for _, action := range actions {
		policy, ok := authorize.PolicyFor(action)
		require.True(t, ok, "action %q has no policy", action)
		assert.Equal(t, action, policy.Action)
		assert.NotEmpty(t, policy.Resource)

		// Decide must answer even the all-false fact set.
		_ = policy.Decide(authorize.Facts{})
	}
}

/*
TestDecide_ViewActions tests the view policies: staff see everything, and
hidden boards answer NotFound rather than Forbidden so their existence
stays concealed.
*/
func TestDecide_ViewActions(t *testing.T) {
	for _, action := range []authorize.Action{authorize.ActionFindThread, authorize.ActionListThreads} {
		policy, ok := authorize.PolicyFor(action)
		require.True(t, ok)

		tests := []struct {
			name  string
			facts authorize.Facts
			want  authorize.Outcome
		}{
			{"anonymous_visible", authorize.Facts{BoardVisible: true}, authorize.OutcomeAllow},
			{"anonymous_hidden", authorize.Facts{}, authorize.OutcomeNotFound},
			{"admin_hidden", authorize.Facts{Admin: true}, authorize.OutcomeAllow},
			{"mod_hidden", authorize.Facts{Mod: true}, authorize.OutcomeAllow},
		}

		for _, tt := range tests {
			t.Run(string(action)+"/"+tt.name, func(t *testing.T) {
				assert.Equal(t, tt.want, policy.Decide(tt.facts))
			})
		}
	}
}

/*
TestDecide_CreatePost tests the reply policy's precedence: deletion hides,
locking forbids, and staff bypass both.
*/
func TestDecide_CreatePost(t *testing.T) {
	policy, ok := authorize.PolicyFor(authorize.ActionCreatePost)
	require.True(t, ok)

	tests := []struct {
		name  string
		facts authorize.Facts
		want  authorize.Outcome
	}{
		{"member_open_thread", authorize.Facts{BoardVisible: true}, authorize.OutcomeAllow},
		{"member_locked_thread", authorize.Facts{BoardVisible: true, Locked: true}, authorize.OutcomeForbidden},
		{"member_deleted_thread", authorize.Facts{BoardVisible: true, ThreadDeleted: true}, authorize.OutcomeNotFound},
		// Deletion outranks locking: a deleted thread must not reveal its
		// lock state.
		{"member_deleted_and_locked", authorize.Facts{BoardVisible: true, ThreadDeleted: true, Locked: true}, authorize.OutcomeNotFound},
		{"member_hidden_board", authorize.Facts{}, authorize.OutcomeForbidden},
		{"mod_locked_thread", authorize.Facts{Mod: true, Locked: true}, authorize.OutcomeAllow},
		{"admin_deleted_thread", authorize.Facts{Admin: true, ThreadDeleted: true}, authorize.OutcomeAllow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, policy.Decide(tt.facts))
		})
	}
}

/*
TestDecide_UpdatePost tests the full edit precedence chain: existence
concealment (deleted post, deleted thread, hidden board) outranks the lock
rejection, which outranks ownership.
*/
func TestDecide_UpdatePost(t *testing.T) {
	policy, ok := authorize.PolicyFor(authorize.ActionUpdatePost)
	require.True(t, ok)

	visible := authorize.Facts{BoardVisible: true}

	tests := []struct {
		name  string
		facts authorize.Facts
		want  authorize.Outcome
	}{
		{"owner_live_post", authorize.Facts{BoardVisible: true, Owner: true}, authorize.OutcomeAllow},
		{"non_owner_live_post", visible, authorize.OutcomeForbidden},
		{"owner_locked_thread", authorize.Facts{BoardVisible: true, Owner: true, Locked: true}, authorize.OutcomeForbidden},
		{"owner_deleted_post", authorize.Facts{BoardVisible: true, Owner: true, Deleted: true}, authorize.OutcomeNotFound},
		{"owner_deleted_thread", authorize.Facts{BoardVisible: true, Owner: true, ThreadDeleted: true}, authorize.OutcomeNotFound},
		{"owner_hidden_board", authorize.Facts{Owner: true}, authorize.OutcomeNotFound},
		// Concealment beats the lock answer when both apply.
		{"deleted_post_in_locked_thread", authorize.Facts{BoardVisible: true, Owner: true, Deleted: true, Locked: true}, authorize.OutcomeNotFound},
		{"staff_bypass_everything", authorize.Facts{Mod: true, Deleted: true, Locked: true}, authorize.OutcomeAllow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, policy.Decide(tt.facts))
		})
	}
}

/*
TestDecide_CreateThread tests that starting a thread is open to any member
of a visible board, not just staff; hidden boards reject with Forbidden
because the caller already proved board knowledge by addressing it.
*/
func TestDecide_CreateThread(t *testing.T) {
	policy, ok := authorize.PolicyFor(authorize.ActionCreateThread)
	require.True(t, ok)

	tests := []struct {
		name  string
		facts authorize.Facts
		want  authorize.Outcome
	}{
		{"member_visible_board", authorize.Facts{BoardVisible: true}, authorize.OutcomeAllow},
		{"member_hidden_board", authorize.Facts{}, authorize.OutcomeForbidden},
		{"admin_hidden_board", authorize.Facts{Admin: true}, authorize.OutcomeAllow},
		{"mod_hidden_board", authorize.Facts{Mod: true}, authorize.OutcomeAllow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, policy.Decide(tt.facts))
		})
	}
}

/*
TestDecide_FirstPostProtection tests that a thread's first post can never
be deleted or purged standalone — not even by an administrator.
*/
func TestDecide_FirstPostProtection(t *testing.T) {
	for _, action := range []authorize.Action{authorize.ActionDeletePost, authorize.ActionPurgePost} {
		policy, ok := authorize.PolicyFor(action)
		require.True(t, ok)

		t.Run(string(action), func(t *testing.T) {
			facts := authorize.Facts{Admin: true, FirstPost: true, BoardVisible: true}
			assert.Equal(t, authorize.OutcomeForbidden, policy.Decide(facts))
		})
	}
}

/*
TestDecide_ThreadManagement tests the staff-only thread actions.
*/
func TestDecide_ThreadManagement(t *testing.T) {
	staffOnly := []authorize.Action{
		authorize.ActionMoveThread,
		authorize.ActionStickyThread,
		authorize.ActionDeleteThread,
		authorize.ActionPurgeThread,
	}

	for _, action := range staffOnly {
		policy, ok := authorize.PolicyFor(action)
		require.True(t, ok)

		t.Run(string(action), func(t *testing.T) {
			assert.Equal(t, authorize.OutcomeAllow, policy.Decide(authorize.Facts{Admin: true}))
			assert.Equal(t, authorize.OutcomeAllow, policy.Decide(authorize.Facts{Mod: true}))
			// Ownership does not help: these are moderation powers.
			assert.Equal(t, authorize.OutcomeForbidden, policy.Decide(authorize.Facts{Owner: true, BoardVisible: true}))
		})
	}
}

// decisionOracles restates each action's documented precedence chain as a
// plain if/else cascade, written independently of the rule-list encoding so
// the enumeration below cross-checks two formulations of the same table.
var decisionOracles = map[authorize.Action]func(authorize.Facts) authorize.Outcome{
	authorize.ActionFindThread:  viewOracle,
	authorize.ActionListThreads: viewOracle,
	authorize.ActionCreateThread: func(f authorize.Facts) authorize.Outcome {
		if f.Admin || f.Mod {
			return authorize.OutcomeAllow
		}
		if f.BoardVisible {
			return authorize.OutcomeAllow
		}
		return authorize.OutcomeForbidden
	},
	authorize.ActionLockThread: func(f authorize.Facts) authorize.Outcome {
		if f.Admin || f.Mod {
			return authorize.OutcomeAllow
		}
		if f.Owner && f.BoardVisible {
			return authorize.OutcomeAllow
		}
		return authorize.OutcomeForbidden
	},
	authorize.ActionMoveThread:   staffOnlyOracle,
	authorize.ActionStickyThread: staffOnlyOracle,
	authorize.ActionDeleteThread: staffOnlyOracle,
	authorize.ActionPurgeThread:  staffOnlyOracle,
	authorize.ActionFindPost:     postViewOracle,
	authorize.ActionListPosts:    postViewOracle,
	authorize.ActionCreatePost: func(f authorize.Facts) authorize.Outcome {
		if f.Admin || f.Mod {
			return authorize.OutcomeAllow
		}
		if f.ThreadDeleted {
			return authorize.OutcomeNotFound
		}
		if f.Locked {
			return authorize.OutcomeForbidden
		}
		if f.BoardVisible {
			return authorize.OutcomeAllow
		}
		return authorize.OutcomeForbidden
	},
	authorize.ActionUpdatePost: func(f authorize.Facts) authorize.Outcome {
		if f.Admin || f.Mod {
			return authorize.OutcomeAllow
		}
		if f.Deleted || f.ThreadDeleted || !f.BoardVisible {
			return authorize.OutcomeNotFound
		}
		if f.Locked {
			return authorize.OutcomeForbidden
		}
		if f.Owner {
			return authorize.OutcomeAllow
		}
		return authorize.OutcomeForbidden
	},
	authorize.ActionDeletePost: func(f authorize.Facts) authorize.Outcome {
		if f.FirstPost {
			return authorize.OutcomeForbidden
		}
		if f.Admin {
			return authorize.OutcomeAllow
		}
		if f.ThreadDeleted || !f.BoardVisible {
			return authorize.OutcomeNotFound
		}
		if f.Locked {
			return authorize.OutcomeForbidden
		}
		if f.Owner {
			return authorize.OutcomeAllow
		}
		return authorize.OutcomeForbidden
	},
	authorize.ActionPurgePost: func(f authorize.Facts) authorize.Outcome {
		if f.FirstPost {
			return authorize.OutcomeForbidden
		}
		if f.Admin {
			return authorize.OutcomeAllow
		}
		return authorize.OutcomeForbidden
	},
}

func staffOnlyOracle(f authorize.Facts) authorize.Outcome {
	if f.Admin || f.Mod {
		return authorize.OutcomeAllow
	}
	return authorize.OutcomeForbidden
}

func viewOracle(f authorize.Facts) authorize.Outcome {
	if f.Admin || f.Mod {
		return authorize.OutcomeAllow
	}
	if f.BoardVisible {
		return authorize.OutcomeAllow
	}
	return authorize.OutcomeNotFound
}

func postViewOracle(f authorize.Facts) authorize.Outcome {
	if f.Admin || f.Mod {
		return authorize.OutcomeAllow
	}
	if !f.ThreadDeleted && f.BoardVisible {
		return authorize.OutcomeAllow
	}
	return authorize.OutcomeNotFound
}

// factsFromMask expands an 8-bit mask into one predicate tuple, giving every
// boolean fact combination across the enumeration.
func factsFromMask(mask int) authorize.Facts {
	return authorize.Facts{
		Admin:         mask&(1<<0) != 0,
		Mod:           mask&(1<<1) != 0,
		Owner:         mask&(1<<2) != 0,
		Locked:        mask&(1<<3) != 0,
		Deleted:       mask&(1<<4) != 0,
		ThreadDeleted: mask&(1<<5) != 0,
		BoardVisible:  mask&(1<<6) != 0,
		FirstPost:     mask&(1<<7) != 0,
	}
}

/*
TestDecide_ExhaustiveEnumeration tests every registered action against every
one of the 256 predicate tuples, comparing the rule-list decision to the
independently written oracle cascade. A policy edit that reorders or drops a
rule fails here on the exact tuple it changed.
*/
func TestDecide_ExhaustiveEnumeration(t *testing.T) {
	actions := authorize.Actions()
	require.NotEmpty(t, actions)

	for _, action := range actions {
		policy, ok := authorize.PolicyFor(action)
		require.True(t, ok)

		oracle, ok := decisionOracles[action]
		require.True(t, ok, "action %q has no decision oracle; add one alongside its policy", action)

		t.Run(string(action), func(t *testing.T) {
			for mask := 0; mask < 256; mask++ {
				facts := factsFromMask(mask)
				assert.Equal(t, oracle(facts), policy.Decide(facts),
					"tuple %+v decided differently than the documented chain", facts)
			}
		})
	}
}

/*
TestDecide_LockThread tests that locking is the one thread control the
owner shares with staff.
*/
func TestDecide_LockThread(t *testing.T) {
	policy, ok := authorize.PolicyFor(authorize.ActionLockThread)
	require.True(t, ok)

	assert.Equal(t, authorize.OutcomeAllow, policy.Decide(authorize.Facts{Owner: true, BoardVisible: true}))
	assert.Equal(t, authorize.OutcomeForbidden, policy.Decide(authorize.Facts{Owner: true}))
	assert.Equal(t, authorize.OutcomeAllow, policy.Decide(authorize.Facts{Mod: true}))
	assert.Equal(t, authorize.OutcomeForbidden, policy.Decide(authorize.Facts{BoardVisible: true}))
}
