// Copyright (c) 2026 Parley. All rights reserved.
// Author: dev@parleyhq.io

package authorize

import "fmt"

// The policy registry. Precedence within each rule list is load-bearing:
// existence-hiding rules (NotFound) sit above permission rules (Forbidden)
// wherever unauthorized callers must not learn that hidden content exists.
var policies = map[Action]*Policy{}

func init() {
	// ── Threads ──────────────────────────────────────────────────────────

	mustRegister(&Policy{
		Action:     ActionFindThread,
		Scope:      ScopeThread,
		Resource:   "Board",
		Predicates: []Predicate{PredicateAdmin, PredicateMod, PredicateBoardVisible},
		Rules: []Rule{
			{Name: "staff_override", When: func(f Facts) bool { return f.Admin || f.Mod }, Then: OutcomeAllow},
			{Name: "board_visible", When: func(f Facts) bool { return f.BoardVisible }, Then: OutcomeAllow},
			{Name: "hidden", Then: OutcomeNotFound},
		},
	})

	mustRegister(&Policy{
		Action:     ActionListThreads,
		Scope:      ScopeBoard,
		Resource:   "Board",
		Predicates: []Predicate{PredicateAdmin, PredicateMod, PredicateBoardVisible},
		Rules: []Rule{
			{Name: "staff_override", When: func(f Facts) bool { return f.Admin || f.Mod }, Then: OutcomeAllow},
			{Name: "board_visible", When: func(f Facts) bool { return f.BoardVisible }, Then: OutcomeAllow},
			{Name: "hidden", Then: OutcomeNotFound},
		},
	})

	mustRegister(&Policy{
		Action:     ActionCreateThread,
		Scope:      ScopeBoard,
		Resource:   "Board",
		Predicates: []Predicate{PredicateAdmin, PredicateMod, PredicateBoardVisible},
		Rules: []Rule{
			{Name: "staff_override", When: func(f Facts) bool { return f.Admin || f.Mod }, Then: OutcomeAllow},
			{Name: "board_visible", When: func(f Facts) bool { return f.BoardVisible }, Then: OutcomeAllow},
			{Name: "denied", Then: OutcomeForbidden},
		},
	})

	mustRegister(&Policy{
		Action:     ActionLockThread,
		Scope:      ScopeThread,
		Resource:   "Thread",
		Predicates: []Predicate{PredicateAdmin, PredicateMod, PredicateBoardVisible, PredicateOwner},
		Rules: []Rule{
			{Name: "staff_override", When: func(f Facts) bool { return f.Admin || f.Mod }, Then: OutcomeAllow},
			{Name: "visible_owner", When: func(f Facts) bool { return f.Owner && f.BoardVisible }, Then: OutcomeAllow},
			{Name: "denied", Then: OutcomeForbidden},
		},
	})

	// Thread management actions share one policy shape: staff only.
	for _, action := range []Action{ActionMoveThread, ActionStickyThread, ActionDeleteThread, ActionPurgeThread} {
		mustRegister(&Policy{
			Action:     action,
			Scope:      ScopeThread,
			Resource:   "Thread",
			Predicates: []Predicate{PredicateAdmin, PredicateMod},
			Rules: []Rule{
				{Name: "staff_override", When: func(f Facts) bool { return f.Admin || f.Mod }, Then: OutcomeAllow},
				{Name: "denied", Then: OutcomeForbidden},
			},
		})
	}

	// ── Posts ────────────────────────────────────────────────────────────

	mustRegister(&Policy{
		Action:     ActionFindPost,
		Scope:      ScopePost,
		Resource:   "Post",
		Predicates: []Predicate{PredicateAdmin, PredicateMod, PredicateThreadDeleted, PredicateBoardVisible},
		Rules: []Rule{
			{Name: "staff_override", When: func(f Facts) bool { return f.Admin || f.Mod }, Then: OutcomeAllow},
			{Name: "live_and_visible", When: func(f Facts) bool { return !f.ThreadDeleted && f.BoardVisible }, Then: OutcomeAllow},
			{Name: "hidden", Then: OutcomeNotFound},
		},
	})

	mustRegister(&Policy{
		Action:     ActionListPosts,
		Scope:      ScopeThread,
		Resource:   "Thread",
		Predicates: []Predicate{PredicateAdmin, PredicateMod, PredicateThreadDeleted, PredicateBoardVisible},
		Rules: []Rule{
			{Name: "staff_override", When: func(f Facts) bool { return f.Admin || f.Mod }, Then: OutcomeAllow},
			{Name: "live_and_visible", When: func(f Facts) bool { return !f.ThreadDeleted && f.BoardVisible }, Then: OutcomeAllow},
			{Name: "hidden", Then: OutcomeNotFound},
		},
	})

	mustRegister(&Policy{
		Action:   ActionCreatePost,
		Scope:    ScopeThread,
		Resource: "Thread",
		Predicates: []Predicate{
			PredicateAdmin, PredicateMod, PredicateLocked, PredicateThreadDeleted, PredicateBoardVisible,
		},
		Rules: []Rule{
			{Name: "staff_override", When: func(f Facts) bool { return f.Admin || f.Mod }, Then: OutcomeAllow},
			{Name: "thread_deleted", When: func(f Facts) bool { return f.ThreadDeleted }, Then: OutcomeNotFound},
			{Name: "thread_locked", When: func(f Facts) bool { return f.Locked }, Then: OutcomeForbidden},
			{Name: "board_visible", When: func(f Facts) bool { return f.BoardVisible }, Then: OutcomeAllow},
			{Name: "denied", Then: OutcomeForbidden},
		},
	})

	mustRegister(&Policy{
		Action:   ActionUpdatePost,
		Scope:    ScopePost,
		Resource: "Post",
		Predicates: []Predicate{
			PredicateAdmin, PredicateMod, PredicateLocked, PredicateOwner,
			PredicateDeleted, PredicateThreadDeleted, PredicateBoardVisible,
		},
		Rules: []Rule{
			{Name: "staff_override", When: func(f Facts) bool { return f.Admin || f.Mod }, Then: OutcomeAllow},
			{Name: "post_deleted", When: func(f Facts) bool { return f.Deleted }, Then: OutcomeNotFound},
			{Name: "thread_deleted", When: func(f Facts) bool { return f.ThreadDeleted }, Then: OutcomeNotFound},
			{Name: "board_hidden", When: func(f Facts) bool { return !f.BoardVisible }, Then: OutcomeNotFound},
			{Name: "thread_locked", When: func(f Facts) bool { return f.Locked }, Then: OutcomeForbidden},
			{Name: "owner", When: func(f Facts) bool { return f.Owner }, Then: OutcomeAllow},
			{Name: "denied", Then: OutcomeForbidden},
		},
	})

	mustRegister(&Policy{
		Action:   ActionDeletePost,
		Scope:    ScopePost,
		Resource: "Post",
		Predicates: []Predicate{
			PredicateAdmin, PredicateLocked, PredicateOwner,
			PredicateFirstPost, PredicateThreadDeleted, PredicateBoardVisible,
		},
		Rules: []Rule{
			// A thread's first post can never be deleted standalone, even by
			// an administrator; deleting the thread is the sanctioned path.
			{Name: "first_post", When: func(f Facts) bool { return f.FirstPost }, Then: OutcomeForbidden},
			{Name: "admin_override", When: func(f Facts) bool { return f.Admin }, Then: OutcomeAllow},
			{Name: "thread_deleted", When: func(f Facts) bool { return f.ThreadDeleted }, Then: OutcomeNotFound},
			{Name: "board_hidden", When: func(f Facts) bool { return !f.BoardVisible }, Then: OutcomeNotFound},
			{Name: "thread_locked", When: func(f Facts) bool { return f.Locked }, Then: OutcomeForbidden},
			{Name: "owner", When: func(f Facts) bool { return f.Owner }, Then: OutcomeAllow},
			{Name: "denied", Then: OutcomeForbidden},
		},
	})

	mustRegister(&Policy{
		Action:     ActionPurgePost,
		Scope:      ScopePost,
		Resource:   "Post",
		Predicates: []Predicate{PredicateAdmin, PredicateFirstPost},
		Rules: []Rule{
			{Name: "first_post", When: func(f Facts) bool { return f.FirstPost }, Then: OutcomeForbidden},
			{Name: "admin_override", When: func(f Facts) bool { return f.Admin }, Then: OutcomeAllow},
			{Name: "denied", Then: OutcomeForbidden},
		},
	})
}

// mustRegister installs a policy, rejecting duplicates and rule lists that
// do not terminate unconditionally (which would leave decisions unset).
func mustRegister(policy *Policy) {
	if _, exists := policies[policy.Action]; exists {
		panic(fmt.Sprintf("authorize: duplicate policy for action %q", policy.Action))
	}
	if !policy.wellFormed() {
		panic(fmt.Sprintf("authorize: policy for action %q has no unconditional final rule", policy.Action))
	}
	policies[policy.Action] = policy
}

// PolicyFor returns the registered policy for an action.
func PolicyFor(action Action) (*Policy, bool) {
	policy, ok := policies[action]
	return policy, ok
}

// Actions returns every registered action, for exhaustive table tests.
func Actions() []Action {
	actions := make([]Action, 0, len(policies))
	for action := range policies {
		actions = append(actions, action)
	}
	return actions
}
