// Copyright (c) 2026 Parley. All rights reserved.
// Author: dev@parleyhq.io

package authorize

// Predicate names one asynchronous boolean fact about resource or user
// state. A policy declares the predicates it needs; the evaluator fetches
// exactly those and nothing more.
type Predicate uint8

const (
	// PredicateAdmin: the credential carries the administrator role.
	PredicateAdmin Predicate = iota
	// PredicateMod: the credential's user moderates the resource's board.
	PredicateMod
	// PredicateOwner: the credential's user authored the resource.
	PredicateOwner
	// PredicateLocked: the (post's) thread is locked.
	PredicateLocked
	// PredicateDeleted: the post itself is soft-deleted.
	PredicateDeleted
	// PredicateThreadDeleted: the (post's) thread is soft-deleted.
	PredicateThreadDeleted
	// PredicateBoardVisible: the resource's board is in the visible board mapping.
	PredicateBoardVisible
	// PredicateFirstPost: the post is its thread's first post.
	PredicateFirstPost
)

// Facts holds the resolved predicate values for one decision. Each field is
// written by at most one fetch goroutine during the scatter phase and only
// read after the gather completes, so no locking is needed.
type Facts struct {
	Admin         bool
	Mod           bool
	Owner         bool
	Locked        bool
	Deleted       bool
	ThreadDeleted bool
	BoardVisible  bool
	FirstPost     bool
}

// Outcome is the tri-state authorization decision.
type Outcome uint8

const (
	// OutcomeAllow admits the action. It materializes as a nil error.
	OutcomeAllow Outcome = iota
	// OutcomeNotFound denies the action without revealing the resource exists.
	OutcomeNotFound
	// OutcomeForbidden denies the action; the resource's existence may be revealed.
	OutcomeForbidden
)

// String returns the outcome name for test output and logging.
func (o Outcome) String() string {
	switch o {
	case OutcomeAllow:
		return "allow"
	case OutcomeNotFound:
		return "not_found"
	case OutcomeForbidden:
		return "forbidden"
	default:
		return "unknown"
	}
}

// Scope selects which resource id of a [Request] the predicate fetchers
// resolve against.
type Scope uint8

const (
	// ScopeBoard resolves predicates against Request.BoardID.
	ScopeBoard Scope = iota
	// ScopeThread resolves predicates against Request.ThreadID.
	ScopeThread
	// ScopePost resolves predicates against Request.PostID.
	ScopePost
)

// Rule is one row of a policy's precedence list. A nil When matches
// unconditionally; every policy terminates with such a rule so decisions
// are total.
type Rule struct {
	// Name labels the rule for tests and audit logs.
	Name string
	// When reports whether the rule applies to the resolved facts.
	When func(Facts) bool
	// Then is the outcome when the rule matches.
	Then Outcome
}

// Policy declares everything the evaluator needs to decide one action.
type Policy struct {
	// Action is the operation this policy governs.
	Action Action
	// Scope selects the resource id the predicate fetchers use.
	Scope Scope
	// Resource names the entity hidden by a NotFound outcome ("Board",
	// "Thread", "Post").
	Resource string
	// Predicates is the minimal fact set this action consults. Facts not
	// listed here are never fetched and stay at their zero value.
	Predicates []Predicate
	// Rules is the ordered precedence list; the first matching rule wins.
	Rules []Rule
}

// Needs reports whether the policy consults the given predicate.
func (p *Policy) Needs(predicate Predicate) bool {
	for _, candidate := range p.Predicates {
		if candidate == predicate {
			return true
		}
	}
	return false
}

// Decide reduces resolved facts through the rule list. It is a pure
// function: no I/O, no ordering dependence between predicates, total over
// every Facts value.
func (p *Policy) Decide(facts Facts) Outcome {
	for _, rule := range p.Rules {
		if rule.When == nil || rule.When(facts) {
			return rule.Then
		}
	}
	// Unreachable for well-formed policies; registry construction enforces
	// an unconditional final rule.
	return OutcomeForbidden
}

// wellFormed reports whether the policy's final rule is unconditional.
// mustRegister rejects policies that could leave a decision unset.
func (p *Policy) wellFormed() bool {
	if len(p.Rules) == 0 {
		return false
	}
	return p.Rules[len(p.Rules)-1].When == nil
}
