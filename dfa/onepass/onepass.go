// Package onepass matches an automaton by following a single active state.
//
// The walk keeps exactly one current state and takes the first transition
// whose event contains the next code point. That is exact only when the
// automaton is deterministic: no reachable state has two overlapping events
// leading to different states. Build checks this property; Match does not,
// and on a nondeterministic automaton it may miss matches the frontier walk
// in package nfa would find.
//
// Example deterministic patterns:
//   - `ab*c`          - each state has one way forward per code point
//   - `(a|b)+$`       - branches start with different code points
//   - `x[0-9]{2,4}`   - optional copies never overlap their continuation
//
// Example nondeterministic patterns:
//   - `a*a`           - extend a* or take the final a?
//   - `(ab|ac)`       - same first code point in both branches
package onepass

import (
	"errors"
	"slices"
	"unicode/utf8"

	"github.com/coregx/redfa/nfa"
)

// ErrNotOnePass is returned when an automaton is not deterministic.
var ErrNotOnePass = errors.New("automaton is not one-pass")

// DFA is an automaton verified to be deterministic.
type DFA struct {
	a *nfa.Automaton
}

// Build returns a DFA for a, or ErrNotOnePass if some reachable state has
// overlapping transitions to different states.
func Build(a *nfa.Automaton) (*DFA, error) {
	if !IsDeterministic(a) {
		return nil, ErrNotOnePass
	}
	return &DFA{a: a}, nil
}

// Automaton returns the underlying automaton.
func (d *DFA) Automaton() *nfa.Automaton {
	return d.a
}

// Match reports whether the DFA matches a prefix of subject.
func (d *DFA) Match(subject string) bool {
	return walk(d.a, subject, false)
}

// MatchFull reports whether the DFA matches all of subject.
func (d *DFA) MatchFull(subject string) bool {
	return walk(d.a, subject, true)
}

// Match walks a from state 0 over subject and reports whether a prefix
// matches. A Final state accepts immediately; an End state accepts only once
// the input is exhausted.
func Match(a *nfa.Automaton, subject string) bool {
	return walk(a, subject, false)
}

// MatchFull is like Match but Final states only accept at end of input.
func MatchFull(a *nfa.Automaton, subject string) bool {
	return walk(a, subject, true)
}

func walk(a *nfa.Automaton, subject string, full bool) bool {
	if a.IsEmpty() {
		return true
	}
	cur := a.State(0)
	for i := 0; ; {
		if !full && cur.IsFinal() {
			return true
		}
		if i >= len(subject) {
			return cur.IsFinal() || cur.IsEnd()
		}
		r, w := utf8.DecodeRuneInString(subject[i:])
		i += w
		next := nfa.InvalidState
		for _, t := range cur.Transitions() {
			if t.Event.Contains(r) {
				next = t.Next
				break
			}
		}
		if next == nfa.InvalidState {
			return false
		}
		cur = a.State(next)
	}
}

// IsDeterministic reports whether every state reachable from state 0 has at
// most one target per code point.
func IsDeterministic(a *nfa.Automaton) bool {
	_, ok := FirstConflict(a)
	return ok
}

// FirstConflict returns the lowest reachable state with overlapping
// transitions to different targets. ok is true when there is none.
func FirstConflict(a *nfa.Automaton) (id nfa.StateID, ok bool) {
	if a.IsEmpty() {
		return nfa.InvalidState, true
	}
	seen := make([]bool, a.Len())
	queue := []nfa.StateID{0}
	seen[0] = true
	conflict := nfa.InvalidState
	for len(queue) > 0 {
		s := queue[0]
		queue = queue[1:]
		ts := a.Transitions(s)
		if !disjoint(ts) && s < conflict {
			conflict = s
		}
		for _, t := range ts {
			if !seen[t.Next] {
				seen[t.Next] = true
				queue = append(queue, t.Next)
			}
		}
	}
	return conflict, conflict == nfa.InvalidState
}

// disjoint reports whether overlapping transitions all share a target.
func disjoint(ts []nfa.Transition) bool {
	if len(ts) < 2 {
		return true
	}
	sorted := slices.Clone(ts)
	slices.SortFunc(sorted, nfa.Transition.Compare)
	hi, target := sorted[0].Event.Hi, sorted[0].Next
	for _, t := range sorted[1:] {
		if t.Event.Lo <= hi {
			if t.Next != target {
				return false
			}
			hi = max(hi, t.Event.Hi)
			continue
		}
		hi, target = t.Event.Hi, t.Next
	}
	return true
}
