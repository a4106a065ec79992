package nfa

import (
	"unicode/utf8"

	"github.com/coregx/redfa/internal/conv"
	"github.com/coregx/redfa/internal/sparse"
)

// Matcher runs the frontier-set walk of an automaton. It owns the two
// frontier buffers, so a Matcher must not be shared between goroutines; the
// Automaton itself may be.
type Matcher struct {
	a    *Automaton
	cur  *sparse.SparseSet
	next *sparse.SparseSet
}

// NewMatcher creates a matcher for a.
func NewMatcher(a *Automaton) *Matcher {
	n := conv.IntToUint32(a.Len())
	return &Matcher{
		a:    a,
		cur:  sparse.NewSparseSet(n),
		next: sparse.NewSparseSet(n),
	}
}

// Match reports whether a matches a prefix of subject.
func Match(a *Automaton, subject string) bool {
	return NewMatcher(a).Match(subject)
}

// MatchFull reports whether a matches all of subject.
func MatchFull(a *Automaton, subject string) bool {
	return NewMatcher(a).MatchFull(subject)
}

// Automaton returns the automaton the matcher walks.
func (m *Matcher) Automaton() *Automaton {
	return m.a
}

// Match reports whether the automaton matches a prefix of subject.
//
// Every state of the frontier is advanced on each code point. The walk
// accepts as soon as a Final state is in the frontier, or once the input is
// exhausted if an End state is.
func (m *Matcher) Match(subject string) bool {
	return m.walk(subject, false)
}

// MatchFull reports whether the automaton matches the whole subject: Final
// states only accept once the input is exhausted, like End states.
func (m *Matcher) MatchFull(subject string) bool {
	return m.walk(subject, true)
}

func (m *Matcher) walk(subject string, full bool) bool {
	if m.a.IsEmpty() {
		return true
	}
	m.cur.Clear()
	m.cur.Insert(0)
	for i := 0; ; {
		if !full && m.anyState(FlagFinal) {
			return true
		}
		if i >= len(subject) {
			return m.anyState(FlagFinal | FlagEnd | FlagEol)
		}
		r, w := utf8.DecodeRuneInString(subject[i:])
		i += w
		if !m.step(r) {
			return false
		}
	}
}

func (m *Matcher) anyState(flags Flags) bool {
	for _, id := range m.cur.Values() {
		if m.a.states[id].flags.Any(flags) {
			return true
		}
	}
	return false
}

// step advances the frontier over r and reports whether it is non-empty.
func (m *Matcher) step(r rune) bool {
	m.next.Clear()
	for _, id := range m.cur.Values() {
		for _, t := range m.a.states[id].transitions {
			if t.Event.Contains(r) {
				m.next.Insert(uint32(t.Next))
			}
		}
	}
	m.cur, m.next = m.next, m.cur
	return !m.cur.IsEmpty()
}
