// Package nfa compiles patterns into epsilon-free automata and matches them
// with a frontier-set walk.
//
// The compiler is a single left-to-right pass over the pattern's code points.
// No syntax tree is built: each element is wired into the automaton as soon as
// it is scanned, quantifiers rewire or duplicate the most recently completed
// element, and alternation branches are unioned when their group closes.
//
// The resulting Automaton is an arena of states addressed by StateID. State 0
// is the initial state and is never the target of a transition, so every path
// that leaves it consumes the first code point of the subject.
package nfa

import (
	"fmt"
	"strings"
	"unicode"
)

// StateID identifies a state in an Automaton.
// This is a 32-bit unsigned integer for compact representation.
type StateID uint32

// InvalidState represents an invalid/uninitialized state ID
const InvalidState StateID = 0xFFFFFFFF

// Flags is the set of role flags carried by a state.
type Flags uint16

const (
	// FlagNormal marks an ordinary, non-accepting state.
	FlagNormal Flags = 1 << iota

	// FlagFinal marks a state that accepts as soon as it is reached.
	FlagFinal

	// FlagBegin marks the first state created after a ^ anchor.
	FlagBegin

	// FlagEnd marks a state that accepts only when the input is exhausted.
	FlagEnd

	// FlagInvalid marks an unreachable bridge state created for an anchor
	// that can never hold, as in a^b.
	FlagInvalid

	// FlagBol marks the initial state when the pattern is anchored at its start.
	FlagBol

	// FlagEol accompanies FlagEnd on states sealed by a $ anchor.
	FlagEol

	// FlagEmpty marks the initial state when the pattern accepts the empty string.
	FlagEmpty
)

var flagNames = [...]string{"Normal", "Final", "Begin", "End", "Invalid", "Bol", "Eol", "Empty"}

// Has reports whether all bits of x are set in f.
func (f Flags) Has(x Flags) bool {
	return f&x == x
}

// Any reports whether at least one bit of x is set in f.
func (f Flags) Any(x Flags) bool {
	return f&x != 0
}

// String returns the flag names joined with '|'.
func (f Flags) String() string {
	if f == 0 {
		return "None"
	}
	var sb strings.Builder
	for i, name := range flagNames {
		if f&(1<<i) == 0 {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteByte('|')
		}
		sb.WriteString(name)
	}
	return sb.String()
}

// Event is an inclusive code point range [Lo, Hi] labelling a transition.
type Event struct {
	Lo, Hi rune
}

// AnyEvent matches every code point. It is the label produced by '.'.
var AnyEvent = Event{Lo: 0, Hi: unicode.MaxRune}

// CharEvent returns the event matching exactly r.
func CharEvent(r rune) Event {
	return Event{Lo: r, Hi: r}
}

// IsChar reports whether the event matches a single code point.
func (e Event) IsChar() bool {
	return e.Lo == e.Hi
}

// Contains reports whether r lies in the event's range.
func (e Event) Contains(r rune) bool {
	return e.Lo <= r && r <= e.Hi
}

// Overlaps reports whether e and o share at least one code point.
func (e Event) Overlaps(o Event) bool {
	return e.Lo <= o.Hi && o.Lo <= e.Hi
}

// Compare orders events by (Lo, Hi).
func (e Event) Compare(o Event) int {
	switch {
	case e.Lo < o.Lo:
		return -1
	case e.Lo > o.Lo:
		return 1
	case e.Hi < o.Hi:
		return -1
	case e.Hi > o.Hi:
		return 1
	}
	return 0
}

func (e Event) String() string {
	if e == AnyEvent {
		return "ANY"
	}
	if e.IsChar() {
		return fmt.Sprintf("%q", e.Lo)
	}
	return fmt.Sprintf("%q-%q", e.Lo, e.Hi)
}

// Transition moves to Next when the next code point lies in Event.
type Transition struct {
	Event Event
	Next  StateID
}

// Compare orders transitions by (Event, Next).
func (t Transition) Compare(o Transition) int {
	if c := t.Event.Compare(o.Event); c != 0 {
		return c
	}
	switch {
	case t.Next < o.Next:
		return -1
	case t.Next > o.Next:
		return 1
	}
	return 0
}

func (t Transition) String() string {
	return fmt.Sprintf("%s->%d", t.Event, t.Next)
}

// CaptureFlags describes how a state relates to a capture group.
type CaptureFlags uint8

const (
	// CaptureOpen marks a state entered by the group's first code point.
	CaptureOpen CaptureFlags = 1 << iota

	// CaptureClose marks a state at which the group may end.
	CaptureClose

	// CaptureActive marks every state inside the group.
	CaptureActive

	// CaptureExists marks groups that take part in every match through them.
	CaptureExists

	// CaptureNotExists marks groups made optional by a quantifier.
	CaptureNotExists
)

var captureFlagNames = [...]string{"Open", "Close", "Active", "Exists", "NotExists"}

func (f CaptureFlags) String() string {
	var parts []string
	for i, name := range captureFlagNames {
		if f&(1<<i) != 0 {
			parts = append(parts, name)
		}
	}
	if len(parts) == 0 {
		return "None"
	}
	return strings.Join(parts, "|")
}

// Capture attaches capture group bookkeeping to a state.
type Capture struct {
	Index uint32
	Flags CaptureFlags
}

func (c Capture) String() string {
	return fmt.Sprintf("#%d(%s)", c.Index, c.Flags)
}

// CaptureSpan records the pattern offsets of a capture group's parentheses.
type CaptureSpan struct {
	Open  int
	Close int
}

// State is a node of the automaton.
type State struct {
	flags       Flags
	captures    []Capture
	transitions []Transition
}

// Flags returns the state's role flags.
func (s *State) Flags() Flags {
	return s.flags
}

// Captures returns the capture markers in insertion order.
func (s *State) Captures() []Capture {
	return s.captures
}

// Transitions returns the outgoing transitions in evaluation order.
func (s *State) Transitions() []Transition {
	return s.transitions
}

// IsFinal reports whether the state accepts regardless of remaining input.
func (s *State) IsFinal() bool {
	return s.flags.Any(FlagFinal)
}

// IsEnd reports whether the state accepts once the input is exhausted.
func (s *State) IsEnd() bool {
	return s.flags.Any(FlagEnd | FlagEol)
}

// Accepts reports whether reaching this state is a match, given whether the
// input has been fully consumed.
func (s *State) Accepts(atEnd bool) bool {
	return s.IsFinal() || (atEnd && s.IsEnd())
}

func (s *State) String() string {
	var sb strings.Builder
	sb.WriteString(s.flags.String())
	for _, c := range s.captures {
		sb.WriteByte(' ')
		sb.WriteString(c.String())
	}
	for _, t := range s.transitions {
		sb.WriteByte(' ')
		sb.WriteString(t.String())
	}
	return sb.String()
}

// Automaton is a compiled pattern. It is immutable once returned by the
// compiler and safe for concurrent use by any number of matchers.
type Automaton struct {
	states       []State
	captureTable []CaptureSpan
	pattern      string
}

// Len returns the number of states.
func (a *Automaton) Len() int {
	return len(a.states)
}

// IsEmpty reports whether the automaton has no states at all.
// An empty automaton matches every subject.
func (a *Automaton) IsEmpty() bool {
	return len(a.states) == 0
}

// State returns the state with the given ID, or nil if out of range.
func (a *Automaton) State(id StateID) *State {
	if int(id) >= len(a.states) {
		return nil
	}
	return &a.states[id]
}

// Flags returns the role flags of the given state.
func (a *Automaton) Flags(id StateID) Flags {
	return a.states[id].flags
}

// Transitions returns the outgoing transitions of the given state.
func (a *Automaton) Transitions(id StateID) []Transition {
	return a.states[id].transitions
}

// Captures returns the capture markers of the given state.
func (a *Automaton) Captures(id StateID) []Capture {
	return a.states[id].captures
}

// CaptureTable returns the pattern offsets of every capture group's
// parentheses, indexed by capture index.
func (a *Automaton) CaptureTable() []CaptureSpan {
	return a.captureTable
}

// CaptureCount returns the number of capture groups.
func (a *Automaton) CaptureCount() int {
	return len(a.captureTable)
}

// Pattern returns the source pattern.
func (a *Automaton) Pattern() string {
	return a.pattern
}

// Events returns every event used by any transition, in state order.
func (a *Automaton) Events() []Event {
	var evs []Event
	for i := range a.states {
		for _, t := range a.states[i].transitions {
			evs = append(evs, t.Event)
		}
	}
	return evs
}

// String renders one line per state for debugging.
func (a *Automaton) String() string {
	var sb strings.Builder
	for i := range a.states {
		fmt.Fprintf(&sb, "%d: %s\n", i, a.states[i].String())
	}
	return sb.String()
}
