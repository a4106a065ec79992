package nfa

import (
	"github.com/coregx/redfa/internal/conv"
)

// Builder assembles an Automaton state by state. States are only ever
// appended; their flags, captures and transitions may be edited until Build.
type Builder struct {
	states []State
}

// NewBuilder creates a new empty builder.
func NewBuilder() *Builder {
	return NewBuilderWithCapacity(16)
}

// NewBuilderWithCapacity creates a builder with room for capacity states.
func NewBuilderWithCapacity(capacity int) *Builder {
	return &Builder{states: make([]State, 0, capacity)}
}

// AddState appends a state with the given flags and returns its ID.
func (b *Builder) AddState(flags Flags) StateID {
	id := StateID(conv.IntToUint32(len(b.states)))
	b.states = append(b.states, State{flags: flags})
	return id
}

// Len returns the number of states added so far.
func (b *Builder) Len() int {
	return len(b.states)
}

// Next returns the ID the next added state will get.
func (b *Builder) Next() StateID {
	return StateID(conv.IntToUint32(len(b.states)))
}

// AddTransition appends t to the transitions of from unless an identical
// transition is already present. It reports whether t was added.
func (b *Builder) AddTransition(from StateID, t Transition) bool {
	s := &b.states[from]
	for _, have := range s.transitions {
		if have == t {
			return false
		}
	}
	s.transitions = append(s.transitions, t)
	return true
}

// SetFlags adds flags to a state.
func (b *Builder) SetFlags(id StateID, flags Flags) {
	b.states[id].flags |= flags
}

// ClearFlags removes flags from a state.
func (b *Builder) ClearFlags(id StateID, flags Flags) {
	b.states[id].flags &^= flags
}

// Flags returns the current flags of a state.
func (b *Builder) Flags(id StateID) Flags {
	return b.states[id].flags
}

// Transitions returns the current transitions of a state.
func (b *Builder) Transitions(id StateID) []Transition {
	return b.states[id].transitions
}

// MarkCapture merges flags into the state's marker for capture index, adding
// the marker if the state has none for that index yet.
func (b *Builder) MarkCapture(id StateID, index uint32, flags CaptureFlags) {
	s := &b.states[id]
	for i := range s.captures {
		if s.captures[i].Index == index {
			s.captures[i].Flags |= flags
			return
		}
	}
	s.captures = append(s.captures, Capture{Index: index, Flags: flags})
}

// UpdateCapture replaces the flags in clear with those in set on the marker
// for capture index, if the state has one.
func (b *Builder) UpdateCapture(id StateID, index uint32, clear, set CaptureFlags) {
	s := &b.states[id]
	for i := range s.captures {
		if s.captures[i].Index == index {
			s.captures[i].Flags = s.captures[i].Flags&^clear | set
			return
		}
	}
}

// Snapshot deep-copies the states in [start, end).
func (b *Builder) Snapshot(start, end StateID) []State {
	out := make([]State, 0, end-start)
	for _, s := range b.states[start:end] {
		out = append(out, State{
			flags:       s.flags,
			captures:    append([]Capture(nil), s.captures...),
			transitions: append([]Transition(nil), s.transitions...),
		})
	}
	return out
}

// AppendCopy appends a copy of states previously taken by Snapshot at
// origin. Targets inside the snapshot's range are shifted so the copy refers
// to itself; other targets are kept. It returns the ID of the first copied
// state.
func (b *Builder) AppendCopy(states []State, origin StateID) StateID {
	base := b.Next()
	end := origin + StateID(conv.IntToUint32(len(states)))
	for _, s := range states {
		ts := make([]Transition, len(s.transitions))
		for i, t := range s.transitions {
			if t.Next >= origin && t.Next < end {
				t.Next = t.Next - origin + base
			}
			ts[i] = t
		}
		b.states = append(b.states, State{
			flags:       s.flags,
			captures:    append([]Capture(nil), s.captures...),
			transitions: ts,
		})
	}
	return base
}

// Validate checks that every transition targets an existing state other than
// the initial one.
func (b *Builder) Validate() error {
	n := StateID(conv.IntToUint32(len(b.states)))
	for i := range b.states {
		for _, t := range b.states[i].transitions {
			if t.Next >= n {
				return &BuildError{Message: "transition target out of range", StateID: StateID(i)}
			}
			if t.Next == 0 {
				return &BuildError{Message: "transition targets the initial state", StateID: StateID(i)}
			}
		}
	}
	return nil
}

// Build validates the states and freezes them into an Automaton.
// The builder must not be used afterwards.
func (b *Builder) Build(pattern string, captures []CaptureSpan) (*Automaton, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	a := &Automaton{
		states:       b.states,
		captureTable: append([]CaptureSpan(nil), captures...),
		pattern:      pattern,
	}
	b.states = nil
	return a, nil
}
