package nfa

import (
	"errors"
	"testing"

	"gotest.tools/v3/assert"
)

func TestBuilderDedupesTransitions(t *testing.T) {
	b := NewBuilder()
	s0 := b.AddState(FlagNormal)
	s1 := b.AddState(FlagNormal)
	tr := Transition{Event: CharEvent('a'), Next: s1}
	assert.Assert(t, b.AddTransition(s0, tr))
	assert.Assert(t, !b.AddTransition(s0, tr))
	assert.Equal(t, len(b.Transitions(s0)), 1)
}

func TestBuilderAppendCopyRemapsInternalTargets(t *testing.T) {
	b := NewBuilder()
	b.AddState(FlagNormal)
	s1 := b.AddState(FlagNormal)
	s2 := b.AddState(FlagFinal)
	b.AddTransition(s1, Transition{Event: CharEvent('a'), Next: s2})
	b.AddTransition(s2, Transition{Event: CharEvent('b'), Next: s1})
	b.AddTransition(s2, Transition{Event: CharEvent('z'), Next: 5})
	b.MarkCapture(s1, 0, CaptureOpen)

	snap := b.Snapshot(s1, s2+1)
	base := b.AppendCopy(snap, s1)
	assert.Equal(t, base, StateID(3))
	assert.DeepEqual(t, b.Transitions(3), []Transition{{Event: CharEvent('a'), Next: 4}})
	assert.DeepEqual(t, b.Transitions(4), []Transition{
		{Event: CharEvent('b'), Next: 3},
		{Event: CharEvent('z'), Next: 5},
	})
	assert.Equal(t, b.Flags(4), FlagFinal)

	// The snapshot is independent of later edits.
	b.AddTransition(s1, Transition{Event: CharEvent('q'), Next: s2})
	assert.Equal(t, len(snap[0].transitions), 1)
}

func TestBuilderCaptureMarkersMerge(t *testing.T) {
	b := NewBuilder()
	s := b.AddState(FlagNormal)
	b.MarkCapture(s, 2, CaptureOpen)
	b.MarkCapture(s, 2, CaptureActive)
	b.MarkCapture(s, 1, CaptureClose)
	b.UpdateCapture(s, 2, CaptureOpen, CaptureExists)
	a, err := b.Build("", nil)
	assert.NilError(t, err)
	assert.DeepEqual(t, a.Captures(s), []Capture{
		{Index: 2, Flags: CaptureActive | CaptureExists},
		{Index: 1, Flags: CaptureClose},
	})
}

func TestBuilderValidate(t *testing.T) {
	b := NewBuilder()
	s0 := b.AddState(FlagNormal)
	b.AddTransition(s0, Transition{Event: AnyEvent, Next: 7})
	_, err := b.Build("x", nil)
	var be *BuildError
	assert.Assert(t, errors.As(err, &be))
	assert.Equal(t, be.StateID, s0)

	b = NewBuilder()
	s0 = b.AddState(FlagNormal)
	s1 := b.AddState(FlagNormal)
	b.AddTransition(s1, Transition{Event: AnyEvent, Next: s0})
	_, err = b.Build("x", nil)
	assert.ErrorContains(t, err, "initial state")
}

func TestFlagsString(t *testing.T) {
	assert.Equal(t, (FlagFinal | FlagBegin).String(), "Final|Begin")
	assert.Equal(t, Flags(0).String(), "None")
	assert.Equal(t, (CaptureOpen | CaptureClose).String(), "Open|Close")
}

func TestEventOrdering(t *testing.T) {
	assert.Equal(t, Event{'a', 'c'}.Compare(Event{'a', 'd'}), -1)
	assert.Equal(t, Event{'b', 'b'}.Compare(Event{'a', 'z'}), 1)
	assert.Assert(t, CharEvent('x').IsChar())
	assert.Assert(t, !AnyEvent.IsChar())
	assert.Assert(t, Event{'a', 'c'}.Overlaps(Event{'c', 'f'}))
	assert.Assert(t, !Event{'a', 'c'}.Overlaps(Event{'d', 'f'}))
	t1 := Transition{Event: CharEvent('a'), Next: 2}
	t2 := Transition{Event: CharEvent('a'), Next: 3}
	assert.Equal(t, t1.Compare(t2), -1)
}
