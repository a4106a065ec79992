package nfa

import (
	"slices"
	"sort"
	"unicode"

	"github.com/coregx/redfa/internal/conv"
)

// RuneClasses partitions the code point space into equivalence classes: two
// code points share a class iff every transition of the automaton treats them
// the same way. A DFA can then key its transition table by class instead of
// by code point.
//
// Class 0 covers [0, bounds[0]); class i covers [bounds[i-1], bounds[i]).
type RuneClasses struct {
	bounds []rune // sorted start points of classes 1..n-1
	ascii  [128]uint16
}

// NewRuneClasses computes the classes induced by a's transitions.
func NewRuneClasses(a *Automaton) *RuneClasses {
	return NewRuneClassesFromEvents(a.Events())
}

// NewRuneClassesFromEvents computes the classes induced by a set of events.
func NewRuneClassesFromEvents(evs []Event) *RuneClasses {
	var bounds []rune
	for _, e := range evs {
		if e.Lo > 0 {
			bounds = append(bounds, e.Lo)
		}
		if e.Hi < unicode.MaxRune {
			bounds = append(bounds, e.Hi+1)
		}
	}
	slices.Sort(bounds)
	bounds = slices.Compact(bounds)

	rc := &RuneClasses{bounds: bounds}
	for r := range rc.ascii {
		rc.ascii[r] = conv.IntToUint16(rc.search(rune(r)))
	}
	return rc
}

func (rc *RuneClasses) search(r rune) int {
	return sort.Search(len(rc.bounds), func(i int) bool { return rc.bounds[i] > r })
}

// Class returns the class of r.
func (rc *RuneClasses) Class(r rune) int {
	if r >= 0 && r < 128 {
		return int(rc.ascii[r])
	}
	return rc.search(r)
}

// ClassASCII returns the class of an ASCII byte.
func (rc *RuneClasses) ClassASCII(b byte) int {
	return int(rc.ascii[b&0x7F])
}

// Len returns the number of classes.
func (rc *RuneClasses) Len() int {
	return len(rc.bounds) + 1
}

// Representative returns the smallest code point of class c.
func (rc *RuneClasses) Representative(c int) rune {
	if c == 0 {
		return 0
	}
	return rc.bounds[c-1]
}

// Range returns the code points covered by class c.
func (rc *RuneClasses) Range(c int) Event {
	hi := rune(unicode.MaxRune)
	if c < len(rc.bounds) {
		hi = rc.bounds[c] - 1
	}
	return Event{Lo: rc.Representative(c), Hi: hi}
}
