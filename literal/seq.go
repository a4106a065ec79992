// Package literal extracts finite literal sets from compiled automata.
//
// When every accepting path of an automaton spells a short literal, matching
// reduces to asking whether the subject starts with one of those literals.
// The meta engine hands such sets to a prefix comparison or an Aho-Corasick
// automaton instead of walking states.
package literal

import (
	"bytes"
	"slices"
)

// Literal is one byte string spelled by an accepting path.
type Literal struct {
	Bytes []byte
}

// NewLiteral returns a literal holding a copy of b.
func NewLiteral(b []byte) Literal {
	return Literal{Bytes: bytes.Clone(b)}
}

// Len returns the literal length in bytes.
func (l Literal) Len() int {
	return len(l.Bytes)
}

func (l Literal) String() string {
	return string(l.Bytes)
}

// Seq is a sequence of literals.
//
// A nil *Seq means the set is infinite or unknown; an empty Seq means no
// literal can match.
type Seq struct {
	literals []Literal
}

// NewSeq creates a sequence from lits.
func NewSeq(lits ...Literal) *Seq {
	return &Seq{literals: slices.Clone(lits)}
}

// Len returns the number of literals. It is 0 for a nil Seq.
func (s *Seq) Len() int {
	if s == nil {
		return 0
	}
	return len(s.literals)
}

// Get returns the i-th literal.
func (s *Seq) Get(i int) Literal {
	return s.literals[i]
}

// IsEmpty reports whether the sequence holds no literals.
func (s *Seq) IsEmpty() bool {
	return s.Len() == 0
}

// Minimize removes duplicates and every literal that has another literal of
// the sequence as a prefix. Under prefix matching the shorter literal already
// accepts wherever the longer one would. The result is sorted.
func (s *Seq) Minimize() {
	if s.Len() < 2 {
		return
	}
	slices.SortFunc(s.literals, func(a, b Literal) int {
		return bytes.Compare(a.Bytes, b.Bytes)
	})
	// After sorting, a literal's prefixes that are in the set sort
	// immediately before it or before its siblings, so comparing against the
	// last kept literal is enough.
	kept := s.literals[:1]
	for _, lit := range s.literals[1:] {
		if bytes.HasPrefix(lit.Bytes, kept[len(kept)-1].Bytes) {
			continue
		}
		kept = append(kept, lit)
	}
	s.literals = kept
}

// MinLen returns the length of the shortest literal, or 0 for an empty Seq.
func (s *Seq) MinLen() int {
	if s.IsEmpty() {
		return 0
	}
	n := s.literals[0].Len()
	for _, lit := range s.literals[1:] {
		n = min(n, lit.Len())
	}
	return n
}

// MaxLen returns the length of the longest literal, or 0 for an empty Seq.
func (s *Seq) MaxLen() int {
	n := 0
	for i := 0; i < s.Len(); i++ {
		n = max(n, s.literals[i].Len())
	}
	return n
}

// LongestCommonPrefix returns the longest byte string every literal starts
// with.
func (s *Seq) LongestCommonPrefix() []byte {
	if s.IsEmpty() {
		return nil
	}
	prefix := s.literals[0].Bytes
	for _, lit := range s.literals[1:] {
		prefix = commonPrefix(prefix, lit.Bytes)
		if len(prefix) == 0 {
			return nil
		}
	}
	return bytes.Clone(prefix)
}

// HasPrefixOf reports whether subject starts with any literal of the
// sequence. It is a linear scan over the sequence.
func (s *Seq) HasPrefixOf(subject []byte) bool {
	for i := 0; i < s.Len(); i++ {
		if bytes.HasPrefix(subject, s.literals[i].Bytes) {
			return true
		}
	}
	return false
}

func commonPrefix(a, b []byte) []byte {
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return a[:i]
		}
	}
	return a[:n]
}
