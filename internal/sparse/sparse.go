// Package sparse provides a generation-stamped set of small integers.
//
// Matchers step a frontier of automaton states once per input code point.
// Clearing a membership array on every step would cost O(states); instead each
// slot remembers the generation in which it was last inserted, and Clear just
// advances the generation. Iteration order is insertion order.
package sparse

// SparseSet is a set of uint32 values below a fixed capacity.
type SparseSet struct {
	stamp []uint32 // value -> generation of last insertion
	dense []uint32 // members in insertion order
	gen   uint32
}

// NewSparseSet creates a set able to hold values in [0, capacity).
func NewSparseSet(capacity uint32) *SparseSet {
	return &SparseSet{
		stamp: make([]uint32, capacity),
		dense: make([]uint32, 0, capacity),
		gen:   1,
	}
}

// Insert adds value and reports whether it was absent.
// Panics if value >= capacity.
func (s *SparseSet) Insert(value uint32) bool {
	if s.stamp[value] == s.gen {
		return false
	}
	s.stamp[value] = s.gen
	s.dense = append(s.dense, value)
	return true
}

// Contains reports whether value is in the set.
func (s *SparseSet) Contains(value uint32) bool {
	return int(value) < len(s.stamp) && s.stamp[value] == s.gen
}

// Clear empties the set in O(1).
func (s *SparseSet) Clear() {
	s.dense = s.dense[:0]
	s.gen++
	if s.gen == 0 {
		// Wrapped: stale stamps could now alias the new generation.
		clear(s.stamp)
		s.gen = 1
	}
}

// Values returns the members in insertion order. The slice is only valid
// until the next mutation.
func (s *SparseSet) Values() []uint32 {
	return s.dense
}

// Len returns the number of members.
func (s *SparseSet) Len() int {
	return len(s.dense)
}

// IsEmpty reports whether the set has no members.
func (s *SparseSet) IsEmpty() bool {
	return len(s.dense) == 0
}
