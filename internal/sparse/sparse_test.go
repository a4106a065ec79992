package sparse

import (
	"testing"
)

func TestSparseSet_Basic(t *testing.T) {
	s := NewSparseSet(100)

	if !s.IsEmpty() {
		t.Error("new set should be empty")
	}
	if s.Contains(0) {
		t.Error("empty set should not contain 0")
	}

	if !s.Insert(5) {
		t.Error("first insert should return true")
	}
	if !s.Contains(5) {
		t.Error("set should contain 5 after insert")
	}
	if s.Insert(5) {
		t.Error("duplicate insert should return false")
	}

	s.Insert(10)
	s.Insert(3)
	if s.Len() != 3 {
		t.Errorf("len should be 3, got %d", s.Len())
	}

	s.Clear()
	if !s.IsEmpty() {
		t.Error("set should be empty after clear")
	}
	if s.Contains(5) {
		t.Error("cleared set should not contain 5")
	}
	if !s.Insert(5) {
		t.Error("insert after clear should return true")
	}
}

func TestSparseSet_InsertionOrder(t *testing.T) {
	s := NewSparseSet(10)
	for _, v := range []uint32{7, 2, 9, 2, 0} {
		s.Insert(v)
	}
	want := []uint32{7, 2, 9, 0}
	got := s.Values()
	if len(got) != len(want) {
		t.Fatalf("Values() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Values() = %v, want %v", got, want)
		}
	}
}

func TestSparseSet_OutOfRangeContains(t *testing.T) {
	s := NewSparseSet(4)
	if s.Contains(100) {
		t.Error("Contains beyond capacity should be false")
	}
}

func TestSparseSet_GenerationWrap(t *testing.T) {
	s := NewSparseSet(4)
	s.Insert(1)
	s.gen = ^uint32(0)
	s.stamp[2] = 1
	s.Clear()
	if s.gen != 1 {
		t.Fatalf("gen after wrap = %d, want 1", s.gen)
	}
	if s.Contains(2) || s.Contains(1) {
		t.Error("stale stamps survived generation wrap")
	}
}
