package nfa

import "testing"

func TestSource(t *testing.T) {
	src := NewSource("aé\xff")
	if r, ok := src.Peek(); !ok || r != 'a' {
		t.Fatalf("Peek() = %q, %v", r, ok)
	}
	mark := src.Pos()
	want := []rune{'a', 'é', '�'}
	for _, w := range want {
		r, ok := src.Next()
		if !ok || r != w {
			t.Fatalf("Next() = %q, %v, want %q", r, ok, w)
		}
	}
	if _, ok := src.Next(); ok {
		t.Fatal("Next() past end should fail")
	}
	if !src.Done() {
		t.Fatal("Done() should be true")
	}
	src.Reset(mark)
	if !src.Accept('a') || src.Accept('x') || src.Pos() != 1 {
		t.Fatalf("Accept after Reset misbehaved at pos %d", src.Pos())
	}
	if src.Rest() != "é\xff" {
		t.Fatalf("Rest() = %q", src.Rest())
	}
}
