package nfa

import "unicode/utf8"

// Source yields the code points of a UTF-8 string one at a time, with one
// code point of lookahead and position save/restore. Invalid bytes decode as
// utf8.RuneError and consume a single byte.
type Source struct {
	s   string
	pos int
}

// NewSource returns a Source positioned at the start of s.
func NewSource(s string) *Source {
	return &Source{s: s}
}

// Next consumes and returns the next code point. ok is false at end of input.
func (src *Source) Next() (r rune, ok bool) {
	if src.pos >= len(src.s) {
		return 0, false
	}
	r, w := utf8.DecodeRuneInString(src.s[src.pos:])
	src.pos += w
	return r, true
}

// Peek returns the next code point without consuming it.
func (src *Source) Peek() (r rune, ok bool) {
	if src.pos >= len(src.s) {
		return 0, false
	}
	r, _ = utf8.DecodeRuneInString(src.s[src.pos:])
	return r, true
}

// Accept consumes the next code point if it equals r.
func (src *Source) Accept(r rune) bool {
	if p, ok := src.Peek(); ok && p == r {
		src.pos += utf8.RuneLen(r)
		return true
	}
	return false
}

// Pos returns the byte offset of the next code point.
func (src *Source) Pos() int {
	return src.pos
}

// Reset moves back (or forward) to a position returned by Pos.
func (src *Source) Reset(pos int) {
	src.pos = pos
}

// Done reports whether all input has been consumed.
func (src *Source) Done() bool {
	return src.pos >= len(src.s)
}

// Slice returns the input between two positions.
func (src *Source) Slice(from, to int) string {
	return src.s[from:to]
}

// Rest returns the unconsumed input.
func (src *Source) Rest() string {
	return src.s[src.pos:]
}
