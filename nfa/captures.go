package nfa

import "github.com/coregx/redfa/internal/conv"

// MaxNestingDepth is the deepest allowed group nesting.
const MaxNestingDepth = 64

// CaptureStack assigns capture indices in order of their opening parenthesis
// and tracks the groups that are currently open.
type CaptureStack struct {
	open  []uint32
	table []CaptureSpan
}

// Push opens a new capture group whose '(' is at pattern offset pos and
// returns its index.
func (s *CaptureStack) Push(pos int) (uint32, error) {
	if len(s.open) >= MaxNestingDepth {
		return 0, &Error{Code: ErrNestingDepth, Expr: "(", Pos: pos}
	}
	idx := conv.IntToUint32(len(s.table))
	s.table = append(s.table, CaptureSpan{Open: pos, Close: -1})
	s.open = append(s.open, idx)
	return idx, nil
}

// Pop closes the innermost open group at pattern offset pos and returns its
// index. ok is false if no group is open.
func (s *CaptureStack) Pop(pos int) (idx uint32, ok bool) {
	if len(s.open) == 0 {
		return 0, false
	}
	idx = s.open[len(s.open)-1]
	s.open = s.open[:len(s.open)-1]
	s.table[idx].Close = pos
	return idx, true
}

// Depth returns the number of open groups.
func (s *CaptureStack) Depth() int {
	return len(s.open)
}

// Count returns the number of groups opened so far.
func (s *CaptureStack) Count() int {
	return len(s.table)
}

// Table returns the parenthesis offsets of every group, indexed by capture
// index. Groups still open have Close == -1.
func (s *CaptureStack) Table() []CaptureSpan {
	return s.table
}
