package nfa

import (
	"errors"
	"fmt"
)

// Error kinds. Every compile error unwraps to exactly one of these, so callers
// can tell malformed syntax apart from syntax that is recognized but not
// supported.
var (
	// ErrSyntax indicates a malformed pattern (stray quantifier, unmatched
	// parenthesis, unterminated bracket or brace, trailing backslash).
	ErrSyntax = errors.New("syntax error")

	// ErrRangeOrder indicates a reversed range such as {3,1} or [9-0].
	ErrRangeOrder = errors.New("range out of order")

	// ErrCaptureOverflow indicates groups nested deeper than MaxNestingDepth.
	ErrCaptureOverflow = errors.New("capture overflow")

	// ErrNotImplemented indicates syntax that is recognized but unsupported.
	ErrNotImplemented = errors.New("not implemented")

	// ErrInvalidConfig indicates invalid configuration was provided
	ErrInvalidConfig = errors.New("invalid compiler configuration")
)

// ErrorCode describes the precise cause of a compile error.
type ErrorCode string

const (
	ErrMissingRepeatArgument ErrorCode = "missing argument to repetition operator"
	ErrNestedRepeat          ErrorCode = "invalid nested repetition operator"
	ErrMissingParen          ErrorCode = "missing closing )"
	ErrUnexpectedParen       ErrorCode = "unexpected )"
	ErrMissingBracket        ErrorCode = "missing closing ]"
	ErrEmptyClass            ErrorCode = "empty character class"
	ErrTrailingBackslash     ErrorCode = "trailing backslash at end of expression"
	ErrInvalidRepeat         ErrorCode = "invalid repeat count"
	ErrMissingRepeatBrace    ErrorCode = "missing closing }"
	ErrZeroRepeat            ErrorCode = "repeat count is zero"
	ErrRepeatSize            ErrorCode = "repeat count too large"
	ErrUnknownGroup          ErrorCode = "invalid or unknown group flag"
	ErrTooLarge              ErrorCode = "expression too large"
	ErrInvalidUTF8           ErrorCode = "invalid UTF-8"

	ErrRepeatOrder     ErrorCode = "numbers out of order in {} quantifier"
	ErrClassRangeOrder ErrorCode = "invalid character class range"

	ErrNestingDepth ErrorCode = "expression nests too deeply"

	ErrUnsupportedGroup ErrorCode = "unsupported group syntax"
	ErrUnsupportedClass ErrorCode = "unsupported escape class"
)

// Kind returns the sentinel error kind the code belongs to.
func (c ErrorCode) Kind() error {
	switch c {
	case ErrRepeatOrder, ErrClassRangeOrder:
		return ErrRangeOrder
	case ErrNestingDepth:
		return ErrCaptureOverflow
	case ErrUnsupportedGroup, ErrUnsupportedClass:
		return ErrNotImplemented
	default:
		return ErrSyntax
	}
}

func (c ErrorCode) String() string {
	return string(c)
}

// Error describes a pattern that failed to compile.
type Error struct {
	Code ErrorCode
	Expr string // offending fragment of the pattern
	Pos  int    // byte offset of the fragment in the pattern
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s at offset %d: `%s`", e.Code, e.Pos, e.Expr)
}

// Unwrap returns the error kind so errors.Is(err, ErrSyntax) and friends work.
func (e *Error) Unwrap() error {
	return e.Code.Kind()
}

// CompileError wraps compilation errors with additional context
type CompileError struct {
	Pattern string
	Err     error
}

// Error implements the error interface
func (e *CompileError) Error() string {
	if e.Pattern != "" {
		return fmt.Sprintf("redfa: compiling %q: %v", e.Pattern, e.Err)
	}
	return fmt.Sprintf("redfa: %v", e.Err)
}

// Unwrap returns the underlying error
func (e *CompileError) Unwrap() error {
	return e.Err
}

// BuildError represents an inconsistency detected while assembling an
// automaton through the Builder API.
type BuildError struct {
	Message string
	StateID StateID
}

// Error implements the error interface
func (e *BuildError) Error() string {
	if e.StateID != InvalidState {
		return fmt.Sprintf("automaton build error at state %d: %s", e.StateID, e.Message)
	}
	return fmt.Sprintf("automaton build error: %s", e.Message)
}

// ErrorCodeOf extracts the ErrorCode from err, if any.
func ErrorCodeOf(err error) (ErrorCode, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Code, true
	}
	return "", false
}
