package lazy

import (
	"errors"
	"strconv"
)

// ErrorKind says why the DFA stopped.
type ErrorKind uint8

const (
	// CacheFull: the Cache holds Config.MaxStates states.
	CacheFull ErrorKind = iota + 1

	// StateLimitExceeded: a new DFA state would stand for more automaton
	// states than Config.DeterminizationLimit.
	StateLimitExceeded

	// InvalidConfig: Config.Validate failed.
	InvalidConfig
)

var kindNames = [...]string{
	CacheFull:          "cache full",
	StateLimitExceeded: "determinization limit exceeded",
	InvalidConfig:      "invalid config",
}

func (k ErrorKind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "ErrorKind(" + strconv.Itoa(int(k)) + ")"
}

// DFAError reports why a search or construction stopped. Limit is the
// configured bound that was hit, if any.
type DFAError struct {
	Kind  ErrorKind
	Limit int
	Cause error
}

// Sentinels for errors.Is. Any *DFAError of the same kind matches them.
var (
	ErrCacheFull          = &DFAError{Kind: CacheFull}
	ErrStateLimitExceeded = &DFAError{Kind: StateLimitExceeded}
	ErrInvalidConfig      = &DFAError{Kind: InvalidConfig}
)

func (e *DFAError) Error() string {
	msg := "lazy: " + e.Kind.String()
	if e.Limit > 0 {
		msg += " (limit " + strconv.Itoa(e.Limit) + ")"
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *DFAError) Unwrap() error {
	return e.Cause
}

func (e *DFAError) Is(target error) bool {
	t, ok := target.(*DFAError)
	return ok && e.Kind == t.Kind
}

// IsFallback reports whether err means the search should be finished by the
// frontier walk rather than failed. The Cache must be Reset first.
func IsFallback(err error) bool {
	var de *DFAError
	return errors.As(err, &de) && (de.Kind == CacheFull || de.Kind == StateLimitExceeded)
}
