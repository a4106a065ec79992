// Package meta selects and runs the matcher best suited to a compiled
// automaton.
//
// The engine picks one of four strategies when a pattern is compiled:
//   - Literal: every accepting path spells one of a few literals, so a
//     prefix comparison or an Aho-Corasick automaton answers the match
//   - OnePass: at most one transition leaves each state on any code point,
//     so a single-state walk is exact
//   - LazyDFA: subset construction on demand, falling back to the frontier
//     walk when its cache fills up
//   - NFA: the frontier walk
//
// All strategies give the same answer; they differ only in speed.
package meta

import (
	"errors"
	"log/slog"

	"github.com/coregx/redfa/nfa"
)

// Config controls strategy selection and engine limits.
//
// Example:
//
//	config := meta.DefaultConfig()
//	config.EnableDFA = false // frontier walk for anything nondeterministic
//	engine, err := meta.CompileWithConfig(`(a|b)*c`, config)
type Config struct {
	// EnableDFA enables the lazy DFA for nondeterministic automata.
	// Default: true
	EnableDFA bool

	// EnableOnePass enables the single-state walk for deterministic automata.
	// Default: true
	EnableOnePass bool

	// EnableLiteral enables literal-set matching.
	// Default: true
	EnableLiteral bool

	// MaxDFAStates bounds the lazy DFA cache of each search.
	// Default: 10000
	MaxDFAStates uint32

	// DeterminizationLimit caps the automaton states per DFA state.
	// Default: 1000
	DeterminizationLimit int

	// MaxLiterals is the largest literal set matched without the automaton.
	// Default: 64
	MaxLiterals int

	// MaxRepeat bounds {m,n} counts.
	// Default: 1000
	MaxRepeat int

	// MaxStates bounds the automaton size.
	// Default: 100000
	MaxStates int

	// Logger receives debug records about strategy selection and DFA
	// fallbacks. Nil means slog.Default().
	Logger *slog.Logger
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() Config {
	compiler := nfa.DefaultCompilerConfig()
	return Config{
		EnableDFA:            true,
		EnableOnePass:        true,
		EnableLiteral:        true,
		MaxDFAStates:         10_000,
		DeterminizationLimit: 1_000,
		MaxLiterals:          64,
		MaxRepeat:            compiler.MaxRepeat,
		MaxStates:            compiler.MaxStates,
	}
}

// Validate checks if the configuration is valid.
//
// Valid ranges:
//   - MaxDFAStates: 2 to 1,000,000
//   - DeterminizationLimit: 1 to 100,000
//   - MaxLiterals: 1 to 1,000
//   - MaxRepeat: 1 to 100,000
//   - MaxStates: 2 to 10,000,000
//
// The DFA and literal limits are only checked when their strategy is enabled.
func (c Config) Validate() error {
	if c.EnableDFA {
		if c.MaxDFAStates < 2 || c.MaxDFAStates > 1_000_000 {
			return &ConfigError{Field: "MaxDFAStates", Message: "must be between 2 and 1,000,000"}
		}
		if c.DeterminizationLimit < 1 || c.DeterminizationLimit > 100_000 {
			return &ConfigError{Field: "DeterminizationLimit", Message: "must be between 1 and 100,000"}
		}
	}
	if c.EnableLiteral && (c.MaxLiterals < 1 || c.MaxLiterals > 1_000) {
		return &ConfigError{Field: "MaxLiterals", Message: "must be between 1 and 1,000"}
	}
	if c.MaxRepeat < 1 || c.MaxRepeat > 100_000 {
		return &ConfigError{Field: "MaxRepeat", Message: "must be between 1 and 100,000"}
	}
	if c.MaxStates < 2 || c.MaxStates > 10_000_000 {
		return &ConfigError{Field: "MaxStates", Message: "must be between 2 and 10,000,000"}
	}
	return nil
}

func (c Config) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}

// ConfigError represents an invalid configuration parameter.
type ConfigError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return "redfa: invalid config: " + e.Field + ": " + e.Message
}

// Is reports nfa.ErrInvalidConfig as a match, so every configuration
// error in the module is recognized the same way.
func (e *ConfigError) Is(target error) bool {
	return errors.Is(target, nfa.ErrInvalidConfig)
}
