package lazy

import "errors"

// Config bounds the work a lazy DFA may do before handing a search back to
// the frontier walk.
type Config struct {
	// MaxStates is the maximum number of DFA states one Cache may hold,
	// the dead state included.
	//
	// Default: 10,000 states
	MaxStates uint32

	// DeterminizationLimit is the maximum number of automaton states a
	// single DFA state may stand for.
	//
	// Default: 1,000
	DeterminizationLimit int
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() Config {
	return Config{
		MaxStates:            10_000,
		DeterminizationLimit: 1_000,
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	switch {
	case c.MaxStates < 2:
		return &DFAError{Kind: InvalidConfig, Cause: errors.New("MaxStates must be at least 2")}
	case c.DeterminizationLimit <= 0:
		return &DFAError{Kind: InvalidConfig, Cause: errors.New("DeterminizationLimit must be positive")}
	}
	return nil
}
