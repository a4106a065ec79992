package literal

import (
	"unicode/utf8"

	"github.com/coregx/redfa/nfa"
)

// ExtractorConfig bounds literal extraction.
type ExtractorConfig struct {
	// MaxLiterals is the largest set Extract returns.
	MaxLiterals int

	// MaxLiteralLen is the longest literal, in bytes, Extract returns.
	// Automata with loops exceed it and yield no set.
	MaxLiteralLen int

	// MaxClassSize is the widest transition event that is expanded into
	// single code points. [abc] expands; [a-z] does not.
	MaxClassSize int
}

// DefaultConfig returns the default extraction limits.
func DefaultConfig() ExtractorConfig {
	return ExtractorConfig{
		MaxLiterals:   64,
		MaxLiteralLen: 64,
		MaxClassSize:  10,
	}
}

// Extractor walks automata collecting the literals their accepting paths
// spell.
type Extractor struct {
	config ExtractorConfig
}

// New creates an extractor. Non-positive limits fall back to the defaults.
func New(config ExtractorConfig) *Extractor {
	def := DefaultConfig()
	if config.MaxLiterals <= 0 {
		config.MaxLiterals = def.MaxLiterals
	}
	if config.MaxLiteralLen <= 0 {
		config.MaxLiteralLen = def.MaxLiteralLen
	}
	if config.MaxClassSize <= 0 {
		config.MaxClassSize = def.MaxClassSize
	}
	return &Extractor{config: config}
}

// Extract returns the minimized set of literals L such that a matches a
// prefix of a subject exactly when the subject starts with some member of L.
// It returns nil when no such finite set exists within the configured
// limits: the automaton loops, accepts the empty string, depends on the end
// of input, or has transitions too wide to expand.
func (e *Extractor) Extract(a *nfa.Automaton) *Seq {
	if a == nil || a.IsEmpty() {
		return nil
	}
	w := walker{
		a:      a,
		config: e.config,
		budget: e.config.MaxLiterals * e.config.MaxLiteralLen * e.config.MaxClassSize,
	}
	if !w.visit(0, nil) || len(w.lits) == 0 {
		return nil
	}
	seq := NewSeq(w.lits...)
	seq.Minimize()
	return seq
}

type walker struct {
	a      *nfa.Automaton
	config ExtractorConfig
	lits   []Literal
	budget int
}

// visit explores every path out of id with prefix spelled so far. It reports
// false as soon as the automaton proves not to be a finite literal set.
func (w *walker) visit(id nfa.StateID, prefix []byte) bool {
	w.budget--
	if w.budget < 0 {
		return false
	}
	f := w.a.Flags(id)
	if f.Has(nfa.FlagFinal) {
		if len(prefix) == 0 || len(w.lits) == w.config.MaxLiterals {
			return false
		}
		w.lits = append(w.lits, NewLiteral(prefix))
		return true
	}
	if f.Any(nfa.FlagEnd | nfa.FlagEol) {
		return false
	}
	if len(prefix) >= w.config.MaxLiteralLen {
		return false
	}
	for _, t := range w.a.Transitions(id) {
		if int(t.Event.Hi-t.Event.Lo) >= w.config.MaxClassSize || !encodable(t.Event) {
			return false
		}
		for r := t.Event.Lo; r <= t.Event.Hi; r++ {
			if !w.visit(t.Next, utf8.AppendRune(prefix, r)) {
				return false
			}
		}
	}
	return true
}

// encodable reports whether every code point of e has a UTF-8 encoding that
// a subject can carry verbatim. Invalid subject bytes decode to
// utf8.RuneError, so an event holding it matches bytes no literal spells.
func encodable(e nfa.Event) bool {
	const surrogateMin, surrogateMax = 0xD800, 0xDFFF
	if e.Contains(utf8.RuneError) {
		return false
	}
	return e.Hi < surrogateMin || e.Lo > surrogateMax
}
