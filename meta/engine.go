package meta

import (
	"log/slog"
	"strings"
	"sync/atomic"

	"github.com/coregx/ahocorasick"

	"github.com/coregx/redfa/dfa/lazy"
	"github.com/coregx/redfa/dfa/onepass"
	"github.com/coregx/redfa/literal"
	"github.com/coregx/redfa/nfa"
)

// Engine matches subjects against one compiled automaton using the strategy
// chosen at compile time.
//
// An Engine is safe for concurrent use: per-search state comes from a pool.
type Engine struct {
	a      *nfa.Automaton
	config Config
	log    *slog.Logger

	strategy Strategy
	// automaton is the strategy that walks states. It answers full matches
	// and every search when strategy is a literal one.
	automaton Strategy

	literals *literal.Seq
	prefix   string
	ac       *ahocorasick.Automaton
	acLen    int

	onepass *onepass.DFA
	dfa     *lazy.DFA
	pool    *searchStatePool

	stats Stats
}

// Stats counts searches per strategy.
type Stats struct {
	// NFASearches counts frontier walks, fallbacks included.
	NFASearches uint64

	// DFASearches counts lazy DFA searches.
	DFASearches uint64

	// OnePassSearches counts single-state walks.
	OnePassSearches uint64

	// LiteralSearches counts single-literal prefix comparisons.
	LiteralSearches uint64

	// AhoCorasickSearches counts Aho-Corasick searches.
	AhoCorasickSearches uint64

	// DFACacheFull counts lazy DFA searches that gave up and fell back to the
	// frontier walk.
	DFACacheFull uint64
}

// Compile compiles pattern with the default configuration.
func Compile(pattern string) (*Engine, error) {
	return CompileWithConfig(pattern, DefaultConfig())
}

// CompileWithConfig compiles pattern and builds an engine for it.
func CompileWithConfig(pattern string, config Config) (*Engine, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	c := nfa.NewCompiler(nfa.CompilerConfig{
		MaxRepeat: config.MaxRepeat,
		MaxStates: config.MaxStates,
	})
	a, err := c.Compile(pattern)
	if err != nil {
		return nil, err
	}
	return NewEngine(a, config)
}

// NewEngine builds an engine for an already compiled automaton.
func NewEngine(a *nfa.Automaton, config Config) (*Engine, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	e := &Engine{a: a, config: config, log: config.logger()}

	e.strategy, e.literals = SelectStrategy(a, config)
	walkOnly := config
	walkOnly.EnableLiteral = false
	e.automaton, _ = SelectStrategy(a, walkOnly)

	switch e.strategy {
	case UseLiteral:
		e.prefix = e.literals.Get(0).String()
	case UseAhoCorasick:
		if err := e.buildAhoCorasick(); err != nil {
			e.log.Debug("redfa: aho-corasick build failed",
				slog.String("pattern", a.Pattern()),
				slog.Any("error", err))
			e.strategy = e.automaton
		}
	}

	if e.automaton == UseOnePass {
		d, err := onepass.Build(a)
		if err != nil {
			return nil, err
		}
		e.onepass = d
	}
	if e.automaton == UseLazyDFA {
		d, err := lazy.New(a, lazy.Config{
			MaxStates:            config.MaxDFAStates,
			DeterminizationLimit: config.DeterminizationLimit,
		})
		if err != nil {
			return nil, err
		}
		e.dfa = d
	}
	e.pool = newSearchStatePool(a, e.dfa)

	logStrategy(e.log, a, e.strategy, e.literals)
	return e, nil
}

func (e *Engine) buildAhoCorasick() error {
	builder := ahocorasick.NewBuilder()
	for i := 0; i < e.literals.Len(); i++ {
		builder.AddPattern(e.literals.Get(i).Bytes)
	}
	auto, err := builder.Build()
	if err != nil {
		return err
	}
	e.ac = auto
	e.acLen = e.literals.MaxLen()
	return nil
}

// Automaton returns the compiled automaton.
func (e *Engine) Automaton() *nfa.Automaton {
	return e.a
}

// Pattern returns the source pattern.
func (e *Engine) Pattern() string {
	return e.a.Pattern()
}

// Strategy returns the strategy used for prefix matches.
func (e *Engine) Strategy() Strategy {
	return e.strategy
}

// FullStrategy returns the strategy used for whole-subject matches.
func (e *Engine) FullStrategy() Strategy {
	return e.automaton
}

// Literals returns the literal set of the literal strategies, or nil.
func (e *Engine) Literals() *literal.Seq {
	return e.literals
}

// Stats returns a snapshot of the search counters.
func (e *Engine) Stats() Stats {
	return Stats{
		NFASearches:         atomic.LoadUint64(&e.stats.NFASearches),
		DFASearches:         atomic.LoadUint64(&e.stats.DFASearches),
		OnePassSearches:     atomic.LoadUint64(&e.stats.OnePassSearches),
		LiteralSearches:     atomic.LoadUint64(&e.stats.LiteralSearches),
		AhoCorasickSearches: atomic.LoadUint64(&e.stats.AhoCorasickSearches),
		DFACacheFull:        atomic.LoadUint64(&e.stats.DFACacheFull),
	}
}

// ResetStats zeroes the search counters.
func (e *Engine) ResetStats() {
	atomic.StoreUint64(&e.stats.NFASearches, 0)
	atomic.StoreUint64(&e.stats.DFASearches, 0)
	atomic.StoreUint64(&e.stats.OnePassSearches, 0)
	atomic.StoreUint64(&e.stats.LiteralSearches, 0)
	atomic.StoreUint64(&e.stats.AhoCorasickSearches, 0)
	atomic.StoreUint64(&e.stats.DFACacheFull, 0)
}

// IsMatch reports whether the pattern matches a prefix of subject.
func (e *Engine) IsMatch(subject []byte) bool {
	return e.IsMatchString(string(subject))
}

// IsMatchString reports whether the pattern matches a prefix of subject.
func (e *Engine) IsMatchString(subject string) bool {
	switch e.strategy {
	case UseLiteral:
		atomic.AddUint64(&e.stats.LiteralSearches, 1)
		return strings.HasPrefix(subject, e.prefix)
	case UseAhoCorasick:
		return e.isMatchAhoCorasick(subject)
	default:
		return e.walk(subject, false)
	}
}

// IsMatchFull reports whether the pattern matches all of subject.
func (e *Engine) IsMatchFull(subject []byte) bool {
	return e.IsMatchFullString(string(subject))
}

// IsMatchFullString reports whether the pattern matches all of subject.
func (e *Engine) IsMatchFullString(subject string) bool {
	return e.walk(subject, true)
}

// isMatchAhoCorasick looks for a literal starting at offset 0. Only the first
// MaxLen bytes can hold one, so the search never scans further.
//
// The automaton reports the match that ends first, which may start past a
// longer literal at offset 0. Such a hit only proves some literal occurs in
// head, so the answer is settled by checking the literals as prefixes.
func (e *Engine) isMatchAhoCorasick(subject string) bool {
	atomic.AddUint64(&e.stats.AhoCorasickSearches, 1)
	head := []byte(subject[:min(len(subject), e.acLen)])
	m := e.ac.Find(head, 0)
	if m == nil {
		return false
	}
	if m.Start == 0 {
		return true
	}
	return e.literals.HasPrefixOf(head)
}

func (e *Engine) walk(subject string, full bool) bool {
	switch e.automaton {
	case UseOnePass:
		atomic.AddUint64(&e.stats.OnePassSearches, 1)
		if full {
			return e.onepass.MatchFull(subject)
		}
		return e.onepass.Match(subject)
	case UseLazyDFA:
		return e.walkDFA(subject, full)
	default:
		state := e.pool.get()
		defer e.pool.put(state)
		return e.walkNFA(state, subject, full)
	}
}

func (e *Engine) walkDFA(subject string, full bool) bool {
	state := e.pool.get()
	defer e.pool.put(state)

	atomic.AddUint64(&e.stats.DFASearches, 1)
	var ok bool
	var err error
	if full {
		ok, err = e.dfa.MatchFull(state.cache, subject)
	} else {
		ok, err = e.dfa.Match(state.cache, subject)
	}
	if err == nil {
		return ok
	}

	// The cache is unusable after a failed determinization.
	state.cache.Reset()
	atomic.AddUint64(&e.stats.DFACacheFull, 1)
	e.log.Debug("redfa: lazy DFA gave up, using frontier walk",
		slog.String("pattern", e.a.Pattern()),
		slog.Bool("fallback", lazy.IsFallback(err)),
		slog.Any("error", err))
	return e.walkNFA(state, subject, full)
}

func (e *Engine) walkNFA(state *SearchState, subject string, full bool) bool {
	atomic.AddUint64(&e.stats.NFASearches, 1)
	if full {
		return state.matcher.MatchFull(subject)
	}
	return state.matcher.Match(subject)
}
