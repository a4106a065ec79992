// Package redfa compiles regular expressions straight into epsilon-free
// automata and matches them without building a syntax tree.
//
// A pattern is compiled in one left-to-right pass. Every state of the
// resulting automaton carries its own flags (final, end-anchored, capture
// markers) and labelled transitions; there are no epsilon moves to close
// over at match time. Matching is anchored at the start of the subject and
// succeeds as soon as a prefix of it is accepted; MatchFullString requires
// the whole subject to be consumed.
//
// Basic usage:
//
//	re, err := redfa.Compile(`(GET|POST) /[a-z]+`)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if re.MatchString("GET /index HTTP/1.1") {
//	    fmt.Println("matched!")
//	}
//
// Supported syntax: literals, `.`, bracket classes with ranges and negation,
// groups `( )` and non-capturing `(?! )`, alternation, the quantifiers
// `? * +` and `{m}`, `{m,}`, `{,n}`, `{m,n}`, and the anchors `^` and `$`
// anywhere in the pattern. Escape classes such as \d and lookaround are not
// supported.
package redfa

import (
	"strings"

	"github.com/coregx/redfa/meta"
	"github.com/coregx/redfa/nfa"
)

// Regex is a compiled regular expression.
//
// A Regex is safe to use concurrently from multiple goroutines, except for
// ResetStats.
type Regex struct {
	engine  *meta.Engine
	pattern string
}

// Compile compiles a regular expression pattern.
//
// Errors wrap an *nfa.Error; errors.Is tells their kind apart
// (nfa.ErrSyntax, nfa.ErrRangeOrder, nfa.ErrCaptureOverflow,
// nfa.ErrNotImplemented).
func Compile(pattern string) (*Regex, error) {
	return CompileWithConfig(pattern, DefaultConfig())
}

// MustCompile is like Compile but panics if the pattern cannot be compiled.
//
// Example:
//
//	var method = redfa.MustCompile(`GET|POST|PUT|DELETE`)
func MustCompile(pattern string) *Regex {
	re, err := Compile(pattern)
	if err != nil {
		panic("redfa: Compile(`" + pattern + "`): " + err.Error())
	}
	return re
}

// CompileWithConfig compiles a pattern with custom configuration.
//
// Example:
//
//	config := redfa.DefaultConfig()
//	config.MaxDFAStates = 100000
//	re, err := redfa.CompileWithConfig("(a|b|c)*d", config)
func CompileWithConfig(pattern string, config meta.Config) (*Regex, error) {
	engine, err := meta.CompileWithConfig(pattern, config)
	if err != nil {
		return nil, err
	}
	return &Regex{
		engine:  engine,
		pattern: pattern,
	}, nil
}

// DefaultConfig returns the default configuration for compilation.
func DefaultConfig() meta.Config {
	return meta.DefaultConfig()
}

// MatchString reports whether pattern matches a prefix of s. More complex
// queries need Compile and the Regex methods.
func MatchString(pattern, s string) (bool, error) {
	re, err := Compile(pattern)
	if err != nil {
		return false, err
	}
	return re.MatchString(s), nil
}

// QuoteMeta returns s with every metacharacter escaped, so the result is a
// pattern that matches the literal text s.
func QuoteMeta(s string) string {
	const special = `\.+*?()|[]{}^$`
	if !strings.ContainsAny(s, special) {
		return s
	}
	var b strings.Builder
	b.Grow(2 * len(s))
	for i := 0; i < len(s); i++ {
		if strings.IndexByte(special, s[i]) >= 0 {
			b.WriteByte('\\')
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

// Match reports whether the regex matches a prefix of b.
func (r *Regex) Match(b []byte) bool {
	return r.engine.IsMatch(b)
}

// MatchString reports whether the regex matches a prefix of s.
//
// Example:
//
//	re := redfa.MustCompile(`ab+`)
//	re.MatchString("abbbx") // true
//	re.MatchString("xab")   // false: matching starts at offset 0
func (r *Regex) MatchString(s string) bool {
	return r.engine.IsMatchString(s)
}

// MatchFull reports whether the regex matches all of b.
func (r *Regex) MatchFull(b []byte) bool {
	return r.engine.IsMatchFull(b)
}

// MatchFullString reports whether the regex matches all of s.
func (r *Regex) MatchFullString(s string) bool {
	return r.engine.IsMatchFullString(s)
}

// String returns the source pattern.
func (r *Regex) String() string {
	return r.pattern
}

// NumSubexp returns the number of capturing groups.
func (r *Regex) NumSubexp() int {
	return r.engine.Automaton().CaptureCount()
}

// Automaton returns the compiled automaton.
func (r *Regex) Automaton() *nfa.Automaton {
	return r.engine.Automaton()
}

// Strategy returns the matcher selected for prefix matches.
func (r *Regex) Strategy() meta.Strategy {
	return r.engine.Strategy()
}

// Stats returns the engine's search counters.
func (r *Regex) Stats() meta.Stats {
	return r.engine.Stats()
}

// ResetStats zeroes the engine's search counters.
func (r *Regex) ResetStats() {
	r.engine.ResetStats()
}
