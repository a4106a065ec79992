package meta

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"

	"github.com/coregx/redfa/nfa"
)

func mustCompile(t testing.TB, pattern string, config Config) *Engine {
	t.Helper()
	e, err := CompileWithConfig(pattern, config)
	if err != nil {
		t.Fatalf("CompileWithConfig(%q): %v", pattern, err)
	}
	return e
}

func TestStrategySelection(t *testing.T) {
	noDFA := DefaultConfig()
	noDFA.EnableDFA = false
	noLiteral := DefaultConfig()
	noLiteral.EnableLiteral = false

	tests := []struct {
		pattern string
		config  Config
		want    Strategy
	}{
		{"abc", DefaultConfig(), UseLiteral},
		{"a|ab", DefaultConfig(), UseLiteral},
		{"foo|bar", DefaultConfig(), UseAhoCorasick},
		{"^(GET|POST|PUT) ", DefaultConfig(), UseAhoCorasick},
		{"abc", noLiteral, UseOnePass},
		{"a[a-z]+", DefaultConfig(), UseOnePass},
		{"a[0-9]+", DefaultConfig(), UseAhoCorasick},
		{"", DefaultConfig(), UseOnePass},
		{"[a-z]+x", DefaultConfig(), UseLazyDFA},
		{"(a|ab)*c", DefaultConfig(), UseLazyDFA},
		{"(a|ab)*c", noDFA, UseNFA},
	}
	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			e := mustCompile(t, tt.pattern, tt.config)
			assert.Equal(t, e.Strategy(), tt.want)
		})
	}
}

func TestFullStrategySkipsLiterals(t *testing.T) {
	e := mustCompile(t, "foo|bar", DefaultConfig())
	assert.Equal(t, e.Strategy(), UseAhoCorasick)
	assert.Equal(t, e.FullStrategy(), UseOnePass)
	assert.Equal(t, e.Literals().Len(), 2)

	e = mustCompile(t, "a+", DefaultConfig())
	assert.Equal(t, e.Strategy(), UseLiteral)
	assert.Assert(t, e.IsMatchFullString("aaa"))
	assert.Assert(t, !e.IsMatchFullString("aab"))
}

func TestAhoCorasickLongerLiteralAtStart(t *testing.T) {
	tests := []struct {
		pattern string
		yes     []string
		no      []string
	}{
		{"(ba)?a", []string{"a", "baa", "baab"}, []string{"b", "ba", "bba"}},
		{"([ab]{2})?ab?", []string{"a", "baa", "bba", "abab"}, []string{"b", "bb"}},
		{"(b[ab]|ab{2}){,2}b{2}", []string{"bb", "abbbb", "babb", "abbbbbb"}, []string{"abb", "ab", "baab"}},
	}
	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			e := mustCompile(t, tt.pattern, DefaultConfig())
			assert.Equal(t, e.Strategy(), UseAhoCorasick)
			for _, s := range tt.yes {
				assert.Assert(t, e.IsMatchString(s), "%q should match %q", tt.pattern, s)
			}
			for _, s := range tt.no {
				assert.Assert(t, !e.IsMatchString(s), "%q should not match %q", tt.pattern, s)
			}
		})
	}
}

func TestStrategyLogged(t *testing.T) {
	var buf bytes.Buffer
	config := DefaultConfig()
	config.Logger = slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	mustCompile(t, "foo|far|fa", config)
	out := buf.String()
	assert.Assert(t, is.Contains(out, "redfa: strategy selected"))
	assert.Assert(t, is.Contains(out, "strategy=UseAhoCorasick"))
	assert.Assert(t, is.Contains(out, "min_len=2"))
	assert.Assert(t, is.Contains(out, "max_len=3"))
	assert.Assert(t, is.Contains(out, "common_prefix=f"))

	buf.Reset()
	mustCompile(t, "(a|b)*c", config)
	assert.Assert(t, is.Contains(buf.String(), "literals=0"))
	assert.Assert(t, !strings.Contains(buf.String(), "min_len"))
}

func TestStrategyString(t *testing.T) {
	assert.Equal(t, UseAhoCorasick.String(), "UseAhoCorasick")
	assert.Equal(t, UseLazyDFA.String(), "UseLazyDFA")
	assert.Equal(t, Strategy(42).String(), "Unknown")
}

var corpusPatterns = []string{
	"a", "abc", "", "$", "^a$", "a^b", "a|ab", "foo|bar|baz", "(GET|POST) /",
	"a*a$", "(a|b)*c", "(ab|ac)+$", "a{2,4}$", "x[0-9]{2,}y", "[^ab]+$",
	"(a|^b)+$", "é+x", "a.c", "(a?){3}b$", "((ab){1,2}c){2}$", "[a-z]+x",
	"(ba)?a", "([ab]{2})?ab?", "(b[ab]|ab{2}){,2}b{2}", "(b[ab]|ab{2}){,2}b{2}c*",
}

var corpusSubjects = []string{
	"", "a", "b", "c", "ab", "ac", "aa", "aaa", "aaaa", "aaaaa", "abc", "abac",
	"x12y", "x1y", "ccc", "éx", "ééx", "aéc", "a\xffc", "ba", "aab", "abcabc",
	"foo", "fo", "barn", "bazaar", "GET /", "POST /x", "PUT /", "zzx",
	"ababcabc", strings.Repeat("ab", 20) + "c", "baa", "abbbb", "bab", "bbbb",
}

func TestEnginesAgree(t *testing.T) {
	configs := map[string]Config{"default": DefaultConfig()}
	c := DefaultConfig()
	c.EnableLiteral = false
	configs["no-literal"] = c
	c.EnableOnePass = false
	configs["dfa-only"] = c
	c.EnableDFA = false
	configs["nfa-only"] = c
	c = DefaultConfig()
	c.EnableOnePass = false
	c.MaxDFAStates = 2
	configs["tiny-cache"] = c

	for name, config := range configs {
		for _, p := range corpusPatterns {
			e := mustCompile(t, p, config)
			for _, s := range corpusSubjects {
				if got, want := e.IsMatchString(s), nfa.Match(e.Automaton(), s); got != want {
					t.Errorf("%s: IsMatchString(%q, %q) = %v, want %v (strategy %s)", name, p, s, got, want, e.Strategy())
				}
				if got, want := e.IsMatchFullString(s), nfa.MatchFull(e.Automaton(), s); got != want {
					t.Errorf("%s: IsMatchFullString(%q, %q) = %v, want %v (strategy %s)", name, p, s, got, want, e.FullStrategy())
				}
				if e.IsMatch([]byte(s)) != e.IsMatchString(s) || e.IsMatchFull([]byte(s)) != e.IsMatchFullString(s) {
					t.Errorf("%s: byte and string forms disagree on %q, %q", name, p, s)
				}
			}
		}
	}
}

func TestDFAFallback(t *testing.T) {
	var buf bytes.Buffer
	config := DefaultConfig()
	config.EnableOnePass = false
	config.MaxDFAStates = 2
	config.Logger = slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	e := mustCompile(t, "(a|b)*c", config)
	assert.Equal(t, e.Strategy(), UseLazyDFA)
	assert.Assert(t, e.IsMatchString("ababc"))
	assert.Assert(t, !e.IsMatchString("abab"))

	stats := e.Stats()
	assert.Equal(t, stats.DFASearches, uint64(2))
	assert.Equal(t, stats.DFACacheFull, uint64(2))
	assert.Equal(t, stats.NFASearches, uint64(2))
	assert.Assert(t, is.Contains(buf.String(), "strategy=UseLazyDFA"))
	assert.Assert(t, is.Contains(buf.String(), "lazy DFA gave up"))
}

func TestStats(t *testing.T) {
	lit := mustCompile(t, "abc", DefaultConfig())
	lit.IsMatchString("abcd")
	lit.IsMatchFullString("abc")
	assert.Equal(t, lit.Stats(), Stats{LiteralSearches: 1, OnePassSearches: 1})

	ac := mustCompile(t, "foo|bar", DefaultConfig())
	assert.Assert(t, ac.IsMatchString("barbell"))
	assert.Assert(t, !ac.IsMatchString("xfoo"))
	assert.Equal(t, ac.Stats().AhoCorasickSearches, uint64(2))

	ac.ResetStats()
	assert.Equal(t, ac.Stats(), Stats{})
}

func TestConfigValidate(t *testing.T) {
	assert.NilError(t, DefaultConfig().Validate())

	tests := []struct {
		field  string
		modify func(*Config)
	}{
		{"MaxDFAStates", func(c *Config) { c.MaxDFAStates = 1 }},
		{"DeterminizationLimit", func(c *Config) { c.DeterminizationLimit = 0 }},
		{"MaxLiterals", func(c *Config) { c.MaxLiterals = 0 }},
		{"MaxRepeat", func(c *Config) { c.MaxRepeat = 0 }},
		{"MaxStates", func(c *Config) { c.MaxStates = 1 }},
	}
	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			c := DefaultConfig()
			tt.modify(&c)
			err := c.Validate()
			var cfgErr *ConfigError
			assert.Assert(t, errors.As(err, &cfgErr))
			assert.Equal(t, cfgErr.Field, tt.field)
			assert.Assert(t, errors.Is(err, nfa.ErrInvalidConfig))

			_, err = CompileWithConfig("a", c)
			assert.Assert(t, errors.As(err, &cfgErr))
		})
	}

	c := DefaultConfig()
	c.EnableDFA = false
	c.MaxDFAStates = 0
	assert.NilError(t, c.Validate(), "DFA limits are ignored when the DFA is off")
}

func TestCompileErrors(t *testing.T) {
	_, err := Compile("(a")
	assert.Assert(t, errors.Is(err, nfa.ErrSyntax))

	c := DefaultConfig()
	c.MaxRepeat = 5
	_, err = CompileWithConfig("a{6}", c)
	code, ok := nfa.ErrorCodeOf(err)
	assert.Assert(t, ok)
	assert.Equal(t, code, nfa.ErrRepeatSize)
}

func TestNewEngine(t *testing.T) {
	a, err := nfa.Compile("x(a|b)")
	assert.NilError(t, err)
	e, err := NewEngine(a, DefaultConfig())
	assert.NilError(t, err)
	assert.Equal(t, e.Automaton(), a)
	assert.Equal(t, e.Pattern(), "x(a|b)")
	assert.Assert(t, e.IsMatchString("xbz"))

	_, err = NewEngine(a, Config{})
	assert.Assert(t, errors.Is(err, nfa.ErrInvalidConfig))
}
