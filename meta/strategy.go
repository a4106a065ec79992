package meta

import (
	"log/slog"

	"github.com/coregx/redfa/dfa/onepass"
	"github.com/coregx/redfa/literal"
	"github.com/coregx/redfa/nfa"
)

// Strategy names the matcher an Engine runs.
type Strategy int

const (
	// UseNFA walks the frontier of live automaton states.
	UseNFA Strategy = iota

	// UseLazyDFA determinizes on demand and falls back to UseNFA when the
	// cache fills up.
	UseLazyDFA

	// UseOnePass walks a single state; the automaton is deterministic.
	UseOnePass

	// UseLiteral compares the subject against one literal.
	UseLiteral

	// UseAhoCorasick looks for any of several literals at the start of the
	// subject.
	UseAhoCorasick
)

// String returns a human-readable strategy name.
func (s Strategy) String() string {
	switch s {
	case UseNFA:
		return "UseNFA"
	case UseLazyDFA:
		return "UseLazyDFA"
	case UseOnePass:
		return "UseOnePass"
	case UseLiteral:
		return "UseLiteral"
	case UseAhoCorasick:
		return "UseAhoCorasick"
	default:
		return "Unknown"
	}
}

// SelectStrategy picks the strategy for a, along with the literal set the
// literal strategies need.
//
// Selection order:
//  1. empty automaton, or literal matching disabled: skip literals
//  2. finite literal set of one member: UseLiteral
//  3. finite literal set of several members: UseAhoCorasick
//  4. deterministic automaton: UseOnePass
//  5. lazy DFA enabled: UseLazyDFA
//  6. otherwise: UseNFA
func SelectStrategy(a *nfa.Automaton, config Config) (Strategy, *literal.Seq) {
	if config.EnableLiteral && !a.IsEmpty() {
		ex := literal.New(literal.ExtractorConfig{MaxLiterals: config.MaxLiterals})
		if seq := ex.Extract(a); seq != nil {
			if seq.Len() == 1 {
				return UseLiteral, seq
			}
			return UseAhoCorasick, seq
		}
	}
	if config.EnableOnePass && onepass.IsDeterministic(a) {
		return UseOnePass, nil
	}
	if config.EnableDFA {
		return UseLazyDFA, nil
	}
	return UseNFA, nil
}

func logStrategy(log *slog.Logger, a *nfa.Automaton, s Strategy, seq *literal.Seq) {
	attrs := []any{
		slog.String("pattern", a.Pattern()),
		slog.String("strategy", s.String()),
		slog.Int("states", a.Len()),
		slog.Int("literals", seq.Len()),
	}
	if !seq.IsEmpty() {
		attrs = append(attrs,
			slog.Int("min_len", seq.MinLen()),
			slog.Int("max_len", seq.MaxLen()),
			slog.String("common_prefix", string(seq.LongestCommonPrefix())))
	}
	log.Debug("redfa: strategy selected", attrs...)
}
