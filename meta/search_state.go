package meta

import (
	"sync"

	"github.com/coregx/redfa/dfa/lazy"
	"github.com/coregx/redfa/nfa"
)

// SearchState holds the mutable state of one search. Engines pool them so
// concurrent searches on one Engine never share a frontier or a DFA cache.
type SearchState struct {
	matcher *nfa.Matcher
	cache   *lazy.Cache // nil unless the engine has a lazy DFA
}

func newSearchState(a *nfa.Automaton, dfa *lazy.DFA) *SearchState {
	s := &SearchState{matcher: nfa.NewMatcher(a)}
	if dfa != nil {
		s.cache = dfa.NewCache()
	}
	return s
}

type searchStatePool struct {
	pool sync.Pool
}

func newSearchStatePool(a *nfa.Automaton, dfa *lazy.DFA) *searchStatePool {
	p := &searchStatePool{}
	p.pool.New = func() any {
		return newSearchState(a, dfa)
	}
	return p
}

func (p *searchStatePool) get() *SearchState {
	return p.pool.Get().(*SearchState)
}

// put returns state to the pool. The DFA cache is kept warm; the frontier
// matcher clears itself at the start of every walk.
func (p *searchStatePool) put(state *SearchState) {
	if state == nil {
		return
	}
	p.pool.Put(state)
}
