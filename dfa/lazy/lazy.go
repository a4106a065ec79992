// Package lazy implements a lazily determinized DFA over an automaton.
//
// A DFA state stands for a set of automaton states, the frontier the walk in
// package nfa would hold at the same point. DFA states and their transitions
// are created on first use and memoized in a Cache, so repeated searches pay
// for subset construction once. Transitions are keyed by rune equivalence
// class rather than by code point.
//
// The cache is bounded by Config.MaxStates. When a search would exceed it the
// search returns ErrCacheFull and the caller is expected to finish with the
// frontier walk.
package lazy

import (
	"encoding/binary"
	"slices"
	"unicode/utf8"

	"github.com/coregx/redfa/internal/conv"
	"github.com/coregx/redfa/internal/sparse"
	"github.com/coregx/redfa/nfa"
	"github.com/coregx/redfa/simd"
)

// StateID identifies a DFA state in a Cache.
type StateID uint32

const (
	// DeadState is the empty set: no automaton state survives, so no
	// match is possible any more.
	DeadState StateID = 0

	// UnknownState marks a transition that has not been computed yet.
	UnknownState StateID = 0xFFFFFFFF
)

// DFA determinizes an automaton on demand. It is immutable and safe for
// concurrent use; all mutable state lives in a Cache.
type DFA struct {
	a       *nfa.Automaton
	classes *nfa.RuneClasses
	config  Config
}

// New returns a lazy DFA for a.
func New(a *nfa.Automaton, config Config) (*DFA, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &DFA{
		a:       a,
		classes: nfa.NewRuneClasses(a),
		config:  config,
	}, nil
}

// Automaton returns the automaton being determinized.
func (d *DFA) Automaton() *nfa.Automaton {
	return d.a
}

// Classes returns the rune equivalence classes keying transitions.
func (d *DFA) Classes() *nfa.RuneClasses {
	return d.classes
}

// Match reports whether the automaton matches a prefix of subject.
// It returns ErrCacheFull or ErrStateLimitExceeded if determinization had
// to stop; the Cache must then be Reset before reuse.
func (d *DFA) Match(c *Cache, subject string) (bool, error) {
	return d.walk(c, subject, false)
}

// MatchFull reports whether the automaton matches all of subject.
func (d *DFA) MatchFull(c *Cache, subject string) (bool, error) {
	return d.walk(c, subject, true)
}

func (d *DFA) walk(c *Cache, subject string, full bool) (bool, error) {
	if d.a.IsEmpty() {
		return true, nil
	}
	s, err := c.startState(d)
	if err != nil {
		return false, err
	}
	ascii := simd.FirstNonASCII(subject)
	if ascii < 0 {
		ascii = len(subject)
	}
	for i := 0; ; {
		st := &c.states[s]
		if !full && st.final {
			return true, nil
		}
		if i >= len(subject) {
			return st.final || st.end, nil
		}
		var class int
		if i < ascii {
			class = d.classes.ClassASCII(subject[i])
			i++
		} else {
			r, w := utf8.DecodeRuneInString(subject[i:])
			class = d.classes.Class(r)
			i += w
		}
		next, err := c.next(d, s, class)
		if err != nil {
			return false, err
		}
		if next == DeadState {
			return false, nil
		}
		s = next
	}
}

// state is one DFA state.
type state struct {
	set   []nfa.StateID // sorted automaton states
	final bool
	end   bool
}

// Cache holds the DFA states and transitions discovered so far.
// A Cache belongs to one DFA and must not be shared between goroutines.
type Cache struct {
	states []state
	index  map[string]StateID
	trans  []StateID // len(states) * stride
	stride int
	start  StateID
	set    *sparse.SparseSet
	key    []byte
}

// NewCache creates an empty cache for d.
func (d *DFA) NewCache() *Cache {
	c := &Cache{
		stride: d.classes.Len(),
		set:    sparse.NewSparseSet(conv.IntToUint32(d.a.Len())),
	}
	c.Reset()
	return c
}

// Reset drops every cached state except the dead state.
func (c *Cache) Reset() {
	c.states = append(c.states[:0], state{})
	c.index = map[string]StateID{"": DeadState}
	c.trans = c.trans[:0]
	for i := 0; i < c.stride; i++ {
		c.trans = append(c.trans, DeadState)
	}
	c.start = UnknownState
}

// Len returns the number of cached states, including the dead state.
func (c *Cache) Len() int {
	return len(c.states)
}

func (c *Cache) startState(d *DFA) (StateID, error) {
	if c.start == UnknownState {
		id, err := c.intern(d, []nfa.StateID{0})
		if err != nil {
			return 0, err
		}
		c.start = id
	}
	return c.start, nil
}

// next returns the state reached from s on any code point of class,
// computing it if needed.
func (c *Cache) next(d *DFA, s StateID, class int) (StateID, error) {
	slot := int(s)*c.stride + class
	if t := c.trans[slot]; t != UnknownState {
		return t, nil
	}
	r := d.classes.Representative(class)
	c.set.Clear()
	for _, id := range c.states[s].set {
		for _, t := range d.a.Transitions(id) {
			if t.Event.Contains(r) {
				c.set.Insert(uint32(t.Next))
			}
		}
	}
	set := make([]nfa.StateID, 0, c.set.Len())
	for _, v := range c.set.Values() {
		set = append(set, nfa.StateID(v))
	}
	slices.Sort(set)
	id, err := c.intern(d, set)
	if err != nil {
		return 0, err
	}
	c.trans[slot] = id
	return id, nil
}

// intern returns the ID of the DFA state for set, adding it if new.
func (c *Cache) intern(d *DFA, set []nfa.StateID) (StateID, error) {
	c.key = c.key[:0]
	for _, id := range set {
		c.key = binary.LittleEndian.AppendUint32(c.key, uint32(id))
	}
	if id, ok := c.index[string(c.key)]; ok {
		return id, nil
	}
	if len(set) > d.config.DeterminizationLimit {
		return 0, &DFAError{Kind: StateLimitExceeded, Limit: d.config.DeterminizationLimit}
	}
	if len(c.states) >= int(d.config.MaxStates) {
		return 0, &DFAError{Kind: CacheFull, Limit: int(d.config.MaxStates)}
	}
	st := state{set: set}
	for _, id := range set {
		f := d.a.Flags(id)
		st.final = st.final || f.Any(nfa.FlagFinal)
		st.end = st.end || f.Any(nfa.FlagEnd|nfa.FlagEol)
	}
	id := StateID(conv.IntToUint32(len(c.states)))
	c.states = append(c.states, st)
	c.index[string(c.key)] = id
	for i := 0; i < c.stride; i++ {
		c.trans = append(c.trans, UnknownState)
	}
	return id, nil
}
