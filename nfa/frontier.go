package nfa

import "slices"

// frontier is the set of states the next scanned element attaches to.
//
// live states continue normally. sealed states were reached right before a
// $ anchor: nothing may be appended to them, and they accept only at end of
// input. Both slices are sorted, duplicate-free and never mutated in place.
type frontier struct {
	live   []StateID
	sealed []StateID
}

func (f frontier) union(g frontier) frontier {
	return frontier{
		live:   unionIDs(f.live, g.live),
		sealed: unionIDs(f.sealed, g.sealed),
	}
}

func (f frontier) isEmpty() bool {
	return len(f.live) == 0 && len(f.sealed) == 0
}

// all returns live and sealed states together.
func (f frontier) all() []StateID {
	return unionIDs(f.live, f.sealed)
}

// unionIDs merges sorted ID sets into a new sorted set.
func unionIDs(sets ...[]StateID) []StateID {
	n := 0
	for _, s := range sets {
		n += len(s)
	}
	if n == 0 {
		return nil
	}
	out := make([]StateID, 0, n)
	for _, s := range sets {
		out = append(out, s...)
	}
	slices.Sort(out)
	return slices.Compact(out)
}

// intersectIDs returns the members of sorted set a also in sorted set b.
func intersectIDs(a, b []StateID) []StateID {
	var out []StateID
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] < b[j]:
			i++
		case a[i] > b[j]:
			j++
		default:
			out = append(out, a[i])
			i++
			j++
		}
	}
	return out
}

// passMode describes which predecessor states reappear after an element,
// i.e. how it can be crossed without consuming input. Modes are ordered so
// that min composes two crossings and max joins alternatives.
type passMode uint8

const (
	passNone passMode = iota // element always consumes
	passZero                 // only the initial state passes, after a ^
	passAll                  // every predecessor passes through
)

// apply returns the states of in that pass through under mode m.
func (m passMode) apply(in []StateID) []StateID {
	switch m {
	case passAll:
		return in
	case passZero:
		if len(in) > 0 && in[0] == 0 {
			return []StateID{0}
		}
	}
	return nil
}

// routes tracks how the live predecessors of a group (or of one branch so
// far) reach the current frontier without consuming input: as live ends, or
// as sealed ends after a $. A sealed predecessor stays sealed along either
// route.
type routes struct {
	live   passMode
	sealed passMode
}

// startRoutes is the state at the start of a branch: every predecessor is live.
var startRoutes = routes{live: passAll}

func (r routes) join(o routes) routes {
	return routes{live: max(r.live, o.live), sealed: max(r.sealed, o.sealed)}
}

// through composes r with crossing an element whose own routes are p.
func (r routes) through(p routes) routes {
	return routes{
		live:   min(r.live, p.live),
		sealed: max(min(r.sealed, max(p.live, p.sealed)), min(r.live, p.sealed)),
	}
}

// anchor applies ^.
func (r routes) anchor() routes {
	return routes{live: min(r.live, passZero), sealed: min(r.sealed, passZero)}
}

// seal applies $.
func (r routes) seal() routes {
	return routes{sealed: max(r.sealed, r.live)}
}

// frontierOf returns what in becomes after crossing an element with routes r
// and no states of its own.
func (r routes) frontierOf(in frontier) frontier {
	return frontier{
		live:   r.live.apply(in.live),
		sealed: unionIDs(r.sealed.apply(in.live), max(r.live, r.sealed).apply(in.sealed)),
	}
}
