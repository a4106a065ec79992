package nfa

import (
	"fmt"
	"unicode/utf8"
)

// CompilerConfig configures automaton compilation
type CompilerConfig struct {
	// MaxRepeat bounds the counts accepted in {m,n} quantifiers.
	// Default: 1000
	MaxRepeat int

	// MaxStates bounds the size of the automaton. Bounded repetition
	// duplicates states, so nested counted quantifiers grow quickly.
	// Default: 100000
	MaxStates int
}

// DefaultCompilerConfig returns a compiler configuration with sensible defaults
func DefaultCompilerConfig() CompilerConfig {
	return CompilerConfig{
		MaxRepeat: 1000,
		MaxStates: 100_000,
	}
}

// Validate checks the configuration.
func (c CompilerConfig) Validate() error {
	if c.MaxRepeat < 1 {
		return fmt.Errorf("%w: MaxRepeat must be positive, got %d", ErrInvalidConfig, c.MaxRepeat)
	}
	if c.MaxStates < 2 {
		return fmt.Errorf("%w: MaxStates must be at least 2, got %d", ErrInvalidConfig, c.MaxStates)
	}
	return nil
}

// Compiler compiles pattern strings into automata.
// A Compiler holds no per-pattern state and may be shared between goroutines.
type Compiler struct {
	config CompilerConfig
}

// NewCompiler creates a new compiler with the given configuration.
// Zero limits are replaced by their defaults.
func NewCompiler(config CompilerConfig) *Compiler {
	def := DefaultCompilerConfig()
	if config.MaxRepeat == 0 {
		config.MaxRepeat = def.MaxRepeat
	}
	if config.MaxStates == 0 {
		config.MaxStates = def.MaxStates
	}
	return &Compiler{config: config}
}

// NewDefaultCompiler creates a new compiler with default configuration
func NewDefaultCompiler() *Compiler {
	return NewCompiler(DefaultCompilerConfig())
}

// Compile compiles pattern with the default configuration.
func Compile(pattern string) (*Automaton, error) {
	return NewDefaultCompiler().Compile(pattern)
}

// Compile compiles a pattern into an Automaton.
//
// Errors are *CompileError values wrapping an *Error; errors.Is reports their
// kind (ErrSyntax, ErrRangeOrder, ErrCaptureOverflow, ErrNotImplemented).
func (c *Compiler) Compile(pattern string) (*Automaton, error) {
	if err := c.config.Validate(); err != nil {
		return nil, err
	}
	s := newScanner(pattern, c.config)
	a, err := s.run()
	if err != nil {
		return nil, &CompileError{Pattern: pattern, Err: err}
	}
	return a, nil
}

// entry is a transition leading into an element from outside it.
// Re-entering the element (loops, copies) replays its entries.
type entry struct {
	t Transition
	// anchored entries were attached after a ^ at the start of the
	// element and may only leave the initial state.
	anchored bool
}

// element is the most recently completed piece of pattern: a single code
// point, a bracket expression or a whole group. Quantifiers operate on it.
type element struct {
	prev    frontier // frontier before the element
	start   StateID  // first state created by the element
	end     StateID  // one past the last state created by the element
	entries []entry
	out     frontier // frontier after the element
	capture int      // capture index of a capturing group, else -1
	pass    routes   // how the element can be crossed without input
	before  []routes // routes of the enclosing frames at the element's start
}

// frame is an open group, or the whole pattern at the bottom of the stack.
type frame struct {
	saved   frontier // frontier at '(' and start of every branch
	start   StateID
	flags   Flags    // pending flags at '('
	ends    frontier // union of the frontiers of finished branches
	entries []entry
	route   routes   // crossing routes of the current branch so far
	pass    routes   // crossing routes of finished branches
	before  []routes // routes of the enclosing frames at '('
	capture int
	pos     int
}

func (f *frame) addEntry(e entry) {
	for _, have := range f.entries {
		if have == e {
			return
		}
	}
	f.entries = append(f.entries, e)
}

// scanner is the per-pattern compilation state.
type scanner struct {
	config  CompilerConfig
	pattern string
	src     *Source
	b       *Builder
	caps    CaptureStack

	front   frontier
	pending Flags // stamped on the next created state
	frames  []*frame
	last    *element // operand for a following quantifier

	// quantPos is the offset of the quantifier just applied, or -1.
	quantPos int
}

func newScanner(pattern string, config CompilerConfig) *scanner {
	s := &scanner{
		config:   config,
		pattern:  pattern,
		src:      NewSource(pattern),
		b:        NewBuilderWithCapacity(len(pattern) + 1),
		quantPos: -1,
	}
	s.b.AddState(FlagNormal)
	s.front = frontier{live: []StateID{0}}
	s.frames = []*frame{{saved: s.front, start: 1, route: startRoutes, capture: -1}}
	return s
}

func (s *scanner) run() (*Automaton, error) {
	if pos, ok := firstInvalidUTF8(s.pattern); ok {
		return nil, &Error{Code: ErrInvalidUTF8, Expr: s.pattern[pos:], Pos: pos}
	}
	for {
		pos := s.src.Pos()
		r, ok := s.src.Next()
		if !ok {
			break
		}
		var err error
		switch r {
		case '?', '*', '+':
			err = s.repeatOp(r, pos)
		case '{':
			err = s.repeatRange(pos)
		default:
			s.quantPos = -1
			switch r {
			case '(':
				err = s.openGroup(pos)
			case ')':
				err = s.closeGroup(pos)
			case '|':
				s.alternate()
			case '^':
				err = s.anchorBegin()
			case '$':
				s.anchorEnd()
			case '[':
				var evs []Event
				if evs, err = parseBracket(s.src, pos); err == nil {
					err = s.single(evs)
				}
			case '.':
				err = s.single([]Event{AnyEvent})
			case '\\':
				err = s.escape(pos)
			default:
				err = s.single([]Event{CharEvent(r)})
			}
		}
		if err != nil {
			return nil, err
		}
	}
	return s.finish()
}

// firstInvalidUTF8 returns the offset of the first byte of s that does not
// start a valid UTF-8 sequence.
func firstInvalidUTF8(s string) (int, bool) {
	if utf8.ValidString(s) {
		return 0, false
	}
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size == 1 {
			return i, true
		}
		i += size
	}
	return 0, false
}

func (s *scanner) errorAt(code ErrorCode, pos int) *Error {
	return &Error{Code: code, Expr: s.pattern[pos:s.src.Pos()], Pos: pos}
}

// newState appends a state carrying the pending flags.
func (s *scanner) newState() (StateID, error) {
	if s.b.Len() >= s.config.MaxStates {
		return 0, &Error{Code: ErrTooLarge, Expr: s.pattern, Pos: 0}
	}
	id := s.b.AddState(FlagNormal | s.pending)
	s.pending = 0
	return id, nil
}

// link adds a transition and records it as an entry of every open group it
// leads into. The entry is anchored for a group when anchored is set or when
// the group's predecessors only reach from through a ^.
func (s *scanner) link(from StateID, t Transition, anchored bool) {
	s.b.AddTransition(from, t)
	for _, f := range s.frames[1:] {
		if from < f.start && t.Next >= f.start {
			f.addEntry(entry{t: t, anchored: anchored || f.route.live != passAll})
		}
	}
}

// snapshotRoutes returns the crossing routes of every open frame.
func (s *scanner) snapshotRoutes() []routes {
	rs := make([]routes, len(s.frames))
	for i, f := range s.frames {
		rs[i] = f.route
	}
	return rs
}

// setRoutes replaces the crossing routes of the open frames with fn applied
// to each frame's index and routes.
func (s *scanner) setRoutes(fn func(i int, r routes) routes) {
	for i, f := range s.frames {
		f.route = fn(i, f.route)
	}
}

// single wires one consuming element: a new state reached from every live
// end on any of evs. Sealed ends are dropped since nothing may follow a $.
func (s *scanner) single(evs []Event) error {
	n, err := s.newState()
	if err != nil {
		return err
	}
	prev := s.front
	before := s.snapshotRoutes()
	var entries []entry
	for _, ev := range evs {
		t := Transition{Event: ev, Next: n}
		for _, from := range prev.live {
			s.link(from, t, false)
		}
		entries = append(entries, entry{t: t})
	}
	s.setRoutes(func(int, routes) routes { return routes{} })
	s.front = frontier{live: []StateID{n}}
	s.last = &element{prev: prev, start: n, end: n + 1, entries: entries, out: s.front, capture: -1, before: before}
	return nil
}

func (s *scanner) escape(pos int) error {
	r, ok := s.src.Next()
	if !ok {
		return s.errorAt(ErrTrailingBackslash, pos)
	}
	lit, err := escapeRune(r)
	if err != nil {
		return s.errorAt(ErrUnsupportedClass, pos)
	}
	return s.single([]Event{CharEvent(lit)})
}

func (s *scanner) openGroup(pos int) error {
	if len(s.frames)-1 >= MaxNestingDepth {
		return s.errorAt(ErrNestingDepth, pos)
	}
	capturing := true
	if s.src.Accept('?') {
		r, ok := s.src.Next()
		switch {
		case !ok:
			return s.errorAt(ErrMissingParen, pos)
		case r == '!':
			capturing = false
		case r == ':' || r == '=' || r == '<':
			return s.errorAt(ErrUnsupportedGroup, pos)
		default:
			return s.errorAt(ErrUnknownGroup, pos)
		}
	}
	capture := -1
	if capturing {
		idx, err := s.caps.Push(pos)
		if err != nil {
			return err
		}
		capture = int(idx)
	}
	s.frames = append(s.frames, &frame{
		saved:   s.front,
		start:   s.b.Next(),
		flags:   s.pending,
		route:   startRoutes,
		before:  s.snapshotRoutes(),
		capture: capture,
		pos:     pos,
	})
	s.last = nil
	return nil
}

func (s *scanner) closeGroup(pos int) error {
	if len(s.frames) == 1 {
		return s.errorAt(ErrUnexpectedParen, pos)
	}
	f := s.frames[len(s.frames)-1]
	s.frames = s.frames[:len(s.frames)-1]
	f.pass = f.pass.join(f.route)
	s.setRoutes(func(i int, _ routes) routes { return f.before[i].through(f.pass) })

	out := f.ends.union(s.front)
	end := s.b.Next()
	if f.capture >= 0 {
		idx := uint32(f.capture)
		for id := f.start; id < end; id++ {
			s.b.MarkCapture(id, idx, CaptureActive|CaptureExists)
		}
		for _, e := range f.entries {
			s.b.MarkCapture(e.t.Next, idx, CaptureOpen)
		}
		for _, id := range out.all() {
			if id >= f.start {
				s.b.MarkCapture(id, idx, CaptureClose)
			}
		}
		s.caps.Pop(pos)
	}

	s.front = out
	s.last = &element{
		prev:    f.saved,
		start:   f.start,
		end:     end,
		entries: f.entries,
		out:     out,
		capture: f.capture,
		pass:    f.pass,
		before:  f.before,
	}
	return nil
}

// alternate finishes the current branch and restarts from the group's
// branch point.
func (s *scanner) alternate() {
	f := s.frames[len(s.frames)-1]
	f.ends = f.ends.union(s.front)
	f.pass = f.pass.join(f.route)
	s.front = f.saved
	s.pending = f.flags
	s.setRoutes(func(i int, _ routes) routes {
		if i < len(f.before) {
			return f.before[i]
		}
		return startRoutes
	})
	s.last = nil
}

// anchorBegin applies ^: only the initial state can still be at the start of
// the subject, so every other live end is dropped. When none is left a
// never-reachable bridge state takes their place.
func (s *scanner) anchorBegin() error {
	pre := s.front
	s.setRoutes(func(_ int, r routes) routes { return r.anchor() })
	zero := []StateID{0}
	live := intersectIDs(pre.live, zero)
	sealed := intersectIDs(pre.sealed, zero)
	if len(live) == 0 && len(pre.live) > 0 {
		if s.b.Len() >= s.config.MaxStates {
			return &Error{Code: ErrTooLarge, Expr: s.pattern, Pos: 0}
		}
		live = []StateID{s.b.AddState(FlagInvalid)}
	}
	if len(live) == 1 && live[0] == 0 {
		s.b.SetFlags(0, FlagBol)
	}
	s.front = frontier{live: live, sealed: sealed}
	s.pending |= FlagBegin
	s.last = nil
	return nil
}

// anchorEnd applies $: live ends become sealed.
func (s *scanner) anchorEnd() {
	s.front = frontier{sealed: unionIDs(s.front.sealed, s.front.live)}
	s.setRoutes(func(_ int, r routes) routes { return r.seal() })
	s.last = nil
}

// finish stamps accept flags on the final frontier and freezes the automaton.
func (s *scanner) finish() (*Automaton, error) {
	if len(s.frames) > 1 {
		f := s.frames[len(s.frames)-1]
		return nil, &Error{Code: ErrMissingParen, Expr: s.pattern[f.pos:], Pos: f.pos}
	}
	out := s.frames[0].ends.union(s.front)
	for _, id := range out.live {
		s.b.SetFlags(id, FlagFinal)
		s.b.ClearFlags(id, FlagNormal)
	}
	for _, id := range out.sealed {
		s.b.SetFlags(id, FlagEnd|FlagEol)
		s.b.ClearFlags(id, FlagNormal)
	}
	if s.b.Flags(0).Any(FlagFinal | FlagEnd) {
		s.b.SetFlags(0, FlagEmpty)
	}
	return s.b.Build(s.pattern, s.caps.Table())
}
