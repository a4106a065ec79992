package nfa

// checkRepeat validates that a quantifier at pos has an operand.
func (s *scanner) checkRepeat(pos int) (*element, error) {
	if s.quantPos >= 0 {
		return nil, s.errorAt(ErrNestedRepeat, s.quantPos)
	}
	if s.last == nil {
		return nil, s.errorAt(ErrMissingRepeatArgument, pos)
	}
	return s.last, nil
}

// repeatOp applies ?, * or + to the last element.
func (s *scanner) repeatOp(op rune, pos int) error {
	el, err := s.checkRepeat(pos)
	if err != nil {
		return err
	}
	switch op {
	case '?':
		s.markOptional(el)
		s.skip(el)
	case '*':
		s.markOptional(el)
		s.loop(el)
		s.skip(el)
	case '+':
		s.loop(el)
		s.front = el.out
	}
	s.last = nil
	s.quantPos = pos
	return nil
}

// loop lets the element repeat by replaying its entries from each of its
// own live ends. Anchored entries only hold at the start of the subject and
// are not replayed.
func (s *scanner) loop(el *element) {
	for _, from := range el.out.live {
		if from < el.start {
			continue
		}
		for _, e := range el.entries {
			if !e.anchored {
				s.link(from, e.t, false)
			}
		}
	}
}

// skip adds the element's predecessors back to the frontier.
func (s *scanner) skip(el *element) {
	s.front = el.out.union(el.prev)
	s.setRoutes(func(i int, r routes) routes { return r.join(el.before[i]) })
}

// markOptional flags a capturing group as possibly not taking part.
func (s *scanner) markOptional(el *element) {
	if el.capture < 0 {
		return
	}
	for id := el.start; id < el.end; id++ {
		s.b.UpdateCapture(id, uint32(el.capture), CaptureExists, CaptureNotExists)
	}
}

// repeatRange parses {m}, {m,}, {m,n} or {,n} and expands the last element.
func (s *scanner) repeatRange(pos int) error {
	el, err := s.checkRepeat(pos)
	if err != nil {
		return err
	}
	lo, hi, err := s.parseRange(pos)
	if err != nil {
		return err
	}
	if err := s.expand(el, lo, hi); err != nil {
		return err
	}
	s.last = nil
	s.quantPos = pos
	return nil
}

// parseRange reads the body of a counted quantifier whose '{' is at pos.
// It returns lo == 0 for {,n} and hi == -1 for {m,}.
func (s *scanner) parseRange(pos int) (lo, hi int, err error) {
	lo, okLo := s.parseCount()
	hi = lo
	comma := s.src.Accept(',')
	if comma {
		var okHi bool
		if hi, okHi = s.parseCount(); !okHi {
			hi = -1
		}
		if !okLo && !okHi {
			return 0, 0, s.bodyError(pos)
		}
	} else if !okLo {
		return 0, 0, s.bodyError(pos)
	}
	if !s.src.Accept('}') {
		return 0, 0, s.bodyError(pos)
	}

	switch {
	case (okLo && lo == 0) || hi == 0:
		return 0, 0, s.errorAt(ErrZeroRepeat, pos)
	case lo > s.config.MaxRepeat || hi > s.config.MaxRepeat:
		return 0, 0, s.errorAt(ErrRepeatSize, pos)
	case hi >= 0 && lo > hi:
		return 0, 0, s.errorAt(ErrRepeatOrder, pos)
	}
	return lo, hi, nil
}

// bodyError reports a malformed quantifier body, distinguishing a body cut
// short by the end of the pattern.
func (s *scanner) bodyError(pos int) error {
	for !s.src.Done() {
		if r, _ := s.src.Next(); r == '}' {
			return s.errorAt(ErrInvalidRepeat, pos)
		}
	}
	return s.errorAt(ErrMissingRepeatBrace, pos)
}

// parseCount reads a decimal count. Counts are saturated well above any
// sensible MaxRepeat so overflow still reports ErrRepeatSize.
func (s *scanner) parseCount() (int, bool) {
	n, digits := 0, 0
	for {
		r, ok := s.src.Peek()
		if !ok || r < '0' || r > '9' {
			break
		}
		s.src.Next()
		digits++
		if n < 1<<30 {
			n = n*10 + int(r-'0')
		}
	}
	return n, digits > 0
}

// expand duplicates el for a counted quantifier. Required copies chain from
// the previous copy's ends; optional copies also add their ends to the
// resulting frontier; {m,} loops the last copy.
func (s *scanner) expand(el *element, lo, hi int) error {
	if lo == 0 {
		s.markOptional(el)
	}
	tmpl := s.b.Snapshot(el.start, el.end)

	cur := el
	acc := el.out
	optional := lo == 0
	if optional {
		acc = el.out.union(el.prev)
		lo = 1
	}
	for i := 1; i < lo; i++ {
		next, err := s.copyElement(el, tmpl, cur.out)
		if err != nil {
			return err
		}
		cur = next
	}
	if hi < 0 {
		s.loop(cur)
		s.front = cur.out
		return nil
	}
	if lo > 1 {
		acc = cur.out
	}
	for i := lo; i < hi; i++ {
		next, err := s.copyElement(el, tmpl, cur.out)
		if err != nil {
			return err
		}
		s.markOptional(next)
		acc = acc.union(next.out)
		cur = next
	}
	if optional {
		s.setRoutes(func(i int, r routes) routes { return r.join(el.before[i]) })
	}
	s.front = acc
	return nil
}

// copyElement appends a copy of el (taken as tmpl) entered from in.
func (s *scanner) copyElement(el *element, tmpl []State, in frontier) (*element, error) {
	if s.b.Len()+len(tmpl) > s.config.MaxStates {
		return nil, &Error{Code: ErrTooLarge, Expr: s.pattern, Pos: 0}
	}
	base := s.b.AppendCopy(tmpl, el.start)
	shift := func(id StateID) StateID { return id - el.start + base }

	entries := make([]entry, len(el.entries))
	for i, e := range el.entries {
		e.t.Next = shift(e.t.Next)
		entries[i] = e
		for _, from := range in.live {
			if e.anchored && from != 0 {
				continue
			}
			s.link(from, e.t, e.anchored)
		}
	}

	var live, sealed []StateID
	for _, id := range el.out.live {
		if id >= el.start {
			live = append(live, shift(id))
		}
	}
	for _, id := range el.out.sealed {
		if id >= el.start {
			sealed = append(sealed, shift(id))
		}
	}
	out := frontier{live: live, sealed: sealed}.union(el.pass.frontierOf(in))
	return &element{
		prev:    in,
		start:   base,
		end:     base + (el.end - el.start),
		entries: entries,
		out:     out,
		capture: el.capture,
		pass:    el.pass,
	}, nil
}
