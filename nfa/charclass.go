package nfa

import (
	"slices"
	"unicode"
)

// parseBracket parses a bracket expression whose '[' has already been
// consumed and returns its ranges sorted, merged and, for [^...], complemented
// over [0, unicode.MaxRune].
//
// A '-' first in the class (after any '^') or right before ']' is literal.
// A ']' first in the class closes it, so [] and [^] are empty classes.
func parseBracket(src *Source, start int) ([]Event, error) {
	negate := src.Accept('^')
	var ranges []Event
	first := true
	for {
		itemPos := src.Pos()
		r, ok := src.Next()
		if !ok {
			return nil, &Error{Code: ErrMissingBracket, Expr: src.Slice(start, src.Pos()), Pos: start}
		}
		if r == ']' {
			if first {
				return nil, &Error{Code: ErrEmptyClass, Expr: src.Slice(start, src.Pos()), Pos: start}
			}
			break
		}
		first = false

		lo, err := classChar(src, r, start)
		if err != nil {
			return nil, err
		}
		hi := lo
		// A range needs something other than ']' after the '-'.
		mark := src.Pos()
		if src.Accept('-') {
			next, ok := src.Next()
			switch {
			case !ok:
				return nil, &Error{Code: ErrMissingBracket, Expr: src.Slice(start, src.Pos()), Pos: start}
			case next == ']':
				src.Reset(mark)
			default:
				if hi, err = classChar(src, next, start); err != nil {
					return nil, err
				}
				if hi < lo {
					return nil, &Error{Code: ErrClassRangeOrder, Expr: src.Slice(itemPos, src.Pos()), Pos: itemPos}
				}
			}
		}
		ranges = append(ranges, Event{Lo: lo, Hi: hi})
	}

	ranges = normalizeRanges(ranges)
	if negate {
		ranges = complementRanges(ranges)
	}
	return ranges, nil
}

// classChar resolves one class member, handling backslash escapes.
func classChar(src *Source, r rune, start int) (rune, error) {
	if r != '\\' {
		return r, nil
	}
	pos := src.Pos() - 1
	e, ok := src.Next()
	if !ok {
		return 0, &Error{Code: ErrMissingBracket, Expr: src.Slice(start, src.Pos()), Pos: start}
	}
	lit, err := escapeRune(e)
	if err != nil {
		return 0, &Error{Code: ErrUnsupportedClass, Expr: src.Slice(pos, src.Pos()), Pos: pos}
	}
	return lit, nil
}

// escapeRune maps the character following a backslash to the code point it
// denotes. The class escapes \d \w \s and their negations are rejected.
func escapeRune(r rune) (rune, error) {
	switch r {
	case 'd', 'D', 'w', 'W', 's', 'S':
		return 0, ErrNotImplemented
	case 'n':
		return '\n', nil
	case 't':
		return '\t', nil
	case 'r':
		return '\r', nil
	case 'f':
		return '\f', nil
	case 'v':
		return '\v', nil
	}
	return r, nil
}

// normalizeRanges sorts ranges and merges overlapping or adjacent ones.
func normalizeRanges(ranges []Event) []Event {
	if len(ranges) == 0 {
		return ranges
	}
	slices.SortFunc(ranges, Event.Compare)
	out := ranges[:1]
	for _, r := range ranges[1:] {
		last := &out[len(out)-1]
		if r.Lo <= last.Hi+1 {
			last.Hi = max(last.Hi, r.Hi)
			continue
		}
		out = append(out, r)
	}
	return out
}

// complementRanges returns the gaps of normalized ranges within
// [0, unicode.MaxRune].
func complementRanges(ranges []Event) []Event {
	var out []Event
	next := rune(0)
	for _, r := range ranges {
		if r.Lo > next {
			out = append(out, Event{Lo: next, Hi: r.Lo - 1})
		}
		next = r.Hi + 1
	}
	if next <= unicode.MaxRune {
		out = append(out, Event{Lo: next, Hi: unicode.MaxRune})
	}
	return out
}
