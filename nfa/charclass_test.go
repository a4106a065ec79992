package nfa

import (
	"testing"
	"unicode"

	"gotest.tools/v3/assert"
)

func TestParseBracket(t *testing.T) {
	tests := []struct {
		body string // text after '['
		want []Event
	}{
		{"a]", []Event{{'a', 'a'}}},
		{"abc]", []Event{{'a', 'c'}}},
		{"a-z0-9]", []Event{{'0', '9'}, {'a', 'z'}}},
		{"-a]", []Event{{'-', '-'}, {'a', 'a'}}},
		{"a-]", []Event{{'-', '-'}, {'a', 'a'}}},
		{`\]x]`, []Event{{']', ']'}, {'x', 'x'}}},
		{`\\]`, []Event{{'\\', '\\'}}},
		{"a-cb-e]", []Event{{'a', 'e'}}},
		{"!-~]", []Event{{'!', '~'}}},
		{"^a]", []Event{{0, 'a' - 1}, {'b', unicode.MaxRune}}},
		{"^\x00-\U0010FFFE]", []Event{{unicode.MaxRune, unicode.MaxRune}}},
	}
	for _, tt := range tests {
		t.Run(tt.body, func(t *testing.T) {
			src := NewSource(tt.body)
			got, err := parseBracket(src, 0)
			assert.NilError(t, err)
			assert.DeepEqual(t, got, tt.want)
			assert.Assert(t, src.Done(), "bracket should consume through ]")
		})
	}
}

func TestParseBracketStopsAtClose(t *testing.T) {
	src := NewSource("ab]cd")
	_, err := parseBracket(src, 0)
	assert.NilError(t, err)
	assert.Equal(t, src.Rest(), "cd")
}

func TestComplementRanges(t *testing.T) {
	full := complementRanges(nil)
	assert.DeepEqual(t, full, []Event{AnyEvent})
	assert.Equal(t, len(complementRanges([]Event{AnyEvent})), 0)
	assert.DeepEqual(t, complementRanges([]Event{{0, 'a'}}), []Event{{'b', unicode.MaxRune}})
}

func TestNormalizeRangesMergesAdjacent(t *testing.T) {
	got := normalizeRanges([]Event{{'d', 'f'}, {'a', 'c'}, {'x', 'x'}, {'e', 'g'}})
	assert.DeepEqual(t, got, []Event{{'a', 'g'}, {'x', 'x'}})
}
