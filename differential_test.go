package redfa

import (
	"math/rand/v2"
	"regexp"
	"strconv"
	"strings"
	"testing"

	"gotest.tools/v3/assert"

	"github.com/coregx/redfa/nfa"
)

// patternGen produces random patterns over {a,b,c} that nest groups, put
// anchors inside groups and apply every quantifier form.
type patternGen struct {
	rng *rand.Rand
}

func (g *patternGen) quantifier() string {
	k := g.rng.IntN(12)
	if k < 6 {
		return ""
	}
	m := 1 + g.rng.IntN(2)
	n := m + g.rng.IntN(4-m)
	forms := []string{
		"?", "*", "+",
		"{" + strconv.Itoa(m) + "}",
		"{" + strconv.Itoa(m) + ",}",
		"{," + strconv.Itoa(n) + "}",
		"{" + strconv.Itoa(m) + "," + strconv.Itoa(n) + "}",
	}
	if k-6 < len(forms) {
		return forms[k-6]
	}
	return ""
}

func (g *patternGen) atom(depth int) string {
	switch k := g.rng.IntN(12); {
	case k < 3:
		return string("abc"[g.rng.IntN(3)]) + g.quantifier()
	case k == 3:
		return "." + g.quantifier()
	case k == 4:
		return []string{"[ab]", "[^a]", "[bc]"}[g.rng.IntN(3)] + g.quantifier()
	case k == 5:
		return "^"
	case k == 6:
		return "$"
	case depth > 0:
		open := []string{"(", "(", "(?!"}[g.rng.IntN(3)]
		return open + g.alternation(depth-1) + ")" + g.quantifier()
	default:
		return string("ab"[g.rng.IntN(2)])
	}
}

func (g *patternGen) alternation(depth int) string {
	branches := make([]string, []int{1, 1, 2, 2, 3}[g.rng.IntN(5)])
	for i := range branches {
		var sb strings.Builder
		for n := g.rng.IntN(4); n > 0; n-- {
			sb.WriteString(g.atom(depth))
		}
		branches[i] = sb.String()
	}
	return strings.Join(branches, "|")
}

// toStdlib rewrites a pattern into regexp syntax: (?! groups are plain
// non-capturing groups and {,n} needs its zero spelled out.
func toStdlib(pattern string) string {
	p := strings.ReplaceAll(pattern, "(?!", "(?:")
	return strings.ReplaceAll(p, "{,", "{0,")
}

// allSubjects returns every string over alphabet up to maxLen runes long.
func allSubjects(alphabet string, maxLen int) []string {
	out := []string{""}
	level := []string{""}
	for n := 0; n < maxLen; n++ {
		var next []string
		for _, s := range level {
			for _, c := range alphabet {
				next = append(next, s+string(c))
			}
		}
		out = append(out, next...)
		level = next
	}
	return out
}

func TestAgreesWithStdlib(t *testing.T) {
	patterns := 400
	if testing.Short() {
		patterns = 50
	}
	g := &patternGen{rng: rand.New(rand.NewPCG(1, 2))}
	subjects := allSubjects("abc", 4)
	configs := corpusConfigs()

	compiled := 0
	for i := 0; i < patterns; i++ {
		pattern := g.alternation(3)
		a, err := nfa.Compile(pattern)
		if err != nil {
			continue
		}
		q := toStdlib(pattern)
		prefix, err := regexp.Compile(`^(?s:` + q + `)`)
		if err != nil {
			continue
		}
		full := regexp.MustCompile(`^(?s:` + q + `)$`)
		compiled++

		for _, s := range subjects {
			want, wantFull := prefix.MatchString(s), full.MatchString(s)
			if got := nfa.Match(a, s); got != want {
				t.Fatalf("Match(%q, %q) = %v, regexp says %v\n%s", pattern, s, got, want, a)
			}
			if got := nfa.MatchFull(a, s); got != wantFull {
				t.Fatalf("MatchFull(%q, %q) = %v, regexp says %v\n%s", pattern, s, got, wantFull, a)
			}
		}
		for name, config := range configs {
			re, err := CompileWithConfig(pattern, config)
			assert.NilError(t, err, pattern)
			for _, s := range subjects {
				if got, want := re.MatchString(s), prefix.MatchString(s); got != want {
					t.Fatalf("%s: MatchString(%q, %q) = %v, regexp says %v (%s)", name, pattern, s, got, want, re.Strategy())
				}
				if got, want := re.MatchFullString(s), full.MatchString(s); got != want {
					t.Fatalf("%s: MatchFullString(%q, %q) = %v, regexp says %v", name, pattern, s, got, want)
				}
			}
		}
	}
	assert.Assert(t, compiled > patterns/2, "only %d of %d patterns compiled", compiled, patterns)
}

func TestToStdlib(t *testing.T) {
	assert.Equal(t, toStdlib("(?!a){,2}b{1,}"), "(?:a){0,2}b{1,}")
	assert.Equal(t, toStdlib("(a|^b)$"), "(a|^b)$")
}
