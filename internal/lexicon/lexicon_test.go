package lexicon

import (
	"math/rand"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGenerator(seed int64) *Generator {
	return NewGenerator(rand.New(rand.NewSource(seed)))
}

var lowerLetters = regexp.MustCompile(`^[a-z]+$`)

func TestWordNeverEmpty(t *testing.T) {
	g := newTestGenerator(1)
	for i := 0; i < 5000; i++ {
		w := g.Word()
		require.NotEmpty(t, w)
		assert.Regexp(t, lowerLetters, w)
	}
}

func TestWordLengthBounds(t *testing.T) {
	// Longest case: 2-letter prefix, 3 syllables of consonant(2)+vowel(4)+consonant(2), 4-letter suffix.
	g := newTestGenerator(2)
	for i := 0; i < 5000; i++ {
		w := g.Word()
		assert.LessOrEqual(t, len(w), 2+3*(2+4+2)+4, w)
		assert.GreaterOrEqual(t, len(w), 1, w)
	}
}

func TestWordsCount(t *testing.T) {
	g := newTestGenerator(3)

	t.Run("zero", func(t *testing.T) {
		assert.Empty(t, g.Words(0))
	})
	t.Run("negative", func(t *testing.T) {
		assert.Empty(t, g.Words(-4))
	})
	t.Run("many", func(t *testing.T) {
		words := g.Words(57)
		assert.Len(t, words, 57)
		for _, w := range words {
			assert.NotEmpty(t, w)
		}
	})
}

func TestSameSeedSameWords(t *testing.T) {
	a := newTestGenerator(99).Words(40)
	b := newTestGenerator(99).Words(40)
	assert.Equal(t, a, b)
}

func TestSoundTables(t *testing.T) {
	assert.Len(t, consonants, 28)
	assert.Len(t, vowels, 10)
	assert.Equal(t, []string{"gl", "gr", "bl", "pr"}, prefixes)
	assert.Equal(t, []string{"orp", "unk", "oink", "eep", "oop"}, suffixes)
}

func TestCodeBlockEmpty(t *testing.T) {
	g := newTestGenerator(4)
	assert.Equal(t, "", g.CodeBlock(0))
	assert.Equal(t, "", g.CodeBlock(-3))
}

func TestCodeBlockBracketsBalance(t *testing.T) {
	for seed := int64(0); seed < 200; seed++ {
		g := newTestGenerator(seed)
		n := 1 + int(seed%30)
		code := g.CodeBlock(n)

		lines := strings.Split(code, "\n")
		require.GreaterOrEqual(t, len(lines), n)

		open, closed := 0, 0
		for _, s := range Segments(code) {
			if s.Role != RoleBracket {
				continue
			}
			open += strings.Count(s.Text, "{")
			closed += strings.Count(s.Text, "}")
		}
		assert.Equal(t, open, closed, "seed %d:\n%s", seed, PlainCode(code))
		assert.Equal(t, open, len(lines)-n+countClosersInFirst(lines[:n]), "seed %d", seed)
	}
}

// countClosersInFirst counts explicit close lines generated inside the loop.
func countClosersInFirst(lines []string) int {
	c := 0
	for _, l := range lines {
		if strings.TrimLeft(l, " ") == `<span class="code-bracket">}</span>` {
			c++
		}
	}
	return c
}

func TestCodeBlockIndentation(t *testing.T) {
	g := newTestGenerator(5)
	code := g.CodeBlock(30)
	for _, line := range strings.Split(code, "\n") {
		lead := len(line) - len(strings.TrimLeft(line, " "))
		assert.Equal(t, 0, lead%2, "odd indent in %q", line)
	}
	// The final line always sits at the outermost level.
	lines := strings.Split(code, "\n")
	last := lines[len(lines)-1]
	assert.False(t, strings.HasPrefix(last, " "), last)
}

func TestCodeBlockRoles(t *testing.T) {
	g := newTestGenerator(6)
	code := g.CodeBlock(60)

	roles := map[Role]bool{}
	for _, s := range Segments(code) {
		roles[s.Role] = true
	}
	for _, r := range []Role{RoleKeyword, RoleFunction, RoleOperator, RoleNumber, RoleBracket, RolePlain} {
		assert.True(t, roles[r], "missing role %q", r)
	}
}

func TestSegmentsKnownMarkup(t *testing.T) {
	markup := `  <span class="code-keyword">if</span> <span class="code-bracket">(</span>blorp <span class="code-operator"><</span> <span class="code-number">7</span><span class="code-bracket">)</span> <span class="code-bracket">{</span>` +
		"\n" + `x <span class="code-operator">&&</span> <span class="code-function">zib</span><span class="code-bracket">()</span>;`

	segs := Segments(markup)
	require.NotEmpty(t, segs)
	assert.Equal(t, Segment{Role: RolePlain, Text: "  "}, segs[0])
	assert.Equal(t, Segment{Role: RoleKeyword, Text: "if"}, segs[1])

	assert.Equal(t, "  if (blorp < 7) {\nx && zib();", PlainCode(markup))
}
