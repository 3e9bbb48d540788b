// Package lexicon generates glorp nonsense: pronounceable words and
// role-tagged pseudo-code. It never produces meaning.
package lexicon

import (
	"math/rand"
	"strings"
)

// Sound tables. Order matters only for reproducibility under a fixed seed.
var (
	prefixes   = []string{"gl", "gr", "bl", "pr"}
	suffixes   = []string{"orp", "unk", "oink", "eep", "oop"}
	vowels     = []string{"a", "e", "i", "o", "u", "oo", "ee", "aa", "orp", "oink"}
	consonants = []string{
		"b", "c", "d", "f", "g", "h", "j", "k", "l", "m", "n", "p", "r", "s",
		"t", "v", "w", "x", "z", "gl", "pr", "tr", "br", "gr", "bl", "fl", "pl", "cr",
	}
)

const (
	prefixChance    = 0.3
	suffixChance    = 0.25
	extraConsChance = 0.4
	maxSyllables    = 3
)

// Generator draws nonsense from a single random source.
// It is not safe for concurrent use; give each conversation its own.
type Generator struct {
	rng *rand.Rand
}

// NewGenerator creates a generator backed by rng.
func NewGenerator(rng *rand.Rand) *Generator {
	return &Generator{rng: rng}
}

func (g *Generator) pick(from []string) string {
	return from[g.rng.Intn(len(from))]
}

// Word returns one nonsense word of 1-3 syllables. Never empty.
func (g *Generator) Word() string {
	var b strings.Builder
	syllables := g.rng.Intn(maxSyllables) + 1

	prefixed := g.rng.Float64() < prefixChance
	if prefixed {
		b.WriteString(g.pick(prefixes))
	}

	for i := 0; i < syllables; i++ {
		// A prefix already supplies the first onset.
		if !(prefixed && i == 0) {
			b.WriteString(g.pick(consonants))
		}
		b.WriteString(g.pick(vowels))
		if g.rng.Float64() < extraConsChance {
			b.WriteString(g.pick(consonants))
		}
	}

	if g.rng.Float64() < suffixChance {
		b.WriteString(g.pick(suffixes))
	}
	return b.String()
}

// Words returns n nonsense words. n <= 0 yields an empty slice.
func (g *Generator) Words(n int) []string {
	if n <= 0 {
		return []string{}
	}
	out := make([]string, n)
	for i := range out {
		out[i] = g.Word()
	}
	return out
}
