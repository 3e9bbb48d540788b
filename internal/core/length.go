package core

import (
	"math"
	"math/rand"
	"strings"

	"glorp/internal/session"
	"glorp/internal/types"
)

const (
	baseMinWords = 20
	baseMaxWords = 100

	// Input length stretches replies up to 2x, reached at this many words.
	fullInputWords = 30

	// Share of the per-turn growth that reaches reply length.
	chatDamping = 0.2
)

// InputWords counts whitespace-separated words. A blank message counts as one.
func InputWords(message string) int {
	if n := len(strings.Fields(message)); n > 0 {
		return n
	}
	return 1
}

// WordRange returns the inclusive bounds a reply's word count is drawn from.
func WordRange(message string, style types.Style, st *session.State) (lo, hi int) {
	inputFactor := 1 + math.Min(float64(InputWords(message))/fullInputWords, 1)
	chatFactor := 1 + (st.ChatLengthMultiplier-1)*chatDamping
	total := inputFactor * style.WordCountMultiplier * chatFactor

	lo = int(math.Floor(baseMinWords * total))
	hi = int(math.Floor(baseMaxWords * total))
	if lo < 0 {
		lo = 0
	}
	if hi < lo {
		hi = lo
	}
	return lo, hi
}

// WordCount draws a reply length uniformly from WordRange.
func WordCount(message string, style types.Style, st *session.State, rng *rand.Rand) int {
	lo, hi := WordRange(message, style, st)
	return lo + rng.Intn(hi-lo+1)
}
