package core

import (
	"math/rand"
	"strings"
	"testing"

	"glorp/internal/session"
	"glorp/internal/types"

	"github.com/stretchr/testify/assert"
)

func styleWith(mult float64) types.Style {
	s := types.DefaultStyle()
	s.WordCountMultiplier = mult
	return s
}

func TestInputWords(t *testing.T) {
	assert.Equal(t, 1, InputWords(""))
	assert.Equal(t, 1, InputWords("   \t\n"))
	assert.Equal(t, 1, InputWords("glorp"))
	assert.Equal(t, 3, InputWords("  a  b\tc "))
}

func TestWordRange(t *testing.T) {
	thirty := strings.Repeat("w ", 30)
	sixty := strings.Repeat("w ", 60)

	tests := []struct {
		name    string
		message string
		mult    float64
		turns   int
		lo, hi  int
	}{
		{"empty message counts as one word", "", 1.0, 0, 20, 103},
		{"input factor saturates at 30 words", thirty, 2.0, 0, 80, 400},
		{"input factor capped beyond 30", sixty, 0.2, 0, 8, 40},
		{"zero multiplier", "hi", 0, 0, 0, 0},
		{"negative multiplier clamps", "hi", -1, 0, 0, 0},
		{"chat growth is damped", thirty, 1.0, 5, 42, 210},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := session.New()
			st.TurnCount = tt.turns
			st.ChatLengthMultiplier = 1 + float64(tt.turns)*session.LengthStep

			lo, hi := WordRange(tt.message, styleWith(tt.mult), st)
			assert.Equal(t, tt.lo, lo)
			assert.Equal(t, tt.hi, hi)
		})
	}
}

func TestWordRangeMonotonic(t *testing.T) {
	style := types.DefaultStyle()
	st := session.New()
	prevLo, prevHi := WordRange("same message", style, st)
	for turn := 1; turn <= 100; turn++ {
		st.Record("same message", style)
		lo, hi := WordRange("same message", style, st)
		assert.GreaterOrEqual(t, lo, prevLo)
		assert.GreaterOrEqual(t, hi, prevHi)
		prevLo, prevHi = lo, hi
	}
}

func TestWordCountWithinRange(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	st := session.New()
	style := styleWith(0.6)
	lo, hi := WordRange("write code", style, st)
	for i := 0; i < 1000; i++ {
		n := WordCount("write code", style, st, rng)
		assert.GreaterOrEqual(t, n, lo)
		assert.LessOrEqual(t, n, hi)
	}
}
