package ux

import (
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"glorp/internal/types"
)

func TestTypingPlan_Lines(t *testing.T) {
	text := "Glorp blorp.\n\n• Frunk oink\n• Prap\n\nSnorp!"
	frames := TypingPlan(text, types.FormatList, rand.New(rand.NewSource(1)))

	require.Len(t, frames, 4)
	assert.Equal(t, "Glorp blorp.", frames[0].Visible)
	assert.Equal(t, "Glorp blorp.\n\n• Frunk oink", frames[1].Visible)
	assert.Equal(t, text, frames[3].Visible)
	for _, f := range frames {
		assert.True(t, strings.HasPrefix(text, f.Visible))
		assert.GreaterOrEqual(t, f.Delay, 80*time.Millisecond)
		assert.Less(t, f.Delay, 200*time.Millisecond)
	}
}

func TestTypingPlan_Words(t *testing.T) {
	text := "Glorp blorp.\n\nFrunk!"
	for _, kind := range []types.FormatKind{types.FormatText, types.FormatCode, types.FormatThanks} {
		t.Run(string(kind), func(t *testing.T) {
			frames := TypingPlan(text, kind, rand.New(rand.NewSource(2)))
			require.Len(t, frames, 3)
			assert.Equal(t, "Glorp", frames[0].Visible)
			assert.Equal(t, "Glorp blorp.", frames[1].Visible)
			assert.Equal(t, text, frames[2].Visible)
		})
	}
}

func TestTypingPlan_Empty(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	assert.Empty(t, TypingPlan("", types.FormatText, rng))
	assert.Empty(t, TypingPlan("", types.FormatSteps, rng))
	assert.Empty(t, TypingPlan(" \n\n ", types.FormatText, rng))
}

func TestWordDelay_Distribution(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	long := 0
	const n = 5000
	for i := 0; i < n; i++ {
		d := wordDelay(rng)
		require.GreaterOrEqual(t, d, 30*time.Millisecond)
		require.Less(t, d, time.Second)
		if d >= 200*time.Millisecond {
			long++
		}
	}
	// Roughly 10% + 3% of pauses are long.
	frac := float64(long) / n
	assert.InDelta(t, 0.127, frac, 0.03)
}

func TestResponseDelay(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	for i := 0; i < 200; i++ {
		d := ResponseDelay(750*time.Millisecond, rng)
		assert.GreaterOrEqual(t, d, 500*time.Millisecond)
		assert.Less(t, d, time.Second)
	}
	assert.Equal(t, time.Duration(0), ResponseDelay(0, rng))
}

func TestTotalDuration(t *testing.T) {
	frames := []Frame{{Delay: time.Second}, {Delay: 250 * time.Millisecond}}
	assert.Equal(t, 1250*time.Millisecond, TotalDuration(frames))
	assert.Equal(t, time.Duration(0), TotalDuration(nil))
}

func TestPlaybackPlan(t *testing.T) {
	text := "Glorp blorp.\n\nFrunk oink.\n\nSnorp!"
	tests := []struct {
		name     string
		position types.CodeBlockPosition
		// index of the frame that reveals the code, and what it shows
		codeAt    int
		shownText string
		codeDelay time.Duration
	}{
		{"start", types.PositionStart, 0, "", 0},
		{"middle", types.PositionMiddle, 2, "Glorp blorp.", PauseBeforeCode},
		{"end", types.PositionEnd, 5, text, PauseBeforeCode},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reply := types.Reply{HasCodeBlock: true, CodeBlockPosition: tt.position, FormatKind: types.FormatCode}
			plan := PlaybackPlan(text, reply, true, rand.New(rand.NewSource(6)))

			require.Len(t, plan, 6)
			assert.Equal(t, text, plan[len(plan)-1].Visible)
			for i, f := range plan {
				assert.Equal(t, i >= tt.codeAt, f.CodeVisible, "frame %d", i)
			}
			assert.Equal(t, tt.shownText, plan[tt.codeAt].Visible)
			assert.Equal(t, tt.codeDelay, plan[tt.codeAt].Delay)
			if tt.codeAt+1 < len(plan) {
				assert.GreaterOrEqual(t, plan[tt.codeAt+1].Delay, PauseAfterCode+30*time.Millisecond)
			}
		})
	}
}

func TestPlaybackPlan_NoCodeOrNoTyping(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	plain := types.Reply{FormatKind: types.FormatText, CodeBlockPosition: types.PositionNone}
	plan := PlaybackPlan("Glorp blorp.", plain, true, rng)
	require.Len(t, plan, 2)
	assert.False(t, plan[1].CodeVisible)

	withCode := types.Reply{HasCodeBlock: true, CodeBlockPosition: types.PositionMiddle, FormatKind: types.FormatCode}
	plan = PlaybackPlan("Glorp blorp.", withCode, false, rng)
	require.Len(t, plan, 1)
	assert.Equal(t, Frame{Visible: "Glorp blorp.", CodeVisible: true}, plan[0])
}
