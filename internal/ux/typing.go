package ux

import (
	"math/rand"
	"strings"
	"time"
	"unicode"

	"glorp/internal/types"
)

// Pauses around a code block during playback.
const (
	PauseBeforeCode = 300 * time.Millisecond
	PauseAfterCode  = 200 * time.Millisecond
)

// Frame is one step of typing playback: wait Delay, then show Visible.
// Visible is always a prefix of the text being typed.
type Frame struct {
	Visible     string
	CodeVisible bool
	Delay       time.Duration
}

// TypingPlan splits text into playback frames. Lists and steps reveal one
// non-blank line at a time (80-200ms each); everything else one word at a
// time (30-80ms, with occasional longer pauses).
func TypingPlan(text string, kind types.FormatKind, rng *rand.Rand) []Frame {
	if kind.IsStructured() {
		return linePlan(text, rng)
	}
	return wordPlan(text, rng)
}

func linePlan(text string, rng *rand.Rand) []Frame {
	var frames []Frame
	offset := 0
	for _, line := range strings.SplitAfter(text, "\n") {
		offset += len(line)
		if strings.TrimSpace(line) == "" {
			continue
		}
		end := offset
		if strings.HasSuffix(line, "\n") {
			end--
		}
		frames = append(frames, Frame{
			Visible: text[:end],
			Delay:   millis(80 + rng.Float64()*120),
		})
	}
	return frames
}

func wordPlan(text string, rng *rand.Rand) []Frame {
	var frames []Frame
	inWord := false
	for i, r := range text {
		space := unicode.IsSpace(r)
		if inWord && space {
			frames = append(frames, Frame{Visible: text[:i], Delay: wordDelay(rng)})
		}
		inWord = !space
	}
	if inWord {
		frames = append(frames, Frame{Visible: text, Delay: wordDelay(rng)})
	}
	return frames
}

func wordDelay(rng *rand.Rand) time.Duration {
	delay := 30 + rng.Float64()*50
	if rng.Float64() < 0.1 {
		delay = 200 + rng.Float64()*300
	}
	if rng.Float64() < 0.03 {
		delay = 500 + rng.Float64()*500
	}
	return millis(delay)
}

// PlaybackPlan types text and reveals the reply's code block where its
// position tag puts it: a start block shows first and pauses before the
// text, a middle block pauses in after the leading paragraphs, an end
// block follows the text. With typing off the plan is a single frame.
func PlaybackPlan(text string, reply types.Reply, typing bool, rng *rand.Rand) []Frame {
	if !typing {
		return []Frame{{Visible: text, CodeVisible: reply.HasCodeBlock}}
	}
	frames := TypingPlan(text, reply.FormatKind, rng)
	if !reply.HasCodeBlock {
		return frames
	}

	before, _ := SplitForCode(text, reply.CodeBlockPosition)
	split := 0
	for split < len(frames) && len(frames[split].Visible) <= len(before) {
		split++
	}
	shown := ""
	if split > 0 {
		shown = frames[split-1].Visible
	}
	delay := PauseBeforeCode
	if split == 0 {
		delay = 0
	}

	plan := make([]Frame, 0, len(frames)+1)
	plan = append(plan, frames[:split]...)
	plan = append(plan, Frame{Visible: shown, CodeVisible: true, Delay: delay})
	for i, f := range frames[split:] {
		f.CodeVisible = true
		if i == 0 {
			f.Delay += PauseAfterCode
		}
		plan = append(plan, f)
	}
	return plan
}

// ResponseDelay jitters base by a third either way: 750ms gives 500-1000ms.
func ResponseDelay(base time.Duration, rng *rand.Rand) time.Duration {
	spread := float64(base) * 2 / 3
	return time.Duration(float64(base) - spread/2 + rng.Float64()*spread)
}

func millis(ms float64) time.Duration {
	return time.Duration(ms * float64(time.Millisecond))
}

// TotalDuration sums the delays of a plan.
func TotalDuration(frames []Frame) time.Duration {
	var d time.Duration
	for _, f := range frames {
		d += f.Delay
	}
	return d
}
