// Package session holds per-conversation state: the turn counter, the
// rolling window of recent user messages and the mood carried between turns.
// A State belongs to exactly one conversation and is not safe for concurrent use.
package session

import (
	"glorp/internal/logging"
	"glorp/internal/types"
)

const (
	// HistoryCapacity bounds RecentInputs; the oldest entry is evicted first.
	HistoryCapacity = 10

	// LengthStep is how much each turn stretches replies.
	LengthStep = 0.05

	// MaxHappyEnding caps HappyEndingMultiplier.
	MaxHappyEnding = 5.0
)

// State is the mutable memory of one conversation.
type State struct {
	TurnCount             int
	ChatLengthMultiplier  float64
	RecentInputs          []string
	HappyEndingMultiplier float64
	LastStyle             *types.Style
}

// Turn is one stored exchange. Reply is nil when the reply was never
// finished or not kept.
type Turn struct {
	Message string
	Reply   *types.Reply
}

// New returns the state of a conversation that has not started yet.
func New() *State {
	return &State{
		ChatLengthMultiplier:  1.0,
		RecentInputs:          make([]string, 0, HistoryCapacity),
		HappyEndingMultiplier: 1.0,
	}
}

// Previous returns the most recent user message, if any.
func (s *State) Previous() (string, bool) {
	if len(s.RecentInputs) == 0 {
		return "", false
	}
	return s.RecentInputs[len(s.RecentInputs)-1], true
}

// Record applies the side effects of one turn, in order: advance the turn
// counter, recompute the length multiplier, push the message, remember the
// style, and compound the happy multiplier.
func (s *State) Record(message string, style types.Style) {
	s.TurnCount++
	s.ChatLengthMultiplier = 1 + float64(s.TurnCount)*LengthStep
	s.push(message)

	st := style
	s.LastStyle = &st

	if style.HappyMultiplier > 1 {
		s.HappyEndingMultiplier *= style.HappyMultiplier
		if s.HappyEndingMultiplier > MaxHappyEnding {
			s.HappyEndingMultiplier = MaxHappyEnding
		}
	}

	logging.SessionDebug("turn %d: length x%.2f, happy x%.2f, history %d",
		s.TurnCount, s.ChatLengthMultiplier, s.HappyEndingMultiplier, len(s.RecentInputs))
}

func (s *State) push(message string) {
	s.RecentInputs = append(s.RecentInputs, message)
	if over := len(s.RecentInputs) - HistoryCapacity; over > 0 {
		s.RecentInputs = append(s.RecentInputs[:0], s.RecentInputs[over:]...)
	}
}

// Rebuild re-derives the counters and history window of a stored chat from
// its user messages, oldest first. Style and mood are not recovered; replay
// the messages through the engine for those.
func Rebuild(userMessages []string) *State {
	s := New()
	s.TurnCount = len(userMessages)
	s.ChatLengthMultiplier = 1 + float64(s.TurnCount)*LengthStep
	for _, m := range userMessages {
		s.push(m)
	}
	return s
}
