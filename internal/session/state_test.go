package session

import (
	"fmt"
	"testing"

	"glorp/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewState(t *testing.T) {
	s := New()
	assert.Equal(t, 0, s.TurnCount)
	assert.Equal(t, 1.0, s.ChatLengthMultiplier)
	assert.Equal(t, 1.0, s.HappyEndingMultiplier)
	assert.Nil(t, s.LastStyle)

	_, ok := s.Previous()
	assert.False(t, ok)
}

func TestRecordAdvancesTurn(t *testing.T) {
	s := New()
	style := types.DefaultStyle()

	s.Record("hello", style)
	s.Record("again", style)

	assert.Equal(t, 2, s.TurnCount)
	assert.InDelta(t, 1.10, s.ChatLengthMultiplier, 1e-9)
	prev, ok := s.Previous()
	require.True(t, ok)
	assert.Equal(t, "again", prev)
	require.NotNil(t, s.LastStyle)
	assert.Equal(t, style, *s.LastStyle)
}

func TestRecordStoresACopy(t *testing.T) {
	s := New()
	style := types.DefaultStyle()
	s.Record("x", style)

	style.WordCountMultiplier = 9
	assert.Equal(t, 1.0, s.LastStyle.WordCountMultiplier)
}

func TestHistoryIsBounded(t *testing.T) {
	s := New()
	for i := 0; i < 25; i++ {
		s.Record(fmt.Sprintf("m%d", i), types.DefaultStyle())
		assert.LessOrEqual(t, len(s.RecentInputs), HistoryCapacity)
	}

	require.Len(t, s.RecentInputs, HistoryCapacity)
	assert.Equal(t, "m15", s.RecentInputs[0])
	assert.Equal(t, "m24", s.RecentInputs[9])
}

func TestHappyMultiplierCompoundsAndCaps(t *testing.T) {
	s := New()
	thanks := types.Style{FormatKind: types.FormatThanks, WordCountMultiplier: 0.2, HappyMultiplier: 2.0}

	s.Record("thanks", thanks)
	assert.Equal(t, 2.0, s.HappyEndingMultiplier)
	s.Record("thanks", thanks)
	assert.Equal(t, 4.0, s.HappyEndingMultiplier)
	s.Record("thanks", thanks)
	assert.Equal(t, MaxHappyEnding, s.HappyEndingMultiplier)

	s.Record("code", types.Style{HappyMultiplier: 1.0})
	assert.Equal(t, MaxHappyEnding, s.HappyEndingMultiplier, "never decreases")
}

func TestRebuild(t *testing.T) {
	msgs := make([]string, 12)
	for i := range msgs {
		msgs[i] = fmt.Sprintf("q%d", i)
	}

	s := Rebuild(msgs)

	assert.Equal(t, 12, s.TurnCount)
	assert.InDelta(t, 1.6, s.ChatLengthMultiplier, 1e-9)
	assert.Len(t, s.RecentInputs, HistoryCapacity)
	assert.Equal(t, "q2", s.RecentInputs[0])
	assert.Nil(t, s.LastStyle)
	assert.Equal(t, 1.0, s.HappyEndingMultiplier)
}
