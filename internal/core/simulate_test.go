package core

import (
	"context"
	"errors"
	"testing"

	"glorp/internal/session"
	"glorp/internal/types"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimulateCounts(t *testing.T) {
	report, err := Simulate(context.Background(), SimulateOptions{
		Conversations: 8,
		Seed:          10,
		Concurrency:   3,
	})
	require.NoError(t, err)

	assert.Equal(t, 8, report.Conversations)
	assert.Equal(t, 8*len(DefaultScript), report.Turns)
	assert.Len(t, report.FinalHappy, 8)

	kinds := 0
	for _, n := range report.Kinds {
		kinds += n
	}
	assert.Equal(t, report.Turns, kinds)

	positions := 0
	for _, n := range report.Positions {
		positions += n
	}
	assert.Equal(t, report.Turns, positions)
	assert.Equal(t, report.Turns-report.CodeBlocks, report.Positions[types.PositionNone])

	// "write a program" and "now fix it" always carry code.
	assert.GreaterOrEqual(t, report.CodeBlocks, 16)
	assert.LessOrEqual(t, report.MinWords, report.MaxWords)
	assert.InDelta(t, float64(report.CodeBlocks)/float64(report.Turns), report.CodeBlockRate(), 1e-9)

	for _, h := range report.FinalHappy {
		assert.GreaterOrEqual(t, h, 1.0)
		assert.LessOrEqual(t, h, session.MaxHappyEnding)
	}
}

func TestSimulateDeterministic(t *testing.T) {
	opts := SimulateOptions{Conversations: 5, Seed: 77, Script: []string{"code", "list", "thanks"}}

	a, err := Simulate(context.Background(), opts)
	require.NoError(t, err)
	b, err := Simulate(context.Background(), opts)
	require.NoError(t, err)

	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("reports differ (-first +second):\n%s", diff)
	}
}

func TestSimulateCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Simulate(ctx, SimulateOptions{Conversations: 4})
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestSimulateRejectsZeroConversations(t *testing.T) {
	_, err := Simulate(context.Background(), SimulateOptions{})
	assert.Error(t, err)
}
