package core

import (
	"context"
	"fmt"
	"math"
	"strings"

	"glorp/internal/logging"
	"glorp/internal/session"
	"glorp/internal/types"

	"golang.org/x/sync/errgroup"
)

// DefaultScript is the conversation Simulate plays when none is given.
var DefaultScript = []string{
	"hi there",
	"can you write a program for me",
	"now fix it",
	"explain how it works",
	"give me a list of the main points",
	"thanks, that was awesome",
	"ok",
}

// SimulateOptions configures a batch run.
type SimulateOptions struct {
	Conversations int      // independent conversations to run
	Script        []string // user messages, in order, for every conversation
	Seed          int64    // conversation i is seeded with Seed+i
	Concurrency   int      // max conversations in flight; 0 means unbounded
}

// SimulationReport aggregates every reply of a run.
type SimulationReport struct {
	Conversations int                             `json:"conversations"`
	Turns         int                             `json:"turns"`
	Kinds         map[types.FormatKind]int        `json:"kinds"`
	CodeBlocks    int                             `json:"code_blocks"`
	Positions     map[types.CodeBlockPosition]int `json:"positions"`
	MinWords      int                             `json:"min_words"`
	MaxWords      int                             `json:"max_words"`
	MeanWords     float64                         `json:"mean_words"`
	FinalHappy    []float64                       `json:"final_happy"`
}

// CodeBlockRate is the share of replies carrying pseudo-code.
func (r *SimulationReport) CodeBlockRate() float64 {
	if r.Turns == 0 {
		return 0
	}
	return float64(r.CodeBlocks) / float64(r.Turns)
}

type conversationResult struct {
	replies []types.Reply
	words   []int
	happy   float64
}

// Simulate runs independent conversations concurrently, each with its own
// Engine and State. Cancellation is checked between turns.
func Simulate(ctx context.Context, opts SimulateOptions) (*SimulationReport, error) {
	if opts.Conversations <= 0 {
		return nil, fmt.Errorf("conversations must be positive, got %d", opts.Conversations)
	}
	script := opts.Script
	if len(script) == 0 {
		script = DefaultScript
	}

	timer := logging.StartTimer(logging.CategorySimulate, "simulate")
	defer timer.Stop()

	results := make([]conversationResult, opts.Conversations)

	g, gctx := errgroup.WithContext(ctx)
	if opts.Concurrency > 0 {
		g.SetLimit(opts.Concurrency)
	}
	for i := 0; i < opts.Conversations; i++ {
		i := i
		g.Go(func() error {
			engine := New(WithSeed(opts.Seed + int64(i)))
			st := session.New()
			res := conversationResult{}
			for _, msg := range script {
				if err := gctx.Err(); err != nil {
					return err
				}
				reply, err := engine.Respond(msg, st)
				if err != nil {
					return fmt.Errorf("conversation %d: %w", i, err)
				}
				res.replies = append(res.replies, reply)
				res.words = append(res.words, len(strings.Fields(reply.Text)))
			}
			res.happy = st.HappyEndingMultiplier
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		logging.Get(logging.CategorySimulate).Warn("simulation aborted: %v", err)
		return nil, err
	}

	report := aggregate(results)
	logging.Get(logging.CategorySimulate).Info("simulated %d conversations, %d turns, code rate %.2f",
		report.Conversations, report.Turns, report.CodeBlockRate())
	return report, nil
}

func aggregate(results []conversationResult) *SimulationReport {
	report := &SimulationReport{
		Conversations: len(results),
		Kinds:         make(map[types.FormatKind]int),
		Positions:     make(map[types.CodeBlockPosition]int),
		MinWords:      math.MaxInt,
	}
	total := 0
	for _, res := range results {
		for j, reply := range res.replies {
			report.Turns++
			report.Kinds[reply.FormatKind]++
			if reply.HasCodeBlock {
				report.CodeBlocks++
			}
			report.Positions[reply.CodeBlockPosition]++

			w := res.words[j]
			total += w
			report.MinWords = min(report.MinWords, w)
			report.MaxWords = max(report.MaxWords, w)
		}
		report.FinalHappy = append(report.FinalHappy, res.happy)
	}
	if report.Turns == 0 {
		report.MinWords = 0
		return report
	}
	report.MeanWords = float64(total) / float64(report.Turns)
	return report
}
