// Package core assembles glorp replies. For each user message the Engine
// resolves a style, updates the conversation state, picks a length, and
// renders nonsense text plus an optional pseudo-code block.
package core

import (
	"errors"
	"math/rand"
	"strings"
	"time"

	"glorp/internal/articulation"
	"glorp/internal/lexicon"
	"glorp/internal/logging"
	"glorp/internal/perception"
	"glorp/internal/session"
	"glorp/internal/types"
)

// ErrNoSession is returned when Respond is called without conversation state.
var ErrNoSession = errors.New("no session state")

// happyThreshold is the accumulated mood above which replies end excitedly.
const happyThreshold = 1.2

// Engine produces replies. Its random source is not safe for concurrent use:
// give each concurrently running conversation its own Engine.
type Engine struct {
	rng      *rand.Rand
	rules    []perception.Rule
	resolver *perception.Resolver
	lexicon  *lexicon.Generator
	composer *articulation.Composer
}

// Option configures an Engine.
type Option func(*Engine)

// WithSeed seeds the engine's random source. Equal seeds give byte-identical
// replies for the same conversation.
func WithSeed(seed int64) Option {
	return func(e *Engine) {
		e.rng = rand.New(rand.NewSource(seed))
	}
}

// WithRand uses rng as the random source.
func WithRand(rng *rand.Rand) Option {
	return func(e *Engine) {
		e.rng = rng
	}
}

// WithRules replaces the keyword table.
func WithRules(rules ...perception.Rule) Option {
	return func(e *Engine) {
		e.rules = rules
	}
}

// New creates an engine. Without a seed option the clock seeds it.
func New(opts ...Option) *Engine {
	e := &Engine{}
	for _, opt := range opts {
		opt(e)
	}
	if e.rng == nil {
		e.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	e.resolver = perception.NewResolver(e.rng, e.rules...)
	e.lexicon = lexicon.NewGenerator(e.rng)
	e.composer = articulation.NewComposer(e.rng)
	return e
}

// Respond produces the reply to message and advances st.
func (e *Engine) Respond(message string, st *session.State) (types.Reply, error) {
	reply, _, err := e.RespondTrace(message, st)
	return reply, err
}

// RespondTrace is Respond plus the resolver's explanation of the chosen style.
func (e *Engine) RespondTrace(message string, st *session.State) (types.Reply, perception.Resolution, error) {
	if st == nil {
		return types.Reply{}, perception.Resolution{}, ErrNoSession
	}
	timer := logging.StartTimer(logging.CategoryEngine, "respond")
	audit := logging.Audit()

	style, res := e.resolver.Resolve(message, st)
	st.Record(message, style)
	audit.TurnStart(st.TurnCount, len(message))
	audit.StyleResolved(st.TurnCount, res.Keyword, string(style.FormatKind), style.WordCountMultiplier)

	n := WordCount(message, style, st, e.rng)
	words := e.lexicon.Words(n)
	happy := st.HappyEndingMultiplier > happyThreshold || style.FormatKind == types.FormatThanks

	reply := types.Reply{
		Text:              e.composer.Compose(words, style.FormatKind, happy),
		HasCodeBlock:      style.RequiresCodeBlock,
		CodeBlockPosition: types.PositionNone,
		FormatKind:        style.FormatKind,
	}

	if lines, ok := style.CodeBlockSize.Lines(); ok && style.RequiresCodeBlock {
		count := lines.Min + e.rng.Intn(lines.Max-lines.Min+1)
		reply.CodeBlock = e.lexicon.CodeBlock(count)
		reply.CodeBlockPosition = types.PositionFor(e.rng.Float64())
	}

	logging.Get(logging.CategoryEngine).Debug("turn %d: %s via %s, %d words, code=%v at %s",
		st.TurnCount, style.FormatKind, res.Source, n, reply.HasCodeBlock, reply.CodeBlockPosition)
	audit.TurnEnd(st.TurnCount, len(strings.Fields(reply.Text)), reply.HasCodeBlock, timer.Stop())
	return reply, res, nil
}

// Replay rebuilds the full state of a conversation by resolving each user
// message in order without generating text.
func (e *Engine) Replay(userMessages []string) *session.State {
	turns := make([]session.Turn, len(userMessages))
	for i, m := range userMessages {
		turns[i].Message = m
	}
	return e.ReplayTurns(turns)
}

// ReplayTurns is Replay for a stored transcript. Turns that kept their
// reply are resolved against it, so the rebuilt style matches what the
// user actually saw.
func (e *Engine) ReplayTurns(turns []session.Turn) *session.State {
	st := session.New()
	known := 0
	for _, t := range turns {
		var style types.Style
		if t.Reply != nil {
			style, _ = e.resolver.ResolveStored(t.Message, st, *t.Reply)
			known++
		} else {
			style, _ = e.resolver.Resolve(t.Message, st)
		}
		st.Record(t.Message, style)
	}
	logging.SessionDebug("replayed %d messages (%d with stored replies)", len(turns), known)
	return st
}

// Rules returns the keyword table in use.
func (e *Engine) Rules() []perception.Rule {
	return e.resolver.Rules()
}
