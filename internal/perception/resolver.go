// Package perception decides how a reply should look. It matches trigger
// keywords in the user's message, falls back to the previous message, and
// never looks at meaning.
package perception

import (
	"math/rand"
	"strings"

	"glorp/internal/logging"
	"glorp/internal/session"
	"glorp/internal/types"
)

const (
	// historyChance is the probability that a keyword in the previous
	// message styles a reply whose own message has none.
	historyChance = 0.5

	// historyDamping shortens history-derived replies.
	historyDamping = 0.8
)

// Source says where a resolved style came from.
type Source string

const (
	SourceCurrent   Source = "current"   // keyword in this message
	SourceInherited Source = "inherited" // follow-up keyword reusing the previous style
	SourceHistory   Source = "history"   // keyword in the previous message
	SourceDefault   Source = "default"
)

// Resolution explains a Resolve decision.
type Resolution struct {
	Keyword string   `json:"keyword,omitempty"`
	Source  Source   `json:"source"`
	Matched []string `json:"matched,omitempty"` // every keyword found in the message, table order
}

// Resolver selects a style per message. It holds no conversation state.
type Resolver struct {
	rules []Rule
	rng   *rand.Rand
}

// NewResolver creates a resolver over rules (DefaultRules when none given).
// rng drives the history coin flip.
func NewResolver(rng *rand.Rand, rules ...Rule) *Resolver {
	if len(rules) == 0 {
		rules = DefaultRules
	}
	return &Resolver{rules: rules, rng: rng}
}

// Rules returns the table in scan order.
func (r *Resolver) Rules() []Rule {
	return r.rules
}

// Resolve picks the style for message given the conversation so far.
// st must reflect the state before this message is recorded.
func (r *Resolver) Resolve(message string, st *session.State) (types.Style, Resolution) {
	return r.resolve(message, st, func(Rule) bool {
		return r.rng.Float64() < historyChance
	})
}

// ResolveStored re-resolves a message whose reply is already known. Instead
// of flipping the history coin it takes the history branch only when the
// stored reply has that rule's shape. A reply that fits both the history
// rule and the default style counts as default.
func (r *Resolver) ResolveStored(message string, st *session.State, got types.Reply) (types.Style, Resolution) {
	return r.resolve(message, st, func(rule Rule) bool {
		s := rule.Style()
		if s.FormatKind != got.FormatKind || s.RequiresCodeBlock != got.HasCodeBlock {
			return false
		}
		return s.FormatKind != types.FormatText || s.RequiresCodeBlock
	})
}

func (r *Resolver) resolve(message string, st *session.State, coin func(Rule) bool) (types.Style, Resolution) {
	lower := strings.ToLower(message)

	var (
		best, bestOther       *Rule
		bestIdx, bestOtherIdx = -1, -1
		matched               []string
	)
	for i := range r.rules {
		rule := &r.rules[i]
		idx := strings.Index(lower, rule.Keyword)
		if idx < 0 {
			continue
		}
		matched = append(matched, rule.Keyword)
		// Latest mention wins; ties keep table order.
		if idx > bestIdx {
			best, bestIdx = rule, idx
		}
		if !rule.IsThanks() && idx > bestOtherIdx {
			bestOther, bestOtherIdx = rule, idx
		}
	}

	if best != nil {
		// Gratitude only wins when nothing else was asked for.
		if best.IsThanks() && bestOther != nil {
			best = bestOther
		}
		res := Resolution{Keyword: best.Keyword, Source: SourceCurrent, Matched: matched}

		if best.InheritsPrevious {
			if prev, ok := r.previousStyle(st); ok {
				res.Source = SourceInherited
				style := prev.Scaled(best.WordCountMultiplier)
				logging.PerceptionDebug("'%s' inherits %s style (x%.2f)", best.Keyword, style.FormatKind, style.WordCountMultiplier)
				return style, res
			}
		}

		logging.PerceptionDebug("'%s' wins at index %d of %d matches", best.Keyword, bestIdx, len(matched))
		return best.Style(), res
	}

	if style, kw, ok := r.fromHistory(st, coin); ok {
		logging.PerceptionDebug("history keyword '%s' applied (x%.2f)", kw, style.WordCountMultiplier)
		return style, Resolution{Keyword: kw, Source: SourceHistory}
	}

	return types.DefaultStyle(), Resolution{Source: SourceDefault}
}

// previousStyle is the style a follow-up keyword reuses: the last style used,
// else the first non-inheriting rule found in the previous message.
func (r *Resolver) previousStyle(st *session.State) (types.Style, bool) {
	if st == nil {
		return types.Style{}, false
	}
	if st.LastStyle != nil {
		return *st.LastStyle, true
	}
	prev, ok := st.Previous()
	if !ok {
		return types.Style{}, false
	}
	lower := strings.ToLower(prev)
	for _, rule := range r.rules {
		if !rule.InheritsPrevious && strings.Contains(lower, rule.Keyword) {
			return rule.Style(), true
		}
	}
	return types.Style{}, false
}

// fromHistory considers only the first rule (table order) found in the
// previous message and applies it, damped, when coin allows.
func (r *Resolver) fromHistory(st *session.State, coin func(Rule) bool) (types.Style, string, bool) {
	if st == nil {
		return types.Style{}, "", false
	}
	prev, ok := st.Previous()
	if !ok {
		return types.Style{}, "", false
	}
	lower := strings.ToLower(prev)
	for _, rule := range r.rules {
		if !strings.Contains(lower, rule.Keyword) {
			continue
		}
		if coin(rule) {
			return rule.Style().Scaled(historyDamping), rule.Keyword, true
		}
		return types.Style{}, "", false
	}
	return types.Style{}, "", false
}
