// Package articulation turns a bag of nonsense words into something shaped
// like an answer: sentences and paragraphs, or a framed list of items.
package articulation

import (
	"fmt"
	"math/rand"
	"strings"
	"unicode"
	"unicode/utf8"

	"glorp/internal/logging"
	"glorp/internal/types"
)

// =============================================================================
// PUNCTUATION
// =============================================================================

var (
	neutralEnders = []string{".", ".", "!", "?"}
	happyEnders   = []string{"!", "!!", "!!!"}
)

const (
	minSentence  = 4
	maxSentence  = 12
	minParagraph = 3
	maxParagraph = 5

	structureShare = 0.6
	minItems       = 3
	maxItems       = 7
	wordsPerItem   = 5
)

// Composer lays out tokens. It is not safe for concurrent use.
type Composer struct {
	rng *rand.Rand
}

// NewComposer creates a composer backed by rng.
func NewComposer(rng *rand.Rand) *Composer {
	return &Composer{rng: rng}
}

// Compose renders tokens in the given format. happy selects exclamatory
// endings for the final sentence. The input slice is not modified.
func (c *Composer) Compose(tokens []string, kind types.FormatKind, happy bool) string {
	if len(tokens) == 0 {
		return ""
	}
	logging.ArticulationDebug("composing %d tokens as %s (happy=%v)", len(tokens), kind, happy)

	if kind.IsStructured() {
		return c.structured(tokens, kind, happy)
	}
	return c.prose(tokens, happy)
}

// prose groups tokens into sentences of 4-12 words and sentences into
// paragraphs of 3-5, separated by blank lines.
func (c *Composer) prose(tokens []string, happy bool) string {
	var (
		sentences []string
		current   []string
	)
	last := len(tokens) - 1
	for i, tok := range tokens {
		current = append(current, tok)
		target := minSentence + c.rng.Intn(maxSentence-minSentence+1)
		if len(current) < target && i != last {
			continue
		}

		ender := c.pick(neutralEnders)
		if i == last && happy {
			ender = c.pick(happyEnders)
		}
		sentences = append(sentences, sentence(current)+ender)
		current = current[:0]
	}

	var (
		paragraphs []string
		para       []string
	)
	for i, s := range sentences {
		para = append(para, s)
		target := minParagraph + c.rng.Intn(maxParagraph-minParagraph+1)
		if len(para) >= target || i == len(sentences)-1 {
			paragraphs = append(paragraphs, strings.Join(para, " "))
			para = para[:0]
		}
	}
	return strings.Join(paragraphs, "\n\n")
}

// structured frames a bulleted or numbered list between a lead-in and a
// closing sentence. Tokens left over after even division are dropped.
func (c *Composer) structured(tokens []string, kind types.FormatKind, happy bool) string {
	n := len(tokens)
	itemCount := ItemCount(n)
	structure := int(float64(n) * structureShare)
	lead := (n - structure) / 2

	leadWords := tokens[:lead]
	itemWords := tokens[lead : lead+structure]
	closing := tokens[lead+structure:]

	var b strings.Builder
	if len(leadWords) > 0 {
		b.WriteString(sentence(leadWords))
		b.WriteString(".")
	}
	b.WriteString("\n\n")

	per := len(itemWords) / itemCount
	for i := 0; i < itemCount && per > 0; i++ {
		item := strings.Join(itemWords[i*per:(i+1)*per], " ")
		if kind == types.FormatSteps {
			fmt.Fprintf(&b, "  %d. %s\n", i+1, item)
		} else {
			fmt.Fprintf(&b, "  • %s\n", item)
		}
	}
	b.WriteString("\n")

	if len(closing) > 0 {
		ender := "."
		if happy {
			ender = c.pick(happyEnders)
		}
		b.WriteString(sentence(closing))
		b.WriteString(ender)
	}
	return strings.TrimSpace(b.String())
}

// ItemCount is the number of list items or steps for n tokens: n/5+3, at most 7.
func ItemCount(n int) int {
	items := n/wordsPerItem + minItems
	if items > maxItems {
		items = maxItems
	}
	return items
}

func (c *Composer) pick(from []string) string {
	return from[c.rng.Intn(len(from))]
}

// sentence joins words with spaces and capitalizes the first letter.
func sentence(words []string) string {
	s := strings.Join(words, " ")
	return Capitalize(s)
}

// Capitalize upper-cases the first rune of s.
func Capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
