// Package types provides shared type definitions used across glorp packages.
// This package exists to break import cycles between perception, articulation and core.
// Types in this package should be foundational data structures with no complex dependencies.
package types

import "fmt"

// =============================================================================
// FORMAT KINDS
// =============================================================================

// FormatKind is the categorical shape of a reply.
type FormatKind string

const (
	FormatCode   FormatKind = "code"
	FormatText   FormatKind = "text"
	FormatList   FormatKind = "list"
	FormatSteps  FormatKind = "steps"
	FormatThanks FormatKind = "thanks"
)

// IsStructured reports whether replies of this kind are laid out as items
// (bullets or numbered steps) rather than paragraphs.
func (k FormatKind) IsStructured() bool {
	return k == FormatList || k == FormatSteps
}

// ParseFormatKind converts a string into a FormatKind.
func ParseFormatKind(s string) (FormatKind, error) {
	switch FormatKind(s) {
	case FormatCode, FormatText, FormatList, FormatSteps, FormatThanks:
		return FormatKind(s), nil
	}
	return "", fmt.Errorf("unknown format kind: %q", s)
}

// =============================================================================
// CODE BLOCKS
// =============================================================================

// CodeBlockSize selects how many lines of pseudo-code a reply carries.
type CodeBlockSize string

const (
	SizeNone   CodeBlockSize = "none"
	SizeSmall  CodeBlockSize = "small"
	SizeMedium CodeBlockSize = "medium"
	SizeLarge  CodeBlockSize = "large"
)

// LineRange is an inclusive range of code block line counts.
type LineRange struct {
	Min int
	Max int
}

// codeBlockLines maps each size to its line-count range.
var codeBlockLines = map[CodeBlockSize]LineRange{
	SizeSmall:  {Min: 3, Max: 8},
	SizeMedium: {Min: 8, Max: 15},
	SizeLarge:  {Min: 15, Max: 30},
}

// Lines returns the line-count range for the size. ok is false for SizeNone
// and unknown sizes.
func (s CodeBlockSize) Lines() (LineRange, bool) {
	r, ok := codeBlockLines[s]
	return r, ok
}

// CodeBlockPosition is advisory placement metadata for the rendering layer.
type CodeBlockPosition string

const (
	PositionNone   CodeBlockPosition = "none"
	PositionStart  CodeBlockPosition = "start"
	PositionMiddle CodeBlockPosition = "middle"
	PositionEnd    CodeBlockPosition = "end"
)

// PositionFor maps a uniform draw in [0,1) to a placement:
// [0,0.3) start, [0.3,0.7) middle, [0.7,1) end.
func PositionFor(draw float64) CodeBlockPosition {
	switch {
	case draw < 0.3:
		return PositionStart
	case draw < 0.7:
		return PositionMiddle
	default:
		return PositionEnd
	}
}

// =============================================================================
// STYLE
// =============================================================================

// Style is the effective response style chosen for one turn.
// It is a value: copies may be scaled or dampened without touching the rule table.
type Style struct {
	RequiresCodeBlock   bool          `json:"requires_code_block"`
	CodeBlockSize       CodeBlockSize `json:"code_block_size"`
	WordCountMultiplier float64       `json:"word_count_multiplier"`
	HistoryWeight       float64       `json:"history_weight"`
	FormatKind          FormatKind    `json:"format_kind"`
	HappyMultiplier     float64       `json:"happy_multiplier"`
}

// DefaultStyle is plain text, no code, unscaled length.
func DefaultStyle() Style {
	return Style{
		RequiresCodeBlock:   false,
		CodeBlockSize:       SizeNone,
		WordCountMultiplier: 1.0,
		HistoryWeight:       0,
		FormatKind:          FormatText,
		HappyMultiplier:     1.0,
	}
}

// Scaled returns a copy with the word count multiplier multiplied by factor.
func (s Style) Scaled(factor float64) Style {
	s.WordCountMultiplier *= factor
	return s
}

// =============================================================================
// REPLY
// =============================================================================

// Reply is the structured output handed to the rendering layer.
type Reply struct {
	Text              string            `json:"text" jsonschema:"description=Composed prose, list or steps text"`
	HasCodeBlock      bool              `json:"has_code_block"`
	CodeBlock         string            `json:"code_block,omitempty" jsonschema:"description=Pseudo-code with role-tagged span markup"`
	CodeBlockPosition CodeBlockPosition `json:"code_block_position" jsonschema:"enum=none,enum=start,enum=middle,enum=end"`
	FormatKind        FormatKind        `json:"format_kind" jsonschema:"enum=code,enum=text,enum=list,enum=steps,enum=thanks"`
}
