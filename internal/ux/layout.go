package ux

import (
	"strings"

	"glorp/internal/types"
)

// SplitForCode returns the text shown before and after the code block.
// A middle block goes between paragraphs, at the paragraph midpoint.
func SplitForCode(text string, position types.CodeBlockPosition) (before, after string) {
	switch position {
	case types.PositionStart:
		return "", text
	case types.PositionMiddle:
		parts := strings.Split(text, "\n\n")
		mid := len(parts) / 2
		return strings.Join(parts[:mid], "\n\n"), strings.Join(parts[mid:], "\n\n")
	default:
		return text, ""
	}
}

// DisplayText applies the mode's framing to reply text.
func DisplayText(text string, mode Mode, thinkingPrefix string) string {
	if mode == ModeThinking {
		return thinkingPrefix + text
	}
	return text
}
