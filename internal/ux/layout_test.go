package ux

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"glorp/internal/types"
)

func TestSplitForCode(t *testing.T) {
	text := "Glorp.\n\nBlorp.\n\nFrunk."
	tests := []struct {
		name       string
		text       string
		position   types.CodeBlockPosition
		wantBefore string
		wantAfter  string
	}{
		{"start", text, types.PositionStart, "", text},
		{"end", text, types.PositionEnd, text, ""},
		{"none", text, types.PositionNone, text, ""},
		{"middle", text, types.PositionMiddle, "Glorp.", "Blorp.\n\nFrunk."},
		{"middle even", "A.\n\nB.", types.PositionMiddle, "A.", "B."},
		{"middle single paragraph", "A.", types.PositionMiddle, "", "A."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before, after := SplitForCode(tt.text, tt.position)
			assert.Equal(t, tt.wantBefore, before)
			assert.Equal(t, tt.wantAfter, after)
		})
	}
}

func TestDisplayText(t *testing.T) {
	assert.Equal(t, "Glorp.", DisplayText("Glorp.", ModeNormal, "Hmm.. "))
	assert.Equal(t, "Hmm.. Glorp.", DisplayText("Glorp.", ModeThinking, "Hmm.. "))
}
