package ui

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"glorp/internal/lexicon"
	"glorp/internal/types"
)

func TestHighlight_PreservesCode(t *testing.T) {
	s := NewStyles(LightTheme())
	for seed := int64(0); seed < 10; seed++ {
		markup := lexicon.NewGenerator(rand.New(rand.NewSource(seed))).CodeBlock(12)
		assert.Equal(t, lexicon.PlainCode(markup), ansi.Strip(Highlight(markup, s)), "seed %d", seed)
	}
}

func TestHighlight_Empty(t *testing.T) {
	assert.Empty(t, Highlight("", NewStyles(DarkTheme())))
}

func TestRenderReply_NoCode(t *testing.T) {
	opts := RenderOptions{Styles: NewStyles(DarkTheme())}
	reply := types.Reply{Text: "Glorp blorp.", FormatKind: types.FormatText, CodeBlockPosition: types.PositionNone}

	out, err := RenderReply(reply, opts)
	require.NoError(t, err)
	assert.Equal(t, "Glorp blorp.", ansi.Strip(out))
}

func TestRenderReply_Placement(t *testing.T) {
	markup := `<span class="code-function">snorp</span><span class="code-bracket">()</span>;`
	opts := RenderOptions{Styles: NewStyles(DarkTheme())}

	tests := []struct {
		position types.CodeBlockPosition
		order    []string
	}{
		{types.PositionStart, []string{CodeLanguage, "Frunk.", "Glorp."}},
		{types.PositionMiddle, []string{"Frunk.", CodeLanguage, "Glorp."}},
		{types.PositionEnd, []string{"Frunk.", "Glorp.", CodeLanguage}},
	}
	for _, tt := range tests {
		t.Run(string(tt.position), func(t *testing.T) {
			reply := types.Reply{
				Text:              "Frunk.\n\nGlorp.",
				HasCodeBlock:      true,
				CodeBlock:         markup,
				CodeBlockPosition: tt.position,
				FormatKind:        types.FormatCode,
			}
			out, err := RenderReply(reply, opts)
			require.NoError(t, err)
			plain := ansi.Strip(out)
			assert.Contains(t, plain, "snorp();")

			last := -1
			for _, want := range tt.order {
				idx := strings.Index(plain, want)
				require.GreaterOrEqual(t, idx, 0, "missing %q in %q", want, plain)
				assert.Greater(t, idx, last, "%q out of order in %q", want, plain)
				last = idx
			}
		})
	}
}

func TestRenderText_Markdown(t *testing.T) {
	opts := RenderOptions{Styles: NewStyles(LightTheme()), Markdown: true, Width: 60}
	out, err := RenderText("Glorp **blorp** frunk.", opts)
	require.NoError(t, err)
	plain := ansi.Strip(out)
	assert.Contains(t, plain, "blorp")
	assert.NotContains(t, plain, "**")

	// Renderers are cached per theme and width.
	r1, err := markdownRenderer(opts.Styles.Theme.Name, 60)
	require.NoError(t, err)
	r2, err := markdownRenderer(opts.Styles.Theme.Name, 60)
	require.NoError(t, err)
	assert.Same(t, r1, r2)
}

func TestRenderText_Empty(t *testing.T) {
	out, err := RenderText("", RenderOptions{Styles: NewStyles(DarkTheme()), Markdown: true})
	require.NoError(t, err)
	assert.Empty(t, out)
}
