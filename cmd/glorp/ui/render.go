package ui

import (
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"

	"glorp/internal/types"
	"glorp/internal/ux"
)

// CodeLanguage is the label shown above every code block.
const CodeLanguage = "glorpscript"

// RenderOptions controls how a reply is drawn.
type RenderOptions struct {
	Styles   Styles
	Markdown bool // render text through glamour
	Width    int  // wrap width; 0 leaves text unwrapped
}

type rendererKey struct {
	theme ux.Theme
	width int
}

var (
	renderersMu sync.Mutex
	renderers   = map[rendererKey]*glamour.TermRenderer{}
)

// markdownRenderer returns a cached glamour renderer for the theme and width.
func markdownRenderer(theme ux.Theme, width int) (*glamour.TermRenderer, error) {
	renderersMu.Lock()
	defer renderersMu.Unlock()

	key := rendererKey{theme: theme, width: width}
	if r, ok := renderers[key]; ok {
		return r, nil
	}
	opts := []glamour.TermRendererOption{glamour.WithStylePath(string(theme))}
	if width > 0 {
		opts = append(opts, glamour.WithWordWrap(width))
	}
	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create markdown renderer: %w", err)
	}
	renderers[key] = r
	return r, nil
}

// RenderText draws reply text, plain or as markdown.
func RenderText(text string, opts RenderOptions) (string, error) {
	if text == "" {
		return "", nil
	}
	if !opts.Markdown {
		style := opts.Styles.Body
		if opts.Width > 0 {
			style = style.Width(opts.Width)
		}
		return style.Render(text), nil
	}
	r, err := markdownRenderer(opts.Styles.Theme.Name, opts.Width)
	if err != nil {
		return "", err
	}
	out, err := r.Render(text)
	if err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return strings.Trim(out, "\n"), nil
}

// RenderCode boxes a highlighted code block under its language label.
func RenderCode(markup string, s Styles) string {
	return s.CodeHeader.Render(CodeLanguage) + "\n" + s.CodeBlock.Render(Highlight(markup, s))
}

// RenderReply draws a full reply with its code block placed per the reply's
// position tag.
func RenderReply(reply types.Reply, opts RenderOptions) (string, error) {
	if !reply.HasCodeBlock {
		return RenderText(reply.Text, opts)
	}

	before, after := ux.SplitForCode(reply.Text, reply.CodeBlockPosition)
	var parts []string
	for _, piece := range []struct {
		text string
		code bool
	}{{text: before}, {code: true}, {text: after}} {
		if piece.code {
			parts = append(parts, RenderCode(reply.CodeBlock, opts.Styles))
			continue
		}
		rendered, err := RenderText(piece.text, opts)
		if err != nil {
			return "", err
		}
		if rendered != "" {
			parts = append(parts, rendered)
		}
	}
	return strings.Join(parts, "\n\n"), nil
}
