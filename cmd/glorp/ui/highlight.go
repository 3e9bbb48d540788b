package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"glorp/internal/lexicon"
)

// roleStyle picks the style for a code role; plain text gets the body style.
func (s Styles) roleStyle(role lexicon.Role) lipgloss.Style {
	switch role {
	case lexicon.RoleKeyword:
		return s.Keyword
	case lexicon.RoleFunction:
		return s.Function
	case lexicon.RoleOperator:
		return s.Operator
	case lexicon.RoleNumber:
		return s.Number
	case lexicon.RoleBracket:
		return s.Bracket
	default:
		return s.Body
	}
}

// Highlight renders pseudo-code markup with one style per role. Styles are
// applied per line so the result can be boxed without bleeding.
func Highlight(markup string, s Styles) string {
	var b strings.Builder
	for _, seg := range lexicon.Segments(markup) {
		style := s.roleStyle(seg.Role)
		lines := strings.Split(seg.Text, "\n")
		for i, line := range lines {
			if i > 0 {
				b.WriteByte('\n')
			}
			if line == "" {
				continue
			}
			if strings.TrimSpace(line) == "" {
				b.WriteString(line)
				continue
			}
			b.WriteString(style.Render(line))
		}
	}
	return b.String()
}
