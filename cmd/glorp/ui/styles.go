// Package ui provides the visual styling for the glorp terminal chat.
// Colours follow the web client's palette with light/dark mode support.
package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"glorp/internal/ux"
)

var (
	white       = lipgloss.Color("#ffffff")
	destructive = lipgloss.Color("#e53935")

	// Pseudo-code roles look the same in both modes.
	roleKeyword  = lipgloss.Color("#c678dd")
	roleFunction = lipgloss.Color("#61afef")
	roleOperator = lipgloss.Color("#56b6c2")
	roleNumber   = lipgloss.Color("#d19a66")
	roleBracket  = lipgloss.Color("#e5c07b")
)

// Theme is one colour scheme.
type Theme struct {
	Name       ux.Theme
	Background lipgloss.Color
	Foreground lipgloss.Color
	Primary    lipgloss.Color // glorp purple
	Accent     lipgloss.Color // slime green
	Muted      lipgloss.Color
	Border     lipgloss.Color
	Card       lipgloss.Color
	UserBubble lipgloss.Color
	IsDark     bool
}

var (
	lightTheme = Theme{
		Name:       ux.ThemeLight,
		Background: "#f7f3ff",
		Foreground: "#2d2140",
		Primary:    "#7b3fe4",
		Accent:     "#2bb673",
		Muted:      "#8a7fa0",
		Border:     "#d9cff0",
		Card:       "#ffffff",
		UserBubble: "#ece4fb",
	}
	darkTheme = Theme{
		Name:       ux.ThemeDark,
		Background: "#17121f",
		Foreground: "#efeaf7",
		Primary:    "#b08cff",
		Accent:     "#5fe0a0",
		Muted:      "#7d7190",
		Border:     "#3a2f4d",
		Card:       "#211a2c",
		UserBubble: "#2e2440",
		IsDark:     true,
	}
)

func LightTheme() Theme { return lightTheme }
func DarkTheme() Theme  { return darkTheme }

// ThemeFor maps a preference to its palette. Anything but light is dark.
func ThemeFor(t ux.Theme) Theme {
	if t == ux.ThemeLight {
		return lightTheme
	}
	return darkTheme
}

// Styles is every lipgloss style the chat and CLI render with.
type Styles struct {
	Theme Theme

	Header, Footer lipgloss.Style

	Title, Body, Muted, Error lipgloss.Style

	UserMessage, GlorpMessage, Partial lipgloss.Style

	CodeBlock, CodeHeader                       lipgloss.Style
	Keyword, Function, Operator, Number, Bracket lipgloss.Style

	Prompt, Spinner, Divider, Badge lipgloss.Style
}

// NewStyles derives the style set for theme.
func NewStyles(theme Theme) Styles {
	fg := func(c lipgloss.Color) lipgloss.Style { return lipgloss.NewStyle().Foreground(c) }
	banner := func(bg lipgloss.Color, pad int) lipgloss.Style {
		return lipgloss.NewStyle().Background(bg).Foreground(white).Padding(0, pad).Bold(true)
	}

	return Styles{
		Theme: theme,

		Header: banner(theme.Primary, 2),
		Footer: fg(theme.Muted).Padding(0, 2),

		Title: fg(theme.Primary).Bold(true),
		Body:  fg(theme.Foreground),
		Muted: fg(theme.Muted),
		Error: fg(destructive).Bold(true),

		UserMessage: fg(theme.Foreground).Background(theme.UserBubble).Padding(0, 1),
		GlorpMessage: fg(theme.Foreground).
			PaddingLeft(2).
			Border(lipgloss.ThickBorder(), false, false, false, true).
			BorderForeground(theme.Accent),
		Partial: fg(theme.Muted).Italic(true),

		CodeBlock: fg(theme.Foreground).
			Background(theme.Card).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border),
		CodeHeader: fg(theme.Muted).Italic(true),
		Keyword:    fg(roleKeyword).Bold(true),
		Function:   fg(roleFunction),
		Operator:   fg(roleOperator),
		Number:     fg(roleNumber),
		Bracket:    fg(roleBracket),

		Prompt:  fg(theme.Accent).Bold(true),
		Spinner: fg(theme.Accent),
		Divider: fg(theme.Border),
		Badge:   banner(theme.Accent, 1),
	}
}

// Logo returns the glorp banner
func Logo(s Styles) string {
	logo := `
   ___ _
  / __| |___ _ _ _ __
 | (_ | / _ \ '_| '_ \
  \___|_\___/_| | .__/
                |_|
`
	return s.Title.Render(logo)
}

// RenderDivider returns a horizontal divider
func (s Styles) RenderDivider(width int) string {
	if width < 1 {
		width = 1
	}
	return s.Divider.Render(strings.Repeat("─", width))
}
