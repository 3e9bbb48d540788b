package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Table renders static rows, used for chat listings and simulation reports.
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
}

// NewTable creates a table with the given title and headers.
func NewTable(title string, headers ...string) *Table {
	return &Table{Title: title, Headers: headers}
}

// AddRow adds a row. Cells beyond the header count are dropped.
func (t *Table) AddRow(cells ...string) {
	t.Rows = append(t.Rows, cells)
}

// View renders the table. An empty table renders as nothing.
func (t *Table) View(s Styles) string {
	if len(t.Rows) == 0 {
		return ""
	}

	widths := make([]int, len(t.Headers))
	for i, h := range t.Headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range t.Rows {
		for i, cell := range row {
			if i < len(widths) {
				widths[i] = max(widths[i], lipgloss.Width(cell))
			}
		}
	}

	header := s.Title.Padding(0, 1)
	cell := s.Body.Padding(0, 1)
	sep := s.Muted.Render("│")

	var sb strings.Builder
	if t.Title != "" {
		sb.WriteString(s.Title.Render(t.Title) + "\n")
	}

	line := func(style lipgloss.Style, cells []string) {
		rendered := make([]string, len(widths))
		for i := range widths {
			v := ""
			if i < len(cells) {
				v = cells[i]
			}
			rendered[i] = style.Width(widths[i] + 2).Render(v)
		}
		sb.WriteString(strings.Join(rendered, sep) + "\n")
	}

	line(header, t.Headers)
	total := len(widths) - 1
	for _, w := range widths {
		total += w + 2
	}
	sb.WriteString(s.Muted.Render(strings.Repeat("─", total)) + "\n")
	for _, row := range t.Rows {
		line(cell, row)
	}
	return sb.String()
}
