package ui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"

	"glorp/internal/ux"
)

func TestThemeFor(t *testing.T) {
	if dark := ThemeFor(ux.ThemeDark); !dark.IsDark || dark.Name != ux.ThemeDark {
		t.Fatalf("expected dark theme, got %+v", dark)
	}
	if light := ThemeFor(ux.ThemeLight); light.IsDark || light.Name != ux.ThemeLight {
		t.Fatalf("expected light theme, got %+v", light)
	}
	if ThemeFor("sepia").Name != ux.ThemeDark {
		t.Fatalf("unknown themes should fall back to dark")
	}
}

func TestRenderDivider(t *testing.T) {
	s := NewStyles(DarkTheme())
	if got := ansi.Strip(s.RenderDivider(5)); got != strings.Repeat("─", 5) {
		t.Errorf("unexpected divider %q", got)
	}
	if got := ansi.Strip(s.RenderDivider(0)); got != "─" {
		t.Errorf("expected minimum width divider, got %q", got)
	}
}
