package ux

import (
	"context"
	"fmt"
	"sync"

	"glorp/internal/logging"
	"glorp/internal/store"
)

// Theme is the colour scheme of the chat.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Toggle returns the other theme.
func (t Theme) Toggle() Theme {
	if t == ThemeLight {
		return ThemeDark
	}
	return ThemeLight
}

// ParseTheme validates a theme name.
func ParseTheme(s string) (Theme, error) {
	switch Theme(s) {
	case ThemeLight, ThemeDark:
		return Theme(s), nil
	}
	return "", fmt.Errorf("unknown theme: %q (valid: light, dark)", s)
}

// Mode changes how replies are framed.
type Mode string

const (
	ModeNormal   Mode = "normal"
	ModeThinking Mode = "thinking" // replies open with a hesitation
)

// Toggle returns the other mode.
func (m Mode) Toggle() Mode {
	if m == ModeThinking {
		return ModeNormal
	}
	return ModeThinking
}

// ParseMode validates a mode name.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeNormal, ModeThinking:
		return Mode(s), nil
	}
	return "", fmt.Errorf("unknown mode: %q (valid: normal, thinking)", s)
}

// Preferences are the user-facing display settings.
type Preferences struct {
	Theme Theme
	Mode  Mode
}

// SettingsStore is the slice of store.ChatStore preferences need.
type SettingsStore interface {
	GetSetting(ctx context.Context, key string) (string, bool, error)
	PutSetting(ctx context.Context, key, value string) error
}

// PreferencesManager loads and saves preferences through a settings store.
type PreferencesManager struct {
	mu       sync.RWMutex
	settings SettingsStore
	defaults Preferences
	prefs    Preferences
}

// NewPreferencesManager creates a manager falling back to defaults for
// settings never saved.
func NewPreferencesManager(settings SettingsStore, defaults Preferences) *PreferencesManager {
	return &PreferencesManager{settings: settings, defaults: defaults, prefs: defaults}
}

// Load reads stored preferences. Unreadable or invalid values keep defaults.
func (pm *PreferencesManager) Load(ctx context.Context) error {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	pm.prefs = pm.defaults
	if v, ok, err := pm.settings.GetSetting(ctx, store.SettingTheme); err != nil {
		return fmt.Errorf("failed to load theme: %w", err)
	} else if ok {
		if t, err := ParseTheme(v); err == nil {
			pm.prefs.Theme = t
		} else {
			logging.Get(logging.CategoryUX).Warn("ignoring stored theme: %v", err)
		}
	}
	if v, ok, err := pm.settings.GetSetting(ctx, store.SettingMode); err != nil {
		return fmt.Errorf("failed to load mode: %w", err)
	} else if ok {
		if m, err := ParseMode(v); err == nil {
			pm.prefs.Mode = m
		} else {
			logging.Get(logging.CategoryUX).Warn("ignoring stored mode: %v", err)
		}
	}
	return nil
}

// Get returns the current preferences.
func (pm *PreferencesManager) Get() Preferences {
	pm.mu.RLock()
	defer pm.mu.RUnlock()
	return pm.prefs
}

// SetTheme changes and persists the theme.
func (pm *PreferencesManager) SetTheme(ctx context.Context, t Theme) error {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	if err := pm.settings.PutSetting(ctx, store.SettingTheme, string(t)); err != nil {
		return err
	}
	pm.prefs.Theme = t
	logging.Get(logging.CategoryUX).Debug("theme set to %s", t)
	return nil
}

// SetMode changes and persists the mode.
func (pm *PreferencesManager) SetMode(ctx context.Context, m Mode) error {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	if err := pm.settings.PutSetting(ctx, store.SettingMode, string(m)); err != nil {
		return err
	}
	pm.prefs.Mode = m
	logging.Get(logging.CategoryUX).Debug("mode set to %s", m)
	return nil
}
