package ux

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"glorp/internal/store"
)

type memSettings struct {
	values map[string]string
	err    error
}

func (m *memSettings) GetSetting(_ context.Context, key string) (string, bool, error) {
	if m.err != nil {
		return "", false, m.err
	}
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *memSettings) PutSetting(_ context.Context, key, value string) error {
	if m.err != nil {
		return m.err
	}
	m.values[key] = value
	return nil
}

var defaults = Preferences{Theme: ThemeDark, Mode: ModeNormal}

func TestPreferencesManager_Defaults(t *testing.T) {
	pm := NewPreferencesManager(&memSettings{values: map[string]string{}}, defaults)
	require.NoError(t, pm.Load(context.Background()))
	assert.Equal(t, defaults, pm.Get())
}

func TestPreferencesManager_LoadStored(t *testing.T) {
	settings := &memSettings{values: map[string]string{
		store.SettingTheme: "light",
		store.SettingMode:  "thinking",
	}}
	pm := NewPreferencesManager(settings, defaults)
	require.NoError(t, pm.Load(context.Background()))
	assert.Equal(t, Preferences{Theme: ThemeLight, Mode: ModeThinking}, pm.Get())
}

func TestPreferencesManager_InvalidStoredValuesIgnored(t *testing.T) {
	settings := &memSettings{values: map[string]string{
		store.SettingTheme: "sepia",
		store.SettingMode:  "shouting",
	}}
	pm := NewPreferencesManager(settings, defaults)
	require.NoError(t, pm.Load(context.Background()))
	assert.Equal(t, defaults, pm.Get())
}

func TestPreferencesManager_SetPersists(t *testing.T) {
	ctx := context.Background()
	settings := &memSettings{values: map[string]string{}}
	pm := NewPreferencesManager(settings, defaults)

	require.NoError(t, pm.SetTheme(ctx, ThemeLight))
	require.NoError(t, pm.SetMode(ctx, ModeThinking))
	assert.Equal(t, "light", settings.values[store.SettingTheme])
	assert.Equal(t, "thinking", settings.values[store.SettingMode])

	reloaded := NewPreferencesManager(settings, defaults)
	require.NoError(t, reloaded.Load(ctx))
	assert.Equal(t, pm.Get(), reloaded.Get())
}

func TestPreferencesManager_Errors(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("boom")
	pm := NewPreferencesManager(&memSettings{values: map[string]string{}, err: boom}, defaults)

	assert.ErrorIs(t, pm.Load(ctx), boom)
	assert.ErrorIs(t, pm.SetTheme(ctx, ThemeLight), boom)
	assert.Equal(t, ThemeDark, pm.Get().Theme)
}

func TestToggleAndParse(t *testing.T) {
	assert.Equal(t, ThemeLight, ThemeDark.Toggle())
	assert.Equal(t, ThemeDark, ThemeLight.Toggle())
	assert.Equal(t, ModeThinking, ModeNormal.Toggle())
	assert.Equal(t, ModeNormal, ModeThinking.Toggle())

	_, err := ParseTheme("sepia")
	assert.Error(t, err)
	m, err := ParseMode("thinking")
	require.NoError(t, err)
	assert.Equal(t, ModeThinking, m)
}
