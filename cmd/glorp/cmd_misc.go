package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"glorp/internal/types"
	"glorp/internal/ux"
)

// schemaCmd prints the reply JSON schema
var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON schema of a reply",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := types.ReplySchema()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	},
}

// themeCmd reads or sets the stored theme
var themeCmd = &cobra.Command{
	Use:       "theme [light|dark]",
	Short:     "Show or set the chat theme",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{string(ux.ThemeLight), string(ux.ThemeDark)},
	RunE:      runTheme,
}

func runTheme(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	st, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	prefs := ux.NewPreferencesManager(st, defaultPreferences())
	if err := prefs.Load(ctx); err != nil {
		return err
	}

	if len(args) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), prefs.Get().Theme)
		return nil
	}
	theme, err := ux.ParseTheme(args[0])
	if err != nil {
		return err
	}
	if err := prefs.SetTheme(ctx, theme); err != nil {
		return fmt.Errorf("failed to save theme: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Theme set to %s\n", theme)
	return nil
}

// defaultPreferences are the configured preferences, used until the user
// changes them.
func defaultPreferences() ux.Preferences {
	prefs := ux.Preferences{Theme: ux.ThemeDark, Mode: ux.ModeNormal}
	if t, err := ux.ParseTheme(cfg.UX.Theme); err == nil {
		prefs.Theme = t
	}
	if m, err := ux.ParseMode(cfg.UX.Mode); err == nil {
		prefs.Mode = m
	}
	return prefs
}
