package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"glorp/cmd/glorp/chat"
	"glorp/internal/logging"
	"glorp/internal/ux"
)

// runInteractiveChat starts the chat TUI.
func runInteractiveChat(ctx context.Context) error {
	st, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	prefs := ux.NewPreferencesManager(st, defaultPreferences())
	if err := prefs.Load(ctx); err != nil {
		logger.Warn("Using default preferences", zap.Error(err))
	}

	model, err := chat.New(ctx, newEngine(0), st, prefs, chat.Config{
		ThinkingPrefix: cfg.Engine.ThinkingPrefix,
		Typing:         cfg.UX.Typing,
		Markdown:       cfg.UX.Markdown,
		ResponseDelay:  cfg.GetResponseDelay(),
		Seed:           cfg.Engine.Seed,
	})
	if err != nil {
		return err
	}

	if logging.IsDebugMode() {
		logger.Info("Debug log enabled", zap.String("path", cfg.Logging.FilePath()))
	}

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("chat failed: %w", err)
	}
	return nil
}
