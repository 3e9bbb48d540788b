// Package chat implements the interactive glorp chat interface.
package chat

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"glorp/cmd/glorp/ui"
	"glorp/internal/core"
	"glorp/internal/logging"
	"glorp/internal/session"
	"glorp/internal/store"
	"glorp/internal/types"
	"glorp/internal/ux"
)

// Config holds configuration for the chat interface.
type Config struct {
	ThinkingPrefix string
	Typing         bool
	Markdown       bool
	ResponseDelay  time.Duration
	// Seed for playback timing. 0 seeds from the clock.
	Seed int64
}

// phase is where the current turn stands.
type phase int

const (
	phaseIdle    phase = iota
	phaseWaiting       // reply computed, response delay running
	phaseTyping        // playing back frames
)

// playback is a reply being typed out.
type playback struct {
	reply  types.Reply
	text   string // display text, mode prefix applied
	frames []ux.Frame
	next   int
	shown  ux.Frame
}

// Model is the main model for the interactive chat interface
type Model struct {
	// UI Components
	input    textinput.Model
	viewport viewport.Model
	spinner  spinner.Model
	styles   ui.Styles

	// Backend
	ctx    context.Context
	engine *core.Engine
	store  store.ChatStore
	prefs  *ux.PreferencesManager
	cfg    Config
	rng    *rand.Rand

	// State
	chat     *store.Chat
	state    *session.State
	phase    phase
	gen      int // bumped whenever pending timers must be dropped
	pending  types.Reply
	playback *playback
	status   string
	err      error
	width    int
	height   int
}

// Messages for tea updates
type (
	replyReadyMsg struct{ gen int }
	frameMsg      struct{ gen int }
)

// New builds the chat model, resuming the last open chat when there is one.
func New(ctx context.Context, engine *core.Engine, st store.ChatStore, prefs *ux.PreferencesManager, cfg Config) (Model, error) {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	input := textinput.New()
	input.Placeholder = "Say something to Glorp..."
	input.Prompt = "› "
	input.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := Model{
		input:    input,
		viewport: viewport.New(80, 20),
		spinner:  sp,
		styles:   ui.NewStyles(ui.ThemeFor(prefs.Get().Theme)),
		ctx:      ctx,
		engine:   engine,
		store:    st,
		prefs:    prefs,
		cfg:      cfg,
		rng:      rand.New(rand.NewSource(seed)),
	}

	chat, err := m.resumeChat()
	if err != nil {
		return Model{}, err
	}
	m.chat = chat
	m.state = engine.ReplayTurns(chat.Turns())
	m.rememberChat()
	m.refreshViewport()

	logging.WithChat(logging.CategoryUX, chat.ID).Info("opened with %d messages", len(chat.Messages))
	return m, nil
}

// resumeChat loads the chat recorded as current, or starts a new one.
func (m Model) resumeChat() (*store.Chat, error) {
	id, ok, err := m.store.GetSetting(m.ctx, store.SettingCurrentChat)
	if err != nil {
		logging.Get(logging.CategoryUX).Warn("failed to read current chat: %v", err)
	}
	if ok && id != "" {
		chat, err := m.store.GetChat(m.ctx, id)
		if err == nil {
			return chat, nil
		}
		if !errors.Is(err, store.ErrChatNotFound) {
			logging.Get(logging.CategoryUX).Warn("failed to load chat %s: %v", id, err)
		}
	}
	chat, err := m.store.CreateChat(m.ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat: %w", err)
	}
	return chat, nil
}

func (m Model) rememberChat() {
	if err := m.store.PutSetting(m.ctx, store.SettingCurrentChat, m.chat.ID); err != nil {
		logging.Get(logging.CategoryUX).Warn("failed to remember current chat: %v", err)
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}
