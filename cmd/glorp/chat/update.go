package chat

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"glorp/cmd/glorp/ui"
	"glorp/internal/logging"
	"glorp/internal/session"
	"glorp/internal/store"
	"glorp/internal/ux"
)

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.viewport.Width = max(msg.Width, 1)
		m.viewport.Height = max(msg.Height-5, 1)
		m.input.Width = max(msg.Width-4, 1)
		m.refreshViewport()
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case spinner.TickMsg:
		if m.phase != phaseWaiting {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case replyReadyMsg:
		if msg.gen != m.gen || m.phase != phaseWaiting {
			return m, nil
		}
		return m.startPlayback()

	case frameMsg:
		if msg.gen != m.gen || m.phase != phaseTyping {
			return m, nil
		}
		return m.advancePlayback()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// handleKeyMsg processes keyboard input.
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		m = m.stop()
		return m, tea.Quit

	case tea.KeyEsc, tea.KeyCtrlX:
		if m.phase == phaseIdle {
			return m, nil
		}
		m = m.stop()
		m.status = "Stopped."
		m.refreshViewport()
		return m, nil

	case tea.KeyTab:
		mode := m.prefs.Get().Mode.Toggle()
		if err := m.prefs.SetMode(m.ctx, mode); err != nil {
			m.err = err
		}
		m.status = "Mode: " + string(mode)
		return m, nil

	case tea.KeyCtrlT:
		theme := m.prefs.Get().Theme.Toggle()
		if err := m.prefs.SetTheme(m.ctx, theme); err != nil {
			m.err = err
		}
		m.styles = ui.NewStyles(ui.ThemeFor(theme))
		m.status = "Theme: " + string(theme)
		m.refreshViewport()
		return m, nil

	case tea.KeyCtrlN:
		return m.newChat(), nil

	case tea.KeyEnter:
		return m.send()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// send records the user's message, computes the reply and starts the
// response delay.
func (m Model) send() (tea.Model, tea.Cmd) {
	text := strings.TrimSpace(m.input.Value())
	if text == "" || m.phase != phaseIdle {
		return m, nil
	}
	m.input.Reset()
	m.status = ""
	m.err = nil

	m = m.appendMessage(store.Message{Role: store.RoleUser, Content: text})
	reply, err := m.engine.Respond(text, m.state)
	if err != nil {
		m.err = err
		return m, nil
	}

	m.pending = reply
	m.phase = phaseWaiting
	m.gen++
	m.refreshViewport()

	gen := m.gen
	delay := ux.ResponseDelay(m.cfg.ResponseDelay, m.rng)
	return m, tea.Batch(m.spinner.Tick, tea.Tick(delay, func(time.Time) tea.Msg {
		return replyReadyMsg{gen: gen}
	}))
}

func (m Model) startPlayback() (tea.Model, tea.Cmd) {
	text := ux.DisplayText(m.pending.Text, m.prefs.Get().Mode, m.cfg.ThinkingPrefix)
	m.playback = &playback{
		reply:  m.pending,
		text:   text,
		frames: ux.PlaybackPlan(text, m.pending, m.cfg.Typing, m.rng),
	}
	m.phase = phaseTyping
	if len(m.playback.frames) == 0 {
		return m.finishPlayback()
	}
	logging.Get(logging.CategoryUX).Debug("typing %d frames over %v",
		len(m.playback.frames), ux.TotalDuration(m.playback.frames))
	return m, m.nextFrame()
}

func (m Model) nextFrame() tea.Cmd {
	gen := m.gen
	return tea.Tick(m.playback.frames[m.playback.next].Delay, func(time.Time) tea.Msg {
		return frameMsg{gen: gen}
	})
}

func (m Model) advancePlayback() (tea.Model, tea.Cmd) {
	p := m.playback
	p.shown = p.frames[p.next]
	p.next++
	if p.next < len(p.frames) {
		m.refreshViewport()
		return m, m.nextFrame()
	}
	return m.finishPlayback()
}

// finishPlayback files the reply being typed as a complete message.
func (m Model) finishPlayback() (tea.Model, tea.Cmd) {
	p := m.playback
	reply := p.reply
	m = m.appendMessage(store.Message{
		Role:       store.RoleAssistant,
		Content:    p.text,
		Reply:      &reply,
		FormatKind: reply.FormatKind,
	})
	m.playback = nil
	m.phase = phaseIdle
	m.refreshViewport()
	return m, nil
}

// stop abandons the turn in flight. Text already typed is kept as a
// partial reply.
func (m Model) stop() Model {
	if m.phase == phaseTyping && m.playback != nil {
		if visible := strings.TrimSpace(m.playback.shown.Visible); visible != "" {
			m = m.appendMessage(store.Message{
				Role:       store.RoleAssistant,
				Content:    visible,
				FormatKind: m.playback.reply.FormatKind,
				Partial:    true,
			})
		}
	}
	m.playback = nil
	m.phase = phaseIdle
	m.gen++
	return m
}

// newChat saves anything in flight and switches to a fresh chat in
// normal mode.
func (m Model) newChat() Model {
	m = m.stop()
	chat, err := m.store.CreateChat(m.ctx)
	if err != nil {
		logging.Get(logging.CategoryUX).Warn("failed to create chat: %v", err)
		m.err = err
		now := time.Now()
		chat = &store.Chat{ID: store.NewChatID(), Title: store.DefaultTitle, CreatedAt: now, LastUpdated: now}
	}
	m.chat = chat
	m.state = session.New()
	m.rememberChat()
	if err := m.prefs.SetMode(m.ctx, ux.ModeNormal); err != nil {
		m.err = err
	}
	m.status = "New chat."
	m.refreshViewport()
	return m
}

// appendMessage stores msg; when the store fails the message is kept in
// memory so the conversation carries on.
func (m Model) appendMessage(msg store.Message) Model {
	chat, err := m.store.AppendMessage(m.ctx, m.chat.ID, msg)
	if err != nil {
		logging.Get(logging.CategoryUX).Warn("failed to save message: %v", err)
		m.err = err
		if msg.Timestamp.IsZero() {
			msg.Timestamp = time.Now()
		}
		local := *m.chat
		local.Messages = append(append([]store.Message(nil), m.chat.Messages...), msg)
		m.chat = &local
		return m
	}
	m.chat = chat
	return m
}
