package chat

import (
	"strings"

	"glorp/cmd/glorp/ui"
	"glorp/internal/store"
	"glorp/internal/ux"
)

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder

	header := m.styles.Header.Render("Glorp") + " " + m.styles.Muted.Render(m.chat.Title)
	if m.prefs.Get().Mode == ux.ModeThinking {
		header += " " + m.styles.Badge.Render("thinking")
	}
	b.WriteString(header + "\n")
	b.WriteString(m.viewport.View() + "\n")

	switch {
	case m.phase == phaseWaiting:
		b.WriteString(m.styles.Spinner.Render(m.spinner.View()) + m.styles.Muted.Render(" Glorp is thinking...") + "\n")
	case m.err != nil:
		b.WriteString(m.styles.Error.Render("Error: "+m.err.Error()) + "\n")
	case m.status != "":
		b.WriteString(m.styles.Muted.Render(m.status) + "\n")
	default:
		b.WriteString("\n")
	}

	b.WriteString(m.input.View() + "\n")
	b.WriteString(m.styles.Footer.Render("Enter send • Esc stop • Tab mode • Ctrl+N new • Ctrl+T theme • Ctrl+C quit"))
	return b.String()
}

func (m Model) renderOptions() ui.RenderOptions {
	return ui.RenderOptions{
		Styles:   m.styles,
		Markdown: m.cfg.Markdown,
		Width:    max(m.width-4, 0),
	}
}

func (m *Model) refreshViewport() {
	m.viewport.SetContent(m.renderHistory())
	m.viewport.GotoBottom()
}

func (m Model) renderHistory() string {
	var blocks []string
	if len(m.chat.Messages) == 0 && m.playback == nil {
		blocks = append(blocks, ui.Logo(m.styles))
	}
	for _, msg := range m.chat.Messages {
		blocks = append(blocks, m.renderMessage(msg))
	}
	if m.playback != nil {
		blocks = append(blocks, m.styles.Title.Render("glorp ›")+"\n"+m.renderPlayback())
	}
	return strings.Join(blocks, "\n\n")
}

func (m Model) renderMessage(msg store.Message) string {
	if msg.Role == store.RoleUser {
		return m.styles.Prompt.Render("you ›") + " " + m.styles.UserMessage.Render(msg.Content)
	}

	var body string
	var err error
	if msg.Reply != nil {
		reply := *msg.Reply
		reply.Text = msg.Content
		body, err = ui.RenderReply(reply, m.renderOptions())
	} else {
		body, err = ui.RenderText(msg.Content, m.renderOptions())
	}
	if err != nil {
		body = msg.Content
	}
	if msg.Partial {
		body += "\n" + m.styles.Partial.Render("(stopped)")
	}
	return m.styles.Title.Render("glorp ›") + "\n" + body
}

// renderPlayback draws the part of the reply typed so far.
func (m Model) renderPlayback() string {
	p := m.playback
	opts := m.renderOptions()

	before, _ := ux.SplitForCode(p.text, p.reply.CodeBlockPosition)
	visible := p.shown.Visible
	lead, tail := visible, ""
	if p.reply.HasCodeBlock && len(visible) > len(before) {
		lead, tail = before, strings.TrimLeft(visible[len(before):], "\n")
	}

	var parts []string
	if out, _ := ui.RenderText(lead, opts); out != "" {
		parts = append(parts, out)
	}
	if p.shown.CodeVisible {
		parts = append(parts, ui.RenderCode(p.reply.CodeBlock, m.styles))
	}
	if out, _ := ui.RenderText(tail, opts); out != "" {
		parts = append(parts, out)
	}
	return strings.Join(parts, "\n\n")
}
