package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"glorp/cmd/glorp/ui"
	"glorp/internal/lexicon"
	"glorp/internal/perception"
	"glorp/internal/session"
	"glorp/internal/store"
	"glorp/internal/types"
	"glorp/internal/ux"
)

var (
	askJSON    bool
	askSeed    int64
	askExplain bool
	askChatID  string
)

// askCmd answers a single message
var askCmd = &cobra.Command{
	Use:   "ask [message...]",
	Short: "Get a single reply from Glorp",
	Long: `Sends one message and prints the reply.

With --chat the message continues a stored conversation: earlier messages
are replayed so follow-ups like "fix it" pick up the previous style, and
both sides of the exchange are saved.

Examples:
  glorp ask write me a program
  glorp ask --json --seed 42 give me a list
  glorp ask --chat chat_1234 now fix it`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().BoolVar(&askJSON, "json", false, "Print the reply as JSON")
	askCmd.Flags().Int64Var(&askSeed, "seed", 0, "Random seed (default: config, then clock)")
	askCmd.Flags().BoolVar(&askExplain, "explain", false, "Show which keyword shaped the reply")
	askCmd.Flags().StringVar(&askChatID, "chat", "", "Continue a stored chat")
}

// askOutput is the --json shape: the reply plus, with --explain, how its
// style was chosen.
type askOutput struct {
	types.Reply
	PlainCode  string                 `json:"plain_code,omitempty"` // code block without markup, for copying
	Resolution *perception.Resolution `json:"resolution,omitempty"`
	Style      *types.Style           `json:"style,omitempty"`
}

func runAsk(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	message := strings.Join(args, " ")
	engine := newEngine(askSeed)

	state := session.New()
	var st store.ChatStore
	if askChatID != "" {
		var err error
		st, err = openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		chat, err := st.GetChat(ctx, askChatID)
		if err != nil {
			return fmt.Errorf("failed to load chat %s: %w", askChatID, err)
		}
		state = engine.ReplayTurns(chat.Turns())
	}

	reply, resolution, err := engine.RespondTrace(message, state)
	if err != nil {
		return err
	}
	logger.Debug("Reply composed",
		zap.String("format", string(reply.FormatKind)),
		zap.String("keyword", resolution.Keyword),
		zap.Bool("code", reply.HasCodeBlock))

	mode, err := ux.ParseMode(cfg.UX.Mode)
	if err != nil {
		mode = ux.ModeNormal
	}
	text := ux.DisplayText(reply.Text, mode, cfg.Engine.ThinkingPrefix)

	if st != nil {
		if _, err := st.AppendMessage(ctx, askChatID, store.Message{Role: store.RoleUser, Content: message}); err != nil {
			return fmt.Errorf("failed to save message: %w", err)
		}
		if _, err := st.AppendMessage(ctx, askChatID, store.Message{
			Role:       store.RoleAssistant,
			Content:    text,
			Reply:      &reply,
			FormatKind: reply.FormatKind,
		}); err != nil {
			return fmt.Errorf("failed to save reply: %w", err)
		}
	}

	out := cmd.OutOrStdout()
	if askJSON {
		payload := askOutput{Reply: reply}
		payload.Text = text
		if reply.HasCodeBlock {
			payload.PlainCode = lexicon.PlainCode(reply.CodeBlock)
		}
		if askExplain {
			payload.Resolution = &resolution
			payload.Style = state.LastStyle
		}
		data, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode reply: %w", err)
		}
		fmt.Fprintln(out, string(data))
		return nil
	}

	styles := ui.NewStyles(ui.ThemeFor(ux.Theme(cfg.UX.Theme)))
	shown := reply
	shown.Text = text
	rendered, err := ui.RenderReply(shown, ui.RenderOptions{Styles: styles, Markdown: cfg.UX.Markdown, Width: 80})
	if err != nil {
		return err
	}
	fmt.Fprintln(out, rendered)

	if askExplain {
		fmt.Fprintln(out)
		fmt.Fprintln(out, styles.Muted.Render(explain(resolution, state.LastStyle)))
	}
	return nil
}

func explain(r perception.Resolution, style *types.Style) string {
	var b strings.Builder
	switch r.Source {
	case perception.SourceDefault:
		b.WriteString("No keyword matched; default style.")
	default:
		fmt.Fprintf(&b, "Keyword %q (%s).", r.Keyword, r.Source)
	}
	var others []string
	for _, kw := range r.Matched {
		if kw != r.Keyword {
			others = append(others, kw)
		}
	}
	if len(others) > 0 {
		fmt.Fprintf(&b, " Also matched: %s.", strings.Join(others, ", "))
	}
	if style != nil {
		fmt.Fprintf(&b, "\nFormat %s, length x%.2f, code %s.", style.FormatKind, style.WordCountMultiplier, style.CodeBlockSize)
	}
	return b.String()
}
