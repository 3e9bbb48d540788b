package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"glorp/cmd/glorp/ui"
	"glorp/internal/lexicon"
	"glorp/internal/session"
	"glorp/internal/store"
	"glorp/internal/ux"
)

// chatsCmd manages stored chats
var chatsCmd = &cobra.Command{
	Use:   "chats",
	Short: "List, show and delete stored chats",
}

var chatsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List chats, most recent first",
	Args:  cobra.NoArgs,
	RunE:  listChats,
}

var chatsShowPlain bool

var chatsShowCmd = &cobra.Command{
	Use:   "show [chat-id]",
	Short: "Print a chat transcript",
	Long: `Prints a chat transcript with highlighted code.

With --plain nothing is styled and code blocks are printed as bare text,
ready to copy.`,
	Args:  cobra.ExactArgs(1),
	RunE:  showChat,
}

var chatsDeleteCmd = &cobra.Command{
	Use:   "delete [chat-id]",
	Short: "Delete a chat",
	Args:  cobra.ExactArgs(1),
	RunE:  deleteChat,
}

func init() {
	chatsCmd.AddCommand(chatsListCmd)
	chatsCmd.AddCommand(chatsShowCmd)
	chatsCmd.AddCommand(chatsDeleteCmd)

	chatsShowCmd.Flags().BoolVar(&chatsShowPlain, "plain", false, "Print without styling, code as plain text")
}

func cliStyles() ui.Styles {
	return ui.NewStyles(ui.ThemeFor(ux.Theme(cfg.UX.Theme)))
}

func listChats(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	st, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	chats, err := st.ListChats(ctx)
	if err != nil {
		return fmt.Errorf("failed to list chats: %w", err)
	}
	if len(chats) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No chats yet.")
		return nil
	}

	table := ui.NewTable("", "ID", "Title", "Messages", "Updated")
	for _, c := range chats {
		table.AddRow(c.ID, c.Title, strconv.Itoa(len(c.Messages)), c.LastUpdated.Local().Format("2006-01-02 15:04"))
	}
	fmt.Fprint(cmd.OutOrStdout(), table.View(cliStyles()))
	return nil
}

func showChat(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	st, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	chat, err := st.GetChat(ctx, args[0])
	if err != nil {
		return fmt.Errorf("failed to load chat %s: %w", args[0], err)
	}
	if chatsShowPlain {
		printPlainChat(cmd.OutOrStdout(), chat)
		return nil
	}

	styles := cliStyles()
	opts := ui.RenderOptions{Styles: styles, Markdown: cfg.UX.Markdown, Width: 80}
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, styles.Title.Render(chat.Title))
	for _, msg := range chat.Messages {
		fmt.Fprintln(out)
		if msg.Role == store.RoleUser {
			fmt.Fprintln(out, styles.Prompt.Render("you ›")+" "+msg.Content)
			continue
		}
		body := msg.Content
		if msg.Reply != nil {
			reply := *msg.Reply
			reply.Text = msg.Content
			if body, err = ui.RenderReply(reply, opts); err != nil {
				return err
			}
		}
		if msg.Partial {
			body += " " + styles.Partial.Render("(stopped)")
		}
		fmt.Fprintln(out, styles.Title.Render("glorp ›"))
		fmt.Fprintln(out, body)
	}

	state := session.Rebuild(chat.UserMessages())
	fmt.Fprintln(out)
	fmt.Fprintln(out, styles.Muted.Render(fmt.Sprintf("%d turns, length x%.2f", state.TurnCount, state.ChatLengthMultiplier)))
	return nil
}

// printPlainChat writes the transcript as unstyled text. Code sits where the
// reply placed it.
func printPlainChat(out io.Writer, chat *store.Chat) {
	fmt.Fprintln(out, chat.Title)
	for _, msg := range chat.Messages {
		fmt.Fprintln(out)
		if msg.Role == store.RoleUser {
			fmt.Fprintf(out, "you: %s\n", msg.Content)
			continue
		}
		body := msg.Content
		if msg.Reply != nil && msg.Reply.HasCodeBlock {
			before, after := ux.SplitForCode(msg.Content, msg.Reply.CodeBlockPosition)
			var parts []string
			for _, p := range []string{before, lexicon.PlainCode(msg.Reply.CodeBlock), after} {
				if p != "" {
					parts = append(parts, p)
				}
			}
			body = strings.Join(parts, "\n\n")
		}
		if msg.Partial {
			body += " (stopped)"
		}
		fmt.Fprintf(out, "glorp: %s\n", body)
	}
}

func deleteChat(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	st, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	if err := st.DeleteChat(ctx, args[0]); err != nil {
		return fmt.Errorf("failed to delete chat %s: %w", args[0], err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
	return nil
}
