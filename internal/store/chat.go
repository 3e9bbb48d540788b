package store

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"glorp/internal/config"
	"glorp/internal/session"
	"glorp/internal/types"

	"github.com/google/uuid"
)

// ErrChatNotFound is returned when a chat ID is unknown to the store.
var ErrChatNotFound = errors.New("chat not found")

const (
	// DefaultTitle names a chat until its first user message arrives.
	DefaultTitle = "New Glorp"

	titleRunes = 30
)

// Setting keys.
const (
	SettingTheme       = "theme"
	SettingMode        = "mode"
	SettingCurrentChat = "current_chat"
)

// Role identifies the author of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one entry of a chat transcript.
type Message struct {
	Role       Role             `json:"role"`
	Content    string           `json:"content"`
	Reply      *types.Reply     `json:"reply,omitempty"`
	FormatKind types.FormatKind `json:"format_kind,omitempty"`
	Partial    bool             `json:"partial,omitempty"` // typing was interrupted
	Timestamp  time.Time        `json:"timestamp"`
}

// Chat is a stored conversation.
type Chat struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Messages    []Message `json:"messages"`
	CreatedAt   time.Time `json:"created_at"`
	LastUpdated time.Time `json:"last_updated"`
}

// UserMessages returns the user's side of the transcript, oldest first.
func (c *Chat) UserMessages() []string {
	var out []string
	for _, m := range c.Messages {
		if m.Role == RoleUser {
			out = append(out, m.Content)
		}
	}
	return out
}

// Turns pairs each user message with the completed reply that followed it.
func (c *Chat) Turns() []session.Turn {
	var out []session.Turn
	for _, m := range c.Messages {
		switch {
		case m.Role == RoleUser:
			out = append(out, session.Turn{Message: m.Content})
		case m.Role == RoleAssistant && len(out) > 0 && m.Reply != nil && !m.Partial:
			last := &out[len(out)-1]
			if last.Reply == nil {
				reply := *m.Reply
				last.Reply = &reply
			}
		}
	}
	return out
}

// ChatStore persists chats and a handful of UI settings. Storage is best
// effort: callers log failures and carry on.
type ChatStore interface {
	CreateChat(ctx context.Context) (*Chat, error)
	SaveChat(ctx context.Context, chat *Chat) error
	GetChat(ctx context.Context, id string) (*Chat, error)
	// ListChats returns chats with at least one message, most recently updated first.
	ListChats(ctx context.Context) ([]*Chat, error)
	DeleteChat(ctx context.Context, id string) error
	// AppendMessage adds msg to a chat. The first user message titles the chat.
	AppendMessage(ctx context.Context, id string, msg Message) (*Chat, error)
	GetSetting(ctx context.Context, key string) (string, bool, error)
	PutSetting(ctx context.Context, key, value string) error
	Close() error
}

// Open returns the store selected by cfg.
func Open(ctx context.Context, cfg config.StoreConfig) (ChatStore, error) {
	switch cfg.Backend {
	case config.BackendSQLite, "":
		return NewLocalStore(cfg.DatabasePath, cfg.Driver)
	case config.BackendRedis:
		return NewRedisStore(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown store backend: %s", cfg.Backend)
	}
}

// NewChatID returns a fresh chat identifier.
func NewChatID() string {
	return "chat_" + uuid.NewString()
}

func newChat(now time.Time) *Chat {
	return &Chat{
		ID:          NewChatID(),
		Title:       DefaultTitle,
		Messages:    []Message{},
		CreatedAt:   now,
		LastUpdated: now,
	}
}

// TitleFrom derives a chat title from the first user message: its first
// 30 characters, with "..." when cut.
func TitleFrom(content string) string {
	if utf8.RuneCountInString(content) <= titleRunes {
		return content
	}
	runes := []rune(content)
	return string(runes[:titleRunes]) + "..."
}

// appendTo applies msg to chat the same way in every backend.
func appendTo(chat *Chat, msg Message, now time.Time) {
	if msg.Timestamp.IsZero() {
		msg.Timestamp = now
	}
	chat.Messages = append(chat.Messages, msg)
	if len(chat.Messages) == 1 && msg.Role == RoleUser {
		chat.Title = TitleFrom(msg.Content)
	}
}
