package store

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"glorp/internal/config"
	"glorp/internal/types"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock hands out strictly increasing times.
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(time.Second)
	return c.t
}

func newSQLiteStore(t *testing.T) ChatStore {
	t.Helper()
	s, err := NewLocalStore(filepath.Join(t.TempDir(), "glorp.db"), "")
	require.NoError(t, err)
	s.now = newFakeClock().Now
	t.Cleanup(func() { s.Close() })
	return s
}

func newRedisStore(t *testing.T) ChatStore {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	s := NewRedisStoreWithClient(client, "test:")
	s.now = newFakeClock().Now
	t.Cleanup(func() { s.Close() })
	return s
}

var backends = []struct {
	name string
	open func(t *testing.T) ChatStore
}{
	{"sqlite", newSQLiteStore},
	{"redis", newRedisStore},
}

func forEachBackend(t *testing.T, fn func(t *testing.T, s ChatStore)) {
	for _, b := range backends {
		t.Run(b.name, func(t *testing.T) {
			fn(t, b.open(t))
		})
	}
}

func userMsg(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

func TestCreateAndGetChat(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s ChatStore) {
		ctx := context.Background()

		chat, err := s.CreateChat(ctx)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(chat.ID, "chat_"))
		assert.Equal(t, DefaultTitle, chat.Title)
		assert.Empty(t, chat.Messages)

		got, err := s.GetChat(ctx, chat.ID)
		require.NoError(t, err)
		assert.Equal(t, chat.ID, got.ID)
		assert.Equal(t, DefaultTitle, got.Title)
		assert.True(t, chat.CreatedAt.Equal(got.CreatedAt))
	})
}

func TestGetMissingChat(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s ChatStore) {
		_, err := s.GetChat(context.Background(), "chat_nope")
		assert.True(t, errors.Is(err, ErrChatNotFound))
	})
}

func TestAppendMessageTitlesChat(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s ChatStore) {
		ctx := context.Background()
		chat, err := s.CreateChat(ctx)
		require.NoError(t, err)

		long := "please write me a program that glorps the florps forever"
		chat, err = s.AppendMessage(ctx, chat.ID, userMsg(long))
		require.NoError(t, err)
		assert.Equal(t, "please write me a program that...", chat.Title)

		reply := &types.Reply{Text: "Blorp zib.", HasCodeBlock: true, CodeBlock: "x", CodeBlockPosition: types.PositionEnd, FormatKind: types.FormatCode}
		chat, err = s.AppendMessage(ctx, chat.ID, Message{Role: RoleAssistant, Content: reply.Text, Reply: reply, FormatKind: reply.FormatKind})
		require.NoError(t, err)
		assert.Equal(t, "please write me a program that...", chat.Title, "only the first message titles")

		got, err := s.GetChat(ctx, chat.ID)
		require.NoError(t, err)
		require.Len(t, got.Messages, 2)
		assert.Equal(t, RoleUser, got.Messages[0].Role)
		assert.False(t, got.Messages[0].Timestamp.IsZero())
		require.NotNil(t, got.Messages[1].Reply)
		assert.Equal(t, *reply, *got.Messages[1].Reply)
		assert.Equal(t, []string{long}, got.UserMessages())
	})
}

func TestAppendToMissingChat(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s ChatStore) {
		_, err := s.AppendMessage(context.Background(), "chat_nope", userMsg("hi"))
		assert.True(t, errors.Is(err, ErrChatNotFound))
	})
}

func TestListChatsOrderAndFilter(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s ChatStore) {
		ctx := context.Background()

		a, err := s.CreateChat(ctx)
		require.NoError(t, err)
		b, err := s.CreateChat(ctx)
		require.NoError(t, err)
		_, err = s.CreateChat(ctx) // stays empty
		require.NoError(t, err)

		_, err = s.AppendMessage(ctx, a.ID, userMsg("first"))
		require.NoError(t, err)
		_, err = s.AppendMessage(ctx, b.ID, userMsg("second"))
		require.NoError(t, err)

		chats, err := s.ListChats(ctx)
		require.NoError(t, err)
		require.Len(t, chats, 2)
		assert.Equal(t, b.ID, chats[0].ID)
		assert.Equal(t, a.ID, chats[1].ID)

		_, err = s.AppendMessage(ctx, a.ID, userMsg("again"))
		require.NoError(t, err)

		chats, err = s.ListChats(ctx)
		require.NoError(t, err)
		require.Len(t, chats, 2)
		assert.Equal(t, a.ID, chats[0].ID)
	})
}

func TestDeleteChat(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s ChatStore) {
		ctx := context.Background()
		chat, err := s.CreateChat(ctx)
		require.NoError(t, err)
		_, err = s.AppendMessage(ctx, chat.ID, userMsg("bye"))
		require.NoError(t, err)

		require.NoError(t, s.DeleteChat(ctx, chat.ID))

		_, err = s.GetChat(ctx, chat.ID)
		assert.True(t, errors.Is(err, ErrChatNotFound))
		chats, err := s.ListChats(ctx)
		require.NoError(t, err)
		assert.Empty(t, chats)

		assert.True(t, errors.Is(s.DeleteChat(ctx, chat.ID), ErrChatNotFound))
	})
}

func TestSettings(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s ChatStore) {
		ctx := context.Background()

		_, ok, err := s.GetSetting(ctx, SettingTheme)
		require.NoError(t, err)
		assert.False(t, ok)

		require.NoError(t, s.PutSetting(ctx, SettingTheme, "light"))
		require.NoError(t, s.PutSetting(ctx, SettingTheme, "dark"))

		v, ok, err := s.GetSetting(ctx, SettingTheme)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "dark", v)
	})
}

func TestTitleFrom(t *testing.T) {
	assert.Equal(t, "short", TitleFrom("short"))
	assert.Equal(t, strings.Repeat("a", 30), TitleFrom(strings.Repeat("a", 30)))
	assert.Equal(t, strings.Repeat("a", 30)+"...", TitleFrom(strings.Repeat("a", 31)))
	assert.Equal(t, strings.Repeat("é", 30)+"...", TitleFrom(strings.Repeat("é", 40)))
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	t.Run("sqlite", func(t *testing.T) {
		s, err := Open(ctx, config.StoreConfig{
			Backend:      config.BackendSQLite,
			Driver:       config.DriverModernc,
			DatabasePath: filepath.Join(t.TempDir(), "nested", "glorp.db"),
		})
		require.NoError(t, err)
		defer s.Close()
		assert.IsType(t, &LocalStore{}, s)
	})

	t.Run("redis", func(t *testing.T) {
		mr := miniredis.RunT(t)
		s, err := Open(ctx, config.StoreConfig{Backend: config.BackendRedis, RedisAddr: mr.Addr(), KeyPrefix: "g:"})
		require.NoError(t, err)
		defer s.Close()
		assert.IsType(t, &RedisStore{}, s)

		chat, err := s.CreateChat(ctx)
		require.NoError(t, err)
		assert.True(t, mr.Exists("g:chat:"+chat.ID))
	})

	t.Run("redis unreachable", func(t *testing.T) {
		mr := miniredis.RunT(t)
		addr := mr.Addr()
		mr.Close()
		_, err := Open(ctx, config.StoreConfig{Backend: config.BackendRedis, RedisAddr: addr})
		assert.Error(t, err)
	})

	t.Run("unknown backend", func(t *testing.T) {
		_, err := Open(ctx, config.StoreConfig{Backend: "tape"})
		assert.Error(t, err)
	})
}

func TestChatTurns(t *testing.T) {
	code := &types.Reply{Text: "Glorp.", FormatKind: types.FormatCode, HasCodeBlock: true}
	chat := &Chat{Messages: []Message{
		{Role: RoleAssistant, Content: "stray"},
		userMsg("write code"),
		{Role: RoleAssistant, Content: "Glorp.", Reply: code},
		userMsg("more"),
		{Role: RoleAssistant, Content: "Blo", Partial: true},
		userMsg("again"),
	}}

	turns := chat.Turns()
	require.Len(t, turns, 3)
	assert.Equal(t, "write code", turns[0].Message)
	require.NotNil(t, turns[0].Reply)
	assert.Equal(t, types.FormatCode, turns[0].Reply.FormatKind)
	assert.NotSame(t, code, turns[0].Reply)
	assert.Nil(t, turns[1].Reply, "partial replies are not kept")
	assert.Nil(t, turns[2].Reply)
}
