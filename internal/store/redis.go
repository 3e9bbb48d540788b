package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"glorp/internal/config"
	"glorp/internal/logging"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps chats in Redis:
//
//	<prefix>chat:<id>  chat JSON
//	<prefix>chats      sorted set of chat IDs scored by last update (µs)
//	<prefix>settings   hash of settings
type RedisStore struct {
	client *redis.Client
	prefix string
	now    func() time.Time
}

// NewRedisStore connects to the server in cfg and checks it answers.
func NewRedisStore(ctx context.Context, cfg config.StoreConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
		DB:   cfg.RedisDB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		logging.StoreError("Redis at %s unreachable: %v", cfg.RedisAddr, err)
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	logging.Store("RedisStore ready at %s (db %d, prefix %q)", cfg.RedisAddr, cfg.RedisDB, cfg.KeyPrefix)
	return NewRedisStoreWithClient(client, cfg.KeyPrefix), nil
}

// NewRedisStoreWithClient wraps an existing client.
func NewRedisStoreWithClient(client *redis.Client, prefix string) *RedisStore {
	return &RedisStore{client: client, prefix: prefix, now: time.Now}
}

func (s *RedisStore) chatKey(id string) string { return s.prefix + "chat:" + id }
func (s *RedisStore) indexKey() string         { return s.prefix + "chats" }
func (s *RedisStore) settingsKey() string      { return s.prefix + "settings" }

// Close closes the client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// CreateChat stores an empty chat titled "New Glorp".
func (s *RedisStore) CreateChat(ctx context.Context) (*Chat, error) {
	chat := newChat(s.now())
	if err := s.SaveChat(ctx, chat); err != nil {
		return nil, err
	}
	logging.AuditWithChat(chat.ID).SessionStart()
	return chat, nil
}

// SaveChat writes the chat and its index entry atomically.
func (s *RedisStore) SaveChat(ctx context.Context, chat *Chat) error {
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		return s.put(ctx, pipe, chat)
	})
	logging.AuditWithChat(chat.ID).ChatSaved(config.BackendRedis, len(chat.Messages), err)
	if err != nil {
		logging.StoreError("Failed to save chat %s: %v", chat.ID, err)
		return fmt.Errorf("failed to save chat: %w", err)
	}
	logging.StoreDebug("Saved chat %s (%d messages)", chat.ID, len(chat.Messages))
	return nil
}

func (s *RedisStore) put(ctx context.Context, pipe redis.Pipeliner, chat *Chat) error {
	chat.LastUpdated = s.now()
	if chat.Messages == nil {
		chat.Messages = []Message{}
	}
	data, err := json.Marshal(chat)
	if err != nil {
		return fmt.Errorf("failed to marshal chat: %w", err)
	}
	pipe.Set(ctx, s.chatKey(chat.ID), data, 0)
	pipe.ZAdd(ctx, s.indexKey(), redis.Z{
		Score:  float64(chat.LastUpdated.UnixMicro()),
		Member: chat.ID,
	})
	return nil
}

func decodeChat(data []byte) (*Chat, error) {
	var chat Chat
	if err := json.Unmarshal(data, &chat); err != nil {
		return nil, fmt.Errorf("failed to decode chat: %w", err)
	}
	return &chat, nil
}

// GetChat loads one chat.
func (s *RedisStore) GetChat(ctx context.Context, id string) (*Chat, error) {
	data, err := s.client.Get(ctx, s.chatKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrChatNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load chat: %w", err)
	}
	return decodeChat(data)
}

// ListChats returns non-empty chats, most recently updated first.
func (s *RedisStore) ListChats(ctx context.Context) ([]*Chat, error) {
	timer := logging.StartTimer(logging.CategoryStore, "ListChats")
	defer timer.Stop()

	ids, err := s.client.ZRevRange(ctx, s.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list chats: %w", err)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = s.chatKey(id)
	}
	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load chats: %w", err)
	}

	var chats []*Chat
	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			logging.Get(logging.CategoryStore).Warn("Index references missing chat %s", ids[i])
			continue
		}
		chat, err := decodeChat([]byte(raw))
		if err != nil {
			logging.Get(logging.CategoryStore).Warn("Skipping unreadable chat %s: %v", ids[i], err)
			continue
		}
		if len(chat.Messages) > 0 {
			chats = append(chats, chat)
		}
	}
	return chats, nil
}

// DeleteChat removes a chat and its index entry.
func (s *RedisStore) DeleteChat(ctx context.Context, id string) error {
	var del *redis.IntCmd
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		del = pipe.Del(ctx, s.chatKey(id))
		pipe.ZRem(ctx, s.indexKey(), id)
		return nil
	})
	if err == nil && del.Val() == 0 {
		err = ErrChatNotFound
	}
	logging.AuditWithChat(id).ChatDeleted(config.BackendRedis, err)
	if errors.Is(err, ErrChatNotFound) {
		return err
	}
	if err != nil {
		return fmt.Errorf("failed to delete chat: %w", err)
	}
	return nil
}

// maxAppendRetries bounds optimistic-lock retries in AppendMessage.
const maxAppendRetries = 5

// AppendMessage adds msg under WATCH so concurrent writers do not lose messages.
func (s *RedisStore) AppendMessage(ctx context.Context, id string, msg Message) (*Chat, error) {
	key := s.chatKey(id)
	var chat *Chat

	txf := func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return ErrChatNotFound
		}
		if err != nil {
			return err
		}
		chat, err = decodeChat(data)
		if err != nil {
			return err
		}
		appendTo(chat, msg, s.now())
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			return s.put(ctx, pipe, chat)
		})
		return err
	}

	for i := 0; i < maxAppendRetries; i++ {
		err := s.client.Watch(ctx, txf, key)
		switch {
		case err == nil:
			logging.AuditWithChat(id).ChatSaved(config.BackendRedis, len(chat.Messages), nil)
			return chat, nil
		case errors.Is(err, redis.TxFailedErr):
			logging.StoreDebug("Append to %s raced, retrying (%d)", id, i+1)
			continue
		case errors.Is(err, ErrChatNotFound):
			return nil, err
		default:
			return nil, fmt.Errorf("failed to append message: %w", err)
		}
	}
	return nil, fmt.Errorf("failed to append message: too much contention on %s", id)
}

// GetSetting reads a setting. ok is false when it was never set.
func (s *RedisStore) GetSetting(ctx context.Context, key string) (string, bool, error) {
	value, err := s.client.HGet(ctx, s.settingsKey(), key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read setting %s: %w", key, err)
	}
	return value, true, nil
}

// PutSetting writes a setting.
func (s *RedisStore) PutSetting(ctx context.Context, key, value string) error {
	if err := s.client.HSet(ctx, s.settingsKey(), key, value).Err(); err != nil {
		return fmt.Errorf("failed to write setting %s: %w", key, err)
	}
	return nil
}
