package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"glorp/internal/config"
	"glorp/internal/logging"

	_ "github.com/mattn/go-sqlite3" // cgo driver, opt-in via store.driver
	_ "modernc.org/sqlite"
)

// LocalStore keeps chats in a SQLite database. Each chat is one row with its
// transcript as a JSON column.
type LocalStore struct {
	db     *sql.DB
	mu     sync.RWMutex
	dbPath string
	now    func() time.Time
}

// NewLocalStore opens (creating if needed) the SQLite database at path.
// driver is a database/sql driver name; empty selects the pure-Go driver.
func NewLocalStore(path, driver string) (*LocalStore, error) {
	timer := logging.StartTimer(logging.CategoryStore, "NewLocalStore")
	defer timer.Stop()

	if driver == "" {
		driver = config.DriverModernc
	}
	logging.Store("Initializing LocalStore at path: %s (driver %s)", path, driver)

	if path != ":memory:" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			logging.StoreError("Failed to create directory %s: %v", dir, err)
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}

	db, err := sql.Open(driver, path)
	if err != nil {
		logging.StoreError("Failed to open database at %s: %v", path, err)
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		logging.StoreDebug("Failed to set sqlite busy_timeout: %v", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		logging.StoreDebug("Failed to set sqlite journal_mode=WAL: %v", err)
	}
	if _, err := db.Exec("PRAGMA synchronous = NORMAL"); err != nil {
		logging.StoreDebug("Failed to set sqlite synchronous=NORMAL: %v", err)
	}

	s := &LocalStore{db: db, dbPath: path, now: time.Now}
	if err := s.initialize(); err != nil {
		logging.StoreError("Failed to initialize schema: %v", err)
		db.Close()
		return nil, err
	}
	logging.Store("LocalStore ready")
	return s, nil
}

func (s *LocalStore) initialize() error {
	const schema = `
	CREATE TABLE IF NOT EXISTS chats (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		messages TEXT NOT NULL,
		message_count INTEGER NOT NULL DEFAULT 0,
		created_at INTEGER NOT NULL,
		last_updated INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_chats_last_updated ON chats(last_updated);
	CREATE TABLE IF NOT EXISTS settings (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Close closes the database.
func (s *LocalStore) Close() error {
	return s.db.Close()
}

// CreateChat inserts an empty chat titled "New Glorp".
func (s *LocalStore) CreateChat(ctx context.Context) (*Chat, error) {
	chat := newChat(s.now())
	if err := s.SaveChat(ctx, chat); err != nil {
		return nil, err
	}
	logging.AuditWithChat(chat.ID).SessionStart()
	return chat, nil
}

// SaveChat upserts chat and stamps LastUpdated.
func (s *LocalStore) SaveChat(ctx context.Context, chat *Chat) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.put(ctx, s.db, chat)
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (s *LocalStore) put(ctx context.Context, db execer, chat *Chat) error {
	chat.LastUpdated = s.now()
	if chat.Messages == nil {
		chat.Messages = []Message{}
	}
	data, err := json.Marshal(chat.Messages)
	if err != nil {
		return fmt.Errorf("failed to marshal messages: %w", err)
	}

	_, err = db.ExecContext(ctx,
		`INSERT INTO chats (id, title, messages, message_count, created_at, last_updated)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   title = excluded.title,
		   messages = excluded.messages,
		   message_count = excluded.message_count,
		   last_updated = excluded.last_updated`,
		chat.ID, chat.Title, string(data), len(chat.Messages),
		chat.CreatedAt.UnixNano(), chat.LastUpdated.UnixNano(),
	)
	logging.AuditWithChat(chat.ID).ChatSaved(config.BackendSQLite, len(chat.Messages), err)
	if err != nil {
		logging.StoreError("Failed to save chat %s: %v", chat.ID, err)
		return fmt.Errorf("failed to save chat: %w", err)
	}
	logging.StoreDebug("Saved chat %s (%d messages)", chat.ID, len(chat.Messages))
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanChat(row rowScanner) (*Chat, error) {
	var (
		chat              Chat
		messages          string
		created, modified int64
	)
	if err := row.Scan(&chat.ID, &chat.Title, &messages, &created, &modified); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(messages), &chat.Messages); err != nil {
		return nil, fmt.Errorf("failed to decode chat %s: %w", chat.ID, err)
	}
	chat.CreatedAt = time.Unix(0, created)
	chat.LastUpdated = time.Unix(0, modified)
	return &chat, nil
}

const chatColumns = `id, title, messages, created_at, last_updated`

type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *LocalStore) get(ctx context.Context, db querier, id string) (*Chat, error) {
	chat, err := scanChat(db.QueryRowContext(ctx, `SELECT `+chatColumns+` FROM chats WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrChatNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load chat: %w", err)
	}
	return chat, nil
}

// GetChat loads one chat.
func (s *LocalStore) GetChat(ctx context.Context, id string) (*Chat, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.get(ctx, s.db, id)
}

// ListChats returns non-empty chats, most recently updated first.
func (s *LocalStore) ListChats(ctx context.Context) ([]*Chat, error) {
	timer := logging.StartTimer(logging.CategoryStore, "ListChats")
	defer timer.Stop()

	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+chatColumns+` FROM chats WHERE message_count > 0 ORDER BY last_updated DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list chats: %w", err)
	}
	defer rows.Close()

	var chats []*Chat
	for rows.Next() {
		chat, err := scanChat(rows)
		if err != nil {
			logging.Get(logging.CategoryStore).Warn("Skipping unreadable chat: %v", err)
			continue
		}
		chats = append(chats, chat)
	}
	return chats, rows.Err()
}

// DeleteChat removes a chat.
func (s *LocalStore) DeleteChat(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `DELETE FROM chats WHERE id = ?`, id)
	if err == nil {
		if n, rerr := res.RowsAffected(); rerr == nil && n == 0 {
			err = ErrChatNotFound
		}
	}
	logging.AuditWithChat(id).ChatDeleted(config.BackendSQLite, err)
	if errors.Is(err, ErrChatNotFound) {
		return err
	}
	if err != nil {
		return fmt.Errorf("failed to delete chat: %w", err)
	}
	return nil
}

// AppendMessage adds msg to the chat inside a transaction.
func (s *LocalStore) AppendMessage(ctx context.Context, id string, msg Message) (*Chat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	chat, err := s.get(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	appendTo(chat, msg, s.now())
	if err := s.put(ctx, tx, chat); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit: %w", err)
	}
	return chat, nil
}

// GetSetting reads a setting. ok is false when it was never set.
func (s *LocalStore) GetSetting(ctx context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read setting %s: %w", key, err)
	}
	return value, true, nil
}

// PutSetting writes a setting.
func (s *LocalStore) PutSetting(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO settings (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value)
	if err != nil {
		return fmt.Errorf("failed to write setting %s: %w", key, err)
	}
	logging.StoreDebug("Setting %s = %s", key, value)
	return nil
}
