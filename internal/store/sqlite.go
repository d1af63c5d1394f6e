package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/multierr"

	"github.com/chatpane/chatpane/internal/models"
)

// Storage keys. The browser original kept these two entries in
// localStorage; here they live in a per-session row each.
const (
	keyConversation = "conversation"
	keyIdentity     = "identity"
)

// ErrMalformed reports that a persisted conversation could not be decoded.
// Callers are expected to fall back to a fresh conversation.
var ErrMalformed = errors.New("store: malformed persisted conversation")

const schema = `
CREATE TABLE IF NOT EXISTS entries (
    session_id TEXT NOT NULL,
    key TEXT NOT NULL,
    value TEXT NOT NULL,
    updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    PRIMARY KEY (session_id, key)
);`

// Store persists conversations and identities as whole units under fixed
// keys, scoped by session.
type Store struct {
	db *sql.DB
}

func New(dbPath string) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(schema); err != nil {
		return nil, err
	}

	return &Store{db: db}, nil
}

func (s *Store) put(sessionID, key, value string) error {
	_, err := s.db.Exec(`
        INSERT INTO entries (session_id, key, value, updated_at)
        VALUES (?, ?, ?, CURRENT_TIMESTAMP)
        ON CONFLICT(session_id, key) DO UPDATE
        SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
		sessionID, key, value)
	return err
}

func (s *Store) get(sessionID, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRow(
		`SELECT value FROM entries WHERE session_id = ? AND key = ?`,
		sessionID, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

// SaveConversation persists the whole message log as one JSON value.
func (s *Store) SaveConversation(sessionID string, conv models.Conversation) error {
	b, err := json.Marshal(conv)
	if err != nil {
		return fmt.Errorf("encode conversation: %w", err)
	}
	return s.put(sessionID, keyConversation, string(b))
}

// LoadConversation returns the persisted log, or (nil, false, nil) when
// the session has never been saved. A row that no longer decodes yields
// ErrMalformed rather than a crash.
func (s *Store) LoadConversation(sessionID string) (models.Conversation, bool, error) {
	raw, ok, err := s.get(sessionID, keyConversation)
	if err != nil || !ok {
		return nil, false, err
	}
	var conv models.Conversation
	if err := json.Unmarshal([]byte(raw), &conv); err != nil {
		return nil, false, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return conv, true, nil
}

func (s *Store) SaveIdentity(sessionID, name string) error {
	return s.put(sessionID, keyIdentity, name)
}

func (s *Store) LoadIdentity(sessionID string) (string, error) {
	name, _, err := s.get(sessionID, keyIdentity)
	return name, err
}

// DeleteSession removes both entries for the session.
func (s *Store) DeleteSession(sessionID string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM entries WHERE session_id = ?`, sessionID); err != nil {
		return err
	}
	return tx.Commit()
}

// Flush persists conversation and identity together, reporting every
// failure rather than stopping at the first.
func (s *Store) Flush(sessionID string, conv models.Conversation, identity string) error {
	err := s.SaveConversation(sessionID, conv)
	if identity != "" {
		err = multierr.Append(err, s.SaveIdentity(sessionID, identity))
	}
	return err
}

func (s *Store) Close() error {
	return s.db.Close()
}
