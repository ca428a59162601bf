// Package topics persists the rolling list of recently used story topics so
// consecutive sessions don't repeat themselves.
package topics

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

// MaxRecent is how many topics the history keeps. Oldest are evicted first.
const MaxRecent = 5

// historyKey is the single kv entry holding the JSON-encoded topic sequence.
const historyKey = "recent_topics"

// Store is a bounded FIFO history of recent story topics backed by SQLite.
// The in-memory slice is authoritative for the current process; persistence
// failures are logged and swallowed.
type Store struct {
	db     *sql.DB
	logger *slog.Logger

	mu     sync.Mutex
	recent []string
}

// NewSQLite opens (or creates) the history database at dbPath and loads the
// persisted sequence. Corrupt persisted data is treated as empty, never fatal.
func NewSQLite(dbPath string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}

	s := &Store{db: db, logger: logger}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	s.recent = s.load()
	return s, nil
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

func (s *Store) initSchema() error {
	query := `
	CREATE TABLE IF NOT EXISTS app_state (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
	`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// load reads the persisted topic sequence. Absent or corrupt data loads as
// an empty history.
func (s *Store) load() []string {
	var value string
	err := s.db.QueryRow(`SELECT value FROM app_state WHERE key = ?`, historyKey).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		s.logger.Warn("could not load recent topics", "error", err)
		return nil
	}

	var topics []string
	if err := json.Unmarshal([]byte(value), &topics); err != nil {
		s.logger.Warn("recent topics entry is corrupt, starting empty", "error", err)
		return nil
	}
	if len(topics) > MaxRecent {
		topics = topics[len(topics)-MaxRecent:]
	}
	return topics
}

// Recent returns a copy of the current history, oldest first.
func (s *Store) Recent() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.recent))
	copy(out, s.recent)
	return out
}

// Record appends a topic, evicting the oldest entry past MaxRecent, and
// persists the full sequence. Empty topics are ignored. A persistence
// failure leaves the in-memory history updated.
func (s *Store) Record(topic string) {
	if topic == "" {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.recent = append(s.recent, topic)
	if len(s.recent) > MaxRecent {
		s.recent = s.recent[len(s.recent)-MaxRecent:]
	}

	encoded, err := json.Marshal(s.recent)
	if err != nil {
		s.logger.Warn("could not encode recent topics", "error", err)
		return
	}

	_, err = s.db.Exec(
		`INSERT INTO app_state (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		historyKey, string(encoded),
	)
	if err != nil {
		s.logger.Warn("could not save recent topics", "error", err)
	}
}

// Clear empties the history in memory and on disk.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.recent = nil
	if _, err := s.db.Exec(`DELETE FROM app_state WHERE key = ?`, historyKey); err != nil {
		return fmt.Errorf("clear recent topics: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}
