package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Shared-state keys. The store is the only thing the page contexts and the
// coordinator all see, so every cross-context value lives under one of these.
const (
	KeyCurrentVehicleRecord = "currentVehicleRecord"
	KeyCurrentPriceEstimate = "currentPriceEstimate"
	KeyPriceError           = "priceError"
	KeyPendingFillRequest   = "pendingFillRequest"
)

// ErrNotFound reports a key with no stored value.
var ErrNotFound = errors.New("key not found")

const schema = `
CREATE TABLE IF NOT EXISTS shared_state (
	key        TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	updated_at INTEGER NOT NULL
);
`

// Store is a sqlite-backed key-value store with per-key timestamps. Writes
// are last-writer-wins; readers judge staleness from the stored timestamp.
type Store struct {
	db *sql.DB
}

// New opens (creating if needed) the store at dbPath.
func New(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create store directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}

	// SQLite works best with a single writer connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize store schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Set serializes value as JSON and upserts it under key, stamping the write
// time.
func (s *Store) Set(key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", key, err)
	}

	_, err = s.db.Exec(`
		INSERT INTO shared_state (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, string(data), time.Now().UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to store %s: %w", key, err)
	}
	return nil
}

// Get unmarshals the value under key into out and returns when it was
// written. Returns ErrNotFound for absent keys.
func (s *Store) Get(key string, out interface{}) (time.Time, error) {
	var value string
	var updatedAt int64
	err := s.db.QueryRow(`SELECT value, updated_at FROM shared_state WHERE key = ?`, key).
		Scan(&value, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, ErrNotFound
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to read %s: %w", key, err)
	}

	if err := json.Unmarshal([]byte(value), out); err != nil {
		return time.Time{}, fmt.Errorf("failed to unmarshal %s: %w", key, err)
	}
	return time.UnixMilli(updatedAt), nil
}

// Delete removes key. Deleting an absent key is not an error.
func (s *Store) Delete(key string) error {
	_, err := s.db.Exec(`DELETE FROM shared_state WHERE key = ?`, key)
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}
