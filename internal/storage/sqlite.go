package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"
)

// SQLiteStore implements KeyValueStore on top of a single SQLite table. The
// pure Go driver keeps the store embeddable without cgo.
type SQLiteStore struct {
	db *sql.DB
}

// Open creates a SQLiteStore for the given DSN. Callers must invoke Migrate
// before first use and Close when done.
func Open(dsn string) (*SQLiteStore, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, fmt.Errorf("storage: empty DSN")
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("storage: failed to open database: %w", err)
	}

	// A single writer avoids SQLITE_BUSY churn on concurrent Set calls.
	db.SetMaxOpenConns(1)

	return &SQLiteStore{db: db}, nil
}

// Migrate creates the key-value table when it does not exist yet.
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	if s == nil || s.db == nil {
		return ErrClosed
	}

	const schema = `
		CREATE TABLE IF NOT EXISTS kv (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)
	`
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("storage: failed to apply migration: %w", mapSQLiteError(err))
	}
	return nil
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// Get returns the value stored under key.
func (s *SQLiteStore) Get(key string) (string, bool, error) {
	if s == nil || s.db == nil {
		return "", false, ErrClosed
	}

	var value string
	err := s.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("storage: failed to read %q: %w", key, mapSQLiteError(err))
	}
	return value, true, nil
}

// Set stores value under key, replacing any previous value.
func (s *SQLiteStore) Set(key, value string) error {
	if s == nil || s.db == nil {
		return ErrClosed
	}

	const upsert = `
		INSERT INTO kv (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`
	if _, err := s.db.Exec(upsert, key, value); err != nil {
		return fmt.Errorf("storage: failed to write %q: %w", key, mapSQLiteError(err))
	}
	return nil
}

// Remove deletes key. Removing an absent key succeeds.
func (s *SQLiteStore) Remove(key string) error {
	if s == nil || s.db == nil {
		return ErrClosed
	}

	if _, err := s.db.Exec(`DELETE FROM kv WHERE key = ?`, key); err != nil {
		return fmt.Errorf("storage: failed to remove %q: %w", key, mapSQLiteError(err))
	}
	return nil
}

// mapSQLiteError translates driver errors into stable, log-friendly wrappers.
func mapSQLiteError(err error) error {
	if err == nil {
		return nil
	}

	msg := err.Error()
	switch {
	case strings.Contains(msg, "database is locked") || strings.Contains(msg, "database locked"):
		return fmt.Errorf("database locked: %w", err)
	case strings.Contains(msg, "disk is full") || strings.Contains(msg, "database or disk is full"):
		return fmt.Errorf("storage quota exceeded: %w", err)
	case strings.Contains(msg, "UNIQUE constraint failed"):
		return fmt.Errorf("duplicate key: %w", err)
	}
	return err
}
