// Package storage provides key-value backends and the JSON collection
// repositories built on top of them.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/xvierd/chorebook/internal/ports"
	"modernc.org/sqlite"
)

// SQLiteKV implements ports.KVStore with a single SQLite table.
type SQLiteKV struct {
	db *sql.DB
}

// Ensure SQLiteKV implements ports.KVStore.
var _ ports.KVStore = (*SQLiteKV)(nil)

// NewSQLiteKV opens (or creates) the database at dbPath.
func NewSQLiteKV(dbPath string) (*SQLiteKV, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One connection keeps ":memory:" databases coherent and serializes writers.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to set WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	kv := &SQLiteKV{db: db}
	if err := kv.Migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return kv, nil
}

// NewMemorySQLite creates an in-memory SQLite store for testing.
func NewMemorySQLite() (*SQLiteKV, error) {
	return NewSQLiteKV(":memory:")
}

// Migrate creates the schema.
func (s *SQLiteKV) Migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS kv (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}
	return nil
}

// Get returns the value for key, or nil when absent.
func (s *SQLiteKV) Get(ctx context.Context, key string) ([]byte, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return []byte(value), nil
}

// Set stores value under key.
func (s *SQLiteKV) Set(ctx context.Context, key string, value []byte) error {
	query := `
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`
	if _, err := s.db.ExecContext(ctx, query, key, string(value)); err != nil {
		if isConstraintError(err) {
			return fmt.Errorf("failed to write %s: constraint violation: %w", key, err)
		}
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

// Remove deletes key.
func (s *SQLiteKV) Remove(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key); err != nil {
		return fmt.Errorf("failed to remove %s: %w", key, err)
	}
	return nil
}

// RemoveMany deletes keys in one statement.
func (s *SQLiteKV) RemoveMany(ctx context.Context, keys []string) error {
	if len(keys) == 0 {
		return nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(keys)), ",")
	args := make([]any, len(keys))
	for i, k := range keys {
		args[i] = k
	}
	query := `DELETE FROM kv WHERE key IN (` + placeholders + `)`
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to remove keys: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteKV) Close() error {
	return s.db.Close()
}

// isConstraintError checks if an error is a SQLite constraint violation.
func isConstraintError(err error) bool {
	var sqliteErr *sqlite.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	// Extended codes keep the primary SQLITE_CONSTRAINT (19) in the low byte.
	return sqliteErr.Code()&0xff == 19
}
