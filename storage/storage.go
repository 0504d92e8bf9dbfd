// Package storage keeps a local SQLite history of the queries sqgrid loaded
// and of the change scripts marked as applied.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// QueryHistory is one load of result sets
type QueryHistory struct {
	ID         int64
	URL        string
	Query      string
	ExecutedAt time.Time
	Duration   time.Duration
	Rows       int64
	Error      string
}

// AppliedScript is a change script the user marked as applied
type AppliedScript struct {
	ID        int64
	URL       string
	Table     string
	Script    string
	Rows      int64
	AppliedAt time.Time
}

// Store is the history database
type Store struct {
	db *sql.DB
}

// DefaultPath returns the path to the history database, creating its
// directory
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(home, ".config", "sqgrid")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	return filepath.Join(dir, "history.db"), nil
}

// Open opens the history database at path and creates its tables
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history: %w", err)
	}
	// one writer
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.createTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create history tables: %w", err)
	}
	return s, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createTables() error {
	schema := `
    CREATE TABLE IF NOT EXISTS query_history (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        url TEXT NOT NULL,
        query TEXT NOT NULL,
        executed_at INTEGER NOT NULL,
        duration INTEGER DEFAULT 0,
        rows_loaded INTEGER DEFAULT 0,
        error TEXT
    );

    CREATE TABLE IF NOT EXISTS applied_scripts (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        url TEXT NOT NULL,
        table_name TEXT,
        script TEXT NOT NULL,
        rows_changed INTEGER DEFAULT 0,
        applied_at INTEGER NOT NULL
    );

    CREATE INDEX IF NOT EXISTS idx_query_history_executed_at ON query_history(executed_at);
    CREATE INDEX IF NOT EXISTS idx_applied_scripts_applied_at ON applied_scripts(applied_at);
    `

	_, err := s.db.Exec(schema)
	return err
}

// RedactURL hides the password of a database url
func RedactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	return u.Redacted()
}

// AddQueryHistory records a load. The url is stored without its password.
func (s *Store) AddQueryHistory(ctx context.Context, h QueryHistory) (int64, error) {
	if h.ExecutedAt.IsZero() {
		h.ExecutedAt = time.Now()
	}
	result, err := s.db.ExecContext(ctx,
		"INSERT INTO query_history (url, query, executed_at, duration, rows_loaded, error) VALUES (?, ?, ?, ?, ?, ?)",
		RedactURL(h.URL), h.Query, h.ExecutedAt.UnixMilli(), h.Duration.Milliseconds(), h.Rows, nullString(h.Error),
	)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// RecentQueryHistory returns the latest loads, most recent first
func (s *Store) RecentQueryHistory(ctx context.Context, limit int) ([]QueryHistory, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, url, query, executed_at, duration, rows_loaded, error FROM query_history ORDER BY executed_at DESC, id DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var history []QueryHistory
	for rows.Next() {
		var (
			h          QueryHistory
			executedAt int64
			duration   int64
			errStr     sql.NullString
		)
		if err := rows.Scan(&h.ID, &h.URL, &h.Query, &executedAt, &duration, &h.Rows, &errStr); err != nil {
			return nil, err
		}
		h.ExecutedAt = time.UnixMilli(executedAt)
		h.Duration = time.Duration(duration) * time.Millisecond
		if errStr.Valid {
			h.Error = errStr.String
		}
		history = append(history, h)
	}
	return history, rows.Err()
}

// AddAppliedScript records a change script marked as applied
func (s *Store) AddAppliedScript(ctx context.Context, a AppliedScript) (int64, error) {
	if a.AppliedAt.IsZero() {
		a.AppliedAt = time.Now()
	}
	result, err := s.db.ExecContext(ctx,
		"INSERT INTO applied_scripts (url, table_name, script, rows_changed, applied_at) VALUES (?, ?, ?, ?, ?)",
		RedactURL(a.URL), a.Table, a.Script, a.Rows, a.AppliedAt.UnixMilli(),
	)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// RecentAppliedScripts returns the latest applied scripts, most recent first
func (s *Store) RecentAppliedScripts(ctx context.Context, limit int) ([]AppliedScript, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, url, table_name, script, rows_changed, applied_at FROM applied_scripts ORDER BY applied_at DESC, id DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var scripts []AppliedScript
	for rows.Next() {
		var (
			a         AppliedScript
			table     sql.NullString
			appliedAt int64
		)
		if err := rows.Scan(&a.ID, &a.URL, &table, &a.Script, &a.Rows, &appliedAt); err != nil {
			return nil, err
		}
		a.Table = table.String
		a.AppliedAt = time.UnixMilli(appliedAt)
		scripts = append(scripts, a)
	}
	return scripts, rows.Err()
}

// ClearHistory deletes every recorded load and script
func (s *Store) ClearHistory(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM query_history"); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, "DELETE FROM applied_scripts")
	return err
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
