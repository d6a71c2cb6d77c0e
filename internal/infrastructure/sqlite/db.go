// Package sqlite persists the cascade journal in a SQLite database.
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

// schema bootstraps the journal table. Screens are stored JSON-encoded; the
// journal is append-only and queried newest-first.
const schema = `
CREATE TABLE IF NOT EXISTS cascade_journal (
	id TEXT PRIMARY KEY,
	kind TEXT NOT NULL,
	screens TEXT NOT NULL DEFAULT '[]',
	started_at INTEGER NOT NULL,
	duration_us INTEGER NOT NULL,
	error TEXT
);

CREATE INDEX IF NOT EXISTS idx_cascade_journal_started
	ON cascade_journal(started_at DESC);

CREATE INDEX IF NOT EXISTS idx_cascade_journal_kind
	ON cascade_journal(kind, started_at DESC);
`

// NewDB opens (creating if necessary) the journal database at path and
// ensures the schema exists. The parent directory is created when missing.
func NewDB(path string) (*sql.DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}
	return db, nil
}
