// Package index keeps an SQLite full-text index over every session
// timeline, rebuilt from the session files and kept current by a watcher.
package index

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

// MemoryDSN keeps the index in memory for the life of the process.
const MemoryDSN = ":memory:"

const coreSchemaSQL = `
CREATE TABLE IF NOT EXISTS sessions (
	id           TEXT PRIMARY KEY,
	slug         TEXT NOT NULL DEFAULT '',
	office_hours INTEGER NOT NULL DEFAULT 0,
	checksum     TEXT NOT NULL DEFAULT '',
	indexed_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS entries (
	session TEXT NOT NULL,
	source  TEXT NOT NULL,
	seconds REAL NOT NULL,
	label   TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_entries_session ON entries(session);
CREATE INDEX IF NOT EXISTS idx_entries_source ON entries(source);
`

// DB wraps a sql.DB with index-specific operations.
type DB struct {
	conn *sql.DB
}

// Open opens (or creates) the SQLite database and applies the schema.
// MemoryDSN is pinned to a single connection so every query sees the same
// database.
func Open(dsn string) (*DB, error) {
	params := "_busy_timeout=5000&_foreign_keys=on"
	if !strings.HasPrefix(dsn, ":memory:") {
		params = "_journal_mode=WAL&" + params
	}
	conn, err := sql.Open("sqlite3", dsn+"?"+params)
	if err != nil {
		return nil, fmt.Errorf("index: open db: %w", err)
	}
	if dsn == MemoryDSN {
		conn.SetMaxOpenConns(1)
		conn.SetConnMaxLifetime(0)
		conn.SetConnMaxIdleTime(0)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("index: ping: %w", err)
	}
	if _, err := conn.Exec(coreSchemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("index: apply core schema: %w", err)
	}
	if err := initFTS(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("index: apply fts schema: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Close closes the underlying database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}
