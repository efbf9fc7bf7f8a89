//go:build sqlite_fts5

package index

import (
	"database/sql"
	"fmt"

	"github.com/starford/classlog/internal/models"
)

func initFTS(conn *sql.DB) error {
	_, err := conn.Exec(`
		CREATE VIRTUAL TABLE IF NOT EXISTS entries_fts USING fts5(
			session UNINDEXED,
			source UNINDEXED,
			seconds UNINDEXED,
			label,
			tokenize = 'unicode61 remove_diacritics 2'
		);
	`)
	return err
}

func ftsInsert(tx *sql.Tx, session string, entries []models.IndexedEntry) error {
	stmt, err := tx.Prepare(`INSERT INTO entries_fts (session, source, seconds, label) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("index: prepare fts insert: %w", err)
	}
	defer stmt.Close()
	for _, e := range entries {
		if _, err := stmt.Exec(session, e.Source, e.Seconds, e.Label); err != nil {
			return fmt.Errorf("index: insert fts: %w", err)
		}
	}
	return nil
}

func ftsDelete(tx *sql.Tx, session string) {
	_, _ = tx.Exec(`DELETE FROM entries_fts WHERE session = ?`, session)
}

// Search performs an FTS5 full-text search and returns matching entries
// with snippets.
func (db *DB) Search(query string, limit int) ([]SearchResult, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := db.conn.Query(`
		SELECT session,
		       source,
		       seconds,
		       label,
		       snippet(entries_fts, 3, '<b>', '</b>', '...', 16)
		FROM entries_fts
		WHERE entries_fts MATCH ?
		ORDER BY rank
		LIMIT ?
	`, query, limit)
	if err != nil {
		return nil, fmt.Errorf("index: search: %w", err)
	}
	return scanResults(rows)
}
