package index

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/starford/classlog/internal/models"
)

// SessionRow represents a row in the sessions table.
type SessionRow struct {
	ID          string
	Slug        string
	OfficeHours bool
	Checksum    string
	IndexedAt   time.Time
}

// SearchResult represents one search hit.
type SearchResult struct {
	Session string  `json:"session"`
	Source  string  `json:"source"`
	Seconds float64 `json:"seconds"`
	Label   string  `json:"label"`
	Snippet string  `json:"snippet"`
}

// Stats summarises the index contents.
type Stats struct {
	Sessions int `json:"sessions"`
	Entries  int `json:"entries"`
}

// UpsertSession replaces a session and all of its entries within a
// transaction.
func (db *DB) UpsertSession(row SessionRow, entries []models.IndexedEntry) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	if row.IndexedAt.IsZero() {
		row.IndexedAt = time.Now()
	}
	_, err = tx.Exec(`
		INSERT INTO sessions (id, slug, office_hours, checksum, indexed_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			slug         = excluded.slug,
			office_hours = excluded.office_hours,
			checksum     = excluded.checksum,
			indexed_at   = excluded.indexed_at
	`, row.ID, row.Slug, row.OfficeHours, row.Checksum, row.IndexedAt)
	if err != nil {
		return fmt.Errorf("index: upsert session: %w", err)
	}

	if _, err := tx.Exec(`DELETE FROM entries WHERE session = ?`, row.ID); err != nil {
		return fmt.Errorf("index: clear entries: %w", err)
	}
	ftsDelete(tx, row.ID)

	if len(entries) > 0 {
		stmt, err := tx.Prepare(`INSERT INTO entries (session, source, seconds, label) VALUES (?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("index: prepare entry insert: %w", err)
		}
		defer stmt.Close()
		for _, e := range entries {
			if _, err := stmt.Exec(row.ID, e.Source, e.Seconds, e.Label); err != nil {
				return fmt.Errorf("index: insert entry: %w", err)
			}
		}
		if err := ftsInsert(tx, row.ID, entries); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// DeleteSession removes a session and its entries.
func (db *DB) DeleteSession(id string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	ftsDelete(tx, id)
	if _, err := tx.Exec(`DELETE FROM entries WHERE session = ?`, id); err != nil {
		return fmt.Errorf("index: delete entries: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM sessions WHERE id = ?`, id); err != nil {
		return fmt.Errorf("index: delete session: %w", err)
	}
	return tx.Commit()
}

// GetChecksum returns the stored checksum for a session, or empty string
// if it is not indexed.
func (db *DB) GetChecksum(id string) (string, error) {
	var cs string
	err := db.conn.QueryRow(`SELECT checksum FROM sessions WHERE id = ?`, id).Scan(&cs)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("index: get checksum: %w", err)
	}
	return cs, nil
}

// AllChecksums returns the checksum of every indexed session.
func (db *DB) AllChecksums() (map[string]string, error) {
	rows, err := db.conn.Query(`SELECT id, checksum FROM sessions`)
	if err != nil {
		return nil, fmt.Errorf("index: all checksums: %w", err)
	}
	defer rows.Close()
	out := make(map[string]string)
	for rows.Next() {
		var id, cs string
		if err := rows.Scan(&id, &cs); err != nil {
			return nil, err
		}
		out[id] = cs
	}
	return out, rows.Err()
}

// Stats counts indexed sessions and entries.
func (db *DB) Stats() (Stats, error) {
	var s Stats
	err := db.conn.QueryRow(`SELECT (SELECT count(*) FROM sessions), (SELECT count(*) FROM entries)`).
		Scan(&s.Sessions, &s.Entries)
	if err != nil {
		return Stats{}, fmt.Errorf("index: stats: %w", err)
	}
	return s, nil
}

func scanResults(rows *sql.Rows) ([]SearchResult, error) {
	defer rows.Close()
	var out []SearchResult
	for rows.Next() {
		var r SearchResult
		if err := rows.Scan(&r.Session, &r.Source, &r.Seconds, &r.Label, &r.Snippet); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
