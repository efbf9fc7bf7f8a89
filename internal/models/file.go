// Package models defines the shared record types passed between storage,
// the index and the API.
package models

import "time"

// FileMetadata describes one artifact file inside a session directory.
type FileMetadata struct {
	Path      string    `json:"path"`
	Checksum  string    `json:"checksum"`
	Size      int64     `json:"size"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IndexedEntry is one timeline entry as stored in the search index.
type IndexedEntry struct {
	Session string  `json:"session"`
	Source  string  `json:"source"`
	Seconds float64 `json:"seconds"`
	Label   string  `json:"label"`
}
