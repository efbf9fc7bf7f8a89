package index

import "github.com/starford/classlog/internal/models"

// SessionIndex defines the interface for timeline indexing operations.
// Consumers should depend on this interface rather than the concrete *DB
// type to facilitate testing with mocks.
type SessionIndex interface {
	UpsertSession(row SessionRow, entries []models.IndexedEntry) error
	DeleteSession(id string) error
	GetChecksum(id string) (string, error)
	AllChecksums() (map[string]string, error)
	Search(query string, limit int) ([]SearchResult, error)
	Stats() (Stats, error)
	Close() error
}

// Verify *DB satisfies SessionIndex at compile time.
var _ SessionIndex = (*DB)(nil)
