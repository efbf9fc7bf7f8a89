// Package storage defines the file-system abstraction over the sessions
// directory and the output directory.
package storage

import "github.com/starford/classlog/internal/models"

// Provider is the interface for session file operations. All paths are
// relative to the provider root.
type Provider interface {
	// Root returns the absolute root directory.
	Root() string
	// Dirs returns the names of the directories directly under dir.
	Dirs(dir string) ([]string, error)
	// Names returns the names of every entry directly under dir.
	Names(dir string) ([]string, error)
	// List returns metadata for every regular file under dir, recursively.
	List(dir string) ([]models.FileMetadata, error)
	// Read returns the raw bytes of the file at path. A missing file yields
	// an error matching fs.ErrNotExist.
	Read(path string) ([]byte, error)
	// Exists reports whether path exists.
	Exists(path string) bool
	// Write atomically writes content to path.
	Write(path string, content []byte) error
	// Delete removes the file at path.
	Delete(path string) error
}
