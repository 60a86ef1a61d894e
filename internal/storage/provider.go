// Package storage defines the vault file-system abstraction.
package storage

import "github.com/starford/mannaz/internal/models"

// Provider is the interface for vault file operations. The decoration
// engine never mutates notes; Write exists solely for settings persistence.
type Provider interface {
	// List returns metadata for every .md file under dir (relative to vault root).
	List(dir string) ([]models.NoteMetadata, error)
	// Read returns the raw bytes of the file at path (relative to vault root).
	Read(path string) ([]byte, error)
	// Exists reports whether a file or directory exists at path.
	Exists(path string) bool
	// Write atomically writes content to path (relative to vault root).
	Write(path string, content []byte) error
	// ResourceURL returns a URL under which the file at path is served.
	ResourceURL(path string) string
}
