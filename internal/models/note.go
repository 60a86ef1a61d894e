// Package models defines the domain types for Mannaz.
package models

import (
	"strings"
	"time"
)

// Note represents a parsed Markdown file in the vault.
type Note struct {
	Path        string         `json:"path"`
	Body        string         `json:"body"`
	Frontmatter map[string]any `json:"frontmatter,omitempty"`
	Title       string         `json:"title,omitempty"`
	Links       []string       `json:"links,omitempty"`
	Checksum    string         `json:"checksum"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// NoteMetadata is a lightweight representation returned by list operations.
type NoteMetadata struct {
	Path      string    `json:"path"`
	Checksum  string    `json:"checksum"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Person is a note under the people folder, with its chosen avatar URL.
type Person struct {
	Path      string `json:"path"`
	Title     string `json:"title"`
	AvatarURL string `json:"avatarUrl"`
}

// AvatarSettings is the runtime configuration of the decoration engine.
// Folder paths use forward slashes and carry no trailing slash.
type AvatarSettings struct {
	AvatarsEnabled   bool   `json:"avatarsEnabled"`
	AvatarFolderPath string `json:"avatarFolderPath"`
	PeopleFolderPath string `json:"peopleFolderPath"`
}

// DefaultAvatarSettings returns the settings used before any user change.
func DefaultAvatarSettings() AvatarSettings {
	return AvatarSettings{
		AvatarsEnabled:   true,
		AvatarFolderPath: "",
		PeopleFolderPath: "Sets/People",
	}
}

// NormalizeFolderPath converts separators to forward slashes and strips
// any trailing slash.
func NormalizeFolderPath(p string) string {
	p = strings.ReplaceAll(p, "\\", "/")
	return strings.TrimRight(p, "/")
}

// Normalize returns a copy with both folder paths normalized.
func (s AvatarSettings) Normalize() AvatarSettings {
	s.AvatarFolderPath = NormalizeFolderPath(s.AvatarFolderPath)
	s.PeopleFolderPath = NormalizeFolderPath(s.PeopleFolderPath)
	return s
}
