// Package decor implements the person-link decoration engine: it sweeps
// note HTML for internal links, resolves them through the host's
// metadata cache, and marks links to person notes with avatar classes,
// a data attribute, and a CSS custom property.
package decor

import "github.com/starford/mannaz/internal/models"

// Host is the capability surface the engine consumes. An adapter binds
// it to the concrete metadata cache and vault storage; tests bind it to
// an in-memory fake.
type Host interface {
	// ResolveLinkPath maps a link's text to a note path, relative to the
	// note the link appears in. A miss is an error (apperr.ErrNotFound).
	ResolveLinkPath(link, sourcePath string) (string, error)
	// FileCache returns the frontmatter mapping of a cached note.
	FileCache(path string) (map[string]any, error)
	// Exists reports whether a vault file exists at path.
	Exists(path string) bool
	// ResourceURL returns a browser-loadable URL for a vault file.
	ResourceURL(path string) string
}

// SettingsFunc returns the current avatar settings. The engine re-reads
// it per candidate rather than caching across scans, so a settings
// change between host events is honored by the next sweep.
type SettingsFunc func() models.AvatarSettings
