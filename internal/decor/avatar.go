package decor

import (
	"net/url"

	"github.com/starford/mannaz/internal/models"
)

// defaultAvatarSVG is the built-in silhouette shown when a person note
// has no usable avatar. It renders in currentColor so it follows the
// host theme.
const defaultAvatarSVG = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 24 24" fill="currentColor"><path d="M12 12c2.76 0 5-2.24 5-5s-2.24-5-5-5-5 2.24-5 5 2.24 5 5 5zm0 2c-3.87 0-7 1.79-7 4v2h14v-2c0-2.21-3.13-4-7-4z"/></svg>`

// defaultAvatarURL is encoded once; decoration never re-encodes it.
var defaultAvatarURL = "data:image/svg+xml," + url.PathEscape(defaultAvatarSVG)

// DefaultAvatarURL returns the data URL of the built-in silhouette icon.
func DefaultAvatarURL() string {
	return defaultAvatarURL
}

// Selector chooses the avatar image URL for a person note.
type Selector struct {
	host Host
}

// NewSelector creates a selector bound to a host.
func NewSelector(host Host) *Selector {
	return &Selector{host: host}
}

// Choose returns the configured avatar's resource URL when the note
// names one and the file exists under the avatar folder, and the
// default silhouette otherwise. A person link is never left without a
// URL: an unresolvable avatar degrades rather than skipping decoration.
func (s *Selector) Choose(t *Target, settings models.AvatarSettings) string {
	name, _ := t.Frontmatter["avatar"].(string)
	if name == "" {
		return defaultAvatarURL
	}
	if settings.AvatarFolderPath == "" {
		return defaultAvatarURL
	}
	avatarPath := settings.AvatarFolderPath + "/" + name
	if !s.host.Exists(avatarPath) {
		return defaultAvatarURL
	}
	return s.host.ResourceURL(avatarPath)
}
