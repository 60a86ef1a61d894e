// Package host binds the decoration engine's capability surface to the
// concrete metadata cache and vault storage.
package host

import (
	"github.com/starford/mannaz/internal/index"
	"github.com/starford/mannaz/internal/storage"
)

// Adapter implements decor.Host on top of the sqlite metadata cache and
// the vault file system.
type Adapter struct {
	cache   index.MetadataCache
	storage storage.Provider
}

// New creates a host adapter.
func New(cache index.MetadataCache, provider storage.Provider) *Adapter {
	return &Adapter{cache: cache, storage: provider}
}

func (a *Adapter) ResolveLinkPath(link, sourcePath string) (string, error) {
	return a.cache.ResolveLinkPath(link, sourcePath)
}

func (a *Adapter) FileCache(path string) (map[string]any, error) {
	return a.cache.FileCache(path)
}

// Exists consults the file system directly rather than the cache: avatar
// images are not markdown and never enter the index.
func (a *Adapter) Exists(path string) bool {
	return a.storage.Exists(path)
}

func (a *Adapter) ResourceURL(path string) string {
	return a.storage.ResourceURL(path)
}
