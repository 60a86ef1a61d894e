// Package people lists the notes under the configured people folder
// together with their chosen avatar URLs.
package people

import (
	"errors"
	"fmt"
	"sort"

	"github.com/starford/mannaz/internal/apperr"
	"github.com/starford/mannaz/internal/decor"
	"github.com/starford/mannaz/internal/index"
	"github.com/starford/mannaz/internal/models"
)

// Service answers people queries against the metadata cache.
type Service struct {
	cache    index.MetadataCache
	selector *decor.Selector
	settings decor.SettingsFunc
}

// NewService creates a people service.
func NewService(cache index.MetadataCache, host decor.Host, settings decor.SettingsFunc) *Service {
	return &Service{
		cache:    cache,
		selector: decor.NewSelector(host),
		settings: settings,
	}
}

// List returns every person note under the people folder, sorted by
// path. Each entry carries the avatar URL decoration would use.
func (s *Service) List() ([]models.Person, error) {
	settings := s.settings()
	if settings.PeopleFolderPath == "" {
		return []models.Person{}, nil
	}

	paths, err := s.cache.ListFolder(settings.PeopleFolderPath)
	if err != nil {
		return nil, fmt.Errorf("people: list folder: %w", err)
	}
	sort.Strings(paths)

	out := make([]models.Person, 0, len(paths))
	for _, p := range paths {
		title, err := s.cache.Title(p)
		if err != nil || title == "" {
			title = index.Stem(p)
		}
		fm, err := s.cache.FileCache(p)
		if err != nil && !errors.Is(err, apperr.ErrNotFound) {
			return nil, fmt.Errorf("people: frontmatter for %s: %w", p, err)
		}
		out = append(out, models.Person{
			Path:      p,
			Title:     title,
			AvatarURL: s.selector.Choose(&decor.Target{Path: p, Frontmatter: fm}, settings),
		})
	}
	return out, nil
}

// Get returns one person by note path.
func (s *Service) Get(path string) (models.Person, error) {
	settings := s.settings()
	if !decor.IsPerson(path, settings.PeopleFolderPath) {
		return models.Person{}, apperr.ErrNotFound
	}

	// FileCache distinguishes a known note without frontmatter (empty
	// map) from a note the cache has never seen (ErrNotFound).
	fm, err := s.cache.FileCache(path)
	if err != nil {
		return models.Person{}, err
	}
	title, err := s.cache.Title(path)
	if err != nil || title == "" {
		title = index.Stem(path)
	}
	return models.Person{
		Path:      path,
		Title:     title,
		AvatarURL: s.selector.Choose(&decor.Target{Path: path, Frontmatter: fm}, settings),
	}, nil
}
