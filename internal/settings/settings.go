// Package settings persists avatar settings inside the vault and
// notifies the rest of the application when they change.
package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"sync"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/mannaz/internal/apperr"
	"github.com/starford/mannaz/internal/events"
	"github.com/starford/mannaz/internal/models"
	"github.com/starford/mannaz/internal/storage"
)

// FilePath is where settings live inside the vault.
const FilePath = ".mannaz/settings.json"

// Store holds the current avatar settings. Reads are served from
// memory; Save validates, persists to the vault and publishes a
// layout-change event so open views get rescanned.
type Store struct {
	mu      sync.RWMutex
	current models.AvatarSettings

	storage storage.Provider
	bus     *events.Bus
	logger  *slog.Logger
}

// NewStore loads settings from the vault, falling back to seed when
// the settings file is missing or unreadable. The seed usually comes
// from the static config.
func NewStore(provider storage.Provider, bus *events.Bus, logger *slog.Logger, seed models.AvatarSettings) *Store {
	s := &Store{
		current: seed.Normalize(),
		storage: provider,
		bus:     bus,
		logger:  logger,
	}

	raw, err := provider.Read(FilePath)
	if errors.Is(err, fs.ErrNotExist) {
		logger.Debug("settings file not found, using defaults", "path", FilePath)
		return s
	}
	if err != nil {
		logger.Warn("settings file unreadable, using defaults", "path", FilePath, "error", err)
		return s
	}

	var loaded models.AvatarSettings
	if err := json.Unmarshal(raw, &loaded); err != nil {
		logger.Warn("settings file corrupt, using defaults", "path", FilePath, "error", err)
		return s
	}

	s.current = loaded.Normalize()
	return s
}

// Snapshot returns the current settings by value.
func (s *Store) Snapshot() models.AvatarSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Save validates and persists new settings. On validation failure the
// previous settings stay in effect; the refusal is logged and returned.
func (s *Store) Save(next models.AvatarSettings) error {
	next = next.Normalize()

	if err := s.validate(next); err != nil {
		s.logger.Warn("refusing to save invalid settings", "error", err)
		return err
	}

	raw, err := json.MarshalIndent(next, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling settings: %w", err)
	}
	if err := s.storage.Write(FilePath, raw); err != nil {
		return fmt.Errorf("writing settings: %w", err)
	}

	s.mu.Lock()
	s.current = next
	s.mu.Unlock()

	// Decorations applied under the old settings are not unwound; a
	// layout-change rescan picks up the new configuration for anything
	// still undecorated.
	if s.bus != nil {
		s.bus.Publish(events.Event{Kind: events.KindLayoutChange})
	}
	return nil
}

func (s *Store) validate(next models.AvatarSettings) error {
	err := validation.ValidateStruct(&next,
		validation.Field(&next.PeopleFolderPath, validation.Required, validation.By(s.folderExists)),
		validation.Field(&next.AvatarFolderPath, validation.By(s.folderExists)),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", apperr.ErrInvalidSettings, err)
	}
	return nil
}

// folderExists accepts the empty string; Required guards the fields
// that must be set.
func (s *Store) folderExists(value any) error {
	p, _ := value.(string)
	if p == "" {
		return nil
	}
	if !s.storage.Exists(p) {
		return fmt.Errorf("folder %q does not exist", p)
	}
	return nil
}
