package storage

import (
	"errors"
	"fmt"
	"sync"

	"github.com/eugenenazirov/flow-layout/internal/arrange"
	"github.com/eugenenazirov/flow-layout/internal/flow"
)

// MaxItemCount bounds the number of demo capsules.
const MaxItemCount = 50

const defaultItemCount = 5

var (
	// ErrInvalidSettings indicates the provided settings violate validation rules.
	ErrInvalidSettings = errors.New("invalid layout settings")
)

// Settings is the picker state shared by every client of the service.
type Settings struct {
	Algorithm arrange.Algorithm
	Spacing   float64
	Radius    float64
	ItemCount int
}

// Options converts the settings into strategy options.
func (s Settings) Options() arrange.Options {
	return arrange.Options{Spacing: s.Spacing, Radius: s.Radius}
}

// Storage provides access to the current layout settings.
type Storage interface {
	GetSettings() (Settings, error)
	SetSettings(settings Settings) error
	UpdateSettings(update func(*Settings)) (Settings, error)
}

// MemoryStorage keeps settings in-memory and guards access with a RWMutex.
type MemoryStorage struct {
	mu       sync.RWMutex
	settings Settings
}

// NewMemoryStorage initialises storage with the default settings.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		settings: DefaultSettings(),
	}
}

// DefaultSettings returns the initial picker state: hstack, spacing 10,
// radius 200 and five items.
func DefaultSettings() Settings {
	return Settings{
		Algorithm: arrange.HStack,
		Spacing:   flow.DefaultSpacing,
		Radius:    arrange.DefaultRadius,
		ItemCount: defaultItemCount,
	}
}

// GetSettings returns the currently stored settings.
func (s *MemoryStorage) GetSettings() (Settings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.settings, nil
}

// SetSettings validates and stores the provided settings.
func (s *MemoryStorage) SetSettings(settings Settings) error {
	if err := Validate(settings); err != nil {
		return err
	}

	s.mu.Lock()
	s.settings = settings
	s.mu.Unlock()

	return nil
}

// Validate checks every field of settings.
func Validate(settings Settings) error {
	if !settings.Algorithm.Valid() {
		return fmt.Errorf("%w: unknown algorithm %q", ErrInvalidSettings, settings.Algorithm)
	}
	if !flow.ValidLength(settings.Spacing) {
		return fmt.Errorf("%w: spacing must be a finite non-negative number", ErrInvalidSettings)
	}
	if !flow.ValidLength(settings.Radius) {
		return fmt.Errorf("%w: radius must be a finite non-negative number", ErrInvalidSettings)
	}
	if settings.ItemCount < 1 || settings.ItemCount > MaxItemCount {
		return fmt.Errorf("%w: item count must be between 1 and %d", ErrInvalidSettings, MaxItemCount)
	}
	return nil
}

// UpdateSettings applies update to a copy of the current settings and stores
// the result if it validates. The write lock is held throughout, so
// concurrent partial updates never overwrite each other.
func (s *MemoryStorage) UpdateSettings(update func(*Settings)) (Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.settings
	update(&next)
	if err := Validate(next); err != nil {
		return s.settings, err
	}
	s.settings = next

	return next, nil
}
