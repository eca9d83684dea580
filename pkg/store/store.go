// Package store persists the menu configuration in the shared container.
package store

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/mchmarny/rightkit/pkg/model"
	"github.com/mchmarny/rightkit/pkg/notify"
)

// DefaultFileName is the configuration file inside the shared container.
const DefaultFileName = "menu.json"

// Loader is the read side of the store, used by the serving process.
type Loader interface {
	Load() model.MenuConfiguration
}

// Store reads and writes the configuration file. The editor process saves,
// the serving process only loads.
type Store struct {
	path     string
	notifier notify.Poster
}

// Option configures a Store.
type Option func(*Store)

// WithNotifier sets the poster signalled after every successful save.
func WithNotifier(p notify.Poster) Option {
	return func(s *Store) { s.notifier = p }
}

// WithFileName overrides DefaultFileName.
func WithFileName(name string) Option {
	return func(s *Store) { s.path = filepath.Join(filepath.Dir(s.path), name) }
}

// New creates a store rooted at the shared container dir.
func New(dir string, opts ...Option) *Store {
	s := &Store{path: filepath.Join(dir, DefaultFileName)}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the location of the configuration file.
func (s *Store) Path() string {
	return s.path
}

// Save writes cfg as given, atomically, and then posts the update signal. A failed write
// leaves the previous file in place and posts nothing. A failed post is logged
// only, since listeners tolerate missed signals.
func (s *Store) Save(cfg model.MenuConfiguration) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("store: invalid configuration: %w", err)
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("store: encode: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("store: create container: %w", err)
	}

	if err := writeAtomic(s.path, data, 0o644); err != nil {
		return fmt.Errorf("store: write %s: %w", s.path, err)
	}

	slog.Info("configuration saved", "path", s.path, "items", len(cfg.Items))

	if s.notifier != nil {
		if err := s.notifier.Notify(); err != nil {
			slog.Error("failed to post update signal", "error", err)
		}
	}

	return nil
}

// Load reads the configuration. It never fails: a missing, unreadable or
// invalid file yields model.DefaultConfiguration.
func (s *Store) Load() model.MenuConfiguration {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Error("failed to read configuration", "path", s.path, "error", err)
		}
		return model.DefaultConfiguration()
	}

	var cfg model.MenuConfiguration
	if err := json.Unmarshal(data, &cfg); err != nil {
		slog.Error("failed to decode configuration", "path", s.path, "error", err)
		return model.DefaultConfiguration()
	}

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "path", s.path, "error", err)
		return model.DefaultConfiguration()
	}

	return cfg
}
