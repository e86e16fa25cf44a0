// Package store maps HTTP requests onto aliased directories and performs the
// listing, upload, mkdir and delete operations on them.
package store

import (
	"github.com/charmbracelet/log"
	"github.com/spf13/afero"
)

const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// Store performs filesystem operations on paths already resolved by a Registry.
type Store struct {
	fs       afero.Fs
	registry *Registry
	logger   *log.Logger
}

// New creates a Store. A nil logger falls back to log.Default().
func New(fs afero.Fs, registry *Registry, logger *log.Logger) *Store {
	if logger == nil {
		logger = log.Default()
	}
	return &Store{fs: fs, registry: registry, logger: logger}
}

// Registry returns the alias registry the store guards against.
func (s *Store) Registry() *Registry {
	return s.registry
}

// Fs returns the underlying filesystem.
func (s *Store) Fs() afero.Fs {
	return s.fs
}
