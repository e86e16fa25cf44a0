package store

import (
	"maps"
	"path/filepath"
	"slices"
	"sync"

	"github.com/spf13/afero"
)

// Persister saves the alias mapping after a runtime change.
type Persister interface {
	SaveAliases(aliases map[string]string) error
}

// Registry maps alias names to absolute root directories. The empty name is
// the single-root sentinel.
type Registry struct {
	mu        sync.RWMutex
	fs        afero.Fs
	aliases   map[string]string
	persister Persister
}

// NewRegistry creates an empty registry. persister may be nil, in which case
// runtime changes live in memory only.
func NewRegistry(fs afero.Fs, persister Persister) *Registry {
	return &Registry{
		fs:        fs,
		aliases:   make(map[string]string),
		persister: persister,
	}
}

// Register adds an alias without persisting it. Used at startup to load
// aliases from configuration.
func (r *Registry) Register(name, path string) error {
	root, err := r.validateRoot(path)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.aliases[name]; ok {
		return newError(KindAliasExists, "register", name, nil)
	}
	r.aliases[name] = root
	return nil
}

// Add registers an alias and persists the new mapping, reverting the change
// when persistence fails.
func (r *Registry) Add(name, path string) (map[string]string, error) {
	root, err := r.validateRoot(path)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.aliases[name]; ok {
		return nil, newError(KindAliasExists, "add alias", name, nil)
	}
	r.aliases[name] = root
	if err := r.persistLocked(); err != nil {
		delete(r.aliases, name)
		return nil, newError(KindPersistError, "add alias", name, err)
	}
	return maps.Clone(r.aliases), nil
}

// Remove unregisters an alias and persists the new mapping, restoring the
// entry when persistence fails.
func (r *Registry) Remove(name string) (map[string]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	root, ok := r.aliases[name]
	if !ok {
		return nil, newError(KindUnknownAlias, "remove alias", name, nil)
	}
	delete(r.aliases, name)
	if err := r.persistLocked(); err != nil {
		r.aliases[name] = root
		return nil, newError(KindPersistError, "remove alias", name, err)
	}
	return maps.Clone(r.aliases), nil
}

// List returns a copy of the current mapping.
func (r *Registry) List() map[string]string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return maps.Clone(r.aliases)
}

// Lookup returns the root directory of name.
func (r *Registry) Lookup(name string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	root, ok := r.aliases[name]
	return root, ok
}

// SingleRoot reports whether the registry holds exactly one alias, named "".
func (r *Registry) SingleRoot() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.aliases[""]
	return ok && len(r.aliases) == 1
}

// Names returns the alias names in lexical order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.aliases))
}

// IsRoot reports whether path is the root directory of any alias.
func (r *Registry) IsRoot(path string) bool {
	clean := filepath.Clean(path)
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, root := range r.aliases {
		if filepath.Clean(root) == clean {
			return true
		}
	}
	return false
}

func (r *Registry) validateRoot(path string) (string, error) {
	if path == "" {
		return "", newError(KindInvalidAliasPath, "validate alias", path, nil)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", newError(KindInvalidAliasPath, "validate alias", path, err)
	}
	info, err := r.fs.Stat(abs)
	if err != nil {
		return "", newError(KindInvalidAliasPath, "validate alias", abs, err)
	}
	if !info.IsDir() {
		return "", newError(KindInvalidAliasPath, "validate alias", abs, nil)
	}
	return abs, nil
}

func (r *Registry) persistLocked() error {
	if r.persister == nil {
		return nil
	}
	return r.persister.SaveAliases(maps.Clone(r.aliases))
}
