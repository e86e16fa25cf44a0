// Package watch reports directory changes under the alias roots.
package watch

import (
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"

	"github.com/moyoez/http-file-store/types"
)

const debounce = 250 * time.Millisecond

// Publisher receives the debounced change events.
type Publisher interface {
	Publish(event types.Event)
}

var ignoreDirs = map[string]struct{}{
	".git":         {},
	".hg":          {},
	".svn":         {},
	"node_modules": {},
}

// Watcher watches every directory below a set of alias roots.
type Watcher struct {
	watcher *fsnotify.Watcher
	pub     Publisher
	logger  *log.Logger

	mu      sync.Mutex
	roots   map[string]string // root -> alias
	watched map[string]struct{}

	stopCh chan struct{}
	doneCh chan struct{}
	once   sync.Once
}

// New creates a watcher for roots (alias name -> root directory).
func New(roots map[string]string, pub Publisher, logger *log.Logger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.Default()
	}
	w := &Watcher{
		watcher: fw,
		pub:     pub,
		logger:  logger,
		roots:   make(map[string]string),
		watched: make(map[string]struct{}),
		stopCh:  make(chan struct{}),
		doneCh:  make(chan struct{}),
	}
	for alias, root := range roots {
		if err := w.AddRoot(alias, root); err != nil {
			_ = fw.Close()
			return nil, err
		}
	}
	return w, nil
}

// Start runs the event loop in the background.
func (w *Watcher) Start() {
	go w.loop()
}

// Stop closes the watcher and waits for the loop to flush.
func (w *Watcher) Stop() {
	w.once.Do(func() {
		close(w.stopCh)
		_ = w.watcher.Close()
	})
	<-w.doneCh
}

// AddRoot starts watching root and its sub-directories for alias.
func (w *Watcher) AddRoot(alias, root string) error {
	root = filepath.Clean(root)
	w.mu.Lock()
	w.roots[root] = alias
	w.mu.Unlock()
	return w.addRecursive(root)
}

// RemoveRoot stops reporting changes below root. Directories shared with
// another root stay watched.
func (w *Watcher) RemoveRoot(root string) {
	root = filepath.Clean(root)
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.roots, root)
	for dir := range w.watched {
		if _, _, ok := w.ownerLocked(dir); ok {
			continue
		}
		_ = w.watcher.Remove(dir)
		delete(w.watched, dir)
	}
}

func (w *Watcher) addRecursive(root string) error {
	first := true
	return filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if first {
				return err
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if p != root {
			if _, ok := ignoreDirs[d.Name()]; ok {
				return filepath.SkipDir
			}
		}
		required := first
		first = false
		if err := w.addDir(p); err != nil && required {
			return err
		}
		return nil
	})
}

func (w *Watcher) addDir(dir string) error {
	dir = filepath.Clean(dir)
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.watched[dir]; ok {
		return nil
	}
	if err := w.watcher.Add(dir); err != nil {
		return err
	}
	w.watched[dir] = struct{}{}
	return nil
}

// ownerLocked finds the deepest root containing path.
func (w *Watcher) ownerLocked(path string) (alias, rel string, ok bool) {
	best := ""
	for root, name := range w.roots {
		r, err := filepath.Rel(root, path)
		if err != nil || r == ".." || strings.HasPrefix(r, ".."+string(filepath.Separator)) {
			continue
		}
		if len(root) > len(best) {
			best, alias, rel, ok = root, name, r, true
		}
	}
	if ok {
		rel = filepath.ToSlash(rel)
		if rel == "." {
			rel = ""
		}
	}
	return alias, rel, ok
}

func ignored(rel string) bool {
	for _, part := range strings.Split(rel, "/") {
		if _, ok := ignoreDirs[part]; ok {
			return true
		}
	}
	return false
}

func (w *Watcher) loop() {
	defer close(w.doneCh)

	pending := map[string]map[string]struct{}{} // alias -> dirs
	var timer *time.Timer
	var timerC <-chan time.Time

	flush := func() {
		for alias, dirs := range pending {
			w.pub.Publish(types.Event{
				Type:  types.EventDirsChanged,
				Alias: alias,
				Dirs:  slices.Sorted(maps.Keys(dirs)),
			})
		}
		pending = map[string]map[string]struct{}{}
		timerC = nil
	}

	for {
		select {
		case <-w.stopCh:
			if timer != nil {
				timer.Stop()
			}
			flush()
			return
		case err, ok := <-w.watcher.Errors:
			if !ok {
				flush()
				return
			}
			w.logger.Warnf("[Watch] %v", err)
		case ev, ok := <-w.watcher.Events:
			if !ok {
				flush()
				return
			}
			if ev.Name == "" || !ev.Has(fsnotify.Create|fsnotify.Remove|fsnotify.Rename) {
				continue
			}
			if ev.Has(fsnotify.Create) {
				_ = w.addRecursiveIfDir(ev.Name)
			}

			w.mu.Lock()
			alias, rel, ok := w.ownerLocked(filepath.Dir(filepath.Clean(ev.Name)))
			w.mu.Unlock()
			if !ok || ignored(rel) {
				continue
			}
			if pending[alias] == nil {
				pending[alias] = map[string]struct{}{}
			}
			pending[alias][rel] = struct{}{}

			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				timer.Reset(debounce)
			}
			timerC = timer.C
		case <-timerC:
			flush()
		}
	}
}

func (w *Watcher) addRecursiveIfDir(path string) error {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return err
	}
	return w.addRecursive(filepath.Clean(path))
}
