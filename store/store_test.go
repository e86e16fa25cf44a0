package store

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

// faultFs fails selected operations on paths matching a substring.
type faultFs struct {
	afero.Fs
	mu         sync.Mutex
	fails      map[string]string // op -> path substring
	afterWrite func()            // runs after every write to a file opened for writing
}

var errInjected = errors.New("injected failure")

func newFaultFs() *faultFs {
	return &faultFs{Fs: afero.NewOsFs(), fails: make(map[string]string)}
}

func (f *faultFs) failOn(op, pathPart string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fails[op] = pathPart
}

func (f *faultFs) check(op, path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if part, ok := f.fails[op]; ok && strings.Contains(path, part) {
		return &os.PathError{Op: op, Path: path, Err: errInjected}
	}
	return nil
}

func (f *faultFs) MkdirAll(path string, perm os.FileMode) error {
	if err := f.check("mkdirall", path); err != nil {
		return err
	}
	return f.Fs.MkdirAll(path, perm)
}

// Rename fails with "rename", or reports a cross-device move with "exdev".
func (f *faultFs) Rename(oldname, newname string) error {
	if err := f.check("rename", newname); err != nil {
		return err
	}
	if err := f.check("exdev", newname); err != nil {
		return &os.LinkError{Op: "rename", Old: oldname, New: newname, Err: syscall.EXDEV}
	}
	return f.Fs.Rename(oldname, newname)
}

func (f *faultFs) Stat(name string) (os.FileInfo, error) {
	if err := f.check("stat", name); err != nil {
		return nil, err
	}
	return f.Fs.Stat(name)
}

func (f *faultFs) OpenFile(name string, flag int, perm os.FileMode) (afero.File, error) {
	file, err := f.Fs.OpenFile(name, flag, perm)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	hook := f.afterWrite
	f.mu.Unlock()
	if hook != nil && flag&(os.O_WRONLY|os.O_RDWR) != 0 {
		return &hookedFile{File: file, after: hook}, nil
	}
	return file, nil
}

func (f *faultFs) onWrite(fn func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.afterWrite = fn
}

type hookedFile struct {
	afero.File
	after func()
}

func (h *hookedFile) Write(p []byte) (int, error) {
	n, err := h.File.Write(p)
	h.after()
	return n, err
}

func (f *faultFs) Chmod(name string, mode os.FileMode) error {
	if err := f.check("chmod", name); err != nil {
		return err
	}
	return f.Fs.Chmod(name, mode)
}

func (f *faultFs) Remove(name string) error {
	if err := f.check("remove", name); err != nil {
		return err
	}
	return f.Fs.Remove(name)
}

func (f *faultFs) RemoveAll(path string) error {
	if err := f.check("removeall", path); err != nil {
		return err
	}
	return f.Fs.RemoveAll(path)
}

func (f *faultFs) LstatIfPossible(name string) (os.FileInfo, bool, error) {
	return f.Fs.(afero.Lstater).LstatIfPossible(name)
}

type fixture struct {
	fs       *faultFs
	registry *Registry
	store    *Store
	base     string
}

func newFixture(t *testing.T, aliases ...string) *fixture {
	t.Helper()
	base := t.TempDir()
	fsys := newFaultFs()
	reg := NewRegistry(fsys, nil)
	for _, name := range aliases {
		dir := filepath.Join(base, "root-"+name)
		require.NoError(t, os.MkdirAll(dir, 0o755))
		require.NoError(t, reg.Register(name, dir))
	}
	logger := log.New(os.Stderr)
	logger.SetLevel(log.ErrorLevel)
	return &fixture{fs: fsys, registry: reg, store: New(fsys, reg, logger), base: base}
}

func (f *fixture) root(t *testing.T, alias string) string {
	t.Helper()
	root, ok := f.registry.Lookup(alias)
	require.True(t, ok)
	return root
}

// tempUpload writes content to a fresh temp file outside every alias root.
func (f *fixture) tempUpload(t *testing.T, content string) string {
	t.Helper()
	dir := filepath.Join(f.base, "uploads")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	tmp, err := os.CreateTemp(dir, "upload-*")
	require.NoError(t, err)
	_, err = tmp.WriteString(content)
	require.NoError(t, err)
	require.NoError(t, tmp.Close())
	return tmp.Name()
}

func requireKind(t *testing.T, err error, kind Kind) {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, kind, KindOf(err), "error: %v", err)
}
