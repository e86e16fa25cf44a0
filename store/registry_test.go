package store

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPersister struct {
	mu    sync.Mutex
	saved []map[string]string
	err   error
}

func (p *recordingPersister) SaveAliases(aliases map[string]string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.saved = append(p.saved, aliases)
	return nil
}

func TestRegistryAddRemove(t *testing.T) {
	dir := t.TempDir()
	p := &recordingPersister{}
	reg := NewRegistry(afero.NewOsFs(), p)

	got, err := reg.Add("music", dir)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"music": dir}, got)
	require.Len(t, p.saved, 1)

	_, err = reg.Add("music", dir)
	requireKind(t, err, KindAliasExists)

	got, err = reg.Remove("music")
	require.NoError(t, err)
	assert.Empty(t, got)
	require.Len(t, p.saved, 2)

	_, err = reg.Remove("music")
	requireKind(t, err, KindUnknownAlias)
}

func TestRegistryRejectsInvalidPath(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "plain.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))
	reg := NewRegistry(afero.NewOsFs(), nil)

	_, err := reg.Add("missing", filepath.Join(dir, "nope"))
	requireKind(t, err, KindInvalidAliasPath)
	_, err = reg.Add("file", file)
	requireKind(t, err, KindInvalidAliasPath)
	_, err = reg.Add("empty", "")
	requireKind(t, err, KindInvalidAliasPath)
	assert.Empty(t, reg.List())
}

func TestRegistryRollsBackOnPersistFailure(t *testing.T) {
	dir := t.TempDir()
	p := &recordingPersister{}
	reg := NewRegistry(afero.NewOsFs(), p)
	require.NoError(t, reg.Register("keep", dir))

	p.err = errors.New("disk full")
	_, err := reg.Add("new", dir)
	requireKind(t, err, KindPersistError)
	_, ok := reg.Lookup("new")
	assert.False(t, ok)

	_, err = reg.Remove("keep")
	requireKind(t, err, KindPersistError)
	root, ok := reg.Lookup("keep")
	assert.True(t, ok)
	assert.Equal(t, dir, root)
}

func TestRegistryModes(t *testing.T) {
	dir := t.TempDir()
	reg := NewRegistry(afero.NewOsFs(), nil)
	assert.False(t, reg.SingleRoot())

	require.NoError(t, reg.Register("", dir))
	assert.True(t, reg.SingleRoot())
	assert.True(t, reg.IsRoot(dir+string(filepath.Separator)))

	require.NoError(t, reg.Register("other", dir))
	assert.False(t, reg.SingleRoot())
	assert.Equal(t, []string{"", "other"}, reg.Names())
}

func TestRegistryListIsCopy(t *testing.T) {
	dir := t.TempDir()
	reg := NewRegistry(afero.NewOsFs(), nil)
	require.NoError(t, reg.Register("a", dir))

	list := reg.List()
	list["b"] = "/elsewhere"
	_, ok := reg.Lookup("b")
	assert.False(t, ok)
}

func TestRegistryConcurrentAccess(t *testing.T) {
	base := t.TempDir()
	reg := NewRegistry(afero.NewOsFs(), &recordingPersister{})
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		dir := filepath.Join(base, string(rune('a'+i)))
		require.NoError(t, os.Mkdir(dir, 0o755))
		wg.Add(2)
		go func(name, dir string) {
			defer wg.Done()
			_, _ = reg.Add(name, dir)
		}(filepath.Base(dir), dir)
		go func() {
			defer wg.Done()
			_ = reg.List()
			_ = reg.SingleRoot()
		}()
	}
	wg.Wait()
	assert.Len(t, reg.List(), 8)
}
