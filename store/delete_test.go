package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resolved(t *testing.T, f *fixture, alias, sub string) ResolvedPath {
	t.Helper()
	rp, err := f.registry.Resolve(PathRequest{Alias: alias, AliasGiven: alias != "", SubPath: sub})
	require.NoError(t, err)
	return rp
}

func TestDeleteFileTwice(t *testing.T) {
	f := newFixture(t, "")
	root := f.root(t, "")
	require.NoError(t, os.Mkdir(filepath.Join(root, "d"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "d", "f.txt"), []byte("x"), 0o644))

	parent, err := f.store.Delete(context.Background(), resolved(t, f, "", "/d/f.txt"), false)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "d"), parent)
	assert.NoFileExists(t, filepath.Join(root, "d", "f.txt"))

	_, err = f.store.Delete(context.Background(), resolved(t, f, "", "/d/f.txt"), false)
	requireKind(t, err, KindNotFound)
}

func TestDeleteDirectory(t *testing.T) {
	f := newFixture(t, "docs")
	root := f.root(t, "docs")
	full := filepath.Join(root, "full")
	require.NoError(t, os.MkdirAll(filepath.Join(full, "nested"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(full, "nested", "x"), nil, 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(root, "empty"), 0o755))

	parent, err := f.store.Delete(context.Background(), resolved(t, f, "docs", "/empty"), false)
	require.NoError(t, err)
	assert.Equal(t, root, parent)
	assert.NoDirExists(t, filepath.Join(root, "empty"))

	_, err = f.store.Delete(context.Background(), resolved(t, f, "docs", "/full"), false)
	requireKind(t, err, KindDirectoryNotEmpty)
	assert.DirExists(t, full)

	_, err = f.store.Delete(context.Background(), resolved(t, f, "docs", "/full"), true)
	require.NoError(t, err)
	assert.NoDirExists(t, full)
}

func TestDeleteRefusesAliasRoot(t *testing.T) {
	f := newFixture(t, "a", "b")
	for _, recursive := range []bool{false, true} {
		for _, sub := range []string{"", "/", "//"} {
			_, err := f.store.Delete(context.Background(), resolved(t, f, "a", sub), recursive)
			requireKind(t, err, KindCannotDeleteAliasRoot)
		}
	}
	assert.DirExists(t, f.root(t, "a"))

	// the root of another alias reached through a nested alias is refused too
	inner := filepath.Join(f.root(t, "a"), "inner")
	require.NoError(t, os.Mkdir(inner, 0o755))
	require.NoError(t, f.registry.Register("inner", inner))
	_, err := f.store.Delete(context.Background(), resolved(t, f, "a", "/inner"), true)
	requireKind(t, err, KindCannotDeleteAliasRoot)
}

func TestDeleteFailures(t *testing.T) {
	f := newFixture(t, "")
	root := f.root(t, "")
	require.NoError(t, os.WriteFile(filepath.Join(root, "locked.txt"), nil, 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "tree", "leaf"), 0o755))

	f.fs.failOn("remove", "locked")
	_, err := f.store.Delete(context.Background(), resolved(t, f, "", "/locked.txt"), false)
	requireKind(t, err, KindDeleteError)

	f.fs.failOn("removeall", "tree")
	_, err = f.store.Delete(context.Background(), resolved(t, f, "", "/tree"), true)
	requireKind(t, err, KindDeleteError)
}

func TestDeleteUnlinksSymlinks(t *testing.T) {
	f := newFixture(t, "docs")
	root := f.root(t, "docs")
	require.NoError(t, os.Symlink(filepath.Join(root, "missing"), filepath.Join(root, "dead")))

	entries, err := f.store.List(context.Background(), root, false)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "dead", entries[0].Name)

	parent, err := f.store.Delete(context.Background(), resolved(t, f, "docs", "/dead"), false)
	require.NoError(t, err)
	assert.Equal(t, root, parent)
	_, err = os.Lstat(filepath.Join(root, "dead"))
	assert.True(t, os.IsNotExist(err), "dangling link still present")

	target := filepath.Join(f.base, "outside")
	require.NoError(t, os.MkdirAll(target, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(target, "keep.txt"), []byte("x"), 0o644))
	require.NoError(t, os.Symlink(target, filepath.Join(root, "linked")))

	_, err = f.store.Delete(context.Background(), resolved(t, f, "docs", "/linked"), false)
	require.NoError(t, err)
	_, err = os.Lstat(filepath.Join(root, "linked"))
	assert.True(t, os.IsNotExist(err), "directory link still present")
	assert.FileExists(t, filepath.Join(target, "keep.txt"))
}
