package controllers

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moyoez/http-file-store/store"
	"github.com/moyoez/http-file-store/tool"
	"github.com/moyoez/http-file-store/types"
)

func newController(t *testing.T, base string, aliases ...string) *FileController {
	t.Helper()
	fsys := afero.NewOsFs()
	reg := store.NewRegistry(fsys, nil)
	for _, name := range aliases {
		require.NoError(t, reg.Register(name, t.TempDir()))
	}
	return NewFileController(store.New(fsys, reg, tool.DefaultLogger), types.AppConfig{URLBase: base}, nil, nil)
}

func TestParseTargetSingleRoot(t *testing.T) {
	fc := newController(t, "/files/", "")

	tg, ok := fc.parseTarget("/files/a/b.txt")
	require.True(t, ok)
	assert.False(t, tg.root)
	assert.Equal(t, store.PathRequest{SubPath: "a/b.txt"}, tg.req)

	tg, ok = fc.parseTarget("/files")
	require.True(t, ok)
	assert.Equal(t, store.PathRequest{SubPath: ""}, tg.req)

	_, ok = fc.parseTarget("/other/a")
	assert.False(t, ok)
}

func TestParseTargetMultiAlias(t *testing.T) {
	fc := newController(t, "/", "docs", "music")

	tg, ok := fc.parseTarget("/")
	require.True(t, ok)
	assert.True(t, tg.root)

	tg, ok = fc.parseTarget("/docs/2024/report.txt")
	require.True(t, ok)
	assert.Equal(t, store.PathRequest{Alias: "docs", AliasGiven: true, SubPath: "2024/report.txt"}, tg.req)

	tg, ok = fc.parseTarget("/music")
	require.True(t, ok)
	assert.Equal(t, store.PathRequest{Alias: "music", AliasGiven: true}, tg.req)
}

func TestRelPath(t *testing.T) {
	assert.Equal(t, "a/b.txt", relPath("/srv/root", "/srv/root/a/b.txt"))
	assert.Equal(t, "", relPath("/srv/root", "/srv/root"))
}
