package store

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// payload spans several copy buffers.
func payload() string {
	var b strings.Builder
	for i := 0; b.Len() < 2*copyBufferSize+17; i++ {
		b.WriteString("block ")
		b.WriteByte(byte('a' + i%26))
		b.WriteByte('\n')
	}
	return b.String()
}

func TestCopyWithContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var dst bytes.Buffer
	n, err := CopyWithContext(ctx, &dst, strings.NewReader("data"))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, n)
	assert.Zero(t, dst.Len())
}

func TestMoveAcrossDevices(t *testing.T) {
	f := newFixture(t, "docs")
	root := f.root(t, "docs")
	content := payload()
	src := f.tempUpload(t, content)
	dst := filepath.Join(root, "moved.bin")
	f.fs.failOn("exdev", "moved.bin")

	require.NoError(t, f.store.move(context.Background(), src, dst))

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, content, string(data))
	assert.NoFileExists(t, src)
}

func TestUploadAcrossDevices(t *testing.T) {
	f := newFixture(t, "docs")
	root := f.root(t, "docs")
	tmp := f.tempUpload(t, "cross device")
	f.fs.failOn("exdev", "far.txt")

	dest, err := f.store.Upload(context.Background(), UploadRequest{
		TempFilePath:     tmp,
		OriginalFilename: "far.txt",
		TargetDirectory:  root,
	})
	require.NoError(t, err)
	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "cross device", string(data))
	assert.NoFileExists(t, tmp)
}

func TestMoveAcrossDevicesCanceledMidCopy(t *testing.T) {
	f := newFixture(t, "docs")
	root := f.root(t, "docs")
	src := f.tempUpload(t, payload())
	dst := filepath.Join(root, "partial.bin")
	f.fs.failOn("exdev", "partial.bin")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	f.fs.onWrite(cancel)

	err := f.store.move(ctx, src, dst)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled), "err: %v", err)
	assert.NoFileExists(t, dst)
	assert.FileExists(t, src)
}

func TestUploadCanceledDuringCrossDeviceCopy(t *testing.T) {
	f := newFixture(t, "docs")
	root := f.root(t, "docs")
	tmp := f.tempUpload(t, payload())
	f.fs.failOn("exdev", "big.bin")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	f.fs.onWrite(cancel)

	_, err := f.store.Upload(ctx, UploadRequest{
		TempFilePath:     tmp,
		OriginalFilename: "big.bin",
		TargetDirectory:  root,
	})
	requireKind(t, err, KindCanceled)
	assert.NoFileExists(t, filepath.Join(root, "big.bin"))
	assert.NoFileExists(t, tmp)
}
