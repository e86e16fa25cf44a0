package tool

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moyoez/http-file-store/types"
)

func TestDetectContentType(t *testing.T) {
	assert.Equal(t, "text/plain; charset=utf-8", DetectContentType("notes.txt", strings.NewReader("hello")))

	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
	r := bytes.NewReader(png)
	assert.Equal(t, "image/png", DetectContentType("blob", r))
	pos, err := r.Seek(0, 1)
	require.NoError(t, err)
	assert.Zero(t, pos)
}

func TestLoadTLSConfigSelfSigned(t *testing.T) {
	cfg, err := LoadTLSConfig(&types.SSLConfig{SelfSigned: true})
	require.NoError(t, err)
	require.Len(t, cfg.Certificates, 1)
	assert.NotEmpty(t, cfg.Certificates[0].Certificate)

	_, err = LoadTLSConfig(&types.SSLConfig{})
	assert.Error(t, err)
	_, err = LoadTLSConfig(nil)
	assert.Error(t, err)
}

func TestBuildServiceURL(t *testing.T) {
	assert.Equal(t, "http://127.0.0.1:8091/", BuildServiceURL("http", "127.0.0.1", 8091, "/"))
	assert.Equal(t, "https://example.com:443/files/", BuildServiceURL("https", "example.com", 443, "files"))
	assert.True(t, strings.HasPrefix(BuildServiceURL("http", "0.0.0.0", 80, "/"), "http://"))
}

func TestSaveUploadedTemp(t *testing.T) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "report.txt")
	require.NoError(t, err)
	_, err = part.Write([]byte("quarterly numbers"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest("POST", "/", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))
	fh := req.MultipartForm.File["file"][0]

	dir := filepath.Join(t.TempDir(), "uploads")
	path, err := SaveUploadedTemp(context.Background(), fh, dir)
	require.NoError(t, err)
	assert.Equal(t, dir, filepath.Dir(path))
	assert.True(t, strings.HasPrefix(filepath.Base(path), tempUploadPrefix))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "quarterly numbers", string(data))
}

func TestSaveUploadedTempCanceled(t *testing.T) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "big.bin")
	require.NoError(t, err)
	_, err = part.Write(bytes.Repeat([]byte("x"), 4096))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest("POST", "/", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	dir := t.TempDir()
	_, err = SaveUploadedTemp(ctx, req.MultipartForm.File["file"][0], dir)
	require.Error(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
