package tool

import (
	"context"
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/moyoez/http-file-store/store"
)

const tempUploadPrefix = "hfs-upload-"

// TempUploadPath returns a fresh, unique path under dir for a received file.
func TempUploadPath(dir string) string {
	return filepath.Join(dir, tempUploadPrefix+uuid.New().String())
}

// SaveUploadedTemp streams a multipart file into dir under a unique name and
// returns its path. A partially written file is removed on failure.
func SaveUploadedTemp(ctx context.Context, fh *multipart.FileHeader, dir string) (string, error) {
	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}
	path := TempUploadPath(dir)
	dst, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	if _, err := store.CopyWithContext(ctx, dst, src); err != nil {
		dst.Close()
		_ = os.Remove(path)
		return "", fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := dst.Close(); err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("failed to write temp file: %w", err)
	}
	DefaultLogger.Debugf("[Upload] received %s (%d bytes) into %s", fh.Filename, fh.Size, path)
	return path, nil
}
