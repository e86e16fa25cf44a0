package store

import (
	"context"
	"errors"
	"io/fs"
	"path/filepath"
	"strings"
)

// UploadRequest describes one received file waiting to be placed. The temp
// file belongs to the caller until Upload returns; after that it has either
// been moved to its destination or removed.
type UploadRequest struct {
	TempFilePath     string
	OriginalFilename string
	TargetDirectory  string
	Overwrite        bool
}

// OverwritePermitted combines the server setting with the per-request opt-in.
func OverwritePermitted(configured, requested bool) bool {
	return configured && requested
}

// ValidateFilename rejects names that could leave their target directory.
func ValidateFilename(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return newError(KindInvalidPath, "validate filename", name, nil)
	}
	return nil
}

type uploadStep struct {
	name string
	run  func() error
}

// Upload places req.TempFilePath at TargetDirectory/OriginalFilename and
// returns the destination path. The temp file is removed on every return path.
func (s *Store) Upload(ctx context.Context, req UploadRequest) (dest string, err error) {
	defer s.cleanupTemp(req.TempFilePath)

	if HasTraversal(req.TargetDirectory) {
		return "", newError(KindInvalidPath, "upload", req.TargetDirectory, nil)
	}
	if err := ValidateFilename(req.OriginalFilename); err != nil {
		return "", err
	}
	dest = filepath.Join(req.TargetDirectory, req.OriginalFilename)

	steps := []uploadStep{
		{"check existing", func() error {
			_, err := s.fs.Stat(dest)
			switch {
			case err == nil:
				if !req.Overwrite {
					return newError(KindFileExists, "upload", dest, nil)
				}
				return nil
			case errors.Is(err, fs.ErrNotExist):
				return nil
			default:
				return newError(KindMoveError, "upload", dest, err)
			}
		}},
		{"create directory", func() error {
			if err := s.fs.MkdirAll(req.TargetDirectory, dirPerm); err != nil {
				return newError(KindDirectoryCreateError, "upload", req.TargetDirectory, err)
			}
			return nil
		}},
		{"move", func() error {
			if err := s.move(ctx, req.TempFilePath, dest); err != nil {
				if ctx.Err() != nil {
					return newError(KindCanceled, "upload", dest, ctx.Err())
				}
				return newError(KindMoveError, "upload", dest, err)
			}
			return nil
		}},
		{"chmod", func() error {
			if err := s.fs.Chmod(dest, filePerm); err != nil {
				return newError(KindPermissionError, "upload", dest, err)
			}
			return nil
		}},
	}

	for _, step := range steps {
		if cerr := ctx.Err(); cerr != nil {
			return "", newError(KindCanceled, "upload", dest, cerr)
		}
		if err := step.run(); err != nil {
			s.logger.Debugf("[Upload] step %q failed for %s: %v", step.name, dest, err)
			return "", err
		}
	}
	s.logger.Infof("[Upload] stored %s", dest)
	return dest, nil
}

func (s *Store) cleanupTemp(path string) {
	if path == "" {
		return
	}
	err := s.fs.Remove(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		s.logger.Warnf("[Upload] failed to remove temp file %s: %v", path, err)
	}
}

// Mkdir creates directory name under dir and returns its path.
func (s *Store) Mkdir(ctx context.Context, dir, name string) (string, error) {
	if HasTraversal(dir) {
		return "", newError(KindInvalidPath, "mkdir", dir, nil)
	}
	if err := ValidateFilename(name); err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", newError(KindCanceled, "mkdir", dir, err)
	}
	target := filepath.Join(dir, name)
	if _, err := s.fs.Stat(target); err == nil {
		return "", newError(KindFileExists, "mkdir", target, nil)
	}
	if err := s.fs.MkdirAll(target, dirPerm); err != nil {
		return "", newError(KindDirectoryCreateError, "mkdir", target, err)
	}
	s.logger.Infof("[Upload] created directory %s", target)
	return target, nil
}
