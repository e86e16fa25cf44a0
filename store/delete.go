package store

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// Delete removes the resolved path and returns its parent directory. Alias
// roots are never removed. Non-empty directories need recursive.
func (s *Store) Delete(ctx context.Context, target ResolvedPath, recursive bool) (string, error) {
	path := filepath.Clean(target.AbsolutePath)
	if s.registry != nil && s.registry.IsRoot(path) {
		return "", newError(KindCannotDeleteAliasRoot, "delete", path, nil)
	}
	if target.Root != "" && filepath.Clean(target.Root) == path {
		return "", newError(KindCannotDeleteAliasRoot, "delete", path, nil)
	}
	if err := ctx.Err(); err != nil {
		return "", newError(KindCanceled, "delete", path, err)
	}

	info, err := s.lstat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", newError(KindNotFound, "delete", path, err)
		}
		return "", newError(KindDeleteError, "delete", path, err)
	}
	parent := filepath.Dir(path)

	// symlinks are unlinked, never followed
	if !info.IsDir() {
		if err := s.fs.Remove(path); err != nil {
			return "", newError(KindDeleteError, "delete", path, err)
		}
		s.logger.Infof("[Delete] removed file %s", path)
		return parent, nil
	}

	if err := s.fs.Remove(path); err != nil {
		if !recursive {
			return "", newError(KindDirectoryNotEmpty, "delete", path, err)
		}
		if err := s.fs.RemoveAll(path); err != nil {
			return "", newError(KindDeleteError, "delete", path, err)
		}
		s.logger.Infof("[Delete] removed directory tree %s", path)
		return parent, nil
	}
	s.logger.Infof("[Delete] removed directory %s", path)
	return parent, nil
}

// lstat describes path itself, not a symlink target, when the filesystem
// supports it.
func (s *Store) lstat(path string) (os.FileInfo, error) {
	if lst, ok := s.fs.(afero.Lstater); ok {
		info, _, err := lst.LstatIfPossible(path)
		return info, err
	}
	return s.fs.Stat(path)
}
