package store

import (
	"context"
	"errors"
	"io/fs"
	"mime"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/afero"
)

// DefaultMime is reported for names without a known extension.
const DefaultMime = "application/octet-stream"

// EntryType is the kind of a listing entry.
type EntryType string

const (
	EntryFile  EntryType = "file"
	EntryDir   EntryType = "dir"
	EntryAlias EntryType = "alias"
)

// DirectoryEntry is one item of a directory listing.
type DirectoryEntry struct {
	Name      string    `json:"name"`
	Type      EntryType `json:"type"`
	Size      int64     `json:"size"`
	Mime      string    `json:"mime"`
	Atime     time.Time `json:"atime"`
	Mtime     time.Time `json:"mtime"`
	Ctime     time.Time `json:"ctime"`
	Birthtime time.Time `json:"birthtime"`
	Path      string    `json:"path,omitempty"`
}

// MimeByName derives a MIME type from the extension of name.
func MimeByName(name string) string {
	if t := mime.TypeByExtension(filepath.Ext(name)); t != "" {
		return t
	}
	return DefaultMime
}

// List reads the immediate entries of dir in directory iteration order.
func (s *Store) List(ctx context.Context, dir string, withAbsolute bool) ([]DirectoryEntry, error) {
	f, err := s.fs.Open(dir)
	if err != nil {
		return nil, newError(KindDirectoryReadError, "list", dir, err)
	}
	defer f.Close()

	names, err := f.Readdirnames(-1)
	if err != nil {
		return nil, newError(KindDirectoryReadError, "list", dir, err)
	}

	entries := make([]DirectoryEntry, 0, len(names))
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, newError(KindCanceled, "list", dir, err)
		}
		full := filepath.Join(dir, name)
		info, err := s.statFollow(full)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				// removed between readdir and stat
				continue
			}
			return nil, newError(KindDirectoryReadError, "list", full, err)
		}
		entries = append(entries, s.entryFor(full, name, info, withAbsolute))
	}
	return entries, nil
}

// AliasEntries returns one synthetic entry per registered alias, used for
// the service root in multi-alias mode.
func (r *Registry) AliasEntries() []DirectoryEntry {
	names := r.Names()
	entries := make([]DirectoryEntry, 0, len(names))
	for _, name := range names {
		entries = append(entries, DirectoryEntry{
			Name: name,
			Type: EntryAlias,
			Mime: DefaultMime,
		})
	}
	return entries
}

// statFollow stats path following symlinks, falling back to the link itself
// when its target is gone.
func (s *Store) statFollow(path string) (os.FileInfo, error) {
	info, err := s.fs.Stat(path)
	if err == nil {
		return info, nil
	}
	if lst, ok := s.fs.(afero.Lstater); ok {
		if linfo, _, lerr := lst.LstatIfPossible(path); lerr == nil {
			return linfo, nil
		}
	}
	return nil, err
}

func (s *Store) entryFor(full, name string, info os.FileInfo, withAbsolute bool) DirectoryEntry {
	times := fileTimes(full, info)
	entry := DirectoryEntry{
		Name:      name,
		Type:      EntryFile,
		Size:      info.Size(),
		Mime:      MimeByName(name),
		Atime:     times.atime,
		Mtime:     info.ModTime(),
		Ctime:     times.ctime,
		Birthtime: times.birth,
	}
	if info.IsDir() {
		entry.Type = EntryDir
	}
	if withAbsolute {
		entry.Path = full
	}
	return entry
}
