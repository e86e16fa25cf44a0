package tool

import (
	"io"
	"mime"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"
)

// DetectContentType picks the Content-Type of a download. The extension is
// tried first; otherwise the head of the content is sniffed. r is rewound.
func DetectContentType(name string, r io.ReadSeeker) string {
	if t := mime.TypeByExtension(filepath.Ext(name)); t != "" {
		return t
	}
	mt, err := mimetype.DetectReader(r)
	if _, seekErr := r.Seek(0, io.SeekStart); seekErr != nil {
		DefaultLogger.Debugf("[Download] failed to rewind %s: %v", name, seekErr)
	}
	if err != nil {
		return "application/octet-stream"
	}
	return mt.String()
}
