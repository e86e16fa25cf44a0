package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"syscall"
)

const copyBufferSize = 1 << 20

// CopyWithContext copies from src to dst while respecting context cancellation.
func CopyWithContext(ctx context.Context, dst io.Writer, src io.Reader) (int64, error) {
	buf := make([]byte, copyBufferSize)
	var written int64
	for {
		select {
		case <-ctx.Done():
			return written, ctx.Err()
		default:
		}

		nr, readErr := src.Read(buf)
		if nr > 0 {
			nw, writeErr := dst.Write(buf[0:nr])
			if nw < 0 || nr < nw {
				nw = 0
				if writeErr == nil {
					writeErr = fmt.Errorf("invalid write result")
				}
			}
			written += int64(nw)
			if writeErr != nil {
				return written, writeErr
			}
			if nr != nw {
				return written, io.ErrShortWrite
			}
		}
		if readErr != nil {
			if readErr == io.EOF {
				return written, nil
			}
			return written, readErr
		}
	}
}

// move renames src to dst, copying across devices when rename cannot.
func (s *Store) move(ctx context.Context, src, dst string) error {
	err := s.fs.Rename(src, dst)
	if err == nil || !errors.Is(err, syscall.EXDEV) {
		return err
	}
	s.logger.Debugf("[Upload] rename across devices, copying %s to %s", src, dst)

	in, err := s.fs.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := s.fs.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, filePerm)
	if err != nil {
		return err
	}
	if _, err := CopyWithContext(ctx, out, in); err != nil {
		out.Close()
		_ = s.fs.Remove(dst)
		return err
	}
	if err := out.Close(); err != nil {
		_ = s.fs.Remove(dst)
		return err
	}
	return s.fs.Remove(src)
}
