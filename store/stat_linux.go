//go:build linux

package store

import (
	"os"
	"syscall"
	"time"

	"golang.org/x/sys/unix"
)

type entryTimes struct {
	atime, ctime, birth time.Time
}

func fileTimes(path string, info os.FileInfo) entryTimes {
	st, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		mt := info.ModTime()
		return entryTimes{atime: mt, ctime: mt, birth: mt}
	}
	t := entryTimes{
		atime: time.Unix(st.Atim.Unix()),
		ctime: time.Unix(st.Ctim.Unix()),
		birth: info.ModTime(),
	}
	var stx unix.Statx_t
	if err := unix.Statx(unix.AT_FDCWD, path, 0, unix.STATX_BTIME, &stx); err == nil && stx.Mask&unix.STATX_BTIME != 0 {
		t.birth = time.Unix(stx.Btime.Sec, int64(stx.Btime.Nsec))
	}
	return t
}
