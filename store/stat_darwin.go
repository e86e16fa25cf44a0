//go:build darwin

package store

import (
	"os"
	"syscall"
	"time"
)

type entryTimes struct {
	atime, ctime, birth time.Time
}

func fileTimes(_ string, info os.FileInfo) entryTimes {
	st, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		mt := info.ModTime()
		return entryTimes{atime: mt, ctime: mt, birth: mt}
	}
	return entryTimes{
		atime: time.Unix(st.Atimespec.Unix()),
		ctime: time.Unix(st.Ctimespec.Unix()),
		birth: time.Unix(st.Birthtimespec.Unix()),
	}
}
