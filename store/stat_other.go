//go:build !linux && !darwin

package store

import (
	"os"
	"time"
)

type entryTimes struct {
	atime, ctime, birth time.Time
}

// fileTimes reports the modification time for every field where the platform
// stat structure is not decoded.
func fileTimes(_ string, info os.FileInfo) entryTimes {
	mt := info.ModTime()
	return entryTimes{atime: mt, ctime: mt, birth: mt}
}
