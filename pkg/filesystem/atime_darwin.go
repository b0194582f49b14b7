package filesystem

import (
	"os"
	"syscall"
	"time"
)

// accessTime extracts the access time on macOS
func accessTime(stat os.FileInfo) time.Time {
	if sys, ok := stat.Sys().(*syscall.Stat_t); ok {
		return time.Unix(sys.Atimespec.Sec, sys.Atimespec.Nsec)
	}
	return stat.ModTime()
}

// changeTime uses the birth time, which macOS does record.
func changeTime(stat os.FileInfo) time.Time {
	if sys, ok := stat.Sys().(*syscall.Stat_t); ok {
		return time.Unix(sys.Birthtimespec.Sec, sys.Birthtimespec.Nsec)
	}
	return stat.ModTime()
}
