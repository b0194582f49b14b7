//go:build linux
// +build linux

package filesystem

import (
	"os"
	"syscall"
	"time"
)

// accessTime extracts the access time on Linux
func accessTime(stat os.FileInfo) time.Time {
	if sys, ok := stat.Sys().(*syscall.Stat_t); ok {
		return time.Unix(int64(sys.Atim.Sec), int64(sys.Atim.Nsec))
	}
	return stat.ModTime()
}

// changeTime returns the inode change time, the closest Linux has to a
// creation time through Stat_t.
func changeTime(stat os.FileInfo) time.Time {
	if sys, ok := stat.Sys().(*syscall.Stat_t); ok {
		return time.Unix(int64(sys.Ctim.Sec), int64(sys.Ctim.Nsec))
	}
	return stat.ModTime()
}
