//go:build windows
// +build windows

package filesystem

import (
	"os"
	"syscall"
	"time"
)

// accessTime extracts the last access time on Windows
func accessTime(stat os.FileInfo) time.Time {
	if sys, ok := stat.Sys().(*syscall.Win32FileAttributeData); ok {
		return time.Unix(0, sys.LastAccessTime.Nanoseconds())
	}
	return stat.ModTime()
}

func changeTime(stat os.FileInfo) time.Time {
	if sys, ok := stat.Sys().(*syscall.Win32FileAttributeData); ok {
		return time.Unix(0, sys.CreationTime.Nanoseconds())
	}
	return stat.ModTime()
}
