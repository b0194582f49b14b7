//go:build !linux && !darwin && !windows

package filesystem

import (
	"os"
	"time"
)

// accessTime falls back to the modification time where the platform
// stat structure is not inspected.
func accessTime(stat os.FileInfo) time.Time {
	return stat.ModTime()
}

func changeTime(stat os.FileInfo) time.Time {
	return stat.ModTime()
}
