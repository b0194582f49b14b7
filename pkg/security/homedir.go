package security

import (
	"os"
	"path/filepath"
	"strings"
)

// ExpandHomePath expands a leading ~ or ~/ to the user's home directory.
// Paths are returned unchanged when the home directory is unknown.
func ExpandHomePath(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(homeDir, strings.TrimPrefix(path, "~"))
}
