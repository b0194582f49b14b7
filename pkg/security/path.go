package security

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// PathValidator confines timestamp changes to a set of allowed directories
type PathValidator struct {
	allowedDirectories []string
	// roots holds every allowed directory plus its symlink-resolved form
	// when that differs (e.g. /tmp on macOS).
	roots  []string
	logger *slog.Logger
}

// NewPathValidator creates a new path validator with allowed directories
func NewPathValidator(allowedDirs []string, logger *slog.Logger) *PathValidator {
	pv := &PathValidator{
		allowedDirectories: make([]string, 0, len(allowedDirs)),
		logger:             logger,
	}
	for _, dir := range allowedDirs {
		dir = filepath.Clean(dir)
		pv.allowedDirectories = append(pv.allowedDirectories, dir)
		pv.roots = append(pv.roots, dir)
		if realDir, err := filepath.EvalSymlinks(dir); err == nil && realDir != dir {
			pv.roots = append(pv.roots, realDir)
		}
	}
	return pv
}

// ValidatePath returns the absolute, symlink-resolved form of
// requestedPath if it lies within an allowed directory. A path that does
// not exist is checked lexically and returned as is, so the caller's stat
// reports the missing file.
func (pv *PathValidator) ValidatePath(requestedPath string) (string, error) {
	if requestedPath == "" {
		return "", fmt.Errorf("path cannot be empty")
	}

	absolutePath, err := filepath.Abs(ExpandHomePath(requestedPath))
	if err != nil {
		pv.logger.Error("Failed to resolve path", "path", requestedPath, "error", err)
		return "", fmt.Errorf("failed to resolve path: %w", err)
	}

	if !pv.isPathAllowed(absolutePath) {
		pv.logger.Warn("Access denied to path outside allowed directories",
			"requested_path", requestedPath,
			"absolute_path", absolutePath)
		return "", fmt.Errorf("access denied - path outside allowed directories: %s", absolutePath)
	}

	realPath, err := filepath.EvalSymlinks(absolutePath)
	if err != nil {
		if os.IsNotExist(err) {
			return absolutePath, nil
		}
		return "", fmt.Errorf("failed to resolve symlinks for %s: %w", absolutePath, err)
	}

	// os.Chtimes follows links, so the target must be allowed too.
	if !pv.isPathAllowed(realPath) {
		pv.logger.Warn("Symlink target outside allowed directories",
			"path", absolutePath,
			"symlink_target", realPath)
		return "", fmt.Errorf("access denied - symlink target outside allowed directories")
	}

	pv.logger.Debug("Path validation successful",
		"requested_path", requestedPath,
		"real_path", realPath)
	return realPath, nil
}

// isPathAllowed checks if a path is within any allowed directory
func (pv *PathValidator) isPathAllowed(absolutePath string) bool {
	for _, root := range pv.roots {
		if pv.isPathUnderDirectory(absolutePath, root) {
			return true
		}
	}
	return false
}

// isPathUnderDirectory reports whether path is dir itself or lies below it
func (pv *PathValidator) isPathUnderDirectory(path, dir string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// GetAllowedDirectories returns a copy of allowed directories
func (pv *PathValidator) GetAllowedDirectories() []string {
	dirs := make([]string, len(pv.allowedDirectories))
	copy(dirs, pv.allowedDirectories)
	return dirs
}
