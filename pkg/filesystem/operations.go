package filesystem

import (
	"fmt"
	"log/slog"
	"os"
	"time"
)

// Times is the access/modify pair of a single file at second resolution.
type Times struct {
	Access time.Time
	Modify time.Time
}

// FileInfo represents the timestamp metadata of a file
type FileInfo struct {
	Path        string    `json:"path"`
	Size        int64     `json:"size"`
	Accessed    time.Time `json:"accessed"`
	Modified    time.Time `json:"modified"`
	Changed     time.Time `json:"changed"`
	IsDirectory bool      `json:"isDirectory"`
}

// Operations reads and writes file timestamps
type Operations struct {
	logger *slog.Logger
}

// NewOperations creates a new filesystem operations instance
func NewOperations(logger *slog.Logger) *Operations {
	return &Operations{logger: logger}
}

// Stat returns the current access and modify times of filePath, truncated
// to whole seconds.
func (ops *Operations) Stat(filePath string) (Times, error) {
	if filePath == "" {
		return Times{}, fmt.Errorf("file path cannot be empty")
	}

	stat, err := os.Stat(filePath)
	if err != nil {
		ops.logger.Debug("Failed to stat file", "path", filePath, "error", err)
		return Times{}, err
	}

	t := Times{
		Access: truncate(accessTime(stat)),
		Modify: truncate(stat.ModTime()),
	}
	ops.logger.Debug("Read timestamps", "path", filePath, "atime", t.Access, "mtime", t.Modify)
	return t, nil
}

// SetTimes writes both timestamps of filePath.
func (ops *Operations) SetTimes(filePath string, t Times) error {
	if filePath == "" {
		return fmt.Errorf("file path cannot be empty")
	}

	if err := os.Chtimes(filePath, t.Access, t.Modify); err != nil {
		ops.logger.Debug("Failed to set timestamps", "path", filePath, "error", err)
		return err
	}

	ops.logger.Debug("Timestamps written", "path", filePath, "atime", t.Access, "mtime", t.Modify)
	return nil
}

// Describe retrieves timestamp metadata about a file or directory
func (ops *Operations) Describe(filePath string) (*FileInfo, error) {
	if filePath == "" {
		return nil, fmt.Errorf("file path cannot be empty")
	}

	stat, err := os.Stat(filePath)
	if err != nil {
		ops.logger.Error("Failed to get file info", "path", filePath, "error", err)
		return nil, fmt.Errorf("failed to get file info: %w", err)
	}

	info := &FileInfo{
		Path:        filePath,
		Size:        stat.Size(),
		Accessed:    accessTime(stat),
		Modified:    stat.ModTime(),
		Changed:     changeTime(stat),
		IsDirectory: stat.IsDir(),
	}
	return info, nil
}

func truncate(t time.Time) time.Time {
	return time.Unix(t.Unix(), 0)
}
