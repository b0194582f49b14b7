// Package applier updates the timestamps of one target file at a time.
package applier

import (
	"fmt"
	"io"
	"log/slog"

	"utime/pkg/filesystem"
	"utime/pkg/timestamp"
)

// FS is the filesystem capability the applier needs
type FS interface {
	Stat(path string) (filesystem.Times, error)
	SetTimes(path string, t filesystem.Times) error
}

// FileStatError reports that a target file's stamps could not be read
type FileStatError struct {
	Path string
	Err  error
}

func (e *FileStatError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *FileStatError) Unwrap() error { return e.Err }

// FileSetTimesError reports that a target file's stamps could not be written
type FileSetTimesError struct {
	Path string
	Err  error
}

func (e *FileSetTimesError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *FileSetTimesError) Unwrap() error { return e.Err }

// Outcome describes what happened to a single target file. Err holds a
// per-file failure, which never stops the run.
type Outcome struct {
	Path   string
	Before filesystem.Times
	After  filesystem.Times
	Err    error
}

// Applier reads, resolves and writes the stamps of target files
type Applier struct {
	fs       FS
	resolver *timestamp.Resolver
	out      io.Writer
	logger   *slog.Logger
}

// New creates an applier. Debug descriptions are written to out.
func New(fs FS, resolver *timestamp.Resolver, out io.Writer, logger *slog.Logger) *Applier {
	if out == nil {
		out = io.Discard
	}
	return &Applier{
		fs:       fs,
		resolver: resolver,
		out:      out,
		logger:   logger,
	}
}

// Plan computes the new stamps for path without writing them. The returned
// error is fatal for the run; per-file problems are reported in Outcome.
func (a *Applier) Plan(path string, opts timestamp.Options) (Outcome, error) {
	outcome := Outcome{Path: path}

	before, err := a.fs.Stat(path)
	if err != nil {
		outcome.Err = &FileStatError{Path: path, Err: err}
		a.logger.Error("Failed to read timestamps", "path", path, "error", err)
		return outcome, nil
	}
	outcome.Before = before

	after, err := a.resolver.Resolve(opts, before)
	if err != nil {
		return outcome, err
	}
	outcome.After = after

	a.logger.Debug("Resolved timestamps",
		"path", path,
		"mode", opts.Mode(),
		"atime", after.Access,
		"mtime", after.Modify)
	return outcome, nil
}

// Apply plans and then writes the new stamps for path.
func (a *Applier) Apply(path string, opts timestamp.Options) (Outcome, error) {
	outcome, err := a.Plan(path, opts)
	if err != nil || outcome.Err != nil {
		return outcome, err
	}

	if opts.DebugLevel > 0 {
		a.describe(path, opts, outcome.After)
	}

	if err := a.fs.SetTimes(path, outcome.After); err != nil {
		outcome.Err = &FileSetTimesError{Path: path, Err: err}
		a.logger.Error("Failed to set timestamps", "path", path, "error", err)
	}
	return outcome, nil
}

func (a *Applier) describe(path string, opts timestamp.Options, t filesystem.Times) {
	switch {
	case opts.AtimeOnly:
		fmt.Fprintf(a.out, "Changing the access time for '%s' to '%s'\n",
			path, timestamp.FormatCtime(t.Access))
	case opts.MtimeOnly:
		fmt.Fprintf(a.out, "Changing the modify time for '%s' to '%s'\n",
			path, timestamp.FormatCtime(t.Modify))
	default:
		fmt.Fprintf(a.out, "Changing the times for '%s' to\n\taccess: %s\n\tmodify: %s\n",
			path, timestamp.FormatCtime(t.Access), timestamp.FormatCtime(t.Modify))
	}
}
