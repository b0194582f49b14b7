// Package cli scans utime's command line left to right, applying each file
// argument with the options in effect at that point.
package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"utime/internal/applier"
	"utime/pkg/timestamp"
)

const (
	// ExitSuccess is returned even when individual files failed
	ExitSuccess = 0

	// ExitFatal covers usage, reference file and input errors
	ExitFatal = 255

	// ExitBadTime is returned for a time string that does not match the template
	ExitBadTime = 254
)

// UsageError reports a malformed command line
type UsageError struct {
	Reason string
}

func (e *UsageError) Error() string {
	return "usage: " + e.Reason
}

// Runner executes one invocation
type Runner struct {
	applier  *applier.Applier
	defaults timestamp.Options
	stdout   io.Writer
	logger   *slog.Logger
	level    *slog.LevelVar
}

// NewRunner creates a runner. defaults seeds the options before the first
// token; level, when not nil, is lowered to debug by a second -d.
func NewRunner(app *applier.Applier, defaults timestamp.Options, stdout io.Writer, logger *slog.Logger, level *slog.LevelVar) *Runner {
	if stdout == nil {
		stdout = io.Discard
	}
	return &Runner{
		applier:  app,
		defaults: defaults,
		stdout:   stdout,
		logger:   logger,
		level:    level,
	}
}

// Run scans args, which exclude the program name. Flags only affect the
// files that follow them. The first fatal error stops the scan; files
// already processed keep their new stamps.
func (r *Runner) Run(args []string) error {
	if len(args) == 0 {
		return &UsageError{Reason: "no arguments given"}
	}

	opts := r.defaults
	files := 0

	for i := 0; i < len(args); i++ {
		arg := args[i]

		switch {
		case arg == "-f":
			if i+1 >= len(args) {
				return &UsageError{Reason: "-f requires a file argument"}
			}
			i++
			opts.ReferenceFile = args[i]

		case arg == "-d":
			opts.DebugLevel++
			if opts.DebugLevel > 1 && r.level != nil {
				r.level.Set(slog.LevelDebug)
			}

		case arg == "-a":
			opts.AtimeOnly = true

		case arg == "-m":
			opts.MtimeOnly = true

		case arg == "-F":
			if i+1 >= len(args) {
				return &UsageError{Reason: "-F requires a format argument"}
			}
			i++
			opts.TimeFormat = args[i]
			opts.FormatChanged = true

		case arg == "-t":
			if i+1 >= len(args) {
				return &UsageError{Reason: "-t requires a time argument"}
			}
			i++
			opts.TimeString = args[i]
			opts.HasTimeString = true

		case timestamp.LooksLikeOffset(arg):
			if opts.OffsetSeconds != 0 {
				return &UsageError{Reason: fmt.Sprintf("offset %s given after another offset", arg)}
			}
			off, err := timestamp.ParseOffset(arg)
			if err != nil {
				return &UsageError{Reason: err.Error()}
			}
			opts.OffsetSeconds = off.Seconds
			if opts.DebugLevel > 0 {
				fmt.Fprintf(r.stdout, "changing by %s\n", off)
			}

		default:
			files++
			r.logger.Debug("Processing file", "path", arg, "mode", opts.Mode())
			if _, err := r.applier.Apply(arg, opts); err != nil {
				return err
			}
		}
	}

	r.logger.Debug("Run complete", "files", files)
	return nil
}

// ExitCode maps the result of Run to a process exit status.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var parseErr *timestamp.TimeParseError
	if errors.As(err, &parseErr) {
		return ExitBadTime
	}
	return ExitFatal
}
