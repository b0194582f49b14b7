package timestamp

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"time"

	"utime/pkg/filesystem"
)

const (
	promptText     = "Enter new timestamp: "
	defaultExample = "[eg Jan 15 1995 17:34:56 (24 hour clock)] "
)

// Stater reads the current timestamps of a path.
type Stater interface {
	Stat(path string) (filesystem.Times, error)
}

// referenceCell holds the reference file stamps, or the error from the one
// attempt to read them. It is filled on first use and never refreshed.
type referenceCell struct {
	loaded bool
	times  filesystem.Times
	err    error
}

// Resolver turns Options and a file's current stamps into new stamps.
type Resolver struct {
	stater Stater
	in     *bufio.Reader
	out    io.Writer
	loc    *time.Location
	ref    referenceCell
}

// NewResolver creates a resolver. in may be nil when no interactive input
// is available; out receives prompts and the parsed-time echo.
func NewResolver(stater Stater, in io.Reader, out io.Writer) *Resolver {
	r := &Resolver{
		stater: stater,
		out:    out,
		loc:    time.Local,
	}
	if in != nil {
		r.in = bufio.NewReader(in)
	}
	if r.out == nil {
		r.out = io.Discard
	}
	return r
}

// SetLocation changes the zone used to interpret parsed wall-clock times.
func (r *Resolver) SetLocation(loc *time.Location) {
	r.loc = loc
}

// Resolve computes the new stamps for a file from its current ones.
// Errors are fatal for the run.
func (r *Resolver) Resolve(opts Options, current filesystem.Times) (filesystem.Times, error) {
	next := current

	switch opts.Mode() {
	case ModeReference:
		ref, err := r.Reference(opts.ReferenceFile)
		if err != nil {
			return current, err
		}
		if !opts.MtimeOnly {
			next.Access = ref.Access
		}
		if !opts.AtimeOnly {
			next.Modify = ref.Modify
		}

	case ModeOffset:
		// The guard here is the reverse of the other two modes.
		if !opts.AtimeOnly {
			next.Access = shift(next.Access, opts.OffsetSeconds)
		}
		if !opts.MtimeOnly {
			next.Modify = shift(next.Modify, opts.OffsetSeconds)
		}

	default:
		t, err := r.Acquire(opts)
		if err != nil {
			return current, err
		}
		if !opts.MtimeOnly {
			next.Access = t
		}
		if !opts.AtimeOnly {
			next.Modify = t
		}
	}

	return next, nil
}

// Reference returns the cached reference stamps, reading path on the first
// call only. Later calls return the first result whatever path they name.
func (r *Resolver) Reference(path string) (filesystem.Times, error) {
	if !r.ref.loaded {
		r.ref.loaded = true
		r.ref.times, r.ref.err = r.stater.Stat(path)
		if r.ref.err != nil {
			r.ref.err = &ReferenceStatError{Path: path, Err: r.ref.err}
		}
	}
	return r.ref.times, r.ref.err
}

// Acquire returns the absolute time for explicit mode: the configured time
// string if there is one, otherwise a line read after prompting. Nothing
// is cached between calls.
func (r *Resolver) Acquire(opts Options) (time.Time, error) {
	input := opts.TimeString
	if !opts.HasTimeString {
		line, err := r.prompt(opts)
		if err != nil {
			return time.Time{}, err
		}
		input = line
	}

	t, err := ParseTime(opts.TimeFormat, input, r.loc)
	if err != nil {
		return time.Time{}, err
	}

	fmt.Fprintf(r.out, "You asked for '%s'\n", FormatCtime(t))
	return t, nil
}

func (r *Resolver) prompt(opts Options) (string, error) {
	fmt.Fprintln(r.out, promptText)
	if opts.FormatChanged {
		fmt.Fprintf(r.out, "[to match user-specified format '%s'] ", opts.TimeFormat)
	} else {
		fmt.Fprint(r.out, defaultExample)
	}

	if r.in == nil {
		return "", &InputReadError{Err: io.EOF}
	}

	line, err := r.in.ReadString('\n')
	if err != nil && (line == "" || !errors.Is(err, io.EOF)) {
		return "", &InputReadError{Err: err}
	}
	return line, nil
}

func shift(t time.Time, seconds int64) time.Time {
	return time.Unix(t.Unix()+seconds, 0)
}
