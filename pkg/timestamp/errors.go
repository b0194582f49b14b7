package timestamp

import "fmt"

// ReferenceStatError reports that the reference file could not be read.
// It is fatal for the run: later files would otherwise get no reference
// data.
type ReferenceStatError struct {
	Path string
	Err  error
}

func (e *ReferenceStatError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *ReferenceStatError) Unwrap() error { return e.Err }

// InputReadError reports end of input or a read failure while prompting.
type InputReadError struct {
	Err error
}

func (e *InputReadError) Error() string {
	return fmt.Sprintf("failed to read new timestamp: %v", e.Err)
}

func (e *InputReadError) Unwrap() error { return e.Err }

// TimeParseError reports a time string that does not match the template.
type TimeParseError struct {
	Input  string
	Format string
	Err    error
}

func (e *TimeParseError) Error() string {
	return fmt.Sprintf("Bad input format '%s'", e.Input)
}

func (e *TimeParseError) Unwrap() error { return e.Err }
