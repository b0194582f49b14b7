// Package timestamp computes the new access and modify times for a file.
//
// Exactly one of three rules applies per file, first match wins: copy from a
// reference file, shift by a fixed offset, or use an absolute time parsed
// from a strptime-style template.
package timestamp

// DefaultFormat is the template used when none is configured.
const DefaultFormat = "%b %d %Y %H:%M:%S"

// Options is the run configuration as it stands at one point of the
// argument scan. It is passed by value so later flags never reach files
// that were already processed.
type Options struct {
	DebugLevel int

	// AtimeOnly and MtimeOnly are not mutually exclusive.
	AtimeOnly bool
	MtimeOnly bool

	// ReferenceFile, when set, overrides offset and explicit modes.
	ReferenceFile string

	TimeFormat string
	// FormatChanged selects the prompt wording for a user template.
	FormatChanged bool

	TimeString    string
	HasTimeString bool

	// OffsetSeconds of zero means no offset was requested.
	OffsetSeconds int64
}

// DefaultOptions returns options with the default template.
func DefaultOptions() Options {
	return Options{TimeFormat: DefaultFormat}
}

// Mode names the resolution rule selected by a set of options.
type Mode string

const (
	ModeReference Mode = "reference"
	ModeOffset    Mode = "offset"
	ModeExplicit  Mode = "explicit"
)

// Mode reports which rule Resolve will apply.
func (o Options) Mode() Mode {
	switch {
	case o.ReferenceFile != "":
		return ModeReference
	case o.OffsetSeconds != 0:
		return ModeOffset
	default:
		return ModeExplicit
	}
}
