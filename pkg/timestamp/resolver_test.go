package timestamp

import (
	"bytes"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"utime/pkg/filesystem"
)

// fakeStater serves fixed stamps per path and counts calls.
type fakeStater struct {
	times map[string]filesystem.Times
	calls int
}

func (f *fakeStater) Stat(path string) (filesystem.Times, error) {
	f.calls++
	t, ok := f.times[path]
	if !ok {
		return filesystem.Times{}, os.ErrNotExist
	}
	return t, nil
}

var (
	origAccess = time.Unix(1000000000, 0)
	origModify = time.Unix(1100000000, 0)
	current    = filesystem.Times{Access: origAccess, Modify: origModify}
	refTimes   = filesystem.Times{Access: time.Unix(500000000, 0), Modify: time.Unix(600000000, 0)}
)

func newTestResolver(input string) (*Resolver, *fakeStater, *bytes.Buffer) {
	st := &fakeStater{times: map[string]filesystem.Times{"ref": refTimes}}
	var out bytes.Buffer
	r := NewResolver(st, strings.NewReader(input), &out)
	r.SetLocation(time.UTC)
	return r, st, &out
}

func TestModeSelection(t *testing.T) {
	opts := DefaultOptions()
	if opts.Mode() != ModeExplicit {
		t.Fatalf("expected explicit mode by default")
	}
	opts.OffsetSeconds = 10
	if opts.Mode() != ModeOffset {
		t.Fatalf("expected offset mode")
	}
	opts.ReferenceFile = "ref"
	if opts.Mode() != ModeReference {
		t.Fatalf("reference must take precedence over offset")
	}
}

func TestResolveReference(t *testing.T) {
	tests := []struct {
		name       string
		atimeOnly  bool
		mtimeOnly  bool
		wantAccess time.Time
		wantModify time.Time
	}{
		{"both", false, false, refTimes.Access, refTimes.Modify},
		{"atime only keeps mtime", true, false, refTimes.Access, origModify},
		{"mtime only keeps atime", false, true, origAccess, refTimes.Modify},
		{"both flags keep everything", true, true, origAccess, origModify},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _, _ := newTestResolver("")
			opts := DefaultOptions()
			opts.ReferenceFile = "ref"
			opts.AtimeOnly = tt.atimeOnly
			opts.MtimeOnly = tt.mtimeOnly

			got, err := r.Resolve(opts, current)
			if err != nil {
				t.Fatalf("resolve: %v", err)
			}
			if !got.Access.Equal(tt.wantAccess) || !got.Modify.Equal(tt.wantModify) {
				t.Fatalf("expected %v/%v got %v/%v", tt.wantAccess, tt.wantModify, got.Access, got.Modify)
			}
		})
	}
}

func TestResolveReferenceCachedOnce(t *testing.T) {
	r, st, _ := newTestResolver("")
	opts := DefaultOptions()
	opts.ReferenceFile = "ref"

	if _, err := r.Resolve(opts, current); err != nil {
		t.Fatalf("first resolve: %v", err)
	}

	// A changed reference on disk, or even a different -f, is not seen.
	st.times["ref"] = filesystem.Times{Access: time.Unix(1, 0), Modify: time.Unix(2, 0)}
	opts.ReferenceFile = "other"
	got, err := r.Resolve(opts, current)
	if err != nil {
		t.Fatalf("second resolve: %v", err)
	}
	if !got.Modify.Equal(refTimes.Modify) {
		t.Fatalf("expected cached reference stamps, got %v", got.Modify)
	}
	if st.calls != 1 {
		t.Fatalf("expected one stat of the reference, got %d", st.calls)
	}
}

func TestResolveReferenceMissingIsFatalAndSticky(t *testing.T) {
	r, st, _ := newTestResolver("")
	opts := DefaultOptions()
	opts.ReferenceFile = "missing"

	_, err := r.Resolve(opts, current)
	var refErr *ReferenceStatError
	if !errors.As(err, &refErr) {
		t.Fatalf("expected ReferenceStatError, got %v", err)
	}
	if refErr.Path != "missing" || !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("unexpected error contents: %v", refErr)
	}

	if _, err := r.Resolve(opts, current); !errors.As(err, &refErr) {
		t.Fatalf("expected recorded error on second use, got %v", err)
	}
	if st.calls != 1 {
		t.Fatalf("expected a single stat attempt, got %d", st.calls)
	}
}

func TestResolveOffset(t *testing.T) {
	tests := []struct {
		name       string
		atimeOnly  bool
		mtimeOnly  bool
		wantAccess time.Time
		wantModify time.Time
	}{
		{"both", false, false, origAccess.Add(time.Hour), origModify.Add(time.Hour)},
		{"atime only skips access", true, false, origAccess, origModify.Add(time.Hour)},
		{"mtime only skips modify", false, true, origAccess.Add(time.Hour), origModify},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _, _ := newTestResolver("")
			opts := DefaultOptions()
			opts.OffsetSeconds = 3600
			opts.AtimeOnly = tt.atimeOnly
			opts.MtimeOnly = tt.mtimeOnly

			got, err := r.Resolve(opts, current)
			if err != nil {
				t.Fatalf("resolve: %v", err)
			}
			if !got.Access.Equal(tt.wantAccess) || !got.Modify.Equal(tt.wantModify) {
				t.Fatalf("expected %v/%v got %v/%v", tt.wantAccess, tt.wantModify, got.Access, got.Modify)
			}
		})
	}
}

func TestResolveOffsetBeyondDurationRange(t *testing.T) {
	r, _, _ := newTestResolver("")
	opts := DefaultOptions()
	opts.OffsetSeconds = 400 * 31536000

	got, err := r.Resolve(opts, current)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got.Modify.Unix() != origModify.Unix()+opts.OffsetSeconds {
		t.Fatalf("expected exact second arithmetic, got %d", got.Modify.Unix())
	}
}

func TestResolveExplicitTimeString(t *testing.T) {
	r, _, out := newTestResolver("")
	opts := DefaultOptions()
	opts.TimeString = "Jan 15 1995 17:34:56"
	opts.HasTimeString = true

	got, err := r.Resolve(opts, current)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	want := time.Date(1995, time.January, 15, 17, 34, 56, 0, time.UTC)
	if !got.Access.Equal(want) || !got.Modify.Equal(want) {
		t.Fatalf("expected %v got %v/%v", want, got.Access, got.Modify)
	}
	if strings.Contains(out.String(), promptText) {
		t.Fatalf("did not expect a prompt: %q", out.String())
	}
	if !strings.Contains(out.String(), "You asked for 'Sun Jan 15 17:34:56 1995'") {
		t.Fatalf("expected parsed time echo, got %q", out.String())
	}
}

func TestResolveExplicitGuards(t *testing.T) {
	want := time.Date(1995, time.January, 15, 17, 34, 56, 0, time.UTC)

	r, _, _ := newTestResolver("")
	opts := DefaultOptions()
	opts.TimeString = "Jan 15 1995 17:34:56"
	opts.HasTimeString = true
	opts.AtimeOnly = true
	got, err := r.Resolve(opts, current)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !got.Access.Equal(want) || !got.Modify.Equal(origModify) {
		t.Fatalf("atime only: expected access changed and modify kept, got %v/%v", got.Access, got.Modify)
	}

	opts.AtimeOnly = false
	opts.MtimeOnly = true
	got, err = r.Resolve(opts, current)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !got.Access.Equal(origAccess) || !got.Modify.Equal(want) {
		t.Fatalf("mtime only: expected modify changed and access kept, got %v/%v", got.Access, got.Modify)
	}
}

func TestResolvePromptsForEveryFile(t *testing.T) {
	r, _, out := newTestResolver("Jan 15 1995 17:34:56\nFeb 01 2001 00:00:00\n")
	opts := DefaultOptions()

	first, err := r.Resolve(opts, current)
	if err != nil {
		t.Fatalf("first resolve: %v", err)
	}
	second, err := r.Resolve(opts, current)
	if err != nil {
		t.Fatalf("second resolve: %v", err)
	}

	if first.Modify.Year() != 1995 || second.Modify.Year() != 2001 {
		t.Fatalf("expected each file to read its own line, got %v and %v", first.Modify, second.Modify)
	}
	if n := strings.Count(out.String(), promptText); n != 2 {
		t.Fatalf("expected two prompts, got %d: %q", n, out.String())
	}
	if !strings.Contains(out.String(), defaultExample) {
		t.Fatalf("expected default example in prompt")
	}

	if _, err := r.Resolve(opts, current); err == nil {
		t.Fatalf("expected error once input is exhausted")
	} else {
		var inErr *InputReadError
		if !errors.As(err, &inErr) {
			t.Fatalf("expected InputReadError, got %v", err)
		}
	}
}

func TestResolvePromptCustomFormat(t *testing.T) {
	r, _, out := newTestResolver("1995-01-15 17:34")
	opts := DefaultOptions()
	opts.TimeFormat = "%Y-%m-%d %H:%M"
	opts.FormatChanged = true

	got, err := r.Resolve(opts, current)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if want := time.Date(1995, time.January, 15, 17, 34, 0, 0, time.UTC); !got.Modify.Equal(want) {
		t.Fatalf("expected %v got %v", want, got.Modify)
	}
	if !strings.Contains(out.String(), "[to match user-specified format '%Y-%m-%d %H:%M'] ") {
		t.Fatalf("expected custom format prompt, got %q", out.String())
	}
}

func TestResolveBadTimeString(t *testing.T) {
	r, _, _ := newTestResolver("")
	opts := DefaultOptions()
	opts.TimeString = "yesterday"
	opts.HasTimeString = true

	_, err := r.Resolve(opts, current)
	var parseErr *TimeParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected TimeParseError, got %v", err)
	}
	if parseErr.Error() != "Bad input format 'yesterday'" {
		t.Fatalf("unexpected message: %s", parseErr.Error())
	}
}

func TestResolveWithoutInput(t *testing.T) {
	r := NewResolver(&fakeStater{}, nil, nil)
	_, err := r.Resolve(DefaultOptions(), current)
	var inErr *InputReadError
	if !errors.As(err, &inErr) {
		t.Fatalf("expected InputReadError without input, got %v", err)
	}
}

func TestParseTimeLocal(t *testing.T) {
	got, err := ParseTime(DefaultFormat, "Jan 15 1995 17:34:56\n", time.Local)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	want := time.Date(1995, time.January, 15, 17, 34, 56, 0, time.Local)
	if !got.Equal(want) {
		t.Fatalf("expected %v got %v", want, got)
	}
}

func TestFormatCtime(t *testing.T) {
	got := FormatCtime(time.Date(2008, time.July, 4, 9, 5, 3, 0, time.UTC))
	if got != "Fri Jul  4 09:05:03 2008" {
		t.Fatalf("unexpected ctime rendering %q", got)
	}
}

func TestParseTimeRollsOverShortMonths(t *testing.T) {
	tests := []struct {
		format string
		value  string
		want   time.Time
	}{
		{DefaultFormat, "Feb 30 1995 12:00:00", time.Date(1995, time.March, 2, 12, 0, 0, 0, time.UTC)},
		{DefaultFormat, "Feb 29 1995 12:30:00", time.Date(1995, time.March, 1, 12, 30, 0, 0, time.UTC)},
		{DefaultFormat, "Apr 31 2001 08:31:29", time.Date(2001, time.May, 1, 8, 31, 29, 0, time.UTC)},
		{DefaultFormat, "Feb 29 1996 00:00:00", time.Date(1996, time.February, 29, 0, 0, 0, 0, time.UTC)},
		{"%H:%M %b %d %Y", "12:30 Feb 30 1995", time.Date(1995, time.March, 2, 12, 30, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			got, err := ParseTime(tt.format, tt.value, time.UTC)
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			if !got.Equal(tt.want) {
				t.Fatalf("expected %v got %v", tt.want, got)
			}
		})
	}
}

func TestParseTimeRejectsImpossibleDay(t *testing.T) {
	for _, value := range []string{"Jan 32 1995 12:00:00", "Feb 0 1995 12:00:00"} {
		_, err := ParseTime(DefaultFormat, value, time.UTC)
		var parseErr *TimeParseError
		if !errors.As(err, &parseErr) {
			t.Fatalf("%s: expected TimeParseError, got %v", value, err)
		}
	}
}

func TestParseTimeTrailingTextRejected(t *testing.T) {
	if _, err := ParseTime(DefaultFormat, "Jan 15 1995 17:34:56 PST", time.UTC); err == nil {
		t.Fatalf("expected trailing text to be rejected")
	}
}
