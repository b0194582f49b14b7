package timestamp

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/ncruces/go-strftime"
)

// ctimeFormat renders like ctime(3) without the trailing newline.
const ctimeFormat = "%a %b %e %H:%M:%S %Y"

var numberPattern = regexp.MustCompile(`[0-9]+`)

// ParseTime parses value against a strptime-style template and interprets
// the broken-down fields as wall-clock time in loc, as mktime does with
// the local zone. Any zone parsed from the value is discarded. A day of
// month up to 31 that the month does not have rolls over into the next
// month, so "Feb 30 1995" is March 2nd.
func ParseTime(format, value string, loc *time.Location) (time.Time, error) {
	input := strings.TrimSpace(value)
	t, err := strftime.Parse(format, input)
	if err != nil && isDayOutOfRange(err) {
		t, err = parseOverflowDay(format, input)
	}
	if err != nil {
		return time.Time{}, &TimeParseError{Input: input, Format: format, Err: err}
	}
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, loc), nil
}

func isDayOutOfRange(err error) bool {
	var parseErr *time.ParseError
	return errors.As(err, &parseErr) && strings.Contains(parseErr.Message, "day out of range")
}

// parseOverflowDay retries a parse that failed only because the day does
// not exist in its month. Each standalone 29, 30 or 31 in input is tried as
// the day field by substituting 1; the substitution that parses to day 1
// is the day field, and time.Date normalizes the real day forward.
func parseOverflowDay(format, input string) (time.Time, error) {
	var lastErr error
	for _, loc := range numberPattern.FindAllStringIndex(input, -1) {
		day, err := strconv.Atoi(input[loc[0]:loc[1]])
		if err != nil || day < 29 || day > 31 {
			continue
		}

		t, err := strftime.Parse(format, input[:loc[0]]+"1"+input[loc[1]:])
		if err != nil {
			lastErr = err
			continue
		}
		if t.Day() != 1 {
			continue
		}
		return time.Date(t.Year(), t.Month(), day, t.Hour(), t.Minute(), t.Second(), 0, time.UTC), nil
	}
	if lastErr == nil {
		lastErr = errors.New("day out of range")
	}
	return time.Time{}, lastErr
}

// FormatCtime renders t in the fixed ctime layout, e.g.
// "Sun Jan 15 17:34:56 1995".
func FormatCtime(t time.Time) string {
	return strftime.Format(ctimeFormat, t)
}
