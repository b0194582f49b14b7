package timestamp

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
)

// offsetPattern mirrors a "%d%c" scan after the leading sign: blanks, an
// optionally signed integer, then one unit byte. Anything after the unit
// is ignored.
var offsetPattern = regexp.MustCompile(`^[+-][ \t\n\v\f\r]*([+-]?[0-9]+)(.)`)

var units = map[byte]struct {
	seconds int64
	name    string
}{
	'S': {1, "seconds"},
	'M': {60, "minutes"},
	'H': {60 * 60, "hours"},
	'D': {60 * 60 * 24, "days"},
	'W': {60 * 60 * 24 * 7, "weeks"},
	'm': {60 * 60 * 24 * 31, "months"},
	'Y': {60 * 60 * 24 * 365, "years"},
}

// Offset is a parsed relative adjustment such as "+3D".
type Offset struct {
	Sign     byte
	Count    int64
	Unit     byte
	UnitName string
	Seconds  int64
}

// String renders the offset the way debug output describes it.
func (o Offset) String() string {
	return fmt.Sprintf("%c%d %s (%d seconds)", o.Sign, o.Count, o.UnitName, o.Seconds)
}

// LooksLikeOffset reports whether token starts with a sign character.
func LooksLikeOffset(token string) bool {
	return len(token) > 0 && (token[0] == '+' || token[0] == '-')
}

// ParseOffset parses a signed offset token. Months are 31 days and years
// are 365 days.
func ParseOffset(token string) (Offset, error) {
	m := offsetPattern.FindStringSubmatch(token)
	if m == nil {
		return Offset{}, fmt.Errorf("malformed offset %q", token)
	}

	count, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return Offset{}, fmt.Errorf("malformed offset %q: %w", token, err)
	}

	unit := m[2][0]
	u, ok := units[unit]
	if !ok {
		return Offset{}, fmt.Errorf("unknown offset unit %q in %q", m[2], token)
	}

	if limit := math.MaxInt64 / u.seconds; count > limit || count < -limit {
		return Offset{}, fmt.Errorf("offset %q out of range", token)
	}

	sign := int64(1)
	if token[0] == '-' {
		sign = -1
	}

	return Offset{
		Sign:     token[0],
		Count:    count,
		Unit:     unit,
		UnitName: u.name,
		Seconds:  sign * count * u.seconds,
	}, nil
}
