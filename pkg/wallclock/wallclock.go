// Package wallclock parses "HH:mm" wall-clock strings and anchors them to
// concrete days.
//
// Template time fields come straight from user input, so a blank or
// garbage value is the common case, not the exception. Parse therefore
// never fails: anything unusable degrades to 00:00 and scheduling
// proceeds with a well-formed (if default) day instead of aborting.
package wallclock

import (
	"strconv"
	"strings"
	"time"
)

// Parse extracts an (hour, minute) pair from an "HH:mm"-shaped string.
// Missing, partial, or malformed input falls back rather than erroring:
//
//	""          -> 00:00
//	"invalid"   -> 00:00
//	"9"         -> 09:00
//	"9:xx"      -> 09:00
//	"26:75"     -> clamped to 23:59
func Parse(s string) (hour, minute int) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, 0
	}
	parts := strings.SplitN(s, ":", 2)

	h, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0
	}
	m := 0
	if len(parts) == 2 {
		if v, err := strconv.Atoi(strings.TrimSpace(parts[1])); err == nil {
			m = v
		}
	}
	return clamp(h, 0, 23), clamp(m, 0, 59)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// At anchors a wall-clock time to the given day, in the day's location.
func At(day time.Time, hour, minute int) time.Time {
	y, mo, d := day.Date()
	return time.Date(y, mo, d, hour, minute, 0, 0, day.Location())
}

// NextQuarter rounds t up to the next quarter-hour boundary. A time
// already on a boundary stays put; minutes that round to 60 roll into the
// next hour at :00.
func NextQuarter(t time.Time) time.Time {
	y, mo, d := t.Date()
	h, mi := t.Hour(), t.Minute()
	if t.Second() > 0 || t.Nanosecond() > 0 {
		mi++
	}
	mi = ((mi + 14) / 15) * 15
	// time.Date normalizes minute 60 and hour 24 overflow.
	return time.Date(y, mo, d, h, mi, 0, 0, t.Location())
}
