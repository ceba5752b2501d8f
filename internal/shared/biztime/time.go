// Package biztime is the single place where timestamps cross the system
// boundary. Upstream timestamps are parsed once into UTC time.Time values;
// the display timezone is only applied when formatting for people.
//
// Rules:
// - Everything stored or compared is UTC
// - Display formatting always names the display timezone explicitly
// - Implicit Local timezone is prohibited
package biztime

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

const (
	// DefaultTimezone is the default display timezone.
	DefaultTimezone = "America/New_York"

	// LongLayout is used for ticket table timestamps.
	LongLayout = "January 02, 2006 03:04 PM MST"
	// ShortLayout is used for note and time entry timestamps.
	ShortLayout = "Jan 02, 2006 03:04 PM"
	// ClockLayout is used for the end of a time entry range.
	ClockLayout = "03:04 PM"
)

var (
	bizLocation *time.Location
	bizMu       sync.RWMutex
)

// Init sets the display timezone. Empty tz selects DefaultTimezone.
func Init(tz string) error {
	if tz == "" {
		tz = DefaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return fmt.Errorf("load timezone %q: %w", tz, err)
	}
	bizMu.Lock()
	bizLocation = loc
	bizMu.Unlock()
	return nil
}

// MustInit initializes the display timezone and panics on error.
func MustInit(tz string) {
	if err := Init(tz); err != nil {
		panic(err)
	}
}

// Location returns the display timezone, initializing the default on first use.
func Location() *time.Location {
	bizMu.RLock()
	loc := bizLocation
	bizMu.RUnlock()
	if loc != nil {
		return loc
	}
	if err := Init(""); err != nil {
		panic(fmt.Sprintf("biztime: failed to auto-initialize with default timezone: %v", err))
	}
	return Location()
}

// NowUTC returns current time in UTC.
func NowUTC() time.Time {
	return time.Now().UTC()
}

// ParseUpstream parses an upstream ISO-8601 timestamp ("2025-03-04T15:04:05Z"
// or with an explicit offset) into UTC.
func ParseUpstream(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		// Some records omit the zone designator entirely; those are UTC.
		t, err = time.ParseInLocation("2006-01-02T15:04:05", s, time.UTC)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid upstream timestamp %q: %w", s, err)
		}
	}
	return t.UTC(), nil
}

// FormatInBizTimezone formats a UTC time as a string in the display timezone.
func FormatInBizTimezone(t time.Time, layout string) string {
	return t.In(Location()).Format(layout)
}

// CurrentYear returns the current year in the display timezone.
func CurrentYear() int {
	return NowUTC().In(Location()).Year()
}

// FormatConditionTime renders t as a bracketed literal for upstream
// condition expressions, e.g. [2025-01-01T00:00:00Z].
func FormatConditionTime(t time.Time) string {
	return "[" + t.UTC().Format(time.RFC3339) + "]"
}
