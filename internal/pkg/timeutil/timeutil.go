// Package timeutil converts wall-clock time strings to minute offsets and
// back. It is the shared arithmetic base for shift overlap detection and
// attendance status classification.
package timeutil

import (
	"fmt"
	"strconv"
	"strings"
)

// MinutesPerDay is the number of minutes on a 24h clock.
const MinutesPerDay = 24 * 60

// ParseTimeToMinutes parses "HH:MM" or "HH:MM:SS" into a minute offset from
// midnight. Seconds are ignored. Callers at the data boundary are expected to
// validate format first; an error here means the value never belonged in the
// system.
func ParseTimeToMinutes(s string) (int, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, fmt.Errorf("invalid time format %q, expected HH:MM or HH:MM:SS", s)
	}

	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid hour in %q: %w", s, err)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("invalid minute in %q: %w", s, err)
	}

	// 24:00 is accepted as end-of-day.
	if hour < 0 || hour > 24 || minute < 0 || minute > 59 || (hour == 24 && minute != 0) {
		return 0, fmt.Errorf("time %q out of range", s)
	}

	return hour*60 + minute, nil
}

// FormatMinutes renders a minute offset as zero-padded "HH:MM".
func FormatMinutes(m int) string {
	m %= MinutesPerDay
	if m < 0 {
		m += MinutesPerDay
	}
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

// IsOvernight reports whether a shift spans midnight, i.e. its end-of-day
// time is numerically earlier than its start time (22:00 -> 06:00).
func IsOvernight(startMin, endMin int) bool {
	return endMin < startMin
}
