package timeutil

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DayKey returns the ISO calendar day (YYYY-MM-DD) for t.
func DayKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// SanitizeTimeString normalizes a wall-clock string to zero-padded HH:MM.
// It accepts "HH:MM" and the dot-separated "HH.MM" variant some imports
// produce. Anything else falls back to the given default. The function is
// idempotent over its own output.
func SanitizeTimeString(raw, fallback string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return fallback
	}
	s = strings.ReplaceAll(s, ".", ":")

	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return fallback
	}
	hours, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || hours < 0 || hours > 23 {
		return fallback
	}
	minutes, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil || minutes < 0 || minutes > 59 {
		return fallback
	}
	return fmt.Sprintf("%02d:%02d", hours, minutes)
}

// ParseClock splits an HH:MM string into hour and minute components.
// The string is expected to already be sanitized.
func ParseClock(s string) (hour, minute int, ok bool) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, 0, false
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, false
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, false
	}
	return hour, minute, true
}

// SecondsOfDay converts an HH:MM string to seconds since midnight.
// Returns -1 when the string does not parse.
func SecondsOfDay(s string) int {
	hour, minute, ok := ParseClock(s)
	if !ok {
		return -1
	}
	return hour*3600 + minute*60
}

// AtClock returns the instant on day's calendar date at the given HH:MM,
// in day's location.
func AtClock(day time.Time, clock string) time.Time {
	hour, minute, ok := ParseClock(clock)
	if !ok {
		hour, minute = 0, 0
	}
	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, day.Location())
}
