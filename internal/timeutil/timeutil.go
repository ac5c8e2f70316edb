package timeutil

import (
	"fmt"
	"time"
)

// DateLayout is the slate date format used by the upstream provider (YYYYMMDD).
const DateLayout = "20060102"

// isoLayout is accepted on input for convenience.
const isoLayout = "2006-01-02"

// ParseDate parses a YYYYMMDD date string.
func ParseDate(value string) (time.Time, error) {
	return time.Parse(DateLayout, value)
}

// FormatDate formats a time as YYYYMMDD in its current location.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// NormalizeDate accepts YYYYMMDD or YYYY-MM-DD and returns YYYYMMDD.
func NormalizeDate(value string) (string, error) {
	if t, err := time.Parse(DateLayout, value); err == nil {
		return FormatDate(t), nil
	}
	if t, err := time.Parse(isoLayout, value); err == nil {
		return FormatDate(t), nil
	}
	return "", fmt.Errorf("invalid date %q (expected YYYYMMDD)", value)
}

// DateIn returns the slate date for now in loc shifted by offsetDays.
func DateIn(now time.Time, loc *time.Location, offsetDays int) string {
	if loc == nil {
		loc = time.UTC
	}
	return FormatDate(now.In(loc).AddDate(0, 0, offsetDays))
}
