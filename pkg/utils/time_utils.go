package utils

import (
	"fmt"
	"time"
)

// DateLayouts are accepted for every date field in request bodies and queries
var DateLayouts = []string{time.RFC3339Nano, time.RFC3339, "2006-01-02"}

// ParseDate parses an ISO 8601 timestamp or a bare date and returns it in UTC
func ParseDate(s string) (time.Time, error) {
	for _, layout := range DateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", s)
}

// ParseDatePtr returns nil for nil or empty input
func ParseDatePtr(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := ParseDate(*s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// MonthStart is midnight UTC on the first day of t's month
func MonthStart(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// NextMonthStart is the exclusive upper bound of t's month
func NextMonthStart(t time.Time) time.Time {
	return MonthStart(t).AddDate(0, 1, 0)
}

// MonthEnd is midnight UTC on the last day of t's month
func MonthEnd(t time.Time) time.Time {
	return NextMonthStart(t).AddDate(0, 0, -1)
}

// YearStart is midnight UTC on January 1st of t's year
func YearStart(t time.Time) time.Time {
	return time.Date(t.UTC().Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
}
