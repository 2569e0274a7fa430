package model

import (
	"errors"
	"strings"
	"time"
)

// DateLayout is the stored form of every calendar date. Zero padding keeps
// lexical order equal to chronological order.
const DateLayout = "2006-01-02"

var ErrInvalidDate = errors.New("invalid date")

// ParseDate accepts YYYY-MM-DD or RFC 3339 and returns midnight of that
// calendar day in loc. RFC 3339 values are converted to loc before truncation.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, ErrInvalidDate
	}
	if loc == nil {
		loc = time.Local
	}
	if t, err := time.ParseInLocation(DateLayout, s, loc); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return StartOfDay(t.In(loc)), nil
}

// NormalizeDate rewrites a parseable date as YYYY-MM-DD and leaves anything else as is.
func NormalizeDate(s string) string {
	t, err := ParseDate(s, time.Local)
	if err != nil {
		return strings.TrimSpace(s)
	}
	return t.Format(DateLayout)
}

func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
