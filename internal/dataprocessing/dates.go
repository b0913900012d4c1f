package dataprocessing

import (
	"math"
	"strings"
	"time"
)

// dateLayouts are tried in order when parsing source date text
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"01/02/2006",
	"01-02-2006",
	"2006/01/02",
}

// ParseDate parses a source date. Unparseable text yields ok=false.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// daysBetween returns the whole days from a to b, floored
func daysBetween(a, b time.Time) int {
	return int(math.Floor(b.Sub(a).Hours() / 24))
}
