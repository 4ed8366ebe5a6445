package generic

import (
	"strings"
	"time"
)

// =============================================================================
// DATE PARSING - Lenient, layout-driven
// =============================================================================

// dateLayouts are tried in order. Slash dates are month-first, matching the
// spreadsheet exports this engine is fed.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006/01/02",
	"01/02/2006",
	"1/2/2006",
	"01/02/06",
	"1/2/06",
	"01-02-2006",
	"2006-01",
	"2006/01",
	"01-2006",
	"01/2006",
	"Jan 2006",
	"January 2006",
	"Jan-2006",
	"Jan-06",
	"2 Jan 2006",
}

// ParseDate parses a date string using the known layouts.
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
