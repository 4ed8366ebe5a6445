package generic

import (
	"sort"
	"time"
)

// =============================================================================
// YEAR-MONTH - Canonical period key
// =============================================================================

// YearMonth is the canonical period key, e.g. "2026-01". A label that could
// not be parsed keeps its raw text as key (degraded), so joins against it
// simply find nothing.
type YearMonth string

// MonthOf returns the canonical key of the month containing t.
func MonthOf(t time.Time) YearMonth {
	return YearMonth(t.Format("2006-01"))
}

// Time returns the first day of the month; ok is false for degraded keys.
func (ym YearMonth) Time() (time.Time, bool) {
	t, err := time.Parse("2006-01", string(ym))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Resolved reports whether ym is a canonical key rather than a raw label.
func (ym YearMonth) Resolved() bool {
	_, ok := ym.Time()
	return ok
}

func (ym YearMonth) String() string { return string(ym) }

// ResolvePeriod maps a period label to its canonical key. Dates map
// directly, text is parsed. When parsing fails the raw label becomes the
// key and resolved is false.
func ResolvePeriod(label Cell) (key YearMonth, resolved bool) {
	switch label.Kind {
	case CellDate:
		return MonthOf(label.Date), true
	case CellText:
		if t, ok := ParseDate(label.Text); ok {
			return MonthOf(t), true
		}
	}
	return YearMonth(label.String()), false
}

// SortMonths sorts keys ascending. Canonical keys sort chronologically.
func SortMonths(keys []YearMonth) {
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
}
