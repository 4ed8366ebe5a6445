/*
classify.go - Period-column detection

PURPOSE:
  Spreadsheet tables arrive wide: a few identifier columns followed by one
  column per month. Nothing marks which columns are months, so a
  prioritized list of rules decides, column by column.

RULES (in order, first match wins):
  1. date_label:   the column label is a date cell
  2. date_values:  every non-empty value is a date cell
  3. parseable:    every non-empty value coerces to a date; numbers count,
                   as lenient date coercion accepts them as offsets
  4. date_pattern: a text column whose first N non-empty values contain
                   '-', '/' or a configured year token

  A secondary pass drops any matched column whose label contains one of
  the exclusion keywords (used for summary columns in shift tables).

KNOWN LIMITATION:
  This is a heuristic. A real month column that matches no rule is
  silently dropped (false negative) and a numeric summary column without
  an exclusion keyword is kept (false positive). Callers must tolerate
  both; the resolver degrades unparseable labels instead of failing.
*/
package generic

import (
	"strings"
)

// ColumnRule is one classifier rule.
type ColumnRule interface {
	Name() string
	Match(col Column) bool
}

// DateLabelRule matches columns labelled with a date.
type DateLabelRule struct{}

func (DateLabelRule) Name() string          { return "date_label" }
func (DateLabelRule) Match(col Column) bool { return col.Label.Kind == CellDate }

// DateValuesRule matches columns whose non-empty values are all dates.
type DateValuesRule struct{}

func (DateValuesRule) Name() string { return "date_values" }

func (DateValuesRule) Match(col Column) bool {
	seen := false
	for _, v := range col.Values {
		switch v.Kind {
		case CellEmpty:
			continue
		case CellDate:
			seen = true
		default:
			return false
		}
	}
	return seen
}

// ParseableRule matches columns whose non-empty values all coerce to dates.
type ParseableRule struct{}

func (ParseableRule) Name() string { return "parseable" }

func (ParseableRule) Match(col Column) bool {
	seen := false
	for _, v := range col.Values {
		switch v.Kind {
		case CellEmpty:
			continue
		case CellDate, CellNumber:
			seen = true
		case CellText:
			if _, ok := ParseDate(v.Text); !ok {
				return false
			}
			seen = true
		}
	}
	return seen
}

// DatePatternRule matches text columns whose sampled values look like dates.
type DatePatternRule struct {
	Tokens     []string
	SampleSize int
}

func (DatePatternRule) Name() string { return "date_pattern" }

func (r DatePatternRule) Match(col Column) bool {
	if !hasText(col) {
		return false
	}
	needles := append([]string{"-", "/"}, r.Tokens...)
	sampled := 0
	for _, v := range col.Values {
		if v.IsEmpty() {
			continue
		}
		if r.SampleSize > 0 && sampled >= r.SampleSize {
			break
		}
		sampled++
		s := v.String()
		for _, n := range needles {
			if n != "" && strings.Contains(s, n) {
				return true
			}
		}
	}
	return false
}

func hasText(col Column) bool {
	for _, v := range col.Values {
		if v.Kind == CellText {
			return true
		}
	}
	return false
}

// =============================================================================
// CLASSIFIER
// =============================================================================

// Classifier applies rules in order, then the keyword exclusion pass.
type Classifier struct {
	Rules           []ColumnRule
	ExcludeKeywords []string
}

// DefaultRules returns the standard rule order.
func DefaultRules(yearTokens []string, sampleSize int) []ColumnRule {
	return []ColumnRule{
		DateLabelRule{},
		DateValuesRule{},
		ParseableRule{},
		DatePatternRule{Tokens: yearTokens, SampleSize: sampleSize},
	}
}

// NewClassifier builds a classifier with the default rules.
func NewClassifier(yearTokens []string, sampleSize int, excludeKeywords []string) Classifier {
	return Classifier{
		Rules:           DefaultRules(yearTokens, sampleSize),
		ExcludeKeywords: excludeKeywords,
	}
}

// Classify returns the name of the first matching rule, or "" and false.
func (c Classifier) Classify(col Column) (string, bool) {
	for _, r := range c.Rules {
		if r.Match(col) {
			return r.Name(), true
		}
	}
	return "", false
}

// Excluded reports whether the label contains an exclusion keyword.
func (c Classifier) Excluded(col Column) bool {
	name := strings.ToLower(col.Name())
	for _, k := range c.ExcludeKeywords {
		if k != "" && strings.Contains(name, strings.ToLower(k)) {
			return true
		}
	}
	return false
}

// PeriodColumns returns the indexes of t's period columns, skipping the
// identifier columns in exclude.
func (c Classifier) PeriodColumns(t *Table, exclude ...string) []int {
	skip := make(map[string]bool, len(exclude))
	for _, e := range exclude {
		skip[e] = true
	}
	var idx []int
	for i, col := range t.Columns {
		if skip[col.Name()] {
			continue
		}
		if _, ok := c.Classify(col); !ok {
			continue
		}
		if c.Excluded(col) {
			continue
		}
		idx = append(idx, i)
	}
	return idx
}
