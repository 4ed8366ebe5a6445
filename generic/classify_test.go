package generic_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/manning-engine/generic"
)

func jan2026() time.Time { return time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC) }

func column(label generic.Cell, values ...generic.Cell) generic.Column {
	return generic.Column{Label: label, Values: values}
}

// =============================================================================
// RULE BY RULE
// =============================================================================

func TestDateLabelRule(t *testing.T) {
	r := generic.DateLabelRule{}
	assert.True(t, r.Match(column(generic.Date(jan2026()), generic.Num(1))))
	assert.False(t, r.Match(column(generic.Text("2026-01"), generic.Num(1))))
}

func TestDateValuesRule(t *testing.T) {
	r := generic.DateValuesRule{}
	assert.True(t, r.Match(column(generic.Text("Periodo"), generic.Date(jan2026()), generic.Empty)))
	assert.False(t, r.Match(column(generic.Text("Periodo"), generic.Date(jan2026()), generic.Num(3))))
	assert.False(t, r.Match(column(generic.Text("Periodo"), generic.Empty)), "all-empty column has no dates")
}

func TestParseableRule(t *testing.T) {
	r := generic.ParseableRule{}
	assert.True(t, r.Match(column(generic.Text("gen"), generic.Num(1200), generic.Num(0))), "numbers coerce leniently")
	assert.True(t, r.Match(column(generic.Text("x"), generic.Text("2026-02-01"))))
	assert.False(t, r.Match(column(generic.Text("Risorsa"), generic.Text("Mastercut_01"))))
}

func TestDatePatternRule(t *testing.T) {
	r := generic.DatePatternRule{Tokens: []string{"2025", "2026"}, SampleSize: 5}

	// GIVEN: a text column whose values carry date punctuation
	assert.True(t, r.Match(column(generic.Text("c"), generic.Text("gen-26"), generic.Text("feb-26"))))
	// year token without punctuation
	assert.True(t, r.Match(column(generic.Text("c"), generic.Text("Q1 2026"))))
	// plain text
	assert.False(t, r.Match(column(generic.Text("Note"), generic.Text("ok"), generic.Text("da verificare"))))
	// numeric columns are not text-typed
	assert.False(t, r.Match(column(generic.Text("c"), generic.Num(2026))))
}

func TestDatePatternRule_OnlySamplesFirstValues(t *testing.T) {
	r := generic.DatePatternRule{SampleSize: 2}
	col := column(generic.Text("c"), generic.Text("a"), generic.Empty, generic.Text("b"), generic.Text("2026-01"))
	assert.False(t, r.Match(col), "third non-empty value is outside the sample")
}

// =============================================================================
// CLASSIFIER
// =============================================================================

func TestClassifier_FirstMatchingRuleWins(t *testing.T) {
	c := generic.NewClassifier([]string{"2026"}, 5, nil)

	name, ok := c.Classify(column(generic.Date(jan2026()), generic.Date(jan2026())))
	require.True(t, ok)
	assert.Equal(t, "date_label", name)

	name, ok = c.Classify(column(generic.Text("2026-01"), generic.Num(10)))
	require.True(t, ok)
	assert.Equal(t, "parseable", name)

	_, ok = c.Classify(column(generic.Text("Risorsa"), generic.Text("Bobst")))
	assert.False(t, ok)
}

func TestClassifier_PeriodColumnsExcludesIDsAndKeywords(t *testing.T) {
	// GIVEN: a shift table with a summary column next to the months
	tbl := generic.NewTable("turni",
		generic.Text("Gruppo_risorse"),
		generic.Text("Risorsa"),
		generic.Date(jan2026()),
		generic.Date(jan2026().AddDate(0, 1, 0)),
		generic.Text("Turni standard medio"),
	)
	tbl.AppendRow(generic.Text("Stampa"), generic.Text("KBA"), generic.Num(15), generic.Num(15), generic.Num(15))

	c := generic.NewClassifier(nil, 5, []string{"turni", "standard", "medio"})

	// WHEN: detecting period columns
	idx := c.PeriodColumns(tbl, "Gruppo_risorse", "Risorsa")

	// THEN: only the two month columns survive
	assert.Equal(t, []int{2, 3}, idx)
}

func TestClassifier_NoPeriodColumns(t *testing.T) {
	tbl := generic.NewTextTable("assenteismo_ferie", "Gruppo_risorse", "Nota")
	tbl.AppendRow(generic.Text("Stampa"), generic.Text("ok"))

	c := generic.NewClassifier([]string{"2026"}, 5, nil)
	assert.Empty(t, c.PeriodColumns(tbl, "Gruppo_risorse"))
}

func TestClassifier_AllBlankMonthColumn(t *testing.T) {
	// GIVEN: two months with no values at all, one labelled "2026-02" as
	// text and one labelled with a real date
	tbl := generic.NewTable("volumi",
		generic.Text("Gruppo_risorse"),
		generic.Date(jan2026()),
		generic.Text("2026-02"),
		generic.Date(jan2026().AddDate(0, 2, 0)),
	)
	tbl.AppendRow(generic.Text("Stampa"), generic.Num(1200), generic.Empty, generic.Empty)
	tbl.AppendRow(generic.Text("Piega_incolla"), generic.Num(800), generic.Text("  "), generic.Empty)

	c := generic.NewClassifier([]string{"2026"}, 5, nil)

	// WHEN: detecting period columns
	idx := c.PeriodColumns(tbl, "Gruppo_risorse")

	// THEN: the text-labelled blank column matches no rule and is not a
	// period, while the date label alone still marks March as one
	assert.Equal(t, []int{1, 3}, idx)
	_, ok := c.Classify(tbl.Columns[2])
	assert.False(t, ok)
}
