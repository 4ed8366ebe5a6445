package factory_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/manning-engine/factory"
	"github.com/warp/manning-engine/generic"
	"github.com/warp/manning-engine/manning"
)

func TestParseConfig_EmptyIsDefault(t *testing.T) {
	s, err := factory.NewConfigFactory().ParseConfig("")
	require.NoError(t, err)
	assert.Equal(t, factory.Defaults(), s)
}

func TestParseConfig_PartialOverride(t *testing.T) {
	// GIVEN: a document that only changes shift hours, one column and the sheets
	// WHEN: it is parsed
	// THEN: everything else keeps the plant default

	s, err := factory.NewConfigFactory().ParseConfig(`{
		"standard_shift_hours": 7.5,
		"columns": {"rate": "Speed"},
		"aggregation": {"quadrature": "mean"},
		"sheets": {"shifts": "turni_2026"}
	}`)
	require.NoError(t, err)

	assert.True(t, s.Engine.StandardShiftHours.Equal(decimal.NewFromFloat(7.5)))
	assert.Equal(t, "Speed", s.Engine.Columns.Rate)
	assert.Equal(t, "Gruppo_risorse", s.Engine.Columns.Group)
	assert.Equal(t, manning.AggregateMean, s.Engine.QuadratureAggregation)
	assert.Equal(t, manning.AggregateFirst, s.Engine.StandardShiftAggregation)
	assert.Equal(t, "turni_2026", s.Sheets.Shifts)
	assert.Equal(t, "volumi_bgt", s.Sheets.Volumes)
	assert.Equal(t, manning.DefaultConfig().Groups, s.Engine.Groups)
}

func TestParseConfig_CrewDivisors(t *testing.T) {
	s, err := factory.NewConfigFactory().ParseConfig(`{"crew_divisors": [{"match": "Bobst", "divisor": 2}]}`)
	require.NoError(t, err)

	require.Len(t, s.Engine.CrewDivisors, 1)
	assert.True(t, s.Engine.AdjustedCrew("Mastercut_01", generic.QInt(10)).Equal(generic.QInt(10)),
		"an explicit list replaces the defaults")
	assert.True(t, s.Engine.AdjustedCrew("Bobst_1", generic.QInt(10)).Equal(generic.QInt(5)))
}

func TestParseConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"malformed", `{"groups": [`},
		{"negative hours", `{"standard_shift_hours": -1}`},
		{"zero divisor", `{"crew_divisors": [{"match": "Mastercut", "divisor": 0}]}`},
		{"unknown aggregation", `{"aggregation": {"standard_shifts": "median"}}`},
		{"no workers", `{"workers": 0}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := factory.NewConfigFactory().ParseConfig(tt.doc)
			assert.ErrorIs(t, err, generic.ErrInvalidConfig)
		})
	}
}

func TestToJSON_RoundTrip(t *testing.T) {
	f := factory.NewConfigFactory()
	want, err := f.ParseConfig(`{"workers": 3, "groups": ["Stampa"], "sheets": {"crews": "crew"}}`)
	require.NoError(t, err)

	data, err := json.Marshal(f.ToJSON(want))
	require.NoError(t, err)
	got, err := f.ParseConfig(string(data))
	require.NoError(t, err)

	assert.Equal(t, want.Engine.Workers, got.Engine.Workers)
	assert.Equal(t, want.Engine.Groups, got.Engine.Groups)
	assert.Equal(t, want.Sheets, got.Sheets)
	assert.True(t, want.Engine.StandardShiftHours.Equal(got.Engine.StandardShiftHours))
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "manning.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"sample_size": 10}`), 0o600))

	s, err := factory.NewConfigFactory().LoadConfigFile(path)
	require.NoError(t, err)
	assert.Equal(t, 10, s.Engine.SampleSize)

	_, err = factory.NewConfigFactory().LoadConfigFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestLoadConfigFile_YAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "manning.yaml")
	doc := `
standard_shift_hours: 7.5
groups: [Stampa, Villavara]
crew_divisors:
  - match: Mastercut
    divisor: 4
aggregation:
  standard_shifts: mean
sheets:
  volumes: Volumi
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	s, err := factory.NewConfigFactory().LoadConfigFile(path)
	require.NoError(t, err)
	assert.Equal(t, "7.5", s.Engine.StandardShiftHours.String())
	assert.Equal(t, []string{"Stampa", "Villavara"}, s.Engine.Groups)
	require.Len(t, s.Engine.CrewDivisors, 1)
	assert.Equal(t, "4", s.Engine.CrewDivisors[0].Divisor.String())
	assert.Equal(t, manning.AggregateMean, s.Engine.StandardShiftAggregation)
	assert.Equal(t, "Volumi", s.Sheets.Volumes)
	assert.Equal(t, "turni", s.Sheets.Shifts, "unset sheets keep defaults")
}

func TestParseYAML_Invalid(t *testing.T) {
	f := factory.NewConfigFactory()

	_, err := f.ParseYAML([]byte("groups: [unclosed"))
	assert.ErrorIs(t, err, generic.ErrInvalidConfig)

	s, err := f.ParseYAML(nil)
	require.NoError(t, err)
	assert.Equal(t, manning.DefaultConfig().Groups, s.Engine.Groups)
}
