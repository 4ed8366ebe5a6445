package manning_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/warp/manning-engine/generic"
	"github.com/warp/manning-engine/manning"
)

// =============================================================================
// HEADCOUNT CASCADE
// =============================================================================

func TestApplyCascade_ReferenceChain(t *testing.T) {
	// GIVEN: base 100, quadrature 80%, absenteeism 5%, vacation 10%
	// WHEN: the cascade is applied
	// THEN: each step compounds on the previous one, exactly

	c := manning.ApplyCascade(generic.QInt(100), generic.QInt(80), generic.Q(0.05), generic.Q(0.10))

	assert.True(t, c.Quadrature.Equal(generic.QInt(125)), "quadrature: %s", c.Quadrature)
	assert.True(t, c.DeltaQuadrature.Equal(generic.QInt(25)))
	assert.True(t, c.Absenteeism.Equal(generic.Q(131.25)), "absenteeism: %s", c.Absenteeism)
	assert.True(t, c.DeltaAbsenteeism.Equal(generic.Q(6.25)))
	assert.True(t, c.Final.Equal(generic.Q(144.375)), "final: %s", c.Final)
	assert.True(t, c.DeltaVacation.Equal(generic.Q(13.125)))

	sum := c.Base.Add(c.DeltaQuadrature).Add(c.DeltaAbsenteeism).Add(c.DeltaVacation)
	assert.True(t, sum.Equal(c.Final), "deltas must add up to the final headcount")
}

func TestApplyCascade_DeltasAddUpForInexactDivision(t *testing.T) {
	c := manning.ApplyCascade(generic.QInt(10), generic.QInt(30), generic.Q(0.07), generic.Q(0.03))
	sum := c.Base.Add(c.DeltaQuadrature).Add(c.DeltaAbsenteeism).Add(c.DeltaVacation)
	assert.True(t, sum.Equal(c.Final))
}

func TestApplyCascade_ZeroQuadratureIsUndefined(t *testing.T) {
	c := manning.ApplyCascade(generic.QInt(10), generic.QInt(0), generic.Q(0.05), generic.Q(0.1))

	assert.False(t, c.Quadrature.Valid)
	assert.False(t, c.Final.Valid)
	assert.True(t, c.Base.Equal(generic.QInt(10)), "base is unaffected")
}

func TestApplyCascade_UndefinedBasePropagates(t *testing.T) {
	c := manning.ApplyCascade(generic.Undefined, generic.QInt(80), generic.Q(0.05), generic.Q(0.1))
	assert.False(t, c.Final.Valid)
	assert.False(t, c.DeltaQuadrature.Valid)
}

// =============================================================================
// CREW DIVISOR
// =============================================================================

func TestAdjustedCrew(t *testing.T) {
	cfg := manning.DefaultConfig()

	tests := []struct {
		resource string
		crew     generic.Quantity
		want     generic.Quantity
	}{
		{"Mastercut_01", generic.QInt(10), generic.QInt(2)},
		{"MASTERCUT 2", generic.QInt(5), generic.QInt(1)},
		{"mastercut", generic.QInt(1), generic.Q(0.2)},
		{"Diecutter", generic.QInt(10), generic.QInt(10)},
		{"Mastercut_01", generic.Undefined, generic.Undefined},
	}
	for _, tt := range tests {
		t.Run(tt.resource, func(t *testing.T) {
			got := cfg.AdjustedCrew(tt.resource, tt.crew)
			assert.True(t, got.Equal(tt.want), "got %s want %s", got, tt.want)
		})
	}
}

func TestAdjustedCrew_CustomDivisor(t *testing.T) {
	cfg := manning.DefaultConfig()
	cfg.CrewDivisors = append(cfg.CrewDivisors, manning.CrewDivisor{Match: "Bobst", Divisor: decimal.NewFromInt(2)})

	assert.True(t, cfg.AdjustedCrew("Bobst_Expertfold", generic.QInt(4)).Equal(generic.QInt(2)))
}

// =============================================================================
// WEIGHTED RATE
// =============================================================================

func TestWeightedRate_HarmonicWeighting(t *testing.T) {
	// 100 units at 10/h and 100 units at 50/h take 10h + 2h = 12h.
	rate, used := manning.WeightedRate([]manning.RateTerm{
		{Resource: "a", Volume: generic.QInt(100), Rate: generic.QInt(10)},
		{Resource: "b", Volume: generic.QInt(100), Rate: generic.QInt(50)},
	})

	assert.Equal(t, 2, used)
	assertQ(t, 200.0/12.0, rate)
}

func TestWeightedRate_ExcludesIneligibleTerms(t *testing.T) {
	// GIVEN: one resource without a rate and one with rate zero
	// WHEN: the weighted rate is computed
	// THEN: they are excluded from numerator and denominator alike

	rate, used := manning.WeightedRate([]manning.RateTerm{
		{Resource: "a", Volume: generic.QInt(100), Rate: generic.QInt(10)},
		{Resource: "no-rate", Volume: generic.QInt(5000), Rate: generic.Undefined},
		{Resource: "zero", Volume: generic.QInt(5000), Rate: generic.QInt(0)},
		{Resource: "negative", Volume: generic.QInt(5000), Rate: generic.QInt(-3)},
	})

	assert.Equal(t, 1, used)
	assert.True(t, rate.Equal(generic.QInt(10)))
}

func TestWeightedRate_ScaleInvariant(t *testing.T) {
	terms := []manning.RateTerm{
		{Resource: "a", Volume: generic.QInt(300), Rate: generic.QInt(12)},
		{Resource: "b", Volume: generic.QInt(700), Rate: generic.QInt(40)},
	}
	scaled := make([]manning.RateTerm, len(terms))
	for i, term := range terms {
		scaled[i] = term
		scaled[i].Volume = term.Volume.Mul(generic.QInt(17))
	}

	r1, _ := manning.WeightedRate(terms)
	r2, _ := manning.WeightedRate(scaled)
	f1, _ := r1.Float64()
	assertQ(t, f1, r2)
}

func TestWeightedRate_Undefined(t *testing.T) {
	rate, used := manning.WeightedRate(nil)
	assert.False(t, rate.Valid)
	assert.Zero(t, used)

	rate, used = manning.WeightedRate([]manning.RateTerm{
		{Resource: "a", Volume: generic.QInt(0), Rate: generic.QInt(10)},
	})
	assert.False(t, rate.Valid, "zero eligible volume")
	assert.Equal(t, 1, used)
}

// =============================================================================
// SHIFTS
// =============================================================================

func TestRequiredShifts(t *testing.T) {
	tests := []struct {
		name                      string
		volume, days, hours, rate generic.Quantity
		want                      generic.Quantity
	}{
		{"one shift", generic.QInt(120000), generic.QInt(20), generic.QInt(8), generic.QInt(750), generic.QInt(1)},
		{"fractional", generic.QInt(1600), generic.QInt(20), generic.QInt(8), generic.QInt(100), generic.Q(0.1)},
		{"zero days", generic.QInt(1600), generic.QInt(0), generic.QInt(8), generic.QInt(100), generic.Undefined},
		{"undefined rate", generic.QInt(1600), generic.QInt(20), generic.QInt(8), generic.Undefined, generic.Undefined},
		{"undefined volume", generic.Undefined, generic.QInt(20), generic.QInt(8), generic.QInt(100), generic.Undefined},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := manning.RequiredShifts(tt.volume, tt.days, tt.hours, tt.rate)
			assert.True(t, got.Equal(tt.want), "got %s want %s", got, tt.want)
		})
	}
}

// =============================================================================
// ROLLUP
// =============================================================================

func TestRollup_OuterJoin(t *testing.T) {
	direct := []manning.HeadcountRow{
		{Group: "Stampa", Period: janKey, Cascade: manning.Cascade{Final: generic.QInt(4)}},
		{Group: "Stampa", Period: febKey, Cascade: manning.Cascade{Final: generic.QInt(5)}},
	}
	indirect := []manning.IndirectRow{
		{Group: "Stampa", Period: janKey, Headcount: generic.QInt(2)},
		{Group: "Villavara", Period: janKey, Headcount: generic.QInt(1)},
	}

	rows := manning.Rollup(direct, indirect)

	assert.Len(t, rows, 3)
	assert.Equal(t, "Stampa", rows[0].Group)
	assert.True(t, rows[0].Total.Equal(generic.QInt(6)))
	assert.Equal(t, febKey, rows[1].Period)
	assert.False(t, rows[1].Indirect.Valid, "no indirect row for February")
	assert.False(t, rows[1].Total.Valid)
	assert.Equal(t, "Villavara", rows[2].Group)
	assert.False(t, rows[2].Direct.Valid)

	plant := manning.PlantTotals(rows)
	assert.Len(t, plant, 2)
	assert.True(t, plant[0].Direct.Equal(generic.QInt(4)))
	assert.True(t, plant[0].Indirect.Equal(generic.QInt(3)))
	assert.True(t, plant[0].Total.Equal(generic.QInt(7)))
	for _, p := range plant {
		if p.Total.Valid {
			assert.True(t, p.Total.Equal(p.Direct.Add(p.Indirect)))
		}
	}
}

// =============================================================================
// CONFIG
// =============================================================================

func TestConfig_Validate(t *testing.T) {
	assert.NoError(t, manning.DefaultConfig().Validate())

	tests := []struct {
		name   string
		mutate func(*manning.Config)
	}{
		{"zero shift hours", func(c *manning.Config) { c.StandardShiftHours = decimal.Zero }},
		{"no workers", func(c *manning.Config) { c.Workers = 0 }},
		{"zero divisor", func(c *manning.Config) { c.CrewDivisors[0].Divisor = decimal.Zero }},
		{"blank column", func(c *manning.Config) { c.Columns.Rate = " " }},
		{"bad aggregation", func(c *manning.Config) { c.QuadratureAggregation = "median" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := manning.DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			assert.ErrorIs(t, err, generic.ErrInvalidConfig)
		})
	}
}
