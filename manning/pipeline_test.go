package manning_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/manning-engine/generic"
	"github.com/warp/manning-engine/manning"
)

func runFixture(t *testing.T, ds manning.Dataset, mutate ...func(*manning.Config)) *manning.Report {
	t.Helper()
	cfg := manning.DefaultConfig()
	for _, m := range mutate {
		m(&cfg)
	}
	p, err := manning.NewPipeline(cfg)
	require.NoError(t, err)
	report, err := p.Run(context.Background(), ds)
	require.NoError(t, err)
	return report
}

// =============================================================================
// END TO END
// =============================================================================

func TestPipeline_Run_ShiftDemand(t *testing.T) {
	report := runFixture(t, fixture())

	stampa := report.Group("Stampa")
	require.NotNil(t, stampa)
	require.Len(t, stampa.Shifts, 2)

	jan := stampa.Shifts[0]
	assert.Equal(t, janKey, jan.Period)
	assertQ(t, 120000, jan.Volume)
	assertQ(t, 750, jan.WeightedRate)
	assertQ(t, 1, jan.RequiredShifts)
	assertQ(t, 2, jan.StandardShifts)
	assertQ(t, -1, jan.Gap)

	fust := report.Group("Fustellatura")
	require.NotNil(t, fust)
	require.Len(t, fust.Shifts, 2)
	assertQ(t, 0.1, fust.Shifts[0].RequiredShifts)
}

func TestPipeline_Run_Headcount(t *testing.T) {
	report := runFixture(t, fixture())

	stampa := report.Group("Stampa")
	require.Len(t, stampa.Headcount, 2)
	h := stampa.Headcount[0]
	assertQ(t, 240, h.PersonHours)
	assertQ(t, 1.5, h.Base)
	assertQ(t, 1.875, h.Quadrature)
	assertQ(t, 1.96875, h.Absenteeism)
	assertQ(t, 2.165625, h.Final)

	// Mastercut crew 10 counts as 2: 1600/100 × 2 / 160 = 0.2
	fust := report.Group("Fustellatura")
	require.Len(t, fust.Headcount, 2)
	assertQ(t, 32, fust.Headcount[0].PersonHours)
	assertQ(t, 0.2, fust.Headcount[0].Final)
}

func TestPipeline_Run_IndirectAndRollup(t *testing.T) {
	report := runFixture(t, fixture())

	stampa := report.Group("Stampa")
	require.Len(t, stampa.Indirect, 2)
	assertQ(t, 3, stampa.Indirect[0].Headcount)

	require.Len(t, report.Plant, 2)
	p := report.Plant[0]
	assert.Equal(t, janKey, p.Period)
	assertQ(t, 2.365625, p.Direct)
	assertQ(t, 3, p.Indirect)
	assertQ(t, 5.365625, p.Total)

	for _, r := range report.Rollup {
		if r.Direct.Valid && r.Indirect.Valid {
			assert.True(t, r.Total.Equal(r.Direct.Add(r.Indirect)), "%s %s", r.Group, r.Period)
		}
	}
	for _, p := range report.Plant {
		assert.True(t, p.Total.Equal(p.Direct.Add(p.Indirect)), "%s", p.Period)
	}
}

func TestPipeline_Run_GroupOrderAndNoData(t *testing.T) {
	report := runFixture(t, fixture())

	names := make([]string, len(report.Groups))
	for i, g := range report.Groups {
		names[i] = g.Group
	}
	assert.Equal(t, []string{"Stampa", "Fustellatura", "Piega_incolla", "Villavara"}, names)
	assert.True(t, report.Group("Villavara").Empty())
	assert.True(t, hasWarning(report.Warnings, manning.WarnNoData, "Villavara"))
	assert.False(t, hasWarning(report.Warnings, manning.WarnNoData, "Stampa"))
}

func TestPipeline_Run_UnknownGroupAppended(t *testing.T) {
	ds := fixture()
	ds.Volumes.AppendRow(txt("Accoppiatura"), txt("Lam_1"), num(10), num(10))

	report := runFixture(t, ds)

	last := report.Groups[len(report.Groups)-1]
	assert.Equal(t, "Accoppiatura", last.Group)
	assert.True(t, hasWarning(report.Warnings, manning.WarnUnknownGroup, "Accoppiatura"))
}

func TestPipeline_Run_ShiftExclusionColumn(t *testing.T) {
	// "Turni medio" is numeric and would classify as a period; the keyword
	// exclusion keeps it out, so no degraded period appears.
	report := runFixture(t, fixture())
	assert.False(t, hasWarning(report.Warnings, manning.WarnUnresolvedPeriod, ""))
}

// =============================================================================
// DETERMINISM
// =============================================================================

func TestPipeline_Run_Idempotent(t *testing.T) {
	ds := fixture()
	p, err := manning.NewPipeline(manning.DefaultConfig())
	require.NoError(t, err)

	first, err := p.Run(context.Background(), ds)
	require.NoError(t, err)
	second, err := p.Run(context.Background(), ds)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestPipeline_Run_ConcurrentMatchesSequential(t *testing.T) {
	ds := fixture()
	ds.Volumes.AppendRow(txt("Stampa"), txt("Press_C"), num(500), num(500))

	sequential := runFixture(t, ds)
	concurrent := runFixture(t, ds, func(c *manning.Config) { c.Workers = 4 })

	assert.Equal(t, sequential, concurrent)
}

func TestPipeline_Run_CancelledContext(t *testing.T) {
	p, err := manning.NewPipeline(manning.DefaultConfig())
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = p.Run(ctx, fixture())
	assert.ErrorIs(t, err, context.Canceled)
}

// =============================================================================
// DEGRADED INPUTS
// =============================================================================

func TestPipeline_Run_MissingRate(t *testing.T) {
	// GIVEN: Press_C has volume but no entry in the efficiency table
	// WHEN: the pipeline runs
	// THEN: its volume still counts, the weighted rate ignores it and
	//       an undefined_rate warning names it

	ds := fixture()
	ds.Volumes.AppendRow(txt("Stampa"), txt("Press_C"), num(30000), num(30000))
	ds.Crews.AppendRow(txt("Stampa"), txt("Press_C"), num(4), num(4))

	report := runFixture(t, ds)
	stampa := report.Group("Stampa")

	assertQ(t, 150000, stampa.Shifts[0].Volume)
	assertQ(t, 750, stampa.Shifts[0].WeightedRate)
	assertQ(t, 240, stampa.Headcount[0].PersonHours, "Press_C crew row is dropped")

	var found bool
	for _, w := range report.Warnings {
		if w.Code == manning.WarnUndefinedRate && w.Resource == "Press_C" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestPipeline_Run_MissingPeriodColumns(t *testing.T) {
	ds := fixture()
	ds.Calendar = generic.NewTextTable("calendario", "Gruppo_risorse")
	ds.Calendar.AppendRow(txt("Stampa"))

	report := runFixture(t, ds)

	assert.True(t, hasWarning(report.Warnings, manning.WarnMissingPeriodColumns, ""))
	stampa := report.Group("Stampa")
	assert.Empty(t, stampa.Shifts)
	assert.Empty(t, stampa.Headcount)
	assert.NotEmpty(t, stampa.Volumes, "volume overview does not need the calendar")
	assert.NotEmpty(t, stampa.Indirect, "indirect staff does not need the calendar")
}

func TestPipeline_Run_UnresolvedJoin(t *testing.T) {
	ds := fixture()
	ds.Calendar = periodTable("calendario", "Gruppo_risorse")
	ds.Calendar.AppendRow(txt("Stampa"), num(20), num(20))

	report := runFixture(t, ds)

	fust := report.Group("Fustellatura")
	require.Len(t, fust.Shifts, 2)
	assert.False(t, fust.Shifts[0].WorkingDays.Valid)
	assert.False(t, fust.Shifts[0].RequiredShifts.Valid)
	assert.True(t, hasWarning(report.Warnings, manning.WarnUnresolvedJoin, "Fustellatura"))
}

func TestPipeline_Run_ZeroWorkingDays(t *testing.T) {
	ds := fixture()
	ds.Calendar = periodTable("calendario", "Gruppo_risorse")
	ds.Calendar.AppendRow(txt("Stampa"), num(0), num(20))
	ds.Calendar.AppendRow(txt("Fustellatura"), num(20), num(20))

	report := runFixture(t, ds)

	stampa := report.Group("Stampa")
	assert.False(t, stampa.Shifts[0].RequiredShifts.Valid)
	assert.False(t, stampa.Headcount[0].Final.Valid)
	assert.True(t, stampa.Shifts[1].RequiredShifts.Valid)
	assert.True(t, hasWarning(report.Warnings, manning.WarnDivisionByZero, "Stampa"))
}

func TestPipeline_Run_DegradedPeriodLabel(t *testing.T) {
	ds := fixture()
	ds.Volumes.Columns = append(ds.Volumes.Columns, generic.Column{
		Label:  txt("Budget 2026"),
		Values: []generic.Cell{num(1), num(1), num(1)},
	})

	report := runFixture(t, ds)

	assert.True(t, hasWarning(report.Warnings, manning.WarnUnresolvedPeriod, ""))
	stampa := report.Group("Stampa")
	var degraded bool
	for _, v := range stampa.Volumes {
		if v.Period == "Budget 2026" {
			degraded = true
		}
	}
	assert.True(t, degraded, "unparseable label is kept as its own period key")
}

func TestPipeline_Run_StandardShiftDisagreement(t *testing.T) {
	ds := fixture()
	ds.Shifts.AppendRow(txt("Stampa"), txt("Press_0"), num(3), num(3), num(3))

	first := runFixture(t, ds)
	assertQ(t, 3, first.Group("Stampa").Shifts[0].StandardShifts, "Press_0 sorts first")
	assert.True(t, hasWarning(first.Warnings, manning.WarnAggregationDisagreement, "Stampa"))

	mean := runFixture(t, ds, func(c *manning.Config) { c.StandardShiftAggregation = manning.AggregateMean })
	assertQ(t, 7.0/3.0, mean.Group("Stampa").Shifts[0].StandardShifts)
}

// =============================================================================
// FATAL ERRORS
// =============================================================================

func TestPipeline_Run_MissingIdentifierColumn(t *testing.T) {
	ds := fixture()
	ds.Efficiency = generic.NewTextTable("efficienza_oee", "Risorsa", "Gruppo_risorse", "Quadratura")

	p, err := manning.NewPipeline(manning.DefaultConfig())
	require.NoError(t, err)
	_, err = p.Run(context.Background(), ds)

	require.Error(t, err)
	assert.ErrorIs(t, err, generic.ErrMissingColumn)
	var mc *generic.MissingColumnError
	require.True(t, errors.As(err, &mc))
	assert.Equal(t, "Velocità_LL", mc.Column)
	assert.Equal(t, "efficienza_oee", mc.Table)
}

func TestPipeline_Run_MissingTable(t *testing.T) {
	ds := fixture()
	ds.Shifts = nil

	p, err := manning.NewPipeline(manning.DefaultConfig())
	require.NoError(t, err)
	_, err = p.Run(context.Background(), ds)

	assert.ErrorIs(t, err, generic.ErrMissingTable)
	assert.True(t, generic.IsClientError(err))
}

func TestNewPipeline_InvalidConfig(t *testing.T) {
	cfg := manning.DefaultConfig()
	cfg.Workers = 0
	_, err := manning.NewPipeline(cfg)
	assert.ErrorIs(t, err, generic.ErrInvalidConfig)
}

// =============================================================================
// SUMMARY + TABLES
// =============================================================================

func TestSummarize_FixtureGroup(t *testing.T) {
	report := runFixture(t, fixture())
	s := report.Group("Stampa").Summary

	assertQ(t, 1, s.MeanRequiredShifts)
	assertQ(t, 2, s.MeanStandardShifts)
	assertQ(t, -1, s.MeanShiftGap)
	assertQ(t, 2.165625, s.MeanHeadcount)
	assertQ(t, 25, s.QuadraturePct)
	assertQ(t, 5, s.AbsenteeismPct)
	assertQ(t, 10, s.VacationPct)
}

func TestSummarize_Empty(t *testing.T) {
	s := manning.Summarize(nil, nil)
	assert.False(t, s.MeanRequiredShifts.Valid)
	assert.False(t, s.MeanShiftGap.Valid)
	assert.False(t, s.MeanHeadcount.Valid)
}

func TestReport_Table(t *testing.T) {
	report := runFixture(t, fixture())

	shifts, err := report.Table(manning.ResultShifts)
	require.NoError(t, err)
	assert.Equal(t, []string{"Anno_Mese", "Gruppo_risorse", "Volume", "Giorni_lavorativi",
		"Velocità_LL_reparto", "Fabbisogno_turni", "Turni_standard", "Differenza_turni"}, shifts.Header())
	assert.Equal(t, 4, shifts.Len())

	plant, err := report.Table(manning.ResultPlant)
	require.NoError(t, err)
	assert.Equal(t, "Head Count Totale", plant.Header()[3])
	assert.Equal(t, "2026-01", plant.Cell(0, 0).String())

	_, err = report.Table("payroll")
	assert.ErrorIs(t, err, generic.ErrUnknownTable)

	assert.Len(t, report.Tables(), len(manning.ResultTables()))
}

func TestGroupResult_Months(t *testing.T) {
	report := runFixture(t, fixture())
	months := report.Group("Stampa").Months()

	require.Len(t, months, 2)
	assertQ(t, 1, months[0].RequiredShifts)
	assertQ(t, 2.165625, months[0].FinalHeadcount)
	assertQ(t, 5.165625, months[0].Total)
}
