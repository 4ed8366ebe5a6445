/*
Package manning computes shift demand and headcount for a manufacturing plant.

PURPOSE:
  Turns the plant's planning workbook (volume forecasts, machine speeds,
  calendars, shift standards, absenteeism and crew sizes) into monthly
  shift and headcount requirements per resource group, rolled up to a
  plant-wide headcount forecast.

PIPELINE:
  1. Normalize:     detect period columns, melt, resolve year-month keys
                    (normalize.go)
  2. Weighted rate: Σvolume / Σ(volume/rate) per group and month (rate.go)
  3. Shift demand:  volume / (days × hours × weighted rate) (shifts.go)
  4. Headcount:     person-hours → base → quadrature → absenteeism →
                    vacation cascade (headcount.go)
  5. Rollup:        direct + indirect, per group and plant-wide (rollup.go)

  Pipeline.Run (pipeline.go) composes the stages. Stages 2-4 are
  independent per group and may run concurrently.

UNDEFINED VALUES:
  Missing joins, unusable rates and zero divisors yield undefined
  quantities plus a Warning. Only structural problems (missing table,
  missing identifier column) return an error.

SEE ALSO:
  - generic/: Quantity, Table, period detection and resolution
  - workbook/: xlsx loading and export
*/
package manning

import (
	"github.com/warp/manning-engine/generic"
)

// =============================================================================
// INPUT DATASET
// =============================================================================

// Dataset holds the six parsed input tables.
type Dataset struct {
	Volumes     *generic.Table // {group, resource, <periods>}
	Crews       *generic.Table // {group, resource, <periods>}
	Calendar    *generic.Table // {group, <periods>} working days
	Shifts      *generic.Table // {group, resource, <periods>} nominal shifts
	Absenteeism *generic.Table // {group, absenteeism, vacation coverage}
	Efficiency  *generic.Table // {resource, rate, group, quadrature}
}

// GroupPeriod is the (resource group, month) join key.
type GroupPeriod struct {
	Group  string
	Period generic.YearMonth
}

type resourceKey struct {
	Group    string
	Resource string
	Period   generic.YearMonth
}

// =============================================================================
// NORMALIZED RECORDS
// =============================================================================

type VolumeRecord struct {
	Group    string            `json:"group"`
	Resource string            `json:"resource"`
	Period   generic.YearMonth `json:"period"`
	Volume   generic.Quantity  `json:"volume"`
}

type CrewRecord struct {
	Group    string            `json:"group"`
	Resource string            `json:"resource"`
	Period   generic.YearMonth `json:"period"`
	Crew     generic.Quantity  `json:"crew"`
}

type ShiftStandardRecord struct {
	Group    string
	Resource string
	Period   generic.YearMonth
	Shifts   generic.Quantity
}

type EfficiencyRecord struct {
	Resource   string
	Group      string
	Rate       generic.Quantity
	Quadrature generic.Quantity
}

type AbsenteeismRecord struct {
	Group            string
	Absenteeism      generic.Quantity
	VacationCoverage generic.Quantity
}

// =============================================================================
// RESULTS
// =============================================================================

// ShiftDemand is the shift requirement of one group in one month.
type ShiftDemand struct {
	Group          string            `json:"group"`
	Period         generic.YearMonth `json:"period"`
	Volume         generic.Quantity  `json:"volume"`
	WorkingDays    generic.Quantity  `json:"working_days"`
	WeightedRate   generic.Quantity  `json:"weighted_rate"`
	RequiredShifts generic.Quantity  `json:"required_shifts"`
	StandardShifts generic.Quantity  `json:"standard_shifts"`
	Gap            generic.Quantity  `json:"gap"`
}

// Cascade is the headcount inflation chain with every step retained.
type Cascade struct {
	Base             generic.Quantity `json:"base"`
	Quadrature       generic.Quantity `json:"quadrature"`
	Absenteeism      generic.Quantity `json:"absenteeism"`
	Final            generic.Quantity `json:"final"`
	DeltaQuadrature  generic.Quantity `json:"delta_quadrature"`
	DeltaAbsenteeism generic.Quantity `json:"delta_absenteeism"`
	DeltaVacation    generic.Quantity `json:"delta_vacation"`
}

// HeadcountRow is the direct headcount of one group in one month.
type HeadcountRow struct {
	Group            string            `json:"group"`
	Period           generic.YearMonth `json:"period"`
	PersonHours      generic.Quantity  `json:"person_hours"`
	WorkingDays      generic.Quantity  `json:"working_days"`
	QuadraturePct    generic.Quantity  `json:"quadrature_pct"`
	AbsenteeismRate  generic.Quantity  `json:"absenteeism_rate"`
	VacationCoverage generic.Quantity  `json:"vacation_coverage"`
	Cascade
}

// IndirectRow is the support headcount of one group in one month.
type IndirectRow struct {
	Group     string            `json:"group"`
	Period    generic.YearMonth `json:"period"`
	Headcount generic.Quantity  `json:"headcount"`
}

// RollupRow combines direct and indirect headcount of one group in one month.
type RollupRow struct {
	Group    string            `json:"group"`
	Period   generic.YearMonth `json:"period"`
	Direct   generic.Quantity  `json:"direct"`
	Indirect generic.Quantity  `json:"indirect"`
	Total    generic.Quantity  `json:"total"`
}

// PlantRow is the plant-wide headcount of one month.
type PlantRow struct {
	Period   generic.YearMonth `json:"period"`
	Direct   generic.Quantity  `json:"direct"`
	Indirect generic.Quantity  `json:"indirect"`
	Total    generic.Quantity  `json:"total"`
}

// GroupMonthResult is the per-month view of one group: shifts and headcount side by side.
type GroupMonthResult struct {
	Group            string            `json:"group"`
	Period           generic.YearMonth `json:"period"`
	RequiredShifts   generic.Quantity  `json:"required_shifts"`
	StandardShifts   generic.Quantity  `json:"standard_shifts"`
	BaseHeadcount    generic.Quantity  `json:"base_headcount"`
	DeltaQuadrature  generic.Quantity  `json:"delta_quadrature"`
	DeltaAbsenteeism generic.Quantity  `json:"delta_absenteeism"`
	DeltaVacation    generic.Quantity  `json:"delta_vacation"`
	FinalHeadcount   generic.Quantity  `json:"final_headcount"`
	Indirect         generic.Quantity  `json:"indirect"`
	Total            generic.Quantity  `json:"total"`
}

// VolumePoint is the total volume of a group in one month.
type VolumePoint struct {
	Period generic.YearMonth `json:"period"`
	Volume generic.Quantity  `json:"volume"`
}

// GroupResult collects every computed table of one resource group.
type GroupResult struct {
	Group     string         `json:"group"`
	Volumes   []VolumePoint  `json:"volumes"`
	Resources []VolumeRecord `json:"resources"`
	Shifts    []ShiftDemand  `json:"shifts"`
	Headcount []HeadcountRow `json:"headcount"`
	Indirect  []IndirectRow  `json:"indirect"`
	Rollup    []RollupRow    `json:"rollup"`
	Summary   GroupSummary   `json:"summary"`
}

// Empty reports whether the group produced no rows at all.
func (g GroupResult) Empty() bool {
	return len(g.Volumes) == 0 && len(g.Shifts) == 0 && len(g.Headcount) == 0 && len(g.Indirect) == 0
}

// Months joins the group's tables by period.
func (g GroupResult) Months() []GroupMonthResult {
	byPeriod := map[generic.YearMonth]*GroupMonthResult{}
	var periods []generic.YearMonth
	get := func(p generic.YearMonth) *GroupMonthResult {
		if m, ok := byPeriod[p]; ok {
			return m
		}
		m := &GroupMonthResult{Group: g.Group, Period: p}
		byPeriod[p] = m
		periods = append(periods, p)
		return m
	}
	for _, s := range g.Shifts {
		m := get(s.Period)
		m.RequiredShifts = s.RequiredShifts
		m.StandardShifts = s.StandardShifts
	}
	for _, h := range g.Headcount {
		m := get(h.Period)
		m.BaseHeadcount = h.Base
		m.DeltaQuadrature = h.DeltaQuadrature
		m.DeltaAbsenteeism = h.DeltaAbsenteeism
		m.DeltaVacation = h.DeltaVacation
		m.FinalHeadcount = h.Final
	}
	for _, r := range g.Rollup {
		m := get(r.Period)
		m.Indirect = r.Indirect
		m.Total = r.Total
	}
	generic.SortMonths(periods)
	out := make([]GroupMonthResult, len(periods))
	for i, p := range periods {
		out[i] = *byPeriod[p]
	}
	return out
}

// Report is the complete output of one pipeline run.
type Report struct {
	Groups   []GroupResult `json:"groups"`
	Rollup   []RollupRow   `json:"rollup"`
	Plant    []PlantRow    `json:"plant"`
	Warnings []Warning     `json:"warnings"`
}

// Group returns the result for name, or nil.
func (r *Report) Group(name string) *GroupResult {
	for i := range r.Groups {
		if r.Groups[i].Group == name {
			return &r.Groups[i]
		}
	}
	return nil
}
