package manning

import (
	"gonum.org/v1/gonum/stat"

	"github.com/warp/manning-engine/generic"
)

// GroupSummary condenses a group's monthly tables into headline figures.
// Every field is a mean over the months where it is defined.
type GroupSummary struct {
	MeanRequiredShifts generic.Quantity `json:"mean_required_shifts"`
	MeanStandardShifts generic.Quantity `json:"mean_standard_shifts"`
	MeanShiftGap       generic.Quantity `json:"mean_shift_gap"`
	MeanHeadcount      generic.Quantity `json:"mean_headcount"`
	QuadraturePct      generic.Quantity `json:"quadrature_pct"`
	AbsenteeismPct     generic.Quantity `json:"absenteeism_pct"`
	VacationPct        generic.Quantity `json:"vacation_pct"`
}

// Summarize computes the headline figures of one group.
//
// The shift gap is the difference of the two means, not the mean of the
// monthly gaps, so months with only one side defined still count. The
// percentages are the mean share each cascade step adds to its input.
func Summarize(shifts []ShiftDemand, headcount []HeadcountRow) GroupSummary {
	var required, standard []generic.Quantity
	for _, s := range shifts {
		required = append(required, s.RequiredShifts)
		standard = append(standard, s.StandardShifts)
	}
	var final, quad, abs, vac []generic.Quantity
	for _, h := range headcount {
		final = append(final, h.Final)
		quad = append(quad, percentOf(h.DeltaQuadrature, h.Base))
		abs = append(abs, percentOf(h.DeltaAbsenteeism, h.Quadrature))
		vac = append(vac, percentOf(h.DeltaVacation, h.Absenteeism))
	}

	s := GroupSummary{
		MeanRequiredShifts: meanOf(required),
		MeanStandardShifts: meanOf(standard),
		MeanHeadcount:      meanOf(final),
		QuadraturePct:      meanOf(quad),
		AbsenteeismPct:     meanOf(abs),
		VacationPct:        meanOf(vac),
	}
	s.MeanShiftGap = s.MeanRequiredShifts.Sub(s.MeanStandardShifts)
	return s
}

func percentOf(part, whole generic.Quantity) generic.Quantity {
	return part.Div(whole).Mul(hundred)
}

// meanOf averages the defined values with gonum; none defined is undefined.
func meanOf(qs []generic.Quantity) generic.Quantity {
	xs := make([]float64, 0, len(qs))
	for _, q := range qs {
		if v, ok := q.Float64(); ok {
			xs = append(xs, v)
		}
	}
	if len(xs) == 0 {
		return generic.Undefined
	}
	return generic.Q(stat.Mean(xs, nil))
}
