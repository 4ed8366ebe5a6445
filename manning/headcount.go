package manning

import (
	"github.com/warp/manning-engine/generic"
)

var (
	one     = generic.QInt(1)
	hundred = generic.QInt(100)
)

// ApplyCascade inflates a base headcount in fixed order. Each step
// compounds on the previous one:
//
//	quadrature  = base / (quadraturePct / 100)
//	absenteeism = quadrature × (1 + absenteeismRate)
//	final       = absenteeism × (1 + vacationCoverage)
//
// The deltas between consecutive steps are kept so that
// base + ΔQuadrature + ΔAbsenteeism + ΔVacation = final.
func ApplyCascade(base, quadraturePct, absenteeismRate, vacationCoverage generic.Quantity) Cascade {
	q := base.Div(quadraturePct.Div(hundred))
	a := q.Mul(one.Add(absenteeismRate))
	f := a.Mul(one.Add(vacationCoverage))
	return Cascade{
		Base:             base,
		Quadrature:       q,
		Absenteeism:      a,
		Final:            f,
		DeltaQuadrature:  q.Sub(base),
		DeltaAbsenteeism: a.Sub(q),
		DeltaVacation:    f.Sub(a),
	}
}

// PersonHours is the crewed machine time of one resource in one month:
// volume / rate × adjusted crew.
func PersonHours(volume, rate, crew generic.Quantity) generic.Quantity {
	return volume.Div(rate).Mul(crew)
}

// ComputeHeadcount derives the direct headcount of one group per month.
// Crew rows whose resource has no usable rate are dropped before any
// computation; support roles fall out here since they carry no rate.
func ComputeHeadcount(group string, in *Inputs, cfg Config) ([]HeadcountRow, []Warning) {
	if !in.HasCrews || !in.HasVolumes || !in.HasCalendar {
		return nil, nil
	}
	ws := &warnings{}

	personHours := map[generic.YearMonth][]generic.Quantity{}
	var periods []generic.YearMonth
	for _, c := range in.Crews {
		if c.Group != group {
			continue
		}
		rate := in.Rates[c.Resource]
		if !EligibleRate(rate) {
			if !cfg.IsIndirect(c.Resource) {
				ws.add(undefinedRate(group, c.Resource))
			}
			continue
		}
		volume, ok := in.Volume(group, c.Resource, c.Period)
		if !ok {
			ws.add(Warning{Code: WarnUnresolvedJoin, Table: TableVolumes, Group: group, Resource: c.Resource, Period: c.Period,
				Message: "no volume for crewed resource " + c.Resource + " in " + c.Period.String()})
		}
		if _, seen := personHours[c.Period]; !seen {
			periods = append(periods, c.Period)
		}
		crew := cfg.AdjustedCrew(c.Resource, c.Crew)
		personHours[c.Period] = append(personHours[c.Period], PersonHours(volume, rate, crew))
	}
	generic.SortMonths(periods)

	quadrature, ok := in.Quadrature[group]
	if !ok && len(periods) > 0 {
		ws.add(Warning{Code: WarnUnresolvedJoin, Table: TableEfficiency, Group: group,
			Message: "no quadrature for " + group})
	}
	if quadrature.IsZero() {
		ws.add(Warning{Code: WarnDivisionByZero, Table: TableEfficiency, Group: group,
			Message: "quadrature is zero; headcount undefined"})
	}
	absence, ok := in.Absenteeism[group]
	if !ok && len(periods) > 0 {
		ws.add(Warning{Code: WarnUnresolvedJoin, Table: TableAbsenteeism, Group: group,
			Message: "no absenteeism rates for " + group})
	}

	hours := cfg.shiftHours()
	out := make([]HeadcountRow, 0, len(periods))
	for _, p := range periods {
		ph := generic.Sum(personHours[p]...)
		days, found := in.WorkingDays[GroupPeriod{Group: group, Period: p}]
		if !found {
			ws.add(Warning{Code: WarnUnresolvedJoin, Table: TableCalendar, Group: group, Period: p,
				Message: "no working days for " + group + " in " + p.String()})
		}
		if days.IsZero() {
			ws.add(Warning{Code: WarnDivisionByZero, Table: TableCalendar, Group: group, Period: p,
				Message: "zero working days; headcount undefined"})
		}
		base := ph.Div(days.Mul(hours))
		out = append(out, HeadcountRow{
			Group:            group,
			Period:           p,
			PersonHours:      ph,
			WorkingDays:      days,
			QuadraturePct:    quadrature,
			AbsenteeismRate:  absence.Absenteeism,
			VacationCoverage: absence.VacationCoverage,
			Cascade:          ApplyCascade(base, quadrature, absence.Absenteeism, absence.VacationCoverage),
		})
	}
	return out, ws.list
}
