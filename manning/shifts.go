package manning

import (
	"github.com/warp/manning-engine/generic"
)

// RequiredShifts converts monthly volume into a shift count:
//
//	required = volume / (working days × shift hours × weighted rate)
//
// Any zero or undefined divisor yields Undefined.
func RequiredShifts(volume, workingDays, shiftHours, rate generic.Quantity) generic.Quantity {
	return volume.Div(workingDays.Mul(shiftHours).Mul(rate))
}

// ComputeShiftDemand computes the monthly shift requirement of one group and
// compares it with the standard shift count. The group's volume counts every
// resource; the weighted rate only the resources with a usable rate.
func ComputeShiftDemand(group string, in *Inputs, cfg Config) ([]ShiftDemand, []Warning) {
	if !in.HasVolumes || !in.HasCalendar {
		return nil, nil
	}
	ws := &warnings{}

	terms := map[generic.YearMonth][]RateTerm{}
	var periods []generic.YearMonth
	for _, v := range in.Volumes {
		if v.Group != group {
			continue
		}
		rate := in.Rates[v.Resource]
		if !EligibleRate(rate) {
			ws.add(undefinedRate(group, v.Resource))
		}
		if _, seen := terms[v.Period]; !seen {
			periods = append(periods, v.Period)
		}
		terms[v.Period] = append(terms[v.Period], RateTerm{Resource: v.Resource, Volume: v.Volume, Rate: rate})
	}
	generic.SortMonths(periods)

	hours := cfg.shiftHours()
	out := make([]ShiftDemand, 0, len(periods))
	for _, p := range periods {
		gp := GroupPeriod{Group: group, Period: p}
		volumes := make([]generic.Quantity, len(terms[p]))
		for i, t := range terms[p] {
			volumes[i] = t.Volume
		}
		volume := generic.Sum(volumes...)
		rate, used := WeightedRate(terms[p])

		days, ok := in.WorkingDays[gp]
		if !ok {
			ws.add(Warning{Code: WarnUnresolvedJoin, Table: TableCalendar, Group: group, Period: p,
				Message: "no working days for " + group + " in " + p.String()})
		}
		switch {
		case used == 0:
			ws.add(Warning{Code: WarnUndefinedRate, Table: TableEfficiency, Group: group, Period: p,
				Message: "no resource with a usable rate; weighted rate undefined"})
		case !rate.Valid:
			ws.add(Warning{Code: WarnDivisionByZero, Group: group, Period: p,
				Message: "zero eligible volume; weighted rate undefined"})
		}
		if days.IsZero() {
			ws.add(Warning{Code: WarnDivisionByZero, Table: TableCalendar, Group: group, Period: p,
				Message: "zero working days; required shifts undefined"})
		}

		standard := generic.Undefined
		if in.HasShifts {
			var found bool
			standard, found = in.StandardShifts[gp]
			if !found {
				ws.add(Warning{Code: WarnUnresolvedJoin, Table: TableShifts, Group: group, Period: p,
					Message: "no standard shifts for " + group + " in " + p.String()})
			}
		}

		required := RequiredShifts(volume, days, hours, rate)
		out = append(out, ShiftDemand{
			Group:          group,
			Period:         p,
			Volume:         volume,
			WorkingDays:    days,
			WeightedRate:   rate,
			RequiredShifts: required,
			StandardShifts: standard,
			Gap:            required.Sub(standard),
		})
	}
	return out, ws.list
}

func undefinedRate(group, resource string) Warning {
	return Warning{Code: WarnUndefinedRate, Table: TableEfficiency, Group: group, Resource: resource,
		Message: "resource " + resource + " has no usable rate; excluded"}
}
