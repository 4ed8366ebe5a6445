package manning

import (
	"github.com/warp/manning-engine/generic"
)

// ComputeIndirect sums the support roles of one group per month. These
// figures are taken at face value: no quadrature, absenteeism or vacation
// adjustment applies to them.
func ComputeIndirect(group string, in *Inputs, cfg Config) []IndirectRow {
	if !in.HasCrews {
		return nil
	}
	crews := map[generic.YearMonth][]generic.Quantity{}
	var periods []generic.YearMonth
	for _, c := range in.Crews {
		if c.Group != group || !cfg.IsIndirect(c.Resource) {
			continue
		}
		if _, seen := crews[c.Period]; !seen {
			periods = append(periods, c.Period)
		}
		crews[c.Period] = append(crews[c.Period], c.Crew)
	}
	generic.SortMonths(periods)

	out := make([]IndirectRow, len(periods))
	for i, p := range periods {
		out[i] = IndirectRow{Group: group, Period: p, Headcount: generic.Sum(crews[p]...)}
	}
	return out
}

// Rollup outer-joins direct and indirect headcount on (group, month).
// Total is Direct + Indirect; a side missing from the join leaves Total
// undefined. Rows keep the order in which groups first appear, months
// ascending within a group.
func Rollup(direct []HeadcountRow, indirect []IndirectRow) []RollupRow {
	rows := map[GroupPeriod]*RollupRow{}
	var groups []string
	periods := map[string][]generic.YearMonth{}
	get := func(g string, p generic.YearMonth) *RollupRow {
		k := GroupPeriod{Group: g, Period: p}
		if r, ok := rows[k]; ok {
			return r
		}
		if _, ok := periods[g]; !ok {
			groups = append(groups, g)
		}
		periods[g] = append(periods[g], p)
		r := &RollupRow{Group: g, Period: p}
		rows[k] = r
		return r
	}
	for _, h := range direct {
		get(h.Group, h.Period).Direct = h.Final
	}
	for _, i := range indirect {
		get(i.Group, i.Period).Indirect = i.Headcount
	}

	var out []RollupRow
	for _, g := range groups {
		ps := periods[g]
		generic.SortMonths(ps)
		for _, p := range ps {
			r := rows[GroupPeriod{Group: g, Period: p}]
			r.Total = r.Direct.Add(r.Indirect)
			out = append(out, *r)
		}
	}
	return out
}

// PlantTotals sums rollup rows across groups per month. Direct and
// Indirect sum their defined cells; Total is always Direct + Indirect.
func PlantTotals(rows []RollupRow) []PlantRow {
	direct := map[generic.YearMonth][]generic.Quantity{}
	indirect := map[generic.YearMonth][]generic.Quantity{}
	var periods []generic.YearMonth
	for _, r := range rows {
		if _, seen := direct[r.Period]; !seen {
			periods = append(periods, r.Period)
		}
		direct[r.Period] = append(direct[r.Period], r.Direct)
		indirect[r.Period] = append(indirect[r.Period], r.Indirect)
	}
	generic.SortMonths(periods)

	out := make([]PlantRow, len(periods))
	for i, p := range periods {
		d := generic.Sum(direct[p]...)
		ind := generic.Sum(indirect[p]...)
		out[i] = PlantRow{Period: p, Direct: d, Indirect: ind, Total: d.Add(ind)}
	}
	return out
}
