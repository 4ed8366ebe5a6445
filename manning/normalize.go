package manning

import (
	"sort"

	"github.com/warp/manning-engine/generic"
)

// Table roles, used in warnings and errors when a table carries no name.
const (
	TableVolumes     = "volumi_bgt"
	TableCrews       = "equipaggi"
	TableCalendar    = "calendario"
	TableShifts      = "turni"
	TableAbsenteeism = "assenteismo_ferie"
	TableEfficiency  = "efficienza_oee"
)

// Inputs is the normalized form of a Dataset: long records and lookup maps
// keyed by canonical year-month. It is read-only once built.
type Inputs struct {
	Volumes        []VolumeRecord
	Crews          []CrewRecord
	WorkingDays    map[GroupPeriod]generic.Quantity
	StandardShifts map[GroupPeriod]generic.Quantity
	Rates          map[string]generic.Quantity
	Quadrature     map[string]generic.Quantity
	Absenteeism    map[string]AbsenteeismRecord

	// Has* are false when the table had no period columns; dependent
	// computations are skipped rather than reported as empty joins.
	HasVolumes  bool
	HasCalendar bool
	HasShifts   bool
	HasCrews    bool

	volumeIndex map[resourceKey]generic.Quantity
}

// Volume looks up the volume of one resource in one month.
func (in *Inputs) Volume(group, resource string, period generic.YearMonth) (generic.Quantity, bool) {
	q, ok := in.volumeIndex[resourceKey{Group: group, Resource: resource, Period: period}]
	return q, ok
}

// Groups returns every group present in volumes or crews.
func (in *Inputs) Groups() map[string]bool {
	found := map[string]bool{}
	for _, v := range in.Volumes {
		found[v.Group] = true
	}
	for _, c := range in.Crews {
		found[c.Group] = true
	}
	return found
}

// Validate checks the structural contract of a dataset: every table is
// present and carries its identifier columns. This is the only fatal check.
func (ds Dataset) Validate(cfg Config) error {
	c := cfg.Columns
	checks := []struct {
		role  string
		table *generic.Table
		cols  []string
	}{
		{TableVolumes, ds.Volumes, []string{c.Group, c.Resource}},
		{TableCrews, ds.Crews, []string{c.Group, c.Resource}},
		{TableCalendar, ds.Calendar, []string{c.Group}},
		{TableShifts, ds.Shifts, []string{c.Group, c.Resource}},
		{TableAbsenteeism, ds.Absenteeism, []string{c.Group, c.Absenteeism, c.VacationCoverage}},
		{TableEfficiency, ds.Efficiency, []string{c.Resource, c.Rate, c.Group, c.Quadrature}},
	}
	for _, chk := range checks {
		if chk.table == nil {
			return &generic.SheetError{Sheet: chk.role}
		}
		if err := chk.table.Require(chk.cols...); err != nil {
			if mc, ok := err.(*generic.MissingColumnError); ok && mc.Table == "" {
				mc.Table = chk.role
			}
			return err
		}
	}
	return nil
}

// Normalize validates ds and reshapes it into Inputs.
func Normalize(ds Dataset, cfg Config) (*Inputs, []Warning, error) {
	if err := ds.Validate(cfg); err != nil {
		return nil, nil, err
	}
	in := &Inputs{
		WorkingDays:    map[GroupPeriod]generic.Quantity{},
		StandardShifts: map[GroupPeriod]generic.Quantity{},
		Rates:          map[string]generic.Quantity{},
		Quadrature:     map[string]generic.Quantity{},
		Absenteeism:    map[string]AbsenteeismRecord{},
		volumeIndex:    map[resourceKey]generic.Quantity{},
	}
	ws := &warnings{}
	c := cfg.Columns

	// Volumes
	rows, ok, err := meltPeriods(ds.Volumes, TableVolumes, []string{c.Group, c.Resource}, cfg.classifier(false), ws)
	if err != nil {
		return nil, nil, err
	}
	in.HasVolumes = ok
	for _, r := range rows {
		rec := VolumeRecord{Group: r.ids[0], Resource: r.ids[1], Period: r.period, Volume: r.value}
		in.Volumes = append(in.Volumes, rec)
		k := resourceKey{Group: rec.Group, Resource: rec.Resource, Period: rec.Period}
		if prev, dup := in.volumeIndex[k]; dup {
			ws.add(Warning{Code: WarnDuplicateKey, Table: tableName(ds.Volumes, TableVolumes), Group: rec.Group,
				Resource: rec.Resource, Period: rec.Period, Message: "volume listed more than once; values summed"})
			in.volumeIndex[k] = generic.Sum(prev, rec.Volume)
			continue
		}
		in.volumeIndex[k] = rec.Volume
	}

	// Crews
	rows, ok, err = meltPeriods(ds.Crews, TableCrews, []string{c.Group, c.Resource}, cfg.classifier(false), ws)
	if err != nil {
		return nil, nil, err
	}
	in.HasCrews = ok
	for _, r := range rows {
		in.Crews = append(in.Crews, CrewRecord{Group: r.ids[0], Resource: r.ids[1], Period: r.period, Crew: r.value})
	}

	// Calendar
	rows, ok, err = meltPeriods(ds.Calendar, TableCalendar, []string{c.Group}, cfg.classifier(false), ws)
	if err != nil {
		return nil, nil, err
	}
	in.HasCalendar = ok
	for _, r := range rows {
		k := GroupPeriod{Group: r.ids[0], Period: r.period}
		if _, dup := in.WorkingDays[k]; dup {
			ws.add(Warning{Code: WarnDuplicateKey, Table: tableName(ds.Calendar, TableCalendar), Group: k.Group,
				Period: k.Period, Message: "working days listed more than once; first value kept"})
			continue
		}
		in.WorkingDays[k] = r.value
	}

	// Shift standards
	rows, ok, err = meltPeriods(ds.Shifts, TableShifts, []string{c.Group, c.Resource}, cfg.classifier(true), ws)
	if err != nil {
		return nil, nil, err
	}
	in.HasShifts = ok
	normalizeShifts(in, rows, cfg, tableName(ds.Shifts, TableShifts), ws)

	normalizeEfficiency(in, ds.Efficiency, cfg, ws)
	normalizeAbsenteeism(in, ds.Absenteeism, cfg, ws)

	return in, ws.list, nil
}

// =============================================================================
// MELT + RESOLVE
// =============================================================================

type periodRow struct {
	ids    []string
	period generic.YearMonth
	value  generic.Quantity
}

// meltPeriods detects period columns, melts and resolves them. ok is false
// when the table has no period column at all.
func meltPeriods(t *generic.Table, role string, ids []string, cls generic.Classifier, ws *warnings) ([]periodRow, bool, error) {
	name := tableName(t, role)
	cols := cls.PeriodColumns(t, ids...)
	if len(cols) == 0 {
		ws.addf(WarnMissingPeriodColumns, name, "", "no period columns found in %s; dependent computations skipped", name)
		return nil, false, nil
	}
	long, err := generic.Melt(t, ids, cols)
	if err != nil {
		return nil, false, err
	}

	resolved := map[string]generic.YearMonth{}
	out := make([]periodRow, 0, len(long))
	for _, lr := range long {
		if lr.ID(0) == "" {
			continue
		}
		label := lr.Label.Kind.String() + ":" + lr.Label.String()
		key, seen := resolved[label]
		if !seen {
			var ok bool
			key, ok = generic.ResolvePeriod(lr.Label)
			if !ok {
				ws.add(Warning{Code: WarnUnresolvedPeriod, Table: name, Period: key,
					Message: "period label " + lr.Label.String() + " is not a date; kept as raw key"})
			}
			resolved[label] = key
		}
		out = append(out, periodRow{ids: lr.IDs, period: key, value: lr.Value.Quantity()})
	}
	return out, true, nil
}

func tableName(t *generic.Table, role string) string {
	if t != nil && t.Name != "" {
		return t.Name
	}
	return role
}

// =============================================================================
// SHIFT STANDARDS
// =============================================================================

// normalizeShifts averages duplicate months per resource, then collapses
// resources to one group value using the configured aggregation. With
// AggregateFirst the first resource in name order wins.
func normalizeShifts(in *Inputs, rows []periodRow, cfg Config, table string, ws *warnings) {
	perResource := map[resourceKey][]generic.Quantity{}
	for _, r := range rows {
		k := resourceKey{Group: r.ids[0], Resource: r.ids[1], Period: r.period}
		perResource[k] = append(perResource[k], r.value)
	}

	byGroup := map[GroupPeriod][]resourceKey{}
	var order []GroupPeriod
	for k := range perResource {
		gp := GroupPeriod{Group: k.Group, Period: k.Period}
		if _, seen := byGroup[gp]; !seen {
			order = append(order, gp)
		}
		byGroup[gp] = append(byGroup[gp], k)
	}
	sort.Slice(order, func(i, j int) bool {
		if order[i].Group != order[j].Group {
			return order[i].Group < order[j].Group
		}
		return order[i].Period < order[j].Period
	})
	for _, gp := range order {
		keys := byGroup[gp]
		sort.Slice(keys, func(i, j int) bool { return keys[i].Resource < keys[j].Resource })
		values := make([]generic.Quantity, len(keys))
		for i, k := range keys {
			values[i] = generic.Mean(perResource[k]...)
		}
		if generic.Distinct(values...) > 1 {
			ws.add(Warning{Code: WarnAggregationDisagreement, Table: table, Group: gp.Group, Period: gp.Period,
				Message: "resources disagree on standard shifts; using " + string(cfg.StandardShiftAggregation)})
		}
		in.StandardShifts[gp] = aggregate(cfg.StandardShiftAggregation, values)
	}
}

func aggregate(a Aggregation, values []generic.Quantity) generic.Quantity {
	if a == AggregateMean {
		return generic.Mean(values...)
	}
	return generic.First(values...)
}

// =============================================================================
// EFFICIENCY + ABSENTEEISM
// =============================================================================

func normalizeEfficiency(in *Inputs, t *generic.Table, cfg Config, ws *warnings) {
	c := cfg.Columns
	name := tableName(t, TableEfficiency)
	ri, gi, rate, qi := t.Index(c.Resource), t.Index(c.Group), t.Index(c.Rate), t.Index(c.Quadrature)

	var groupOrder []string
	quads := map[string][]generic.Quantity{}
	for row := 0; row < t.Len(); row++ {
		resource := t.Cell(row, ri).String()
		group := t.Cell(row, gi).String()
		if resource != "" {
			if _, dup := in.Rates[resource]; dup {
				ws.add(Warning{Code: WarnDuplicateKey, Table: name, Resource: resource,
					Message: "resource listed more than once; first rate kept"})
			} else {
				in.Rates[resource] = t.Cell(row, rate).Quantity()
			}
		}
		if group != "" {
			if _, seen := quads[group]; !seen {
				groupOrder = append(groupOrder, group)
			}
			quads[group] = append(quads[group], t.Cell(row, qi).Quantity())
		}
	}
	for _, g := range groupOrder {
		values := quads[g]
		if generic.Distinct(values...) > 1 {
			ws.add(Warning{Code: WarnAggregationDisagreement, Table: name, Group: g,
				Message: "resources disagree on quadrature; using " + string(cfg.QuadratureAggregation)})
		}
		in.Quadrature[g] = aggregate(cfg.QuadratureAggregation, values)
	}
}

func normalizeAbsenteeism(in *Inputs, t *generic.Table, cfg Config, ws *warnings) {
	c := cfg.Columns
	name := tableName(t, TableAbsenteeism)
	gi, ai, vi := t.Index(c.Group), t.Index(c.Absenteeism), t.Index(c.VacationCoverage)
	for row := 0; row < t.Len(); row++ {
		group := t.Cell(row, gi).String()
		if group == "" {
			continue
		}
		if _, dup := in.Absenteeism[group]; dup {
			ws.add(Warning{Code: WarnDuplicateKey, Table: name, Group: group,
				Message: "group listed more than once; first row kept"})
			continue
		}
		in.Absenteeism[group] = AbsenteeismRecord{
			Group:            group,
			Absenteeism:      t.Cell(row, ai).Quantity(),
			VacationCoverage: t.Cell(row, vi).Quantity(),
		}
	}
}
