package manning

import (
	"fmt"

	"github.com/warp/manning-engine/generic"
)

// Result table names, as used by export.
const (
	ResultShifts    = "shifts"
	ResultHeadcount = "headcount"
	ResultIndirect  = "indirect"
	ResultRollup    = "rollup"
	ResultPlant     = "plant"
	ResultVolumes   = "volumes"
)

// ResultTables lists the exportable result tables in export order.
func ResultTables() []string {
	return []string{ResultShifts, ResultHeadcount, ResultIndirect, ResultRollup, ResultPlant, ResultVolumes}
}

// Result column labels.
const (
	ColPeriod        = "Anno_Mese"
	ColGroup         = "Gruppo_risorse"
	ColResource      = "Risorsa"
	ColVolume        = "Volume"
	ColWorkingDays   = "Giorni_lavorativi"
	ColGroupRate     = "Velocità_LL_reparto"
	ColRequired      = "Fabbisogno_turni"
	ColStandard      = "Turni_standard"
	ColShiftGap      = "Differenza_turni"
	ColPersonHours   = "ore_uomo"
	ColQuadrature    = "Quadratura"
	ColAbsenteeism   = "Assenteismo"
	ColVacation      = "Copertura_ferie"
	ColHeadcount     = "head_count"
	ColHCQuadrature  = "head_count_quadratura"
	ColHCAbsenteeism = "head_count_assenteismo"
	ColHCFinal       = "head_count_assenteismo_ferie"
	ColDeltaQuad     = "delta_quadratura"
	ColDeltaAbs      = "delta_assenteismo"
	ColDeltaVacation = "delta_ferie"
	ColDirect        = "Head Count Diretti"
	ColIndirect      = "Head Count Indiretti e Attrezzisti"
	ColTotal         = "Head Count Totale"
)

// Table renders one result table by name.
func (r *Report) Table(name string) (*generic.Table, error) {
	switch name {
	case ResultShifts:
		return r.shiftTable(), nil
	case ResultHeadcount:
		return r.headcountTable(), nil
	case ResultIndirect:
		return r.indirectTable(), nil
	case ResultRollup:
		return r.rollupTable(), nil
	case ResultPlant:
		return r.plantTable(), nil
	case ResultVolumes:
		return r.volumeTable(), nil
	}
	return nil, fmt.Errorf("%w: %q", generic.ErrUnknownTable, name)
}

// Tables renders every result table in export order.
func (r *Report) Tables() []*generic.Table {
	names := ResultTables()
	out := make([]*generic.Table, 0, len(names))
	for _, n := range names {
		t, _ := r.Table(n)
		out = append(out, t)
	}
	return out
}

func period(p generic.YearMonth) generic.Cell { return generic.Text(string(p)) }

func qc(q generic.Quantity) generic.Cell { return generic.QuantityCell(q) }

func (r *Report) shiftTable() *generic.Table {
	t := generic.NewTextTable(ResultShifts, ColPeriod, ColGroup, ColVolume, ColWorkingDays,
		ColGroupRate, ColRequired, ColStandard, ColShiftGap)
	for _, g := range r.Groups {
		for _, s := range g.Shifts {
			t.AppendRow(period(s.Period), generic.Text(s.Group), qc(s.Volume), qc(s.WorkingDays),
				qc(s.WeightedRate), qc(s.RequiredShifts), qc(s.StandardShifts), qc(s.Gap))
		}
	}
	return t
}

func (r *Report) headcountTable() *generic.Table {
	t := generic.NewTextTable(ResultHeadcount, ColGroup, ColPeriod, ColPersonHours, ColWorkingDays,
		ColQuadrature, ColAbsenteeism, ColVacation, ColHeadcount, ColHCQuadrature, ColHCAbsenteeism,
		ColHCFinal, ColDeltaQuad, ColDeltaAbs, ColDeltaVacation)
	for _, g := range r.Groups {
		for _, h := range g.Headcount {
			t.AppendRow(generic.Text(h.Group), period(h.Period), qc(h.PersonHours), qc(h.WorkingDays),
				qc(h.QuadraturePct), qc(h.AbsenteeismRate), qc(h.VacationCoverage),
				qc(h.Base), qc(h.Quadrature), qc(h.Absenteeism), qc(h.Final),
				qc(h.DeltaQuadrature), qc(h.DeltaAbsenteeism), qc(h.DeltaVacation))
		}
	}
	return t
}

func (r *Report) indirectTable() *generic.Table {
	t := generic.NewTextTable(ResultIndirect, ColGroup, ColPeriod, ColIndirect)
	for _, g := range r.Groups {
		for _, i := range g.Indirect {
			t.AppendRow(generic.Text(i.Group), period(i.Period), qc(i.Headcount))
		}
	}
	return t
}

func (r *Report) rollupTable() *generic.Table {
	t := generic.NewTextTable(ResultRollup, ColGroup, ColPeriod, ColDirect, ColIndirect, ColTotal)
	for _, row := range r.Rollup {
		t.AppendRow(generic.Text(row.Group), period(row.Period), qc(row.Direct), qc(row.Indirect), qc(row.Total))
	}
	return t
}

func (r *Report) plantTable() *generic.Table {
	t := generic.NewTextTable(ResultPlant, ColPeriod, ColDirect, ColIndirect, ColTotal)
	for _, row := range r.Plant {
		t.AppendRow(period(row.Period), qc(row.Direct), qc(row.Indirect), qc(row.Total))
	}
	return t
}

func (r *Report) volumeTable() *generic.Table {
	t := generic.NewTextTable(ResultVolumes, ColGroup, ColResource, ColPeriod, ColVolume)
	for _, g := range r.Groups {
		for _, v := range g.Resources {
			t.AppendRow(generic.Text(v.Group), generic.Text(v.Resource), period(v.Period), qc(v.Volume))
		}
	}
	return t
}
