package manning_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/warp/manning-engine/generic"
	"github.com/warp/manning-engine/manning"
)

// =============================================================================
// TEST FIXTURE
// =============================================================================
//
// Two months, two groups:
//
//   Stampa:       Press_A rate 1000, 80000/month, crew 2
//                 Press_B rate  500, 40000/month, crew 1
//                 Attrezzisti crew 3 (indirect)
//                 20 working days, quadrature 80%, absenteeism 5%, vacation 10%
//   Fustellatura: Mastercut_01 rate 100, 1600/month, crew 10 (divided by 5)
//                 20 working days, quadrature 100%, no absenteeism or vacation
//
// Stampa per month:
//   weighted rate  = 120000 / (80 + 80)        = 750
//   required       = 120000 / (20 × 8 × 750)   = 1
//   person-hours   = 80×2 + 80×1               = 240
//   base           = 240 / 160                 = 1.5
//   cascade        = 1.875 → 1.96875 → 2.165625
//   total          = 2.165625 + 3              = 5.165625

var (
	jan = time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	feb = time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC)
)

const (
	janKey generic.YearMonth = "2026-01"
	febKey generic.YearMonth = "2026-02"
)

func txt(s string) generic.Cell  { return generic.Text(s) }
func num(v float64) generic.Cell { return generic.Num(v) }

func periodTable(name string, ids ...string) *generic.Table {
	labels := make([]generic.Cell, 0, len(ids)+2)
	for _, id := range ids {
		labels = append(labels, txt(id))
	}
	labels = append(labels, generic.Date(jan), generic.Date(feb))
	return generic.NewTable(name, labels...)
}

func fixture() manning.Dataset {
	volumes := periodTable("volumi_bgt", "Gruppo_risorse", "Risorsa")
	volumes.AppendRow(txt("Stampa"), txt("Press_A"), num(80000), num(80000))
	volumes.AppendRow(txt("Stampa"), txt("Press_B"), num(40000), num(40000))
	volumes.AppendRow(txt("Fustellatura"), txt("Mastercut_01"), num(1600), num(1600))

	crews := periodTable("equipaggi", "Gruppo_risorse", "Risorsa")
	crews.AppendRow(txt("Stampa"), txt("Press_A"), num(2), num(2))
	crews.AppendRow(txt("Stampa"), txt("Press_B"), num(1), num(1))
	crews.AppendRow(txt("Stampa"), txt("Attrezzisti"), num(3), num(3))
	crews.AppendRow(txt("Fustellatura"), txt("Mastercut_01"), num(10), num(10))

	calendar := periodTable("calendario", "Gruppo_risorse")
	calendar.AppendRow(txt("Stampa"), num(20), num(20))
	calendar.AppendRow(txt("Fustellatura"), num(20), num(20))

	shifts := generic.NewTable("turni", txt("Gruppo_risorse"), txt("Risorsa"),
		generic.Date(jan), generic.Date(feb), txt("Turni medio"))
	shifts.AppendRow(txt("Stampa"), txt("Press_A"), num(2), num(2), num(2))
	shifts.AppendRow(txt("Stampa"), txt("Press_B"), num(2), num(2), num(2))
	shifts.AppendRow(txt("Fustellatura"), txt("Mastercut_01"), num(1), num(1), num(1))

	absenteeism := generic.NewTextTable("assenteismo_ferie", "Gruppo_risorse", "Assenteismo", "Copertura_ferie")
	absenteeism.AppendRow(txt("Stampa"), num(0.05), num(0.10))
	absenteeism.AppendRow(txt("Fustellatura"), num(0), num(0))

	efficiency := generic.NewTextTable("efficienza_oee", "Risorsa", "Velocità_LL", "Gruppo_risorse", "Quadratura")
	efficiency.AppendRow(txt("Press_A"), num(1000), txt("Stampa"), num(80))
	efficiency.AppendRow(txt("Press_B"), num(500), txt("Stampa"), num(80))
	efficiency.AppendRow(txt("Mastercut_01"), num(100), txt("Fustellatura"), num(100))

	return manning.Dataset{
		Volumes:     volumes,
		Crews:       crews,
		Calendar:    calendar,
		Shifts:      shifts,
		Absenteeism: absenteeism,
		Efficiency:  efficiency,
	}
}

// assertQ checks a defined quantity against a float within 1e-9.
func assertQ(t *testing.T, want float64, got generic.Quantity, msgAndArgs ...any) {
	t.Helper()
	v, ok := got.Float64()
	if !assert.True(t, ok, msgAndArgs...) {
		return
	}
	assert.InDelta(t, want, v, 1e-9, msgAndArgs...)
}

func hasWarning(ws []manning.Warning, code manning.WarningCode, group string) bool {
	for _, w := range ws {
		if w.Code == code && (group == "" || w.Group == group) {
			return true
		}
	}
	return false
}
