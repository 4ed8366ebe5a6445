/*
scenarios.go - Built-in sample datasets for demos and smoke tests

PURPOSE:
  Provides pre-built planning datasets that run through the same pipeline
  as an uploaded workbook. Each scenario exercises a different slice of
  the engine so the API can be explored without a spreadsheet at hand.

AVAILABLE SCENARIOS:
  standard_plant:    Four groups, three months, indirect roles and a
                     shift summary column. No warnings expected.
  missing_rates:     Resources with zero, blank or absent rates. Shows
                     undefined_rate warnings and partial headcount.
  degraded_periods:  Text period labels in mixed formats, one of them
                     unparseable. Shows unresolved_join warnings.

USAGE VIA API:
  POST /api/scenarios/load
  {"scenario_id": "standard_plant"}

ADDING NEW SCENARIOS:
  1. Add an entry to 'scenarios' with ID, name and description
  2. Write a builder returning a manning.Dataset

SEE ALSO:
  - handlers.go: Execute, shared with workbook uploads
  - cmd/manning: -scenario flag writes these as workbooks
*/
package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/warp/manning-engine/generic"
	"github.com/warp/manning-engine/manning"
)

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

type scenario struct {
	ScenarioDTO
	build func() manning.Dataset
}

var scenarios = []scenario{
	{
		ScenarioDTO: ScenarioDTO{
			ID:          "standard_plant",
			Name:        "Standard Plant",
			Description: "Four resource groups over three months with indirect roles",
		},
		build: standardPlant,
	},
	{
		ScenarioDTO: ScenarioDTO{
			ID:          "missing_rates",
			Name:        "Missing Rates",
			Description: "Machines without a usable run rate are excluded from demand",
		},
		build: missingRates,
	},
	{
		ScenarioDTO: ScenarioDTO{
			ID:          "degraded_periods",
			Name:        "Degraded Periods",
			Description: "Text period labels in mixed formats, one unparseable",
		},
		build: degradedPeriods,
	},
}

// Scenarios lists the built-in scenarios.
func Scenarios() []ScenarioDTO {
	out := make([]ScenarioDTO, len(scenarios))
	for i, s := range scenarios {
		out[i] = s.ScenarioDTO
	}
	return out
}

// ScenarioDataset builds the dataset of a built-in scenario.
func ScenarioDataset(id string) (manning.Dataset, bool) {
	for _, s := range scenarios {
		if s.ID == id {
			return s.build(), true
		}
	}
	return manning.Dataset{}, false
}

// =============================================================================
// HANDLERS
// =============================================================================

// ListScenarios returns available scenarios.
// GET /api/scenarios
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, Scenarios())
}

// LoadScenario computes a scenario with the default configuration and
// stores the run.
// POST /api/scenarios/load
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req LoadScenarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	ds, ok := ScenarioDataset(req.ScenarioID)
	if !ok {
		writeError(w, http.StatusNotFound, "Unknown scenario", fmt.Errorf("scenario %q", req.ScenarioID))
		return
	}

	run, err := h.Execute(r.Context(), "scenario:"+req.ScenarioID, ds, h.Defaults)
	if err != nil {
		h.writeDomainError(w, "Failed to compute scenario", err)
		return
	}
	writeJSON(w, http.StatusCreated, toRunDTO(run))
}

// =============================================================================
// DATASET BUILDERS
// =============================================================================

var scenarioMonths = []time.Time{
	time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC),
	time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC),
	time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC),
}

type machine struct {
	group    string
	resource string
	rate     generic.Cell
	volume   []float64
	crew     float64
	shifts   float64
}

type groupParams struct {
	group       string
	days        []float64
	quadrature  float64
	absenteeism float64
	vacation    float64
}

var plantMachines = []machine{
	{"Stampa", "Press_A", generic.Num(1000), []float64{80000, 84000, 76000}, 2, 2},
	{"Stampa", "Press_B", generic.Num(500), []float64{40000, 42000, 38000}, 1, 2},
	{"Fustellatura", "Mastercut_01", generic.Num(100), []float64{1600, 1700, 1500}, 10, 1},
	{"Fustellatura", "Bobst_02", generic.Num(250), []float64{6000, 6200, 5800}, 2, 1},
	{"Piega_incolla", "Folder_A", generic.Num(1200), []float64{96000, 90000, 99000}, 3, 2},
	{"Piega_incolla", "Folder_B", generic.Num(800), []float64{48000, 50000, 47000}, 2, 2},
	{"Villavara", "Line_V1", generic.Num(600), []float64{30000, 31000, 29500}, 2, 1},
}

var plantIndirect = []struct {
	group, role string
	crew        float64
}{
	{"Stampa", "Attrezzisti", 3},
	{"Stampa", "Voltapile", 1},
	{"Fustellatura", "Indiretti", 2},
	{"Piega_incolla", "Indiretti", 2},
	{"Villavara", "Attrezzisti", 1},
}

var plantGroups = []groupParams{
	{"Stampa", []float64{20, 19, 22}, 80, 0.05, 0.10},
	{"Fustellatura", []float64{20, 19, 22}, 100, 0.04, 0.08},
	{"Piega_incolla", []float64{21, 20, 22}, 85, 0.06, 0.12},
	{"Villavara", []float64{20, 18, 21}, 90, 0.03, 0.09},
}

func standardPlant() manning.Dataset {
	return buildDataset(dateLabels(), plantMachines, plantGroups)
}

func missingRates() manning.Dataset {
	ms := make([]machine, len(plantMachines))
	copy(ms, plantMachines)
	for i := range ms {
		switch ms[i].resource {
		case "Press_B":
			ms[i].rate = generic.Num(0)
		case "Folder_B":
			ms[i].rate = generic.Text("n/d")
		case "Line_V1":
			ms[i].rate = generic.Cell{}
		}
	}
	return buildDataset(dateLabels(), ms, plantGroups)
}

func degradedPeriods() manning.Dataset {
	ds := buildDataset([]generic.Cell{
		generic.Text("2026-01"),
		generic.Text("02/2026"),
		generic.Text("Budget 2026"),
	}, plantMachines, plantGroups)
	return ds
}

func dateLabels() []generic.Cell {
	out := make([]generic.Cell, len(scenarioMonths))
	for i, m := range scenarioMonths {
		out[i] = generic.Date(m)
	}
	return out
}

// buildDataset lays machines and group parameters out as wide tables.
// Volumes and crews use periods; the calendar always uses date labels so
// degraded volume labels fail to join.
func buildDataset(periods []generic.Cell, machines []machine, groups []groupParams) manning.Dataset {
	cfg := manning.DefaultConfig()
	c := cfg.Columns

	header := func(name string, ids []string, labels []generic.Cell, extra ...string) *generic.Table {
		cells := make([]generic.Cell, 0, len(ids)+len(labels)+len(extra))
		for _, id := range ids {
			cells = append(cells, generic.Text(id))
		}
		cells = append(cells, labels...)
		for _, e := range extra {
			cells = append(cells, generic.Text(e))
		}
		return generic.NewTable(name, cells...)
	}
	repeat := func(v float64) []generic.Cell {
		out := make([]generic.Cell, len(periods))
		for i := range out {
			out[i] = generic.Num(v)
		}
		return out
	}

	volumes := header(manning.TableVolumes, []string{c.Group, c.Resource}, periods)
	crews := header(manning.TableCrews, []string{c.Group, c.Resource}, periods)
	shifts := header(manning.TableShifts, []string{c.Group, c.Resource}, periods, "Turni medio")
	calendar := header(manning.TableCalendar, []string{c.Group}, dateLabels())
	absenteeism := generic.NewTextTable(manning.TableAbsenteeism, c.Group, c.Absenteeism, c.VacationCoverage)
	efficiency := generic.NewTextTable(manning.TableEfficiency, c.Resource, c.Rate, c.Group, c.Quadrature)

	quadrature := map[string]float64{}
	for _, g := range groups {
		quadrature[g.group] = g.quadrature
		days := make([]generic.Cell, 0, len(g.days)+1)
		days = append(days, generic.Text(g.group))
		for _, d := range g.days {
			days = append(days, generic.Num(d))
		}
		calendar.AppendRow(days...)
		absenteeism.AppendRow(generic.Text(g.group), generic.Num(g.absenteeism), generic.Num(g.vacation))
	}

	for _, m := range machines {
		ids := []generic.Cell{generic.Text(m.group), generic.Text(m.resource)}

		vol := append([]generic.Cell{}, ids...)
		for i := range periods {
			vol = append(vol, generic.Num(m.volume[i%len(m.volume)]))
		}
		volumes.AppendRow(vol...)

		crews.AppendRow(append(append([]generic.Cell{}, ids...), repeat(m.crew)...)...)

		sh := append(append([]generic.Cell{}, ids...), repeat(m.shifts)...)
		shifts.AppendRow(append(sh, generic.Num(m.shifts))...)

		efficiency.AppendRow(generic.Text(m.resource), m.rate, generic.Text(m.group), generic.Num(quadrature[m.group]))
	}
	for _, ind := range plantIndirect {
		crews.AppendRow(append([]generic.Cell{generic.Text(ind.group), generic.Text(ind.role)}, repeat(ind.crew)...)...)
	}

	return manning.Dataset{
		Volumes:     volumes,
		Crews:       crews,
		Calendar:    calendar,
		Shifts:      shifts,
		Absenteeism: absenteeism,
		Efficiency:  efficiency,
	}
}
