/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. Result rows are the
  manning types themselves (they carry json tags); the DTOs here wrap them
  with run metadata and shape per-group views.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

UNDEFINED VALUES:
  Quantities serialize as bare JSON numbers; undefined cells are null.

SEE ALSO:
  - handlers.go: Uses these types
  - factory/config.go: ConfigJSON type
*/
package api

import (
	"time"

	"github.com/warp/manning-engine/manning"
)

// =============================================================================
// RUNS
// =============================================================================

// RunSummaryDTO is a run in listings.
type RunSummaryDTO struct {
	ID           string `json:"id"`
	Source       string `json:"source"`
	CreatedAt    string `json:"created_at"`
	GroupCount   int    `json:"group_count"`
	MonthCount   int    `json:"month_count"`
	WarningCount int    `json:"warning_count"`
}

// RunDTO is a run with its complete report.
type RunDTO struct {
	RunSummaryDTO
	WarningCounts map[manning.WarningCode]int `json:"warning_counts"`
	Groups        []GroupSummaryDTO           `json:"groups"`
	Plant         []manning.PlantRow          `json:"plant"`
	Rollup        []manning.RollupRow         `json:"rollup"`
	Warnings      []manning.Warning           `json:"warnings"`
}

// GroupSummaryDTO is the headline view of one group.
type GroupSummaryDTO struct {
	Group   string               `json:"group"`
	Empty   bool                 `json:"empty"`
	Summary manning.GroupSummary `json:"summary"`
}

// GroupDTO is the detail view of one group in one run.
type GroupDTO struct {
	RunID     string                     `json:"run_id"`
	Group     string                     `json:"group"`
	Summary   manning.GroupSummary       `json:"summary"`
	Months    []manning.GroupMonthResult `json:"months"`
	Volumes   []manning.VolumePoint      `json:"volumes"`
	Resources []manning.VolumeRecord     `json:"resources"`
	Shifts    []manning.ShiftDemand      `json:"shifts"`
	Headcount []manning.HeadcountRow     `json:"headcount"`
	Indirect  []manning.IndirectRow      `json:"indirect"`
	Warnings  []manning.Warning          `json:"warnings"`
}

func toRunSummaryDTO(s manning.RunSummary) RunSummaryDTO {
	return RunSummaryDTO{
		ID:           s.ID,
		Source:       s.Source,
		CreatedAt:    s.CreatedAt.Format(time.RFC3339),
		GroupCount:   s.Groups,
		MonthCount:   s.Months,
		WarningCount: s.Warnings,
	}
}

func toRunDTO(run *manning.Run) RunDTO {
	dto := RunDTO{RunSummaryDTO: toRunSummaryDTO(run.Summary())}
	r := run.Report
	if r == nil {
		return dto
	}
	dto.WarningCounts = manning.CountByCode(r.Warnings)
	dto.Plant = r.Plant
	dto.Rollup = r.Rollup
	dto.Warnings = r.Warnings
	dto.Groups = make([]GroupSummaryDTO, len(r.Groups))
	for i, g := range r.Groups {
		dto.Groups[i] = GroupSummaryDTO{Group: g.Group, Empty: g.Empty(), Summary: g.Summary}
	}
	return dto
}

func toGroupDTO(runID string, g *manning.GroupResult, warnings []manning.Warning) GroupDTO {
	dto := GroupDTO{
		RunID:     runID,
		Group:     g.Group,
		Summary:   g.Summary,
		Months:    g.Months(),
		Volumes:   g.Volumes,
		Resources: g.Resources,
		Shifts:    g.Shifts,
		Headcount: g.Headcount,
		Indirect:  g.Indirect,
		Warnings:  []manning.Warning{},
	}
	for _, w := range warnings {
		if w.Group == g.Group {
			dto.Warnings = append(dto.Warnings, w)
		}
	}
	return dto
}

// =============================================================================
// SCENARIOS
// =============================================================================

// ScenarioDTO describes a built-in sample dataset.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// LoadScenarioRequest selects a scenario to run.
type LoadScenarioRequest struct {
	ScenarioID string `json:"scenario_id"`
}

// =============================================================================
// ERRORS
// =============================================================================

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
