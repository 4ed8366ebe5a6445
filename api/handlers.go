/*
handlers.go - HTTP API handlers for the manning engine

PURPOSE:
  Exposes the manning pipeline via REST API. Handles HTTP request/response,
  JSON serialization and workbook upload, and delegates computation to the
  manning package. Runs are persisted so results can be browsed and
  exported later.

ENDPOINTS:
  Config:
    GET    /api/config                      Default engine configuration

  Runs:
    POST   /api/runs                        Upload workbook (multipart "workbook",
                                            optional "config" JSON) and compute
    GET    /api/runs                        List runs, newest first
    GET    /api/runs/{id}                   Run with plant totals and warnings
    GET    /api/runs/{id}/groups/{group}    Detail of one resource group
    GET    /api/runs/{id}/export?table=...  Result tables as xlsx
    DELETE /api/runs/{id}                   Delete a run

  Scenarios:
    GET    /api/scenarios                   List sample datasets
    POST   /api/scenarios/load              Compute a sample dataset

ARCHITECTURE:
  Handler struct holds all dependencies:
  - Store: run history (sqlite, postgres or memory)
  - ConfigFactory + Defaults: JSON to engine configuration
  - Log: structured logger handed to every pipeline

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: No workbook, missing sheet or column, invalid config, unknown table
  - 404: Run or group not found
  - 500: Internal errors

SEE ALSO:
  - dto.go: Request/response data structures
  - scenarios.go: Sample datasets
  - server.go: Router setup and middleware
*/
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/warp/manning-engine/factory"
	"github.com/warp/manning-engine/generic"
	"github.com/warp/manning-engine/manning"
	"github.com/warp/manning-engine/metrics"
	"github.com/warp/manning-engine/workbook"
)

// maxUploadBytes bounds the multipart body of POST /api/runs.
const maxUploadBytes = 32 << 20

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store         manning.RunStore
	ConfigFactory *factory.ConfigFactory
	Defaults      factory.Settings
	Log           zerolog.Logger

	now func() time.Time
}

// NewHandler creates a new handler with the given store and default settings.
func NewHandler(store manning.RunStore, defaults factory.Settings, log zerolog.Logger) *Handler {
	return &Handler{
		Store:         store,
		ConfigFactory: factory.NewConfigFactory(),
		Defaults:      defaults,
		Log:           log,
		now:           time.Now,
	}
}

// Execute runs the pipeline on ds, records metrics and persists the run.
func (h *Handler) Execute(ctx context.Context, source string, ds manning.Dataset, settings factory.Settings) (*manning.Run, error) {
	start := time.Now()
	p, err := manning.NewPipeline(settings.Engine, manning.WithLogger(h.Log))
	if err != nil {
		metrics.ObserveFailure(err, time.Since(start))
		return nil, err
	}
	report, err := p.Run(ctx, ds)
	if err != nil {
		metrics.ObserveFailure(err, time.Since(start))
		return nil, err
	}
	metrics.ObserveReport(report, time.Since(start))

	run := manning.Run{
		ID:        manning.NewRunID(),
		Source:    source,
		CreatedAt: h.now().UTC(),
		Config:    settings.Engine,
		Report:    report,
	}
	if err := h.Store.SaveRun(ctx, run); err != nil {
		return nil, fmt.Errorf("save run: %w", err)
	}
	h.Log.Info().Str("run_id", run.ID).Str("source", source).Int("warnings", len(report.Warnings)).Msg("run stored")
	return &run, nil
}

// =============================================================================
// CONFIG
// =============================================================================

// GetConfig returns the default engine configuration.
// GET /api/config
func (h *Handler) GetConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.ConfigFactory.ToJSON(h.Defaults))
}

// =============================================================================
// RUN HANDLERS
// =============================================================================

// CreateRun computes a report from an uploaded workbook.
// POST /api/runs
func (h *Handler) CreateRun(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid multipart upload", err)
		return
	}

	settings := h.Defaults
	if doc := strings.TrimSpace(r.FormValue("config")); doc != "" {
		s, err := h.ConfigFactory.ParseConfig(doc)
		if err != nil {
			h.writeDomainError(w, "Invalid config", err)
			return
		}
		settings = s
	}

	file, header, err := r.FormFile("workbook")
	if errors.Is(err, http.ErrMissingFile) {
		writeError(w, http.StatusBadRequest, "Missing workbook file", generic.ErrNoWorkbook)
		return
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid workbook file", err)
		return
	}
	defer file.Close()

	ds, err := workbook.Load(file, settings.Sheets)
	if err != nil {
		h.writeDomainError(w, "Failed to read workbook", err)
		return
	}

	run, err := h.Execute(r.Context(), header.Filename, ds, settings)
	if err != nil {
		h.writeDomainError(w, "Failed to compute run", err)
		return
	}
	writeJSON(w, http.StatusCreated, toRunDTO(run))
}

// ListRuns returns all stored runs.
// GET /api/runs
func (h *Handler) ListRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := h.Store.ListRuns(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list runs", err)
		return
	}
	dtos := make([]RunSummaryDTO, len(runs))
	for i, s := range runs {
		dtos[i] = toRunSummaryDTO(s)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetRun returns one run with plant totals and warnings.
// GET /api/runs/{id}
func (h *Handler) GetRun(w http.ResponseWriter, r *http.Request) {
	run, err := h.Store.GetRun(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeDomainError(w, "Failed to get run", err)
		return
	}
	writeJSON(w, http.StatusOK, toRunDTO(run))
}

// GetRunGroup returns the detail of one resource group.
// GET /api/runs/{id}/groups/{group}
func (h *Handler) GetRunGroup(w http.ResponseWriter, r *http.Request) {
	run, err := h.Store.GetRun(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeDomainError(w, "Failed to get run", err)
		return
	}
	name := chi.URLParam(r, "group")
	g := run.Report.Group(name)
	if g == nil {
		writeError(w, http.StatusNotFound, "Group not found", fmt.Errorf("group %q not in run %s", name, run.ID))
		return
	}
	writeJSON(w, http.StatusOK, toGroupDTO(run.ID, g, run.Report.Warnings))
}

// ExportRun renders result tables as an xlsx workbook. Without a table
// parameter every result table is exported.
// GET /api/runs/{id}/export?table=shifts|headcount|indirect|rollup|plant|volumes
func (h *Handler) ExportRun(w http.ResponseWriter, r *http.Request) {
	run, err := h.Store.GetRun(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeDomainError(w, "Failed to get run", err)
		return
	}

	name := r.URL.Query().Get("table")
	var tables []*generic.Table
	if name == "" {
		name = "all"
		tables = run.Report.Tables()
	} else {
		t, err := run.Report.Table(name)
		if err != nil {
			h.writeDomainError(w, "Unknown result table", err)
			return
		}
		tables = []*generic.Table{t}
	}

	data, err := workbook.Bytes(tables...)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to render workbook", err)
		return
	}
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="manning_%s_%s.xlsx"`, run.ID, name))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// DeleteRun removes a stored run.
// DELETE /api/runs/{id}
func (h *Handler) DeleteRun(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.DeleteRun(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeDomainError(w, "Failed to delete run", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeDomainError maps domain errors to HTTP status codes.
func (h *Handler) writeDomainError(w http.ResponseWriter, message string, err error) {
	status := http.StatusInternalServerError
	switch {
	case generic.IsNotFound(err):
		status = http.StatusNotFound
	case generic.IsClientError(err):
		status = http.StatusBadRequest
	default:
		h.Log.Error().Err(err).Msg(message)
	}
	writeError(w, status, message, err)
}
