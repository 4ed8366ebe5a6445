package manning

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// RUN HISTORY
// =============================================================================

// Run is one persisted pipeline execution. The report is stored as
// computed; nothing is recomputed on read.
type Run struct {
	ID        string    `json:"id"`
	Source    string    `json:"source"`
	CreatedAt time.Time `json:"created_at"`
	Config    Config    `json:"config"`
	Report    *Report   `json:"report"`
}

// Summary returns the listing view of the run.
func (r Run) Summary() RunSummary {
	s := RunSummary{ID: r.ID, Source: r.Source, CreatedAt: r.CreatedAt}
	if r.Report != nil {
		s.Groups = len(r.Report.Groups)
		s.Months = len(r.Report.Plant)
		s.Warnings = len(r.Report.Warnings)
	}
	return s
}

// RunSummary is the listing view of a run.
type RunSummary struct {
	ID        string    `json:"id"`
	Source    string    `json:"source"`
	CreatedAt time.Time `json:"created_at"`
	Groups    int       `json:"groups"`
	Months    int       `json:"months"`
	Warnings  int       `json:"warnings"`
}

// RunStore persists runs. Implementations return generic.ErrRunNotFound
// for unknown ids. ListRuns returns newest first.
type RunStore interface {
	SaveRun(ctx context.Context, run Run) error
	GetRun(ctx context.Context, id string) (*Run, error)
	ListRuns(ctx context.Context) ([]RunSummary, error)
	DeleteRun(ctx context.Context, id string) error
}

// NewRunID returns a fresh run identifier.
func NewRunID() string {
	return uuid.NewString()
}
