package snowgrid

import (
	"context"
	"time"
)

// Run records one completed extraction: which report, what came back, and
// where the CSV landed.
type Run struct {
	ID          string    `json:"id"`
	ReportName  string    `json:"reportName"`
	SourceURL   string    `json:"sourceUrl"`
	ContentHash string    `json:"contentHash"`
	HeaderCount int       `json:"headerCount"`
	RowCount    int       `json:"rowCount"`
	CSVPath     string    `json:"csvPath"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Validate returns an error if the run contains invalid fields.
func (r *Run) Validate() error {
	if r.ReportName == "" {
		return Errorf(EINVALID, "run report name required")
	}
	return nil
}

// RunService stores and retrieves extraction runs.
type RunService interface {
	// CreateRun records a new run, assigning its ID and timestamp.
	CreateRun(ctx context.Context, run *Run) error

	// FindRuns retrieves runs matching the filter, newest first.
	FindRuns(ctx context.Context, filter RunFilter) ([]*Run, error)

	// LastContentHash returns the content hash of the most recent run
	// for a report. Returns ENOTFOUND if the report has no runs.
	LastContentHash(ctx context.Context, reportName string) (string, error)
}

// RunFilter selects runs for FindRuns.
type RunFilter struct {
	ReportName *string `json:"reportName"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}
