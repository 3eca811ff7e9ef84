package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jfelczak/snowgrid"
)

// Compile-time interface verification.
var _ snowgrid.RunService = (*RunService)(nil)

// RunService implements snowgrid.RunService using SQLite.
type RunService struct {
	db *DB
}

// NewRunService creates a new RunService.
func NewRunService(db *DB) *RunService {
	return &RunService{db: db}
}

// CreateRun records a new extraction run.
func (s *RunService) CreateRun(ctx context.Context, run *snowgrid.Run) error {
	if err := run.Validate(); err != nil {
		return err
	}

	run.ID = uuid.New().String()
	run.CreatedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, report_name, source_url, content_hash, header_count, row_count, csv_path, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, run.ID, run.ReportName, run.SourceURL, run.ContentHash, run.HeaderCount, run.RowCount,
		run.CSVPath, run.CreatedAt.Format(time.RFC3339))

	return err
}

// FindRuns retrieves runs matching the filter, newest first.
func (s *RunService) FindRuns(ctx context.Context, filter snowgrid.RunFilter) ([]*snowgrid.Run, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT id, report_name, source_url, content_hash, header_count, row_count, csv_path, created_at FROM runs WHERE 1=1")

	if filter.ReportName != nil {
		query.WriteString(" AND report_name = ?")
		args = append(args, *filter.ReportName)
	}

	query.WriteString(" ORDER BY created_at DESC")

	if filter.Limit > 0 {
		query.WriteString(" LIMIT ?")
		args = append(args, filter.Limit)
	}
	if filter.Offset > 0 {
		query.WriteString(" OFFSET ?")
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*snowgrid.Run
	for rows.Next() {
		var run snowgrid.Run
		var createdAt string

		if err := rows.Scan(&run.ID, &run.ReportName, &run.SourceURL, &run.ContentHash,
			&run.HeaderCount, &run.RowCount, &run.CSVPath, &createdAt); err != nil {
			return nil, err
		}

		run.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse created_at: %w", err)
		}

		runs = append(runs, &run)
	}

	return runs, rows.Err()
}

// LastContentHash returns the content hash of the most recent run for a
// report. Returns ENOTFOUND if the report has no runs yet.
func (s *RunService) LastContentHash(ctx context.Context, reportName string) (string, error) {
	var hash string

	err := s.db.QueryRowContext(ctx, `
		SELECT content_hash
		FROM runs
		WHERE report_name = ?
		ORDER BY created_at DESC
		LIMIT 1
	`, reportName).Scan(&hash)

	if errors.Is(err, sql.ErrNoRows) {
		return "", snowgrid.Errorf(snowgrid.ENOTFOUND, "no runs recorded for report %q", reportName)
	}
	if err != nil {
		return "", err
	}

	return hash, nil
}
