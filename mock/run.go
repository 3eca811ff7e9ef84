package mock

import (
	"context"

	"github.com/jfelczak/snowgrid"
)

var _ snowgrid.RunService = (*RunService)(nil)

// RunService is a mock implementation of snowgrid.RunService.
type RunService struct {
	CreateRunFn       func(ctx context.Context, run *snowgrid.Run) error
	FindRunsFn        func(ctx context.Context, filter snowgrid.RunFilter) ([]*snowgrid.Run, error)
	LastContentHashFn func(ctx context.Context, reportName string) (string, error)
}

func (s *RunService) CreateRun(ctx context.Context, run *snowgrid.Run) error {
	return s.CreateRunFn(ctx, run)
}

func (s *RunService) FindRuns(ctx context.Context, filter snowgrid.RunFilter) ([]*snowgrid.Run, error) {
	return s.FindRunsFn(ctx, filter)
}

func (s *RunService) LastContentHash(ctx context.Context, reportName string) (string, error) {
	return s.LastContentHashFn(ctx, reportName)
}
