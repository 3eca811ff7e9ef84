// Package mock provides function-field mocks of the snowgrid service
// interfaces for tests.
package mock

import (
	"context"

	"github.com/jfelczak/snowgrid"
)

var _ snowgrid.ReportFetcher = (*ReportFetcher)(nil)

// ReportFetcher is a mock implementation of snowgrid.ReportFetcher.
type ReportFetcher struct {
	FetchReportFn func(ctx context.Context, cfg snowgrid.ReportConfig) (*snowgrid.Report, error)
}

func (f *ReportFetcher) FetchReport(ctx context.Context, cfg snowgrid.ReportConfig) (*snowgrid.Report, error) {
	return f.FetchReportFn(ctx, cfg)
}
