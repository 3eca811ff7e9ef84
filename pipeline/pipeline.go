// Package pipeline orchestrates report fetching, table extraction and CSV
// output across a batch of report configs.
package pipeline

import (
	"context"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jfelczak/snowgrid"
	"github.com/jfelczak/snowgrid/csv"
	"github.com/jfelczak/snowgrid/htmltable"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency is the number of reports processed in parallel when the
// pipeline is not configured otherwise.
const DefaultConcurrency = 4

// Pipeline fetches a batch of reports, extracts their tables and writes one
// CSV per report. Fetcher is required; everything else is optional.
type Pipeline struct {
	Fetcher snowgrid.ReportFetcher

	// Runs, when set, records each extraction and skips reports whose
	// content hash matches their previous run.
	Runs snowgrid.RunService

	// Directory, when set, appends owner contact columns to each table.
	Directory snowgrid.ContactDirectory

	// Limiter, when set, throttles fetches per report host.
	Limiter snowgrid.HostLimiter

	// LogFunc receives progress output. Nil disables logging.
	LogFunc LogFunc

	// Concurrency bounds parallel report processing.
	// Defaults to DefaultConcurrency.
	Concurrency int

	// OutDir is where CSV files land. Defaults to the working directory.
	OutDir string

	// RetryDelays overrides the fetch backoff schedule, mainly for tests.
	RetryDelays []time.Duration
}

// Result describes the outcome of one report in a batch.
type Result struct {
	ReportName string
	CSVPath    string
	Headers    int
	Rows       int

	// Skipped is true when the report content was unchanged since the
	// previous run.
	Skipped bool

	// Err carries the report's failure. Other reports in the batch keep
	// going.
	Err error
}

// Run processes all configs and returns one result per config, in config
// order. Individual report failures land in their result; Run itself only
// fails on context cancellation.
func (p *Pipeline) Run(ctx context.Context, configs []snowgrid.ReportConfig) ([]*Result, error) {
	concurrency := p.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	delays := p.RetryDelays
	if delays == nil {
		delays = DefaultRetryDelays()
	}

	results := make([]*Result, len(configs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, cfg := range configs {
		i, cfg := i, cfg
		g.Go(func() error {
			result := p.process(ctx, cfg, delays)
			results[i] = result

			if result.Err != nil {
				p.logf("report %s failed: %v", cfg.Name, result.Err)
			}
			return ctx.Err()
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// process runs a single report end to end.
func (p *Pipeline) process(ctx context.Context, cfg snowgrid.ReportConfig, delays []time.Duration) *Result {
	result := &Result{ReportName: cfg.Name}

	if p.Limiter != nil {
		if err := p.Limiter.Wait(ctx, hostOf(cfg.URL)); err != nil {
			result.Err = err
			return result
		}
	}

	p.logf("fetching %s", cfg.Name)
	report, err := fetchWithRetry(ctx, p.Fetcher, cfg, p.LogFunc, delays)
	if err != nil {
		result.Err = err
		return result
	}

	if p.Runs != nil {
		last, err := p.Runs.LastContentHash(ctx, cfg.Name)
		if err == nil && last == report.ContentHash {
			p.logf("skipping %s: content unchanged", cfg.Name)
			result.Skipped = true
			return result
		}
	}

	table, err := extractTable(report, cfg.TableIndex)
	if err != nil {
		result.Err = err
		return result
	}

	if p.Directory != nil {
		enriched, stats, err := snowgrid.EnrichTable(table, p.Directory)
		if err != nil {
			result.Err = err
			return result
		}
		table = enriched
		p.logf("enriched %s: %d found, %d missing", cfg.Name, stats.Found, stats.NotFound)
	}

	path := filepath.Join(p.OutDir, slug(cfg.Name)+".csv")
	if err := writeCSV(path, table); err != nil {
		result.Err = err
		return result
	}

	result.CSVPath = path
	result.Headers = len(table.Headers)
	result.Rows = len(table.Rows)

	if p.Runs != nil {
		run := &snowgrid.Run{
			ReportName:  cfg.Name,
			SourceURL:   cfg.URL,
			ContentHash: report.ContentHash,
			HeaderCount: result.Headers,
			RowCount:    result.Rows,
			CSVPath:     path,
		}
		if err := p.Runs.CreateRun(ctx, run); err != nil {
			result.Err = err
			return result
		}
	}

	p.logf("wrote %s: %d rows", path, result.Rows)
	return result
}

// extractTable turns a fetched report into a table according to its format.
// JSON reports carry their HTML inside a widget envelope, CSV reports are
// parsed directly, everything else goes through the HTML extractor.
func extractTable(report *snowgrid.Report, tableIndex int) (*snowgrid.Table, error) {
	switch report.Format {
	case snowgrid.FormatCSV:
		return csv.ReadTable(strings.NewReader(report.Content))
	case snowgrid.FormatJSON:
		html, err := snowgrid.WidgetHTML([]byte(report.Content))
		if err != nil {
			return nil, err
		}
		return extractHTML(html, tableIndex)
	default:
		return extractHTML(report.Content, tableIndex)
	}
}

func extractHTML(html string, tableIndex int) (*snowgrid.Table, error) {
	var opts []htmltable.Option
	if tableIndex > 0 {
		opts = append(opts, htmltable.WithTableIndex(tableIndex))
	}
	return htmltable.Extract(htmltable.Clean(html), opts...)
}

// writeCSV writes the table to path, creating parent directories as needed.
func writeCSV(path string, table *snowgrid.Table) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := csv.WriteTable(f, table); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// hostOf extracts the host from a report URL for rate limiting. Unparseable
// URLs share one bucket.
func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return rawURL
	}
	return u.Host
}

// slug turns a report name into a file-safe base name.
func slug(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ', r == '-', r == '_', r == '.':
			b.WriteByte('-')
		}
	}
	out := strings.Trim(b.String(), "-")
	if out == "" {
		return "report"
	}
	return out
}

func (p *Pipeline) logf(format string, args ...any) {
	if p.LogFunc != nil {
		p.LogFunc(format, args...)
	}
}
