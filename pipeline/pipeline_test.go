package pipeline_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/jfelczak/snowgrid"
	"github.com/jfelczak/snowgrid/mock"
	"github.com/jfelczak/snowgrid/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const reportHTML = `<table>
	<thead><tr><th>Number</th><th>Assignment group</th></tr></thead>
	<tbody>
		<tr><td>INC001</td><td>Network Ops</td></tr>
		<tr><td>INC002</td><td>Database</td></tr>
	</tbody>
</table>`

func htmlFetcher(content string) *mock.ReportFetcher {
	return &mock.ReportFetcher{
		FetchReportFn: func(_ context.Context, cfg snowgrid.ReportConfig) (*snowgrid.Report, error) {
			return &snowgrid.Report{
				Name:        cfg.Name,
				SourceURL:   cfg.URL,
				Format:      snowgrid.FormatHTML,
				Content:     content,
				ContentHash: "hash-1",
				FetchedAt:   time.Now().UTC(),
			}, nil
		},
	}
}

func TestPipelineRun(t *testing.T) {
	t.Parallel()

	t.Run("fetches, extracts and writes one CSV per report", func(t *testing.T) {
		t.Parallel()

		outDir := t.TempDir()
		p := &pipeline.Pipeline{
			Fetcher: htmlFetcher(reportHTML),
			OutDir:  outDir,
		}

		results, err := p.Run(context.Background(), []snowgrid.ReportConfig{
			{Name: "Open Incidents", URL: "https://example.com/a"},
		})

		require.NoError(t, err)
		require.Len(t, results, 1)
		require.NoError(t, results[0].Err)
		assert.Equal(t, 2, results[0].Headers)
		assert.Equal(t, 2, results[0].Rows)
		assert.Equal(t, filepath.Join(outDir, "open-incidents.csv"), results[0].CSVPath)

		data, err := os.ReadFile(results[0].CSVPath)
		require.NoError(t, err)
		assert.Equal(t, "Number,Assignment group\nINC001,Network Ops\nINC002,Database\n", string(data))
	})

	t.Run("parses CSV reports without the HTML extractor", func(t *testing.T) {
		t.Parallel()

		fetcher := &mock.ReportFetcher{
			FetchReportFn: func(_ context.Context, cfg snowgrid.ReportConfig) (*snowgrid.Report, error) {
				return &snowgrid.Report{
					Name:        cfg.Name,
					Format:      snowgrid.FormatCSV,
					Content:     "Number,State\nINC001,Open\n",
					ContentHash: "h",
				}, nil
			},
		}

		p := &pipeline.Pipeline{Fetcher: fetcher, OutDir: t.TempDir()}
		results, err := p.Run(context.Background(), []snowgrid.ReportConfig{{Name: "csv report", URL: "u"}})

		require.NoError(t, err)
		require.NoError(t, results[0].Err)
		assert.Equal(t, 1, results[0].Rows)
	})

	t.Run("unwraps JSON widget envelopes before extraction", func(t *testing.T) {
		t.Parallel()

		fetcher := &mock.ReportFetcher{
			FetchReportFn: func(_ context.Context, cfg snowgrid.ReportConfig) (*snowgrid.Report, error) {
				return &snowgrid.Report{
					Name:        cfg.Name,
					Format:      snowgrid.FormatJSON,
					Content:     `{"widgets":[{"content":"<table><tr><td>x</td></tr></table>"}]}`,
					ContentHash: "h",
				}, nil
			},
		}

		p := &pipeline.Pipeline{Fetcher: fetcher, OutDir: t.TempDir()}
		results, err := p.Run(context.Background(), []snowgrid.ReportConfig{{Name: "widget", URL: "u"}})

		require.NoError(t, err)
		require.NoError(t, results[0].Err)
		assert.Equal(t, 1, results[0].Headers)
	})

	t.Run("skips a report whose content is unchanged", func(t *testing.T) {
		t.Parallel()

		created := 0
		runs := &mock.RunService{
			LastContentHashFn: func(_ context.Context, _ string) (string, error) {
				return "hash-1", nil
			},
			CreateRunFn: func(_ context.Context, _ *snowgrid.Run) error {
				created++
				return nil
			},
		}

		p := &pipeline.Pipeline{
			Fetcher: htmlFetcher(reportHTML),
			Runs:    runs,
			OutDir:  t.TempDir(),
		}
		results, err := p.Run(context.Background(), []snowgrid.ReportConfig{{Name: "r", URL: "u"}})

		require.NoError(t, err)
		assert.True(t, results[0].Skipped)
		assert.Empty(t, results[0].CSVPath)
		assert.Zero(t, created)
	})

	t.Run("records a run when content changed", func(t *testing.T) {
		t.Parallel()

		var recorded *snowgrid.Run
		runs := &mock.RunService{
			LastContentHashFn: func(_ context.Context, _ string) (string, error) {
				return "", snowgrid.Errorf(snowgrid.ENOTFOUND, "no runs")
			},
			CreateRunFn: func(_ context.Context, run *snowgrid.Run) error {
				recorded = run
				return nil
			},
		}

		p := &pipeline.Pipeline{
			Fetcher: htmlFetcher(reportHTML),
			Runs:    runs,
			OutDir:  t.TempDir(),
		}
		results, err := p.Run(context.Background(), []snowgrid.ReportConfig{{Name: "r", URL: "u"}})

		require.NoError(t, err)
		require.NoError(t, results[0].Err)
		require.NotNil(t, recorded)
		assert.Equal(t, "r", recorded.ReportName)
		assert.Equal(t, "hash-1", recorded.ContentHash)
		assert.Equal(t, 2, recorded.RowCount)
	})

	t.Run("enriches tables when a directory is configured", func(t *testing.T) {
		t.Parallel()

		dir := &mock.ContactDirectory{
			LookupFn: func(group string) (snowgrid.Contact, bool) {
				if group == "Network Ops" {
					return snowgrid.Contact{Group: group, Name: "Ada", Email: "ada@example.com"}, true
				}
				return snowgrid.Contact{}, false
			},
		}

		outDir := t.TempDir()
		p := &pipeline.Pipeline{
			Fetcher:   htmlFetcher(reportHTML),
			Directory: dir,
			OutDir:    outDir,
		}
		results, err := p.Run(context.Background(), []snowgrid.ReportConfig{{Name: "r", URL: "u"}})

		require.NoError(t, err)
		require.NoError(t, results[0].Err)

		data, err := os.ReadFile(results[0].CSVPath)
		require.NoError(t, err)
		assert.Contains(t, string(data), "Owner,Email\n")
		assert.Contains(t, string(data), "Ada,ada@example.com\n")
		assert.Contains(t, string(data), "Not Found,Not Found\n")
	})

	t.Run("one failing report does not stop the batch", func(t *testing.T) {
		t.Parallel()

		fetcher := &mock.ReportFetcher{
			FetchReportFn: func(_ context.Context, cfg snowgrid.ReportConfig) (*snowgrid.Report, error) {
				if cfg.Name == "bad" {
					return nil, errors.New("boom")
				}
				return &snowgrid.Report{
					Name:        cfg.Name,
					Format:      snowgrid.FormatHTML,
					Content:     reportHTML,
					ContentHash: "h",
				}, nil
			},
		}

		p := &pipeline.Pipeline{
			Fetcher:     fetcher,
			OutDir:      t.TempDir(),
			RetryDelays: []time.Duration{},
		}
		results, err := p.Run(context.Background(), []snowgrid.ReportConfig{
			{Name: "bad", URL: "u"},
			{Name: "good", URL: "u"},
		})

		require.NoError(t, err)
		assert.Error(t, results[0].Err)
		assert.NoError(t, results[1].Err)
		assert.NotEmpty(t, results[1].CSVPath)
	})

	t.Run("waits on the limiter per host", func(t *testing.T) {
		t.Parallel()

		var mu sync.Mutex
		var hosts []string
		limiter := limiterFunc(func(_ context.Context, host string) error {
			mu.Lock()
			hosts = append(hosts, host)
			mu.Unlock()
			return nil
		})

		p := &pipeline.Pipeline{
			Fetcher: htmlFetcher(reportHTML),
			Limiter: limiter,
			OutDir:  t.TempDir(),
		}
		_, err := p.Run(context.Background(), []snowgrid.ReportConfig{
			{Name: "a", URL: "https://one.example.com/r"},
			{Name: "b", URL: "https://two.example.com/r"},
		})

		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"one.example.com", "two.example.com"}, hosts)
	})
}

func TestFetchRetries(t *testing.T) {
	t.Parallel()

	t.Run("retries transient failures", func(t *testing.T) {
		t.Parallel()

		attempts := 0
		fetcher := &mock.ReportFetcher{
			FetchReportFn: func(_ context.Context, cfg snowgrid.ReportConfig) (*snowgrid.Report, error) {
				attempts++
				if attempts < 3 {
					return nil, errors.New("transient")
				}
				return &snowgrid.Report{Name: cfg.Name, Format: snowgrid.FormatHTML, Content: reportHTML, ContentHash: "h"}, nil
			},
		}

		p := &pipeline.Pipeline{
			Fetcher:     fetcher,
			OutDir:      t.TempDir(),
			RetryDelays: []time.Duration{time.Millisecond, time.Millisecond},
		}
		results, err := p.Run(context.Background(), []snowgrid.ReportConfig{{Name: "r", URL: "u"}})

		require.NoError(t, err)
		assert.NoError(t, results[0].Err)
		assert.Equal(t, 3, attempts)
	})

	t.Run("does not retry rejected credentials", func(t *testing.T) {
		t.Parallel()

		attempts := 0
		fetcher := &mock.ReportFetcher{
			FetchReportFn: func(_ context.Context, _ snowgrid.ReportConfig) (*snowgrid.Report, error) {
				attempts++
				return nil, snowgrid.Errorf(snowgrid.EUNAUTHORIZED, "rejected")
			},
		}

		p := &pipeline.Pipeline{
			Fetcher:     fetcher,
			OutDir:      t.TempDir(),
			RetryDelays: []time.Duration{time.Millisecond},
		}
		results, err := p.Run(context.Background(), []snowgrid.ReportConfig{{Name: "r", URL: "u"}})

		require.NoError(t, err)
		assert.Equal(t, snowgrid.EUNAUTHORIZED, snowgrid.ErrorCode(results[0].Err))
		assert.Equal(t, 1, attempts)
	})
}

// limiterFunc adapts a function to snowgrid.HostLimiter.
type limiterFunc func(ctx context.Context, host string) error

func (f limiterFunc) Wait(ctx context.Context, host string) error {
	return f(ctx, host)
}
