package pipeline

import (
	"context"
	"time"

	"github.com/jfelczak/snowgrid"
)

// LogFunc is the signature for a logging function.
type LogFunc func(format string, args ...any)

// DefaultRetryDelays returns the backoff delays for fetch retries: 1s, 2s, 4s.
func DefaultRetryDelays() []time.Duration {
	return []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}
}

// fetchWithRetry attempts a report fetch with exponential backoff. It makes
// one initial attempt plus one retry per delay. Invalid configs and rejected
// credentials fail immediately, a retry cannot fix either.
func fetchWithRetry(ctx context.Context, fetcher snowgrid.ReportFetcher, cfg snowgrid.ReportConfig, logger LogFunc, delays []time.Duration) (*snowgrid.Report, error) {
	maxAttempts := len(delays) + 1

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		report, err := fetcher.FetchReport(ctx, cfg)
		if err == nil {
			return report, nil
		}
		lastErr = err

		switch snowgrid.ErrorCode(err) {
		case snowgrid.EINVALID, snowgrid.EUNAUTHORIZED:
			return nil, err
		}

		if attempt >= maxAttempts-1 {
			break
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		if logger != nil {
			logger("  retry %s (attempt %d): %v", cfg.Name, attempt+2, err)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delays[attempt]):
		}
	}

	return nil, lastErr
}
