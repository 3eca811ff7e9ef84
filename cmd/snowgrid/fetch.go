package main

import (
	"fmt"
	"os"

	"github.com/jfelczak/snowgrid"
)

// Run executes the fetch command.
func (c *FetchCmd) Run(deps *Dependencies) error {
	f, err := os.Open(c.Config)
	if err != nil {
		return err
	}
	configs, err := snowgrid.LoadReportConfigs(f)
	f.Close()
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", snowgrid.ErrorMessage(err))
		return err
	}

	if len(configs) == 0 {
		fmt.Fprintln(deps.Stdout, "No reports configured.")
		return nil
	}

	results, err := deps.Pipeline.Run(deps.Ctx, configs)
	if err != nil {
		return err
	}

	failed := 0
	for _, r := range results {
		switch {
		case r.Err != nil:
			failed++
			fmt.Fprintf(deps.Stdout, "FAIL  %s: %s\n", r.ReportName, snowgrid.ErrorMessage(r.Err))
		case r.Skipped:
			fmt.Fprintf(deps.Stdout, "SKIP  %s: unchanged\n", r.ReportName)
		default:
			fmt.Fprintf(deps.Stdout, "OK    %s: %d rows -> %s\n", r.ReportName, r.Rows, r.CSVPath)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d reports failed", failed, len(results))
	}
	return nil
}
