package main

import (
	"fmt"
	"time"

	"github.com/jfelczak/snowgrid"
)

// Run executes the runs command.
func (c *RunsCmd) Run(deps *Dependencies) error {
	filter := snowgrid.RunFilter{Limit: c.Limit}
	if c.Report != "" {
		filter.ReportName = &c.Report
	}

	runs, err := deps.Runs.FindRuns(deps.Ctx, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", snowgrid.ErrorMessage(err))
		return err
	}

	if len(runs) == 0 {
		fmt.Fprintln(deps.Stdout, "No runs recorded. Use 'snowgrid fetch' to create some.")
		return nil
	}

	for _, r := range runs {
		fmt.Fprintf(deps.Stdout, "%s  %s  %s  %d rows  %s\n",
			r.CreatedAt.Format(time.RFC3339), r.ReportName, r.ContentHash, r.RowCount, r.CSVPath)
	}

	return nil
}
