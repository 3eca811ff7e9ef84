package main

import (
	"fmt"
	"os"

	"github.com/jfelczak/snowgrid"
	"github.com/jfelczak/snowgrid/csv"
	"github.com/jfelczak/snowgrid/htmltable"
)

// Run executes the extract command.
func (c *ExtractCmd) Run(deps *Dependencies) error {
	data, err := os.ReadFile(c.File)
	if err != nil {
		return err
	}

	table, err := htmltable.Extract(htmltable.Clean(string(data)), htmltable.WithTableIndex(c.Table))
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", snowgrid.ErrorMessage(err))
		return err
	}

	if table.Empty() {
		fmt.Fprintln(deps.Stdout, "No table found.")
		return nil
	}

	if c.Contacts != "" {
		f, err := os.Open(c.Contacts)
		if err != nil {
			return err
		}
		dir, err := csv.LoadDirectory(f)
		f.Close()
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", snowgrid.ErrorMessage(err))
			return err
		}

		enriched, stats, err := snowgrid.EnrichTable(table, dir)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", snowgrid.ErrorMessage(err))
			return err
		}
		table = enriched
		fmt.Fprintf(deps.Stderr, "enriched: %d found, %d missing\n", stats.Found, stats.NotFound)
	}

	if c.Markdown {
		md, err := deps.Converter.PreviewTable(table)
		if err != nil {
			return err
		}
		fmt.Fprintln(deps.Stdout, md)
		return nil
	}

	out := deps.Stdout
	if c.Out != "" {
		f, err := os.Create(c.Out)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	return csv.WriteTable(out, table)
}
