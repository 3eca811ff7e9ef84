package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/jfelczak/snowgrid"
	"github.com/jfelczak/snowgrid/goquery"
)

// Run executes the compliance command.
func (c *ComplianceCmd) Run(deps *Dependencies) error {
	data, err := os.ReadFile(c.File)
	if err != nil {
		return err
	}

	counts, err := goquery.CountEnabledStatuses(string(data))
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", snowgrid.ErrorMessage(err))
		return err
	}

	enc := json.NewEncoder(deps.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(counts)
}
