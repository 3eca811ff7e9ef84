package main

import (
	"fmt"
	"os"

	"github.com/jfelczak/snowgrid"
	"github.com/jfelczak/snowgrid/confluence"
	"github.com/jfelczak/snowgrid/csv"
)

// Run executes the publish command.
func (c *PublishCmd) Run(deps *Dependencies) error {
	baseURL := os.Getenv("CONFLUENCE_URL")
	user := os.Getenv("CONFLUENCE_USER")
	pass := os.Getenv("CONFLUENCE_PASS")
	if baseURL == "" || user == "" || pass == "" {
		fmt.Fprintln(deps.Stderr, "Hint: Set CONFLUENCE_URL, CONFLUENCE_USER and CONFLUENCE_PASS")
		return fmt.Errorf("confluence credentials not configured")
	}

	f, err := os.Open(c.File)
	if err != nil {
		return err
	}
	table, err := csv.ReadTable(f)
	f.Close()
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", snowgrid.ErrorMessage(err))
		return err
	}

	body, err := confluence.SummaryBody(table, c.Heading)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", snowgrid.ErrorMessage(err))
		return err
	}

	client := confluence.NewClient(baseURL, user, pass)
	url, err := client.Publish(deps.Ctx, &snowgrid.Page{
		Title:    c.Title,
		SpaceKey: c.Space,
		ParentID: c.Parent,
		Body:     body,
	})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", snowgrid.ErrorMessage(err))
		return err
	}

	fmt.Fprintln(deps.Stdout, url)
	return nil
}
