package main

import (
	"context"
	"io"

	"github.com/jfelczak/snowgrid"
	"github.com/jfelczak/snowgrid/htmltomarkdown"
	"github.com/jfelczak/snowgrid/pipeline"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx       context.Context
	Stdout    io.Writer
	Stderr    io.Writer
	Runs      snowgrid.RunService
	Pipeline  *pipeline.Pipeline
	Converter *htmltomarkdown.Converter
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Extract    ExtractCmd    `cmd:"" help:"Extract a table from an HTML file to CSV"`
	Fetch      FetchCmd      `cmd:"" help:"Fetch configured reports and extract their tables"`
	Publish    PublishCmd    `cmd:"" help:"Publish a CSV table to Confluence"`
	Compliance ComplianceCmd `cmd:"" help:"Count enabled statuses on a published page"`
	Runs       RunsCmd       `cmd:"" help:"List recorded extraction runs"`
}

// ExtractCmd is the "extract" subcommand.
type ExtractCmd struct {
	File     string `arg:"" help:"HTML file to extract from"`
	Out      string `short:"o" help:"CSV output path (default: stdout)"`
	Table    int    `short:"t" default:"1" help:"1-based table occurrence to extract"`
	Contacts string `short:"C" help:"Contact directory CSV for owner enrichment"`
	Markdown bool   `short:"m" help:"Preview the table as Markdown instead of CSV"`
}

// FetchCmd is the "fetch" subcommand.
type FetchCmd struct {
	Config      string `arg:"" help:"JSON file listing reports to fetch"`
	OutDir      string `short:"o" default:"." help:"Directory for CSV output"`
	Login       string `short:"l" help:"SSO login URL to authenticate before fetching"`
	Concurrency int    `short:"c" default:"4" help:"Concurrent report limit"`
}

// PublishCmd is the "publish" subcommand.
type PublishCmd struct {
	File    string `arg:"" help:"CSV file to publish"`
	Space   string `short:"s" required:"" help:"Confluence space key"`
	Title   string `short:"t" required:"" help:"Page title"`
	Parent  string `short:"p" help:"Parent page ID"`
	Heading string `default:"Weekend Change Summary" help:"Page heading"`
}

// ComplianceCmd is the "compliance" subcommand.
type ComplianceCmd struct {
	File string `arg:"" help:"HTML file of the published page"`
}

// RunsCmd is the "runs" subcommand.
type RunsCmd struct {
	Report string `short:"r" help:"Filter by report name"`
	Limit  int    `short:"n" default:"20" help:"Maximum runs to list"`
}
