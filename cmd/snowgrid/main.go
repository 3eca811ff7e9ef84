package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
	"github.com/jfelczak/snowgrid"
	snowhttp "github.com/jfelczak/snowgrid/http"
	"github.com/jfelczak/snowgrid/htmltomarkdown"
	"github.com/jfelczak/snowgrid/pipeline"
	"github.com/jfelczak/snowgrid/sqlite"
)

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database path. Set before calling Run().
	DBPath string

	// SQLite database used by SQLite service implementations.
	DB *sqlite.DB

	// Services for end-to-end testing.
	RunService snowgrid.RunService
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath: defaultDBPath(),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("snowgrid"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'snowgrid --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	deps.Converter = htmltomarkdown.NewConverter()

	// Only commands touching run history need the database.
	if cmd == "fetch" || cmd == "runs" {
		m.DB = sqlite.NewDB(m.DBPath)
		if err := m.DB.Open(); err != nil {
			fmt.Fprintf(stderr, "Hint: Set SNOWGRID_DB to use a different database path\n")
			return fmt.Errorf("failed to open database at %q: %w", m.DBPath, err)
		}
		defer m.Close()

		m.RunService = sqlite.NewRunService(m.DB)
		deps.Runs = m.RunService
	}

	if cmd == "fetch" {
		fetcher := snowhttp.NewFetcher()

		if loginURL := cli.Fetch.Login; loginURL != "" {
			session := snowhttp.NewSession(fetcher)
			if err := session.Login(ctx, loginURL); err != nil {
				fmt.Fprintln(stderr, "Hint: Check the login URL and your network access")
				return fmt.Errorf("login failed: %w", err)
			}
		}

		deps.Pipeline = &pipeline.Pipeline{
			Fetcher:     fetcher,
			Runs:        m.RunService,
			Limiter:     pipeline.NewHostLimiter(1.0),
			Concurrency: cli.Fetch.Concurrency,
			OutDir:      cli.Fetch.OutDir,
			LogFunc: func(format string, args ...any) {
				fmt.Fprintf(stderr, format+"\n", args...)
			},
		}
	}

	return kongCtx.Run(deps)
}

func defaultDBPath() string {
	if path := os.Getenv("SNOWGRID_DB"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "snowgrid.db"
	}
	dir := filepath.Join(home, ".snowgrid")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "snowgrid.db")
}
