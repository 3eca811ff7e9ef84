package snowgrid

import (
	"context"
	"encoding/json"
	"io"
	"time"
)

// ReportFormat identifies what kind of payload a report request returned.
type ReportFormat string

// Report formats, detected from the response content type.
const (
	FormatHTML  ReportFormat = "html"
	FormatCSV   ReportFormat = "csv"
	FormatExcel ReportFormat = "excel"
	FormatJSON  ReportFormat = "json"
)

// ReportConfig describes one report to fetch. Payload, when set, is sent as
// a form-encoded POST body; otherwise the report URL is fetched with GET.
type ReportConfig struct {
	Name    string `json:"name"`
	URL     string `json:"url"`
	Payload string `json:"payload,omitempty"`

	// TableIndex is the 1-based table occurrence to extract from the
	// report HTML. Zero means the first table.
	TableIndex int `json:"tableIndex,omitempty"`
}

// Validate returns an error if the config is missing required fields.
func (c *ReportConfig) Validate() error {
	if c.Name == "" {
		return Errorf(EINVALID, "report name required")
	}
	if c.URL == "" {
		return Errorf(EINVALID, "report URL required")
	}
	if c.TableIndex < 0 {
		return Errorf(EINVALID, "report table index must be positive")
	}
	return nil
}

// LoadReportConfigs reads a JSON array of report configs.
func LoadReportConfigs(r io.Reader) ([]ReportConfig, error) {
	var configs []ReportConfig
	if err := json.NewDecoder(r).Decode(&configs); err != nil {
		return nil, Errorf(EINVALID, "invalid report config: %v", err)
	}
	for i := range configs {
		if err := configs[i].Validate(); err != nil {
			return nil, err
		}
	}
	return configs, nil
}

// Report is one fetched report payload.
type Report struct {
	Name        string       `json:"name"`
	SourceURL   string       `json:"sourceUrl"`
	Format      ReportFormat `json:"format"`
	Content     string       `json:"content"`
	ContentHash string       `json:"contentHash"`
	FetchedAt   time.Time    `json:"fetchedAt"`
}

// ReportFetcher retrieves report payloads.
type ReportFetcher interface {
	// FetchReport retrieves one report. The returned report always has
	// Format and ContentHash populated.
	FetchReport(ctx context.Context, cfg ReportConfig) (*Report, error)
}

// HostLimiter throttles requests per host.
type HostLimiter interface {
	// Wait blocks until the rate limit allows a request to the host.
	// Returns an error if the context is canceled before the wait completes.
	Wait(ctx context.Context, host string) error
}

// reportEnvelope mirrors the JSON wrapper report widgets arrive in.
type reportEnvelope struct {
	Widgets []struct {
		Content string `json:"content"`
	} `json:"widgets"`
}

// WidgetHTML extracts the HTML content of the first widget from a JSON
// report envelope. Returns ENOTFOUND if the envelope has no widgets or the
// first widget carries no content.
func WidgetHTML(data []byte) (string, error) {
	var env reportEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return "", Errorf(EINVALID, "invalid report JSON: %v", err)
	}
	if len(env.Widgets) == 0 {
		return "", Errorf(ENOTFOUND, "no widgets in report JSON")
	}
	if env.Widgets[0].Content == "" {
		return "", Errorf(ENOTFOUND, "first widget has no content")
	}
	return env.Widgets[0].Content, nil
}
