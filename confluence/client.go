// Package confluence publishes pages to Confluence through its REST API.
package confluence

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/jfelczak/snowgrid"
)

// Ensure Client implements snowgrid.Publisher at compile time.
var _ snowgrid.Publisher = (*Client)(nil)

// Client is a minimal Confluence REST API client scoped to page creation.
type Client struct {
	baseURL    string
	username   string
	password   string
	httpClient *http.Client
}

// NewClient creates a Client for the Confluence instance at baseURL using
// basic authentication. An API token works as the password on cloud
// instances.
func NewClient(baseURL, username, password string) *Client {
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		username: username,
		password: password,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// createPageRequest is the REST API body for content creation.
type createPageRequest struct {
	Type      string         `json:"type"`
	Title     string         `json:"title"`
	Ancestors []ancestor     `json:"ancestors,omitempty"`
	Space     space          `json:"space"`
	Body      createPageBody `json:"body"`
}

type ancestor struct {
	ID string `json:"id"`
}

type space struct {
	Key string `json:"key"`
}

type createPageBody struct {
	Storage storageBody `json:"storage"`
}

type storageBody struct {
	Value          string `json:"value"`
	Representation string `json:"representation"`
}

// createPageResponse carries the fields we read back from the API.
type createPageResponse struct {
	ID    string `json:"id"`
	Links struct {
		Base  string `json:"base"`
		WebUI string `json:"webui"`
	} `json:"_links"`
}

// Publish creates the page and returns its web URL.
//
// Returns EINVALID if the page fails validation, EUNAUTHORIZED if the
// credentials are rejected, and ECONFLICT if a page with the same title
// already exists in the space.
func (c *Client) Publish(ctx context.Context, page *snowgrid.Page) (string, error) {
	if err := page.Validate(); err != nil {
		return "", err
	}

	reqBody := createPageRequest{
		Type:  "page",
		Title: page.Title,
		Space: space{Key: page.SpaceKey},
		Body: createPageBody{
			Storage: storageBody{
				Value:          page.Body,
				Representation: "storage",
			},
		},
	}
	if page.ParentID != "" {
		reqBody.Ancestors = []ancestor{{ID: page.ParentID}}
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/rest/api/content", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.SetBasicAuth(c.username, c.password)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized, http.StatusForbidden:
		return "", snowgrid.Errorf(snowgrid.EUNAUTHORIZED, "confluence rejected credentials for %q", c.username)
	case http.StatusBadRequest, http.StatusConflict:
		return "", snowgrid.Errorf(snowgrid.ECONFLICT, "page %q already exists in space %q", page.Title, page.SpaceKey)
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("confluence: HTTP %d creating page %q: %s", resp.StatusCode, page.Title, body)
	}

	var created createPageResponse
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return "", snowgrid.Errorf(snowgrid.EINTERNAL, "failed to decode confluence response: %v", err)
	}

	if created.Links.WebUI != "" {
		base := created.Links.Base
		if base == "" {
			base = c.baseURL
		}
		return base + created.Links.WebUI, nil
	}
	return fmt.Sprintf("%s/pages/viewpage.action?pageId=%s", c.baseURL, created.ID), nil
}
