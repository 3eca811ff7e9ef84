package snowgrid

import "context"

// Page is a Confluence page to be created, with its body already in
// storage-format XHTML.
type Page struct {
	Title    string `json:"title"`
	SpaceKey string `json:"spaceKey"`
	ParentID string `json:"parentId"`
	Body     string `json:"body"`
}

// Validate returns an error if the page contains invalid fields.
func (p *Page) Validate() error {
	if p.Title == "" {
		return Errorf(EINVALID, "page title required")
	}
	if p.SpaceKey == "" {
		return Errorf(EINVALID, "page space key required")
	}
	return nil
}

// Publisher creates pages in a remote wiki.
type Publisher interface {
	// Publish creates the page and returns its web URL.
	Publish(ctx context.Context, page *Page) (string, error)
}

// Compliance is the result of counting non-compliant statuses in a
// published table's Enabled column.
type Compliance struct {
	NA int `json:"na"`
	No int `json:"no"`
}
