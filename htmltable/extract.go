package htmltable

import (
	"io"
	"strings"

	"github.com/jfelczak/snowgrid"
	"golang.org/x/net/html"
)

// meaningfulTags are the nested tags whose text content is preferred over a
// cell's raw text when resolving cell values.
var meaningfulTags = map[string]bool{
	"div":    true,
	"span":   true,
	"a":      true,
	"p":      true,
	"strong": true,
	"em":     true,
	"b":      true,
	"i":      true,
}

// Option configures an extraction.
type Option func(*extractor)

// WithTableIndex selects which table occurrence to extract (1-based,
// default 1). The engine advances the index itself when it finds the
// occurrence empty.
func WithTableIndex(n int) Option {
	return func(e *extractor) {
		e.target = n
	}
}

// Extract scans an HTML document and reconstructs the first table at or
// after the configured occurrence index that contains meaningful content.
// An occurrence that yields neither a header nor data rows is skipped and
// the next occurrence is tried in the same pass.
//
// The returned table is empty (never nil, never an error) when no usable
// table exists. An EINVALID error is returned only when the tokenizer
// cannot continue at all; no partial result accompanies it.
func Extract(document string, opts ...Option) (*snowgrid.Table, error) {
	e := &extractor{target: 1}
	for _, opt := range opts {
		opt(e)
	}
	if e.target < 1 {
		return nil, snowgrid.Errorf(snowgrid.EINVALID, "table index must be >= 1, got %d", e.target)
	}

	z := html.NewTokenizer(strings.NewReader(Clean(document)))
	for !e.done {
		switch z.Next() {
		case html.ErrorToken:
			if err := z.Err(); err != io.EOF {
				return nil, snowgrid.Errorf(snowgrid.EINVALID, "malformed HTML: %v", err)
			}
			e.done = true
		case html.StartTagToken:
			name, _ := z.TagName()
			e.startTag(string(name))
		case html.EndTagToken:
			name, _ := z.TagName()
			e.endTag(string(name))
		case html.SelfClosingTagToken:
			// Self-closing cells were expanded by Clean; anything
			// left self-closed opens and closes with no text.
			name, _ := z.TagName()
			e.startTag(string(name))
			e.endTag(string(name))
		case html.TextToken:
			// z.Text decodes entity and character references, so
			// both buffers receive literal characters.
			e.text(string(z.Text()))
		}
	}

	return &snowgrid.Table{Headers: e.headers, Rows: e.rows}, nil
}

// region tracks which part of the target table the scan is inside.
type region int

const (
	regionNone region = iota
	regionHeader
	regionBody
)

// cellKind tracks the open cell, if any. At most one cell is open at a time.
type cellKind int

const (
	cellNone cellKind = iota
	cellHeader
	cellData
)

// extractor is the tag-driven state machine for a single Extract call.
// All state is owned by one call; nothing is shared or reused.
type extractor struct {
	target     int // 1-based occurrence being sought; advanced on empty tables
	tableCount int // running count of table start tags seen

	inTable bool
	region  region
	inRow   bool
	cell    cellKind
	cc      *cellContext

	row     []string
	headers []string
	rows    [][]string

	done bool
}

func (e *extractor) startTag(name string) {
	switch name {
	case "table":
		// Counted even when nested: the occurrence index is defined
		// over start tags, so tables before a successful one are
		// never re-scanned.
		e.tableCount++
		if !e.inTable && e.tableCount == e.target {
			e.inTable = true
		}
	case "thead":
		if e.inTable {
			e.region = regionHeader
		}
	case "tbody":
		if e.inTable {
			e.region = regionBody
		}
	case "tr":
		if e.inTable {
			e.inRow = true
			e.row = nil
		}
	case "th":
		if e.inTable && e.inRow {
			e.cell = cellHeader
			e.cc = &cellContext{}
		}
	case "td":
		if e.inTable && e.inRow {
			e.cell = cellData
			e.cc = &cellContext{}
		}
	default:
		if e.cell != cellNone && meaningfulTags[name] {
			e.cc.openTag(name)
		}
	}
}

func (e *extractor) endTag(name string) {
	switch name {
	case "table":
		if e.inTable {
			e.endTable()
		}
	case "thead":
		if e.region == regionHeader {
			e.region = regionNone
		}
	case "tbody":
		if e.region == regionBody {
			e.region = regionNone
		}
	case "tr":
		if e.inRow {
			e.endRow()
		}
	case "th":
		if e.cell == cellHeader {
			e.endCell()
		}
	case "td":
		if e.cell == cellData {
			e.endCell()
		}
	default:
		if e.cell != cellNone && meaningfulTags[name] {
			e.cc.closeTag(name)
		}
	}
}

func (e *extractor) text(s string) {
	if e.cell != cellNone {
		e.cc.writeText(s)
	}
}

// endTable finalizes the target table if it collected content; an empty
// occurrence retargets the scan to the next table in the same pass.
func (e *extractor) endTable() {
	if len(e.headers) > 0 || len(e.rows) > 0 {
		e.done = true
		return
	}

	e.target++
	e.inTable = false
	e.region = regionNone
	e.inRow = false
	e.cell = cellNone
	e.cc = nil
	e.row = nil
}

// endRow classifies the finished row. Rows with no non-blank cell are
// discarded outright. The header slot is write-once: the first row in the
// header region — or, absent one, the first row of the table outside an
// explicit body region — claims it, and later header-classified rows are
// dropped rather than demoted to data.
func (e *extractor) endRow() {
	e.inRow = false
	row := e.row
	e.row = nil

	if !rowHasContent(row) {
		return
	}

	if e.region == regionHeader || (len(e.headers) == 0 && e.region != regionBody) {
		if len(e.headers) == 0 {
			e.headers = row
		}
		return
	}
	e.rows = append(e.rows, row)
}

func (e *extractor) endCell() {
	e.row = append(e.row, e.cc.resolve())
	e.cell = cellNone
	e.cc = nil
}

func rowHasContent(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return true
		}
	}
	return false
}

// cellContext accumulates content for one open cell. It keeps two
// independent buffers: raw receives every text event in the cell, capture
// receives text only between the first meaningful tag's open and close.
// Once the first capture finalizes non-blank it is immutable; a blank first
// element yields the capture slot to the next meaningful element.
type cellContext struct {
	open []string // stack of open meaningful tag names

	raw     strings.Builder
	capture strings.Builder

	capturing   bool
	captureFrom int // stack depth at which the capture began

	first     string
	firstDone bool
}

func (c *cellContext) openTag(name string) {
	c.open = append(c.open, name)
	if !c.firstDone && !c.capturing {
		c.capturing = true
		c.captureFrom = len(c.open)
		c.capture.Reset()
	}
}

func (c *cellContext) closeTag(name string) {
	n := len(c.open)
	if n == 0 || c.open[n-1] != name {
		return
	}
	c.open = c.open[:n-1]

	if c.capturing && len(c.open) < c.captureFrom {
		c.capturing = false
		if text := strings.TrimSpace(c.capture.String()); text != "" {
			c.first = text
			c.firstDone = true
		}
	}
}

func (c *cellContext) writeText(s string) {
	c.raw.WriteString(s)
	if c.capturing {
		c.capture.WriteString(s)
	}
}

// resolve selects the cell's final content: the first finalized meaningful
// capture wins outright, otherwise the trimmed raw text. A capture still
// open when the cell closes never finalized, so the raw buffer wins.
func (c *cellContext) resolve() string {
	if c.firstDone {
		return c.first
	}
	return strings.TrimSpace(c.raw.String())
}
