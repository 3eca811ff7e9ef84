// Package htmltomarkdown renders extracted tables and report fragments as
// Markdown for terminal previews.
package htmltomarkdown

import (
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/jfelczak/snowgrid"
)

// Ensure Converter implements snowgrid.Converter at compile time.
var _ snowgrid.Converter = (*Converter)(nil)

// Converter wraps html-to-markdown to convert HTML to Markdown.
type Converter struct {
	conv *converter.Converter
}

// NewConverter creates a new Converter with table support enabled.
func NewConverter() *Converter {
	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
			table.NewTablePlugin(),
		),
	)
	return &Converter{conv: conv}
}

// Convert transforms HTML content into Markdown.
func (c *Converter) Convert(html string) (string, error) {
	if strings.TrimSpace(html) == "" {
		return "", snowgrid.Errorf(snowgrid.EINVALID, "empty HTML input")
	}

	result, err := c.conv.ConvertString(html)
	if err != nil {
		return "", err
	}

	return result, nil
}

// PreviewTable renders an extracted table as a Markdown table. The table is
// rectangularized first so every row lines up under the header.
func (c *Converter) PreviewTable(t *snowgrid.Table) (string, error) {
	if t.Empty() {
		return "", snowgrid.Errorf(snowgrid.ENOTFOUND, "no table content to preview")
	}
	return c.Convert(tableHTML(t.Rectangle()))
}

// tableHTML serializes a table back to minimal HTML for the converter's
// table plugin.
func tableHTML(t *snowgrid.Table) string {
	var b strings.Builder
	b.WriteString("<table><thead><tr>")
	for _, h := range t.Headers {
		b.WriteString("<th>")
		b.WriteString(escape(h))
		b.WriteString("</th>")
	}
	b.WriteString("</tr></thead><tbody>")
	for _, row := range t.Rows {
		b.WriteString("<tr>")
		for _, cell := range row {
			b.WriteString("<td>")
			b.WriteString(escape(cell))
			b.WriteString("</td>")
		}
		b.WriteString("</tr>")
	}
	b.WriteString("</tbody></table>")
	return b.String()
}

// escape protects cell text that itself contains markup characters.
func escape(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	return strings.ReplaceAll(s, ">", "&gt;")
}
