package confluence

import (
	"strconv"
	"strings"

	"github.com/beevik/etree"
	"github.com/jfelczak/snowgrid"
)

// Highlight colors for severity-bearing cells. Confluence strips style
// attributes from table cells, so the color rides on an inner span instead.
const (
	colorHigh   = "#ffcccc"
	colorMedium = "#ffe6cc"
	colorLow    = "#ccffcc"
)

// severityColumns names the header substrings whose cells get highlighted.
var severityColumns = []string{"impact", "risk"}

// SummaryBody renders a change-summary page body in Confluence storage
// format: a heading, a compact call-out table of counts, and the full table
// inside a collapsible expand macro so long listings do not dominate the
// page.
func SummaryBody(table *snowgrid.Table, heading string) (string, error) {
	if table.Empty() {
		return "", snowgrid.Errorf(snowgrid.ENOTFOUND, "no table content to publish")
	}
	rect := table.Rectangle()

	doc := etree.NewDocument()

	h2 := doc.CreateElement("h2")
	h2.SetText(heading)

	callout := doc.CreateElement("table")
	callout.CreateAttr("data-layout", "default")
	calloutBody := callout.CreateElement("tbody")
	writeCalloutRow(calloutBody, "Total changes", strconv.Itoa(len(rect.Rows)))
	for _, name := range severityColumns {
		if col := snowgrid.FindColumn(rect.Headers, name); col >= 0 {
			writeCalloutRow(calloutBody, "High "+strings.ToLower(rect.Headers[col]), strconv.Itoa(countHigh(rect, col)))
		}
	}

	macro := doc.CreateElement("ac:structured-macro")
	macro.CreateAttr("ac:name", "expand")
	param := macro.CreateElement("ac:parameter")
	param.CreateAttr("ac:name", "title")
	param.SetText("Full change listing")
	richBody := macro.CreateElement("ac:rich-text-body")
	writeTable(richBody, rect)

	return doc.WriteToString()
}

// TableBody renders just the table in storage format, without the summary
// scaffolding.
func TableBody(table *snowgrid.Table) (string, error) {
	if table.Empty() {
		return "", snowgrid.Errorf(snowgrid.ENOTFOUND, "no table content to publish")
	}

	doc := etree.NewDocument()
	writeTable(&doc.Element, table.Rectangle())
	return doc.WriteToString()
}

// writeTable appends a storage-format table to parent, highlighting cells in
// severity columns.
func writeTable(parent *etree.Element, t *snowgrid.Table) {
	el := parent.CreateElement("table")
	el.CreateAttr("data-layout", "default")

	severity := make(map[int]bool)
	for _, name := range severityColumns {
		if col := snowgrid.FindColumn(t.Headers, name); col >= 0 {
			severity[col] = true
		}
	}

	thead := el.CreateElement("thead")
	headerRow := thead.CreateElement("tr")
	for _, h := range t.Headers {
		th := headerRow.CreateElement("th")
		strong := th.CreateElement("strong")
		strong.SetText(h)
	}

	tbody := el.CreateElement("tbody")
	for _, row := range t.Rows {
		tr := tbody.CreateElement("tr")
		for col, value := range row {
			td := tr.CreateElement("td")
			if severity[col] && value != "" {
				span := td.CreateElement("span")
				span.CreateAttr("style", "background-color: "+severityColor(value)+";")
				span.SetText(value)
			} else {
				td.SetText(value)
			}
		}
	}
}

// writeCalloutRow appends a label/value row to the call-out table body.
func writeCalloutRow(tbody *etree.Element, label, value string) {
	tr := tbody.CreateElement("tr")
	th := tr.CreateElement("th")
	th.SetText(label)
	td := tr.CreateElement("td")
	td.SetText(value)
}

// severityColor maps a severity value to its highlight color.
func severityColor(value string) string {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "high", "critical", "1 - high", "1":
		return colorHigh
	case "medium", "moderate", "2 - medium", "2":
		return colorMedium
	default:
		return colorLow
	}
}

// countHigh counts rows whose value in col maps to the high highlight.
func countHigh(t *snowgrid.Table, col int) int {
	n := 0
	for _, row := range t.Rows {
		if severityColor(row[col]) == colorHigh {
			n++
		}
	}
	return n
}
