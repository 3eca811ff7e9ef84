// Package goquery provides DOM-level inspection of published Confluence
// pages, complementing the streaming extraction in htmltable with the
// selector queries a rendered page needs.
package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/jfelczak/snowgrid"
)

// CountEnabledStatuses counts "N/A" and "No" statuses in the Enabled column
// of the first table of a Confluence page. Status macros
// (span[data-macro-name=status]) are preferred over raw cell text, since the
// rendered macro body may carry extra markup around the status word.
//
// Returns ENOTFOUND if the page has no table, the table has no header row,
// or no Enabled column exists.
func CountEnabledStatuses(html string) (*snowgrid.Compliance, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, snowgrid.Errorf(snowgrid.EINVALID, "failed to parse HTML: %v", err)
	}

	table := doc.Find("table").First()
	if table.Length() == 0 {
		return nil, snowgrid.Errorf(snowgrid.ENOTFOUND, "no table found in page")
	}

	headerRow := table.Find("tr").First()
	if headerRow.Length() == 0 {
		return nil, snowgrid.Errorf(snowgrid.ENOTFOUND, "table has no header row")
	}

	enabledCol := -1
	headerRow.Find("th").Each(func(i int, sel *goquery.Selection) {
		if strings.TrimSpace(sel.Text()) == "Enabled" {
			if enabledCol < 0 {
				enabledCol = i
			}
		}
	})
	if enabledCol < 0 {
		return nil, snowgrid.Errorf(snowgrid.ENOTFOUND, "no Enabled column in table")
	}

	counts := &snowgrid.Compliance{}
	dataRows(table).Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td, th")
		if cells.Length() <= enabledCol {
			return
		}

		switch statusText(cells.Eq(enabledCol)) {
		case "N/A":
			counts.NA++
		case "No":
			counts.No++
		}
	})

	return counts, nil
}

// dataRows returns the rows after the header: rows of tbody when one
// exists, otherwise every row but the first.
func dataRows(table *goquery.Selection) *goquery.Selection {
	rows := table.Find("tr")
	if tbody := table.Find("tbody").First(); tbody.Length() > 0 {
		rows = tbody.Find("tr")
	}
	if rows.Length() < 2 {
		return rows.Slice(0, 0)
	}
	return rows.Slice(1, goquery.ToEnd)
}

// statusText resolves a cell's status: the status macro's text when the
// cell carries one, the trimmed cell text otherwise.
func statusText(cell *goquery.Selection) string {
	if macro := cell.Find(`span[data-macro-name="status"]`).First(); macro.Length() > 0 {
		return strings.TrimSpace(macro.Text())
	}
	return strings.TrimSpace(cell.Text())
}
