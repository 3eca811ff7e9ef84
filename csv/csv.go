// Package csv serializes extracted tables to CSV and loads the supporting
// contact directory files.
package csv

import (
	stdcsv "encoding/csv"
	"io"

	"github.com/jfelczak/snowgrid"
)

// WriteTable writes a table as CSV: header row first (when present), then
// data rows. Rows are rectangularized against the header width first, so
// the output is always a valid rectangular CSV.
func WriteTable(w io.Writer, t *snowgrid.Table) error {
	if t.Empty() {
		return snowgrid.Errorf(snowgrid.ENOTFOUND, "no table data to write")
	}

	rect := t.Rectangle()
	cw := stdcsv.NewWriter(w)

	if len(rect.Headers) > 0 {
		if err := cw.Write(rect.Headers); err != nil {
			return err
		}
	}
	for _, row := range rect.Rows {
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// ReadTable reads a CSV document back into a table. The first record is
// taken as the header row.
func ReadTable(r io.Reader) (*snowgrid.Table, error) {
	cr := stdcsv.NewReader(r)
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, snowgrid.Errorf(snowgrid.EINVALID, "invalid CSV: %v", err)
	}
	if len(records) == 0 {
		return nil, snowgrid.Errorf(snowgrid.ENOTFOUND, "CSV is empty")
	}

	return &snowgrid.Table{
		Headers: records[0],
		Rows:    records[1:],
	}, nil
}
