package snowgrid

import "strings"

// Table is the result of a single extraction: one header row plus ordered
// data rows. Both fields empty means no usable table was found — that is a
// normal outcome, not an error.
//
// Rows are stored at whatever width they were parsed with. Callers that
// index columns positionally must call Rectangle first.
type Table struct {
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`
}

// Empty reports whether the table carries no content at all.
func (t *Table) Empty() bool {
	return len(t.Headers) == 0 && len(t.Rows) == 0
}

// Rectangle returns a copy of the table with every row padded or truncated
// to the header width, making positional column access safe. A table without
// headers is returned as a plain copy.
func (t *Table) Rectangle() *Table {
	out := &Table{Headers: append([]string(nil), t.Headers...)}
	width := len(t.Headers)

	for _, row := range t.Rows {
		r := append([]string(nil), row...)
		if width > 0 {
			for len(r) < width {
				r = append(r, "")
			}
			if len(r) > width {
				r = r[:width]
			}
		}
		out.Rows = append(out.Rows, r)
	}
	return out
}

// FindColumn returns the index of the first header whose text contains name
// (case-insensitive), or -1 if no header matches.
func FindColumn(headers []string, name string) int {
	name = strings.ToLower(name)
	for i, h := range headers {
		if strings.Contains(strings.ToLower(h), name) {
			return i
		}
	}
	return -1
}

// groupColumnFallback is the column position assignment-group data usually
// occupies in exported reports when the header is unlabeled.
const groupColumnFallback = 3

// groupValueMinLen is the minimum sampled value length for the fallback
// column to be accepted as assignment-group data.
const groupValueMinLen = 2

// GroupColumnIndex locates the assignment-group column of a table: first by
// header name, then by a fixed fallback position accepted only if the first
// few rows hold values longer than a minimum length. Returns -1 if neither
// strategy finds one.
func GroupColumnIndex(t *Table) int {
	if i := FindColumn(t.Headers, "assignmentgroup"); i >= 0 {
		return i
	}
	if i := FindColumn(t.Headers, "assignment"); i >= 0 {
		return i
	}

	if len(t.Headers) <= groupColumnFallback {
		return -1
	}
	for _, row := range t.Rows[:min(3, len(t.Rows))] {
		if len(row) <= groupColumnFallback {
			continue
		}
		if v := strings.TrimSpace(row[groupColumnFallback]); len(v) > groupValueMinLen {
			return groupColumnFallback
		}
	}
	return -1
}
