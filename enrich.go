package snowgrid

import "strings"

// Placeholder written into the Owner and Email columns when an assignment
// group has no directory entry.
const ContactNotFound = "Not Found"

// EnrichStats summarizes one enrichment pass.
type EnrichStats struct {
	Found    int
	NotFound int
}

// EnrichTable replaces the first two columns of a table with Owner and Email
// values looked up from the contact directory, keyed by the assignment-group
// column. The input table is not modified; the result is rectangularized so
// every row can be indexed positionally.
//
// Returns ENOTFOUND if no assignment-group column can be located.
func EnrichTable(t *Table, dir ContactDirectory) (*Table, *EnrichStats, error) {
	groupCol := GroupColumnIndex(t)
	if groupCol < 0 {
		return nil, nil, Errorf(ENOTFOUND, "assignment group column not found (headers: %s)", strings.Join(t.Headers, ", "))
	}

	out := t.Rectangle()
	if len(out.Headers) > 0 {
		out.Headers[0] = "Owner"
	}
	if len(out.Headers) > 1 {
		out.Headers[1] = "Email"
	}

	stats := &EnrichStats{}
	for _, row := range out.Rows {
		group := ""
		if groupCol < len(row) {
			group = strings.TrimSpace(row[groupCol])
		}

		owner, email := ContactNotFound, ContactNotFound
		if c, ok := lookup(dir, group); ok {
			owner, email = c.Name, c.Email
			stats.Found++
		} else {
			stats.NotFound++
		}

		if len(row) > 0 {
			row[0] = owner
		}
		if len(row) > 1 {
			row[1] = email
		}
	}

	return out, stats, nil
}

func lookup(dir ContactDirectory, group string) (Contact, bool) {
	if group == "" {
		return Contact{}, false
	}
	return dir.Lookup(group)
}
