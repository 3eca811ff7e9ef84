package csv

import (
	stdcsv "encoding/csv"
	"io"
	"strings"

	"github.com/jfelczak/snowgrid"
)

// Columns a contact directory file must carry.
var requiredColumns = []string{"AssignmentGroup", "Contact", "Email"}

// Ensure Directory implements snowgrid.ContactDirectory at compile time.
var _ snowgrid.ContactDirectory = (*Directory)(nil)

// Directory is an in-memory contact directory loaded from CSV.
type Directory struct {
	contacts map[string]snowgrid.Contact
}

// LoadDirectory reads a contact directory from CSV. The file must carry
// AssignmentGroup, Contact and Email columns; rows with a blank group are
// skipped.
func LoadDirectory(r io.Reader) (*Directory, error) {
	cr := stdcsv.NewReader(r)
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, snowgrid.Errorf(snowgrid.EINVALID, "invalid contact CSV: %v", err)
	}
	if len(records) == 0 {
		return nil, snowgrid.Errorf(snowgrid.EINVALID, "contact CSV is empty")
	}

	cols := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		cols[strings.TrimSpace(name)] = i
	}
	for _, name := range requiredColumns {
		if _, ok := cols[name]; !ok {
			return nil, snowgrid.Errorf(snowgrid.EINVALID, "contact CSV missing required column %q", name)
		}
	}

	d := &Directory{contacts: make(map[string]snowgrid.Contact)}
	for _, rec := range records[1:] {
		group := field(rec, cols["AssignmentGroup"])
		if group == "" {
			continue
		}
		d.contacts[group] = snowgrid.Contact{
			Group: group,
			Name:  field(rec, cols["Contact"]),
			Email: field(rec, cols["Email"]),
		}
	}

	return d, nil
}

// Lookup returns the contact for a group.
func (d *Directory) Lookup(group string) (snowgrid.Contact, bool) {
	c, ok := d.contacts[group]
	return c, ok
}

// Len returns the number of loaded mappings.
func (d *Directory) Len() int {
	return len(d.contacts)
}

func field(rec []string, i int) string {
	if i < len(rec) {
		return strings.TrimSpace(rec[i])
	}
	return ""
}
