package mock

import "github.com/jfelczak/snowgrid"

var _ snowgrid.ContactDirectory = (*ContactDirectory)(nil)

// ContactDirectory is a mock implementation of snowgrid.ContactDirectory.
type ContactDirectory struct {
	LookupFn func(group string) (snowgrid.Contact, bool)
}

func (d *ContactDirectory) Lookup(group string) (snowgrid.Contact, bool) {
	return d.LookupFn(group)
}
