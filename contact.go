package snowgrid

// Contact is the ownership record for one assignment group.
type Contact struct {
	Group string `json:"group"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// ContactDirectory resolves an assignment group to its contact.
type ContactDirectory interface {
	// Lookup returns the contact for a group. The second return value is
	// false when the group has no mapping.
	Lookup(group string) (Contact, bool)
}
