package transition

import (
	"github.com/opsdesk/operations-api/internal/domain"
)

// ContactChanges is a partial update; nil fields keep their current value.
type ContactChanges struct {
	FirstName *string
	LastName  *string
	Email     *string
	Phone     *string
	Title     *string
	IsPrimary *bool
}

// ApplyContact merges changes into a contact snapshot. When the change
// promotes the contact to primary, demoteOthers tells the caller to
// clear is_primary on the client's other contacts in the same
// transaction.
func ApplyContact(current domain.Contact, ch ContactChanges) (next domain.Contact, demoteOthers bool, err error) {
	next = current

	if ch.FirstName != nil {
		next.FirstName = *ch.FirstName
	}
	if ch.LastName != nil {
		next.LastName = *ch.LastName
	}
	if ch.Email != nil {
		next.Email = *ch.Email
	}
	if ch.Phone != nil {
		next.Phone = *ch.Phone
	}
	if ch.Title != nil {
		next.Title = *ch.Title
	}
	if ch.IsPrimary != nil {
		next.IsPrimary = *ch.IsPrimary
		demoteOthers = *ch.IsPrimary && !current.IsPrimary
	}

	return next, demoteOthers, nil
}
