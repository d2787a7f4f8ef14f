package transition

import (
	"time"

	"github.com/opsdesk/operations-api/internal/domain"
)

// clientEdges lists the allowed client status transitions.
var clientEdges = map[domain.ClientStatus][]domain.ClientStatus{
	domain.ClientStatusPending:  {domain.ClientStatusActive, domain.ClientStatusInactive},
	domain.ClientStatusActive:   {domain.ClientStatusInactive},
	domain.ClientStatusInactive: {domain.ClientStatusActive},
}

func clientEdgeAllowed(from, to domain.ClientStatus) bool {
	for _, s := range clientEdges[from] {
		if s == to {
			return true
		}
	}
	return false
}

// ClientChanges is a partial update; nil fields keep their current value.
type ClientChanges struct {
	Name       *string
	OrgNumber  *string
	Email      *string
	Phone      *string
	Address    *string
	City       *string
	PostalCode *string
	Country    *string
	Notes      *string
	Status     *domain.ClientStatus
}

// ApplyClient merges changes into a client snapshot. The first
// transition into active stamps OnboardedAt; re-entering active later
// leaves the original stamp untouched.
func ApplyClient(current domain.Client, ch ClientChanges, now time.Time) (domain.Client, error) {
	next := current

	if ch.Name != nil {
		next.Name = *ch.Name
	}
	if ch.OrgNumber != nil {
		next.OrgNumber = *ch.OrgNumber
	}
	if ch.Email != nil {
		next.Email = *ch.Email
	}
	if ch.Phone != nil {
		next.Phone = *ch.Phone
	}
	if ch.Address != nil {
		next.Address = *ch.Address
	}
	if ch.City != nil {
		next.City = *ch.City
	}
	if ch.PostalCode != nil {
		next.PostalCode = *ch.PostalCode
	}
	if ch.Country != nil {
		next.Country = *ch.Country
	}
	if ch.Notes != nil {
		next.Notes = *ch.Notes
	}

	if ch.Status != nil && *ch.Status != current.Status {
		if !ch.Status.IsValid() {
			return current, ErrInvalidValue
		}
		if !clientEdgeAllowed(current.Status, *ch.Status) {
			return current, ErrInvalidTransition
		}
		next.Status = *ch.Status
		if next.Status == domain.ClientStatusActive && next.OnboardedAt == nil {
			t := now
			next.OnboardedAt = &t
		}
	}

	return next, nil
}
