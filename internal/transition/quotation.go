package transition

import (
	"time"

	"github.com/opsdesk/operations-api/internal/domain"
)

// quotationEdges lists the allowed quotation status transitions.
var quotationEdges = map[domain.QuotationStatus][]domain.QuotationStatus{
	domain.QuotationStatusDraft: {domain.QuotationStatusSent},
	domain.QuotationStatusSent:  {domain.QuotationStatusAccepted, domain.QuotationStatusRejected},
}

func quotationEdgeAllowed(from, to domain.QuotationStatus) bool {
	for _, s := range quotationEdges[from] {
		if s == to {
			return true
		}
	}
	return false
}

// QuotationChanges is a partial update; nil fields keep their current
// value. Version is engine-owned and deliberately absent: the repository
// assigns it at creation and it never changes afterwards.
type QuotationChanges struct {
	Title       *string
	Description *string
	Amount      *float64
	ValidUntil  *time.Time
	Status      *domain.QuotationStatus
}

// ApplyQuotation merges changes into a quotation snapshot. Entering sent
// stamps SentAt once; the stamp survives later transitions.
func ApplyQuotation(current domain.Quotation, ch QuotationChanges, now time.Time) (domain.Quotation, error) {
	next := current

	if ch.Title != nil {
		next.Title = *ch.Title
	}
	if ch.Description != nil {
		next.Description = *ch.Description
	}
	if ch.Amount != nil {
		if *ch.Amount < 0 {
			return current, ErrInvalidValue
		}
		next.Amount = *ch.Amount
	}
	if ch.ValidUntil != nil {
		t := *ch.ValidUntil
		next.ValidUntil = &t
	}

	if ch.Status != nil && *ch.Status != current.Status {
		if !ch.Status.IsValid() {
			return current, ErrInvalidValue
		}
		if !quotationEdgeAllowed(current.Status, *ch.Status) {
			return current, ErrInvalidTransition
		}
		next.Status = *ch.Status
		if next.Status == domain.QuotationStatusSent && next.SentAt == nil {
			t := now
			next.SentAt = &t
		}
	}

	return next, nil
}
