package transition

import (
	"time"

	"github.com/google/uuid"

	"github.com/opsdesk/operations-api/internal/domain"
)

// expenseEdges lists the allowed expense status transitions. Rejected is
// terminal; reimbursement is only reachable through approval.
var expenseEdges = map[domain.ExpenseStatus][]domain.ExpenseStatus{
	domain.ExpenseStatusSubmitted: {domain.ExpenseStatusApproved, domain.ExpenseStatusRejected},
	domain.ExpenseStatusApproved:  {domain.ExpenseStatusReimbursed},
}

func expenseEdgeAllowed(from, to domain.ExpenseStatus) bool {
	for _, s := range expenseEdges[from] {
		if s == to {
			return true
		}
	}
	return false
}

// ExpenseChanges is a partial update; nil fields keep their current
// value. RejectReason is only consulted when the status change enters
// rejected.
type ExpenseChanges struct {
	Amount       *float64
	Category     *string
	Description  *string
	ReceiptURL   *string
	Notes        *string
	Status       *domain.ExpenseStatus
	RejectReason string
}

// ApplyExpense merges changes into an expense snapshot. Entering
// approved stamps the approver and approval time once; entering
// reimbursed stamps the reimburser and reimbursement time once.
// Rejection appends the reason to the notes instead of replacing them.
func ApplyExpense(current domain.Expense, ch ExpenseChanges, actorID uuid.UUID, now time.Time) (domain.Expense, error) {
	next := current

	if ch.Amount != nil {
		if *ch.Amount <= 0 {
			return current, ErrInvalidValue
		}
		next.Amount = *ch.Amount
	}
	if ch.Category != nil {
		next.Category = *ch.Category
	}
	if ch.Description != nil {
		next.Description = *ch.Description
	}
	if ch.ReceiptURL != nil {
		next.ReceiptURL = *ch.ReceiptURL
	}
	if ch.Notes != nil {
		next.Notes = *ch.Notes
	}

	if ch.Status != nil && *ch.Status != current.Status {
		if !ch.Status.IsValid() {
			return current, ErrInvalidValue
		}
		if !expenseEdgeAllowed(current.Status, *ch.Status) {
			return current, ErrInvalidTransition
		}
		next.Status = *ch.Status

		switch next.Status {
		case domain.ExpenseStatusApproved:
			if next.ApproverID == nil {
				id := actorID
				next.ApproverID = &id
			}
			if next.ApprovedAt == nil {
				t := now
				next.ApprovedAt = &t
			}
		case domain.ExpenseStatusRejected:
			if ch.RejectReason != "" {
				if next.Notes != "" {
					next.Notes += "\n"
				}
				next.Notes += "Rejected: " + ch.RejectReason
			}
		case domain.ExpenseStatusReimbursed:
			if next.ReimburserID == nil {
				id := actorID
				next.ReimburserID = &id
			}
			if next.ReimbursedAt == nil {
				t := now
				next.ReimbursedAt = &t
			}
		}
	}

	return next, nil
}
