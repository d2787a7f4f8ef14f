package transition

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opsdesk/operations-api/internal/domain"
)

func expStatusPtr(s domain.ExpenseStatus) *domain.ExpenseStatus { return &s }

func TestApplyExpense_Edges(t *testing.T) {
	now := time.Now()
	actor := uuid.New()

	tests := []struct {
		name string
		from domain.ExpenseStatus
		to   domain.ExpenseStatus
		ok   bool
	}{
		{"submitted to approved", domain.ExpenseStatusSubmitted, domain.ExpenseStatusApproved, true},
		{"submitted to rejected", domain.ExpenseStatusSubmitted, domain.ExpenseStatusRejected, true},
		{"approved to reimbursed", domain.ExpenseStatusApproved, domain.ExpenseStatusReimbursed, true},
		{"submitted to reimbursed", domain.ExpenseStatusSubmitted, domain.ExpenseStatusReimbursed, false},
		{"rejected to approved", domain.ExpenseStatusRejected, domain.ExpenseStatusApproved, false},
		{"reimbursed to submitted", domain.ExpenseStatusReimbursed, domain.ExpenseStatusSubmitted, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := domain.Expense{Status: tt.from}
			next, err := ApplyExpense(e, ExpenseChanges{Status: expStatusPtr(tt.to)}, actor, now)
			if tt.ok {
				require.NoError(t, err)
				assert.Equal(t, tt.to, next.Status)
			} else {
				assert.ErrorIs(t, err, ErrInvalidTransition)
			}
		})
	}
}

func TestApplyExpense_ApprovalStampsActor(t *testing.T) {
	now := time.Now()
	approver := uuid.New()
	e := domain.Expense{Status: domain.ExpenseStatusSubmitted}

	next, err := ApplyExpense(e, ExpenseChanges{Status: expStatusPtr(domain.ExpenseStatusApproved)}, approver, now)
	require.NoError(t, err)
	require.NotNil(t, next.ApproverID)
	assert.Equal(t, approver, *next.ApproverID)
	require.NotNil(t, next.ApprovedAt)
	assert.Equal(t, now, *next.ApprovedAt)
}

func TestApplyExpense_ReimbursementStampsActor(t *testing.T) {
	now := time.Now()
	approver := uuid.New()
	finance := uuid.New()
	approvedAt := now.Add(-time.Hour)

	e := domain.Expense{
		Status:     domain.ExpenseStatusApproved,
		ApproverID: &approver,
		ApprovedAt: &approvedAt,
	}

	next, err := ApplyExpense(e, ExpenseChanges{Status: expStatusPtr(domain.ExpenseStatusReimbursed)}, finance, now)
	require.NoError(t, err)
	require.NotNil(t, next.ReimburserID)
	assert.Equal(t, finance, *next.ReimburserID)
	require.NotNil(t, next.ReimbursedAt)
	assert.Equal(t, approver, *next.ApproverID, "approval stamp untouched")
	assert.Equal(t, approvedAt, *next.ApprovedAt)
}

func TestApplyExpense_RejectionAppendsNotes(t *testing.T) {
	e := domain.Expense{
		Status: domain.ExpenseStatusSubmitted,
		Notes:  "Team dinner",
	}

	next, err := ApplyExpense(e, ExpenseChanges{
		Status:       expStatusPtr(domain.ExpenseStatusRejected),
		RejectReason: "missing receipt",
	}, uuid.New(), time.Now())
	require.NoError(t, err)
	assert.Equal(t, "Team dinner\nRejected: missing receipt", next.Notes)
}

func TestApplyExpense_RejectionWithoutNotes(t *testing.T) {
	e := domain.Expense{Status: domain.ExpenseStatusSubmitted}

	next, err := ApplyExpense(e, ExpenseChanges{
		Status:       expStatusPtr(domain.ExpenseStatusRejected),
		RejectReason: "duplicate claim",
	}, uuid.New(), time.Now())
	require.NoError(t, err)
	assert.Equal(t, "Rejected: duplicate claim", next.Notes)
}

func TestApplyExpense_PartialMerge(t *testing.T) {
	e := domain.Expense{
		Status:   domain.ExpenseStatusSubmitted,
		Amount:   450,
		Category: "travel",
	}

	amount := 500.0
	next, err := ApplyExpense(e, ExpenseChanges{Amount: &amount}, uuid.New(), time.Now())
	require.NoError(t, err)
	assert.Equal(t, 500.0, next.Amount)
	assert.Equal(t, "travel", next.Category)
	assert.Equal(t, domain.ExpenseStatusSubmitted, next.Status)
}

func TestApplyExpense_NonPositiveAmountRejected(t *testing.T) {
	amount := 0.0
	_, err := ApplyExpense(domain.Expense{}, ExpenseChanges{Amount: &amount}, uuid.New(), time.Now())
	assert.ErrorIs(t, err, ErrInvalidValue)
}
