package policy

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/opsdesk/operations-api/internal/domain"
)

func actorWithRole(role domain.Role) *Actor {
	return &Actor{ID: uuid.New(), Role: role, IsActive: true}
}

func TestEvaluate_Unauthenticated(t *testing.T) {
	tests := []struct {
		name  string
		actor *Actor
	}{
		{"nil actor", nil},
		{"inactive actor", &Actor{ID: uuid.New(), Role: domain.RoleAdmin, IsActive: false}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Evaluate(tt.actor, ActionRead, ResourceClient, Context{})
			assert.False(t, d.Allowed)
			assert.Equal(t, ReasonNotAuthenticated, d.Reason)
		})
	}
}

func TestEvaluate_AdminAllowsEverythingExceptSelfDelete(t *testing.T) {
	admin := actorWithRole(domain.RoleAdmin)

	d := Evaluate(admin, ActionDelete, ResourceClient, Context{})
	assert.True(t, d.Allowed)

	d = Evaluate(admin, ActionReimburse, ResourceExpense, Context{
		Status: string(domain.ExpenseStatusSubmitted),
	})
	assert.True(t, d.Allowed, "admin bypasses state checks")

	other := uuid.New()
	d = Evaluate(admin, ActionDelete, ResourceUser, Context{OwnerID: &other})
	assert.True(t, d.Allowed)

	d = Evaluate(admin, ActionDelete, ResourceUser, Context{OwnerID: &admin.ID})
	assert.False(t, d.Allowed, "self-deletion is always denied")
	assert.Equal(t, ReasonInsufficientRole, d.Reason)
}

func TestEvaluate_ClientWrites(t *testing.T) {
	tests := []struct {
		role    domain.Role
		action  Action
		allowed bool
	}{
		{domain.RoleManager, ActionCreate, true},
		{domain.RoleManager, ActionUpdate, true},
		{domain.RoleManager, ActionDelete, true},
		{domain.RoleEmployee, ActionCreate, false},
		{domain.RoleEmployee, ActionRead, true},
		{domain.RoleFinance, ActionUpdate, false},
		{domain.RoleFinance, ActionRead, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.role)+" "+string(tt.action), func(t *testing.T) {
			d := Evaluate(actorWithRole(tt.role), tt.action, ResourceClient, Context{})
			assert.Equal(t, tt.allowed, d.Allowed)
			if !tt.allowed {
				assert.Equal(t, ReasonInsufficientRole, d.Reason)
			}
		})
	}
}

func TestEvaluate_QuotationWrites(t *testing.T) {
	d := Evaluate(actorWithRole(domain.RoleEmployee), ActionUpdate, ResourceQuotation, Context{})
	assert.False(t, d.Allowed)
	assert.Equal(t, ReasonInsufficientRole, d.Reason)

	d = Evaluate(actorWithRole(domain.RoleManager), ActionCreate, ResourceQuotation, Context{})
	assert.True(t, d.Allowed)

	d = Evaluate(actorWithRole(domain.RoleEmployee), ActionRead, ResourceQuotation, Context{})
	assert.True(t, d.Allowed)
}

func TestEvaluate_TaskReadScopedForEmployees(t *testing.T) {
	employee := actorWithRole(domain.RoleEmployee)
	other := uuid.New()

	d := Evaluate(employee, ActionRead, ResourceTask, Context{OwnerID: &other})
	assert.False(t, d.Allowed)
	assert.Equal(t, ReasonNotOwner, d.Reason)

	d = Evaluate(employee, ActionRead, ResourceTask, Context{OwnerID: &employee.ID})
	assert.True(t, d.Allowed)

	d = Evaluate(employee, ActionRead, ResourceTask, Context{
		OwnerID:    &other,
		AssigneeID: &employee.ID,
	})
	assert.True(t, d.Allowed, "assignee may read")

	d = Evaluate(actorWithRole(domain.RoleManager), ActionRead, ResourceTask, Context{OwnerID: &other})
	assert.True(t, d.Allowed)
}

func TestEvaluate_TaskDelete(t *testing.T) {
	employee := actorWithRole(domain.RoleEmployee)
	other := uuid.New()

	d := Evaluate(employee, ActionDelete, ResourceTask, Context{OwnerID: &employee.ID})
	assert.True(t, d.Allowed, "owner may delete")

	d = Evaluate(employee, ActionDelete, ResourceTask, Context{OwnerID: &other, AssigneeID: &employee.ID})
	assert.False(t, d.Allowed, "assignee alone may not delete")
	assert.Equal(t, ReasonNotOwner, d.Reason)

	d = Evaluate(actorWithRole(domain.RoleManager), ActionDelete, ResourceTask, Context{OwnerID: &other})
	assert.True(t, d.Allowed)
}

func TestEvaluate_TaskAssign(t *testing.T) {
	employee := actorWithRole(domain.RoleEmployee)
	other := uuid.New()

	d := Evaluate(employee, ActionAssign, ResourceTask, Context{AssignTargetID: &employee.ID})
	assert.True(t, d.Allowed, "employee self-assign")

	d = Evaluate(employee, ActionAssign, ResourceTask, Context{AssignTargetID: &other})
	assert.False(t, d.Allowed)
	assert.Equal(t, ReasonInsufficientRole, d.Reason)

	d = Evaluate(actorWithRole(domain.RoleFinance), ActionAssign, ResourceTask, Context{AssignTargetID: &other})
	assert.True(t, d.Allowed)
}

func TestEvaluate_ExpenseReadUpdateScopedForEmployees(t *testing.T) {
	employee := actorWithRole(domain.RoleEmployee)
	other := uuid.New()

	d := Evaluate(employee, ActionRead, ResourceExpense, Context{SubmitterID: &other})
	assert.False(t, d.Allowed)
	assert.Equal(t, ReasonNotOwner, d.Reason)

	d = Evaluate(employee, ActionUpdate, ResourceExpense, Context{SubmitterID: &employee.ID})
	assert.True(t, d.Allowed)

	d = Evaluate(actorWithRole(domain.RoleManager), ActionUpdate, ResourceExpense, Context{SubmitterID: &other})
	assert.True(t, d.Allowed)
}

func TestEvaluate_ExpenseApproveReject(t *testing.T) {
	manager := actorWithRole(domain.RoleManager)

	d := Evaluate(manager, ActionApprove, ResourceExpense, Context{
		Status: string(domain.ExpenseStatusSubmitted),
	})
	assert.True(t, d.Allowed)

	d = Evaluate(manager, ActionReject, ResourceExpense, Context{
		Status: string(domain.ExpenseStatusApproved),
	})
	assert.False(t, d.Allowed)
	assert.Equal(t, ReasonStateConflict, d.Reason)

	d = Evaluate(actorWithRole(domain.RoleFinance), ActionApprove, ResourceExpense, Context{
		Status: string(domain.ExpenseStatusSubmitted),
	})
	assert.False(t, d.Allowed)
	assert.Equal(t, ReasonInsufficientRole, d.Reason)
}

func TestEvaluate_ExpenseReimburse(t *testing.T) {
	finance := actorWithRole(domain.RoleFinance)

	d := Evaluate(finance, ActionReimburse, ResourceExpense, Context{
		Status: string(domain.ExpenseStatusApproved),
	})
	assert.True(t, d.Allowed)

	d = Evaluate(finance, ActionReimburse, ResourceExpense, Context{
		Status: string(domain.ExpenseStatusSubmitted),
	})
	assert.False(t, d.Allowed)
	assert.Equal(t, ReasonStateConflict, d.Reason)

	d = Evaluate(actorWithRole(domain.RoleManager), ActionReimburse, ResourceExpense, Context{
		Status: string(domain.ExpenseStatusApproved),
	})
	assert.False(t, d.Allowed)
	assert.Equal(t, ReasonInsufficientRole, d.Reason)
}

func TestEvaluate_ExpenseDirectStatusWrite(t *testing.T) {
	tests := []struct {
		name    string
		role    domain.Role
		status  domain.ExpenseStatus
		target  domain.ExpenseStatus
		allowed bool
		reason  Reason
	}{
		{"manager approves", domain.RoleManager, domain.ExpenseStatusSubmitted, domain.ExpenseStatusApproved, true, ""},
		{"manager rejects", domain.RoleManager, domain.ExpenseStatusSubmitted, domain.ExpenseStatusRejected, true, ""},
		{"manager cannot reimburse", domain.RoleManager, domain.ExpenseStatusApproved, domain.ExpenseStatusReimbursed, false, ReasonInsufficientRole},
		{"manager needs submitted", domain.RoleManager, domain.ExpenseStatusRejected, domain.ExpenseStatusApproved, false, ReasonStateConflict},
		{"finance reimburses", domain.RoleFinance, domain.ExpenseStatusApproved, domain.ExpenseStatusReimbursed, true, ""},
		{"finance cannot approve", domain.RoleFinance, domain.ExpenseStatusSubmitted, domain.ExpenseStatusApproved, false, ReasonInsufficientRole},
		{"finance needs approved", domain.RoleFinance, domain.ExpenseStatusSubmitted, domain.ExpenseStatusReimbursed, false, ReasonStateConflict},
		{"employee denied", domain.RoleEmployee, domain.ExpenseStatusSubmitted, domain.ExpenseStatusApproved, false, ReasonInsufficientRole},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actor := actorWithRole(tt.role)
			d := Evaluate(actor, ActionUpdate, ResourceExpense, Context{
				SubmitterID:  &actor.ID,
				Status:       string(tt.status),
				TargetStatus: string(tt.target),
			})
			assert.Equal(t, tt.allowed, d.Allowed)
			if !tt.allowed {
				assert.Equal(t, tt.reason, d.Reason)
			}
		})
	}
}

func TestEvaluate_ExpenseDelete(t *testing.T) {
	now := time.Now()
	fresh := now.Add(-24 * time.Hour)
	stale := now.Add(-15 * 24 * time.Hour)
	other := uuid.New()

	employee := actorWithRole(domain.RoleEmployee)

	d := Evaluate(employee, ActionDelete, ResourceExpense, Context{
		SubmitterID: &employee.ID,
		Status:      string(domain.ExpenseStatusSubmitted),
		CreatedAt:   fresh,
		Now:         now,
	})
	assert.True(t, d.Allowed, "employee deletes own submitted expense")

	d = Evaluate(employee, ActionDelete, ResourceExpense, Context{
		SubmitterID: &employee.ID,
		Status:      string(domain.ExpenseStatusApproved),
		CreatedAt:   fresh,
		Now:         now,
	})
	assert.False(t, d.Allowed)
	assert.Equal(t, ReasonStateConflict, d.Reason)

	d = Evaluate(employee, ActionDelete, ResourceExpense, Context{
		SubmitterID: &other,
		Status:      string(domain.ExpenseStatusSubmitted),
		CreatedAt:   fresh,
		Now:         now,
	})
	assert.False(t, d.Allowed)
	assert.Equal(t, ReasonNotOwner, d.Reason)

	manager := actorWithRole(domain.RoleManager)

	d = Evaluate(manager, ActionDelete, ResourceExpense, Context{
		SubmitterID: &other,
		Status:      string(domain.ExpenseStatusApproved),
		CreatedAt:   fresh,
		Now:         now,
	})
	assert.True(t, d.Allowed, "manager deletes any non-reimbursed expense")

	d = Evaluate(manager, ActionDelete, ResourceExpense, Context{
		SubmitterID: &other,
		Status:      string(domain.ExpenseStatusReimbursed),
		CreatedAt:   stale,
		Now:         now,
	})
	assert.False(t, d.Allowed)
	assert.Equal(t, ReasonStateConflict, d.Reason)

	finance := actorWithRole(domain.RoleFinance)

	d = Evaluate(finance, ActionDelete, ResourceExpense, Context{
		SubmitterID: &other,
		Status:      string(domain.ExpenseStatusReimbursed),
		CreatedAt:   stale,
		Now:         now,
	})
	assert.True(t, d.Allowed, "finance deletes records older than two weeks")

	d = Evaluate(finance, ActionDelete, ResourceExpense, Context{
		SubmitterID: &other,
		Status:      string(domain.ExpenseStatusReimbursed),
		CreatedAt:   fresh,
		Now:         now,
	})
	assert.False(t, d.Allowed)
	assert.Equal(t, ReasonStateConflict, d.Reason)
}

func TestEvaluate_UserProfileAccess(t *testing.T) {
	employee := actorWithRole(domain.RoleEmployee)
	other := uuid.New()

	d := Evaluate(employee, ActionRead, ResourceUser, Context{OwnerID: &employee.ID})
	assert.True(t, d.Allowed, "own profile readable")

	d = Evaluate(employee, ActionRead, ResourceUser, Context{OwnerID: &other})
	assert.False(t, d.Allowed)
	assert.Equal(t, ReasonInsufficientRole, d.Reason)

	d = Evaluate(employee, ActionUpdate, ResourceUser, Context{OwnerID: &employee.ID})
	assert.True(t, d.Allowed, "own profile updatable")

	d = Evaluate(employee, ActionUpdate, ResourceUser, Context{OwnerID: &employee.ID, RoleChange: true})
	assert.False(t, d.Allowed, "role changes are admin only")

	d = Evaluate(employee, ActionDelete, ResourceUser, Context{OwnerID: &employee.ID})
	assert.False(t, d.Allowed, "self-deletion denied")

	d = Evaluate(employee, ActionCreate, ResourceUser, Context{})
	assert.False(t, d.Allowed)
}
