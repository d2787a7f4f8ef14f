// Package policy decides whether an actor may perform an action on a
// resource. Evaluation is a pure function over the actor and a snapshot
// of the target entity; it never touches storage.
package policy

import (
	"time"

	"github.com/google/uuid"

	"github.com/opsdesk/operations-api/internal/domain"
)

// Action is a verb an actor attempts against a resource.
type Action string

const (
	ActionRead      Action = "read"
	ActionCreate    Action = "create"
	ActionUpdate    Action = "update"
	ActionDelete    Action = "delete"
	ActionApprove   Action = "approve"
	ActionReject    Action = "reject"
	ActionReimburse Action = "reimburse"
	ActionAssign    Action = "assign"
)

// Resource is the kind of entity an action targets.
type Resource string

const (
	ResourceClient         Resource = "client"
	ResourceContact        Resource = "contact"
	ResourceQuotation      Resource = "quotation"
	ResourceServiceHistory Resource = "service_history"
	ResourceTechnicalDoc   Resource = "technical_doc"
	ResourceTask           Resource = "task"
	ResourceExpense        Resource = "expense"
	ResourceUser           Resource = "user"
)

// Reason is the machine-readable cause of a denial.
type Reason string

const (
	ReasonNotAuthenticated Reason = "not_authenticated"
	ReasonInsufficientRole Reason = "insufficient_role"
	ReasonNotOwner         Reason = "not_owner"
	ReasonStateConflict    Reason = "state_conflict"
)

// Actor is the authenticated principal requesting an action.
type Actor struct {
	ID       uuid.UUID
	Role     domain.Role
	IsActive bool
}

// Context carries the pre-transition snapshot fields the rules consult.
// Only the fields relevant to the targeted resource need to be set.
type Context struct {
	// OwnerID is the task owner or the target user's own id.
	OwnerID *uuid.UUID
	// AssigneeID is the task assignee, when one is set.
	AssigneeID *uuid.UUID
	// SubmitterID is the expense submitter.
	SubmitterID *uuid.UUID
	// Status is the entity's current status.
	Status string
	// TargetStatus is the status a direct update tries to write, empty
	// when the update does not touch status.
	TargetStatus string
	// AssignTargetID is the user a task is being assigned to.
	AssignTargetID *uuid.UUID
	// RoleChange marks a user update that modifies the role field.
	RoleChange bool
	// CreatedAt is the entity's creation time.
	CreatedAt time.Time
	// Now is the evaluation time.
	Now time.Time
}

// Decision is the outcome of an evaluation. Reason is set only on denial.
type Decision struct {
	Allowed bool
	Reason  Reason
}

func allow() Decision             { return Decision{Allowed: true} }
func deny(reason Reason) Decision { return Decision{Reason: reason} }

func is(a *Actor, id uuid.UUID) bool { return a.ID == id }

// expenseDeleteAge is the minimum record age before finance may delete.
const expenseDeleteAge = 14 * 24 * time.Hour

// Evaluate runs the ordered rule checks for one action. The first
// matching deny wins; rules never consult storage.
func Evaluate(actor *Actor, action Action, resource Resource, ctx Context) Decision {
	if actor == nil || !actor.IsActive {
		return deny(ReasonNotAuthenticated)
	}

	// Nobody deletes their own user record, admins included.
	if resource == ResourceUser && action == ActionDelete &&
		ctx.OwnerID != nil && is(actor, *ctx.OwnerID) {
		return deny(ReasonInsufficientRole)
	}

	if actor.Role == domain.RoleAdmin {
		return allow()
	}

	switch resource {
	case ResourceUser:
		return evaluateUser(actor, action, ctx)
	case ResourceClient:
		return evaluateClient(actor, action)
	case ResourceContact, ResourceServiceHistory, ResourceTechnicalDoc:
		// Client-owned records: readable and writable by any active role.
		return allow()
	case ResourceQuotation:
		return evaluateQuotation(actor, action)
	case ResourceTask:
		return evaluateTask(actor, action, ctx)
	case ResourceExpense:
		return evaluateExpense(actor, action, ctx)
	}
	return deny(ReasonInsufficientRole)
}

func evaluateUser(actor *Actor, action Action, ctx Context) Decision {
	self := ctx.OwnerID != nil && is(actor, *ctx.OwnerID)
	switch action {
	case ActionRead:
		if self {
			return allow()
		}
	case ActionUpdate:
		if self && !ctx.RoleChange {
			return allow()
		}
	}
	// Everything else on users is admin territory.
	return deny(ReasonInsufficientRole)
}

func evaluateClient(actor *Actor, action Action) Decision {
	if action == ActionRead {
		return allow()
	}
	if actor.Role == domain.RoleManager {
		return allow()
	}
	return deny(ReasonInsufficientRole)
}

func evaluateQuotation(actor *Actor, action Action) Decision {
	if action == ActionRead {
		return allow()
	}
	if actor.Role == domain.RoleManager {
		return allow()
	}
	return deny(ReasonInsufficientRole)
}

func evaluateTask(actor *Actor, action Action, ctx Context) Decision {
	owner := ctx.OwnerID != nil && is(actor, *ctx.OwnerID)
	assignee := ctx.AssigneeID != nil && is(actor, *ctx.AssigneeID)

	switch action {
	case ActionCreate:
		return allow()
	case ActionRead, ActionUpdate:
		if actor.Role == domain.RoleEmployee && !owner && !assignee {
			return deny(ReasonNotOwner)
		}
		return allow()
	case ActionDelete:
		if owner || actor.Role == domain.RoleManager {
			return allow()
		}
		return deny(ReasonNotOwner)
	case ActionAssign:
		if actor.Role == domain.RoleManager || actor.Role == domain.RoleFinance {
			return allow()
		}
		// Employees may only pick up tasks themselves.
		if ctx.AssignTargetID != nil && is(actor, *ctx.AssignTargetID) {
			return allow()
		}
		return deny(ReasonInsufficientRole)
	}
	return deny(ReasonInsufficientRole)
}

func evaluateExpense(actor *Actor, action Action, ctx Context) Decision {
	submitter := ctx.SubmitterID != nil && is(actor, *ctx.SubmitterID)

	switch action {
	case ActionCreate:
		return allow()
	case ActionRead:
		if actor.Role == domain.RoleEmployee && !submitter {
			return deny(ReasonNotOwner)
		}
		return allow()
	case ActionUpdate:
		if ctx.TargetStatus != "" {
			return evaluateExpenseStatusWrite(actor, ctx)
		}
		if actor.Role == domain.RoleManager {
			return allow()
		}
		if !submitter {
			return deny(ReasonNotOwner)
		}
		return allow()
	case ActionApprove, ActionReject:
		if actor.Role != domain.RoleManager {
			return deny(ReasonInsufficientRole)
		}
		if ctx.Status != string(domain.ExpenseStatusSubmitted) {
			return deny(ReasonStateConflict)
		}
		return allow()
	case ActionReimburse:
		if actor.Role != domain.RoleFinance {
			return deny(ReasonInsufficientRole)
		}
		if ctx.Status != string(domain.ExpenseStatusApproved) {
			return deny(ReasonStateConflict)
		}
		return allow()
	case ActionDelete:
		return evaluateExpenseDelete(actor, submitter, ctx)
	}
	return deny(ReasonInsufficientRole)
}

// evaluateExpenseStatusWrite gates status changes made through a plain
// update instead of the dedicated approve/reject/reimburse actions.
func evaluateExpenseStatusWrite(actor *Actor, ctx Context) Decision {
	switch actor.Role {
	case domain.RoleManager:
		if ctx.TargetStatus != string(domain.ExpenseStatusApproved) &&
			ctx.TargetStatus != string(domain.ExpenseStatusRejected) {
			return deny(ReasonInsufficientRole)
		}
		if ctx.Status != string(domain.ExpenseStatusSubmitted) {
			return deny(ReasonStateConflict)
		}
		return allow()
	case domain.RoleFinance:
		if ctx.TargetStatus != string(domain.ExpenseStatusReimbursed) {
			return deny(ReasonInsufficientRole)
		}
		if ctx.Status != string(domain.ExpenseStatusApproved) {
			return deny(ReasonStateConflict)
		}
		return allow()
	}
	return deny(ReasonInsufficientRole)
}

func evaluateExpenseDelete(actor *Actor, submitter bool, ctx Context) Decision {
	switch actor.Role {
	case domain.RoleManager:
		if ctx.Status == string(domain.ExpenseStatusReimbursed) {
			return deny(ReasonStateConflict)
		}
		return allow()
	case domain.RoleFinance:
		if ctx.Now.Sub(ctx.CreatedAt) < expenseDeleteAge {
			return deny(ReasonStateConflict)
		}
		return allow()
	case domain.RoleEmployee:
		if !submitter {
			return deny(ReasonNotOwner)
		}
		if ctx.Status != string(domain.ExpenseStatusSubmitted) {
			return deny(ReasonStateConflict)
		}
		return allow()
	}
	return deny(ReasonInsufficientRole)
}
