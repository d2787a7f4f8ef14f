package transition

import (
	"time"

	"github.com/google/uuid"

	"github.com/opsdesk/operations-api/internal/domain"
)

// taskEdges lists the allowed task status transitions. pending may jump
// straight to completed because a 100 percent update closes the task
// regardless of whether anyone started it.
var taskEdges = map[domain.TaskStatus][]domain.TaskStatus{
	domain.TaskStatusPending:    {domain.TaskStatusInProgress, domain.TaskStatusCompleted},
	domain.TaskStatusInProgress: {domain.TaskStatusCompleted},
	domain.TaskStatusCompleted:  {domain.TaskStatusInProgress},
}

func taskEdgeAllowed(from, to domain.TaskStatus) bool {
	for _, s := range taskEdges[from] {
		if s == to {
			return true
		}
	}
	return false
}

// TaskChanges is a partial update; nil fields keep their current value.
type TaskChanges struct {
	Title                *string
	Description          *string
	Priority             *domain.TaskPriority
	AssigneeID           *uuid.UUID
	Status               *domain.TaskStatus
	CompletionPercentage *int
	DueDate              *time.Time
	ReminderAt           *time.Time
}

// ApplyTask merges changes into a task snapshot and repairs the
// status/percentage invariant: 100 percent means completed and anything
// less does not. Setting the first assignee on a pending task advances
// it to in_progress.
func ApplyTask(current domain.Task, ch TaskChanges, now time.Time) (domain.Task, error) {
	next := current

	if ch.Title != nil {
		next.Title = *ch.Title
	}
	if ch.Description != nil {
		next.Description = *ch.Description
	}
	if ch.Priority != nil {
		if !ch.Priority.IsValid() {
			return current, ErrInvalidValue
		}
		next.Priority = *ch.Priority
	}
	if ch.DueDate != nil {
		t := *ch.DueDate
		next.DueDate = &t
	}
	if ch.ReminderAt != nil {
		t := *ch.ReminderAt
		next.ReminderAt = &t
	}
	if ch.CompletionPercentage != nil {
		if *ch.CompletionPercentage < 0 || *ch.CompletionPercentage > 100 {
			return current, ErrInvalidValue
		}
		next.CompletionPercentage = *ch.CompletionPercentage
	}

	if ch.Status != nil && *ch.Status != current.Status {
		if !ch.Status.IsValid() {
			return current, ErrInvalidValue
		}
		if !taskEdgeAllowed(current.Status, *ch.Status) {
			return current, ErrInvalidTransition
		}
		next.Status = *ch.Status
	}

	if ch.AssigneeID != nil {
		id := *ch.AssigneeID
		next.AssigneeID = &id
		if current.AssigneeID == nil && ch.Status == nil && next.Status == domain.TaskStatusPending {
			next.Status = domain.TaskStatusInProgress
		}
	}

	// Repair the percentage/status invariant after the merge.
	if next.CompletionPercentage == 100 {
		next.Status = domain.TaskStatusCompleted
	} else if next.Status == domain.TaskStatusCompleted {
		if ch.Status != nil && *ch.Status == domain.TaskStatusCompleted {
			// Explicit completion without a percentage closes it fully.
			next.CompletionPercentage = 100
		} else if ch.CompletionPercentage != nil {
			// Lowering the percentage reopens a completed task.
			next.Status = domain.TaskStatusInProgress
		}
	}

	if next.Status == domain.TaskStatusCompleted {
		if next.CompletedAt == nil {
			t := now
			next.CompletedAt = &t
		}
	} else if current.Status == domain.TaskStatusCompleted && next.CompletionPercentage < 100 {
		next.CompletedAt = nil
	}

	return next, nil
}
