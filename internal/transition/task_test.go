package transition

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opsdesk/operations-api/internal/domain"
)

func intPtr(i int) *int { return &i }

func statusPtr(s domain.TaskStatus) *domain.TaskStatus { return &s }

func TestApplyTask_Edges(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name string
		from domain.TaskStatus
		to   domain.TaskStatus
		ok   bool
	}{
		{"pending to in_progress", domain.TaskStatusPending, domain.TaskStatusInProgress, true},
		{"in_progress to completed", domain.TaskStatusInProgress, domain.TaskStatusCompleted, true},
		{"completed to in_progress", domain.TaskStatusCompleted, domain.TaskStatusInProgress, true},
		{"pending to completed", domain.TaskStatusPending, domain.TaskStatusCompleted, true},
		{"in_progress to pending", domain.TaskStatusInProgress, domain.TaskStatusPending, false},
		{"completed to pending", domain.TaskStatusCompleted, domain.TaskStatusPending, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := domain.Task{Status: tt.from}
			if tt.from == domain.TaskStatusCompleted {
				task.CompletionPercentage = 100
			}
			next, err := ApplyTask(task, TaskChanges{Status: statusPtr(tt.to)}, now)
			if tt.ok {
				require.NoError(t, err)
				assert.Equal(t, tt.to, next.Status)
			} else {
				assert.ErrorIs(t, err, ErrInvalidTransition)
			}
		})
	}
}

func TestApplyTask_FullPercentageCompletes(t *testing.T) {
	now := time.Now()
	task := domain.Task{Status: domain.TaskStatusInProgress, CompletionPercentage: 60}

	next, err := ApplyTask(task, TaskChanges{CompletionPercentage: intPtr(100)}, now)
	require.NoError(t, err)
	assert.Equal(t, domain.TaskStatusCompleted, next.Status)
	assert.Equal(t, 100, next.CompletionPercentage)
	require.NotNil(t, next.CompletedAt)
}

func TestApplyTask_PercentageOutOfRange(t *testing.T) {
	_, err := ApplyTask(domain.Task{}, TaskChanges{CompletionPercentage: intPtr(101)}, time.Now())
	assert.ErrorIs(t, err, ErrInvalidValue)

	_, err = ApplyTask(domain.Task{}, TaskChanges{CompletionPercentage: intPtr(-1)}, time.Now())
	assert.ErrorIs(t, err, ErrInvalidValue)
}

func TestApplyTask_ExplicitCompletionForcesFullPercentage(t *testing.T) {
	task := domain.Task{Status: domain.TaskStatusInProgress, CompletionPercentage: 40}

	next, err := ApplyTask(task, TaskChanges{Status: statusPtr(domain.TaskStatusCompleted)}, time.Now())
	require.NoError(t, err)
	assert.Equal(t, domain.TaskStatusCompleted, next.Status)
	assert.Equal(t, 100, next.CompletionPercentage)
	require.NotNil(t, next.CompletedAt)
}

func TestApplyTask_ReopeningClearsCompletedAt(t *testing.T) {
	done := time.Now().Add(-time.Hour)
	task := domain.Task{
		Status:               domain.TaskStatusCompleted,
		CompletionPercentage: 100,
		CompletedAt:          &done,
	}

	next, err := ApplyTask(task, TaskChanges{
		Status:               statusPtr(domain.TaskStatusInProgress),
		CompletionPercentage: intPtr(70),
	}, time.Now())
	require.NoError(t, err)
	assert.Equal(t, domain.TaskStatusInProgress, next.Status)
	assert.Equal(t, 70, next.CompletionPercentage)
	assert.Nil(t, next.CompletedAt)
}

func TestApplyTask_LoweringPercentageReopens(t *testing.T) {
	done := time.Now().Add(-time.Hour)
	task := domain.Task{
		Status:               domain.TaskStatusCompleted,
		CompletionPercentage: 100,
		CompletedAt:          &done,
	}

	next, err := ApplyTask(task, TaskChanges{CompletionPercentage: intPtr(80)}, time.Now())
	require.NoError(t, err)
	assert.Equal(t, domain.TaskStatusInProgress, next.Status)
	assert.Nil(t, next.CompletedAt)
}

func TestApplyTask_CompletedAtStampedOnce(t *testing.T) {
	now := time.Now()
	task := domain.Task{Status: domain.TaskStatusInProgress}

	next, err := ApplyTask(task, TaskChanges{Status: statusPtr(domain.TaskStatusCompleted)}, now)
	require.NoError(t, err)
	first := *next.CompletedAt

	// Completing an already-completed task keeps the original stamp.
	next, err = ApplyTask(next, TaskChanges{CompletionPercentage: intPtr(100)}, now.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, first, *next.CompletedAt)
}

func TestApplyTask_FirstAssigneeAdvancesPendingTask(t *testing.T) {
	assignee := uuid.New()
	task := domain.Task{Status: domain.TaskStatusPending}

	next, err := ApplyTask(task, TaskChanges{AssigneeID: &assignee}, time.Now())
	require.NoError(t, err)
	assert.Equal(t, domain.TaskStatusInProgress, next.Status)
	require.NotNil(t, next.AssigneeID)
	assert.Equal(t, assignee, *next.AssigneeID)
}

func TestApplyTask_ReassignmentDoesNotChangeStatus(t *testing.T) {
	current := uuid.New()
	replacement := uuid.New()
	task := domain.Task{Status: domain.TaskStatusInProgress, AssigneeID: &current}

	next, err := ApplyTask(task, TaskChanges{AssigneeID: &replacement}, time.Now())
	require.NoError(t, err)
	assert.Equal(t, domain.TaskStatusInProgress, next.Status)
	assert.Equal(t, replacement, *next.AssigneeID)
}
