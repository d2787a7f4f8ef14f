package service_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/opsdesk/operations-api/internal/domain"
	"github.com/opsdesk/operations-api/internal/repository"
	"github.com/opsdesk/operations-api/internal/service"
)

func newTaskService(t *testing.T) (*service.TaskService, *gorm.DB) {
	db := setupTestDB(t)
	svc := service.NewTaskService(
		repository.NewTaskRepository(db),
		repository.NewUserRepository(db),
		zap.NewNop(),
	)
	return svc, db
}

func TestTaskService_Create(t *testing.T) {
	svc, db := newTaskService(t)
	employee := createTestUser(t, db, "employee@example.com", "password123!", domain.RoleEmployee)

	dto, err := svc.Create(ctxFor(employee), &domain.CreateTaskRequest{Title: "Write report"})
	require.NoError(t, err)
	assert.Equal(t, employee.ID, dto.OwnerID)
	assert.Equal(t, domain.TaskStatusPending, dto.Status)
	assert.Equal(t, domain.TaskPriorityMedium, dto.Priority)
	assert.Equal(t, 0, dto.CompletionPercentage)
}

func TestTaskService_Create_WithAssigneeAdvances(t *testing.T) {
	svc, db := newTaskService(t)
	manager := createTestUser(t, db, "manager@example.com", "password123!", domain.RoleManager)
	employee := createTestUser(t, db, "employee@example.com", "password123!", domain.RoleEmployee)

	dto, err := svc.Create(ctxFor(manager), &domain.CreateTaskRequest{
		Title:      "Assigned at birth",
		AssigneeID: &employee.ID,
	})
	require.NoError(t, err)
	require.NotNil(t, dto.AssigneeID)
	assert.Equal(t, employee.ID, *dto.AssigneeID)
	assert.Equal(t, domain.TaskStatusInProgress, dto.Status)
}

func TestTaskService_Create_EmployeeCannotAssignOthers(t *testing.T) {
	svc, db := newTaskService(t)
	employee := createTestUser(t, db, "employee@example.com", "password123!", domain.RoleEmployee)
	other := createTestUser(t, db, "other@example.com", "password123!", domain.RoleEmployee)

	_, err := svc.Create(ctxFor(employee), &domain.CreateTaskRequest{
		Title:      "Delegation attempt",
		AssigneeID: &other.ID,
	})
	assert.ErrorIs(t, err, service.ErrInsufficientRole)
}

func TestTaskService_GetByID_EmployeeScoping(t *testing.T) {
	svc, db := newTaskService(t)
	owner := createTestUser(t, db, "owner@example.com", "password123!", domain.RoleEmployee)
	stranger := createTestUser(t, db, "stranger@example.com", "password123!", domain.RoleEmployee)
	manager := createTestUser(t, db, "manager@example.com", "password123!", domain.RoleManager)

	dto, err := svc.Create(ctxFor(owner), &domain.CreateTaskRequest{Title: "Private task"})
	require.NoError(t, err)

	_, err = svc.GetByID(ctxFor(stranger), dto.ID)
	assert.ErrorIs(t, err, service.ErrNotOwner)

	_, err = svc.GetByID(ctxFor(manager), dto.ID)
	assert.NoError(t, err)
}

func TestTaskService_List_EmployeeSeesOnlyVisible(t *testing.T) {
	svc, db := newTaskService(t)
	employee := createTestUser(t, db, "employee@example.com", "password123!", domain.RoleEmployee)
	manager := createTestUser(t, db, "manager@example.com", "password123!", domain.RoleManager)

	mine, err := svc.Create(ctxFor(employee), &domain.CreateTaskRequest{Title: "Mine"})
	require.NoError(t, err)
	_, err = svc.Create(ctxFor(manager), &domain.CreateTaskRequest{Title: "Managers own"})
	require.NoError(t, err)

	tasks, total, err := svc.List(ctxFor(employee), 1, 10, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, tasks, 1)
	assert.Equal(t, mine.ID, tasks[0].ID)

	_, total, err = svc.List(ctxFor(manager), 1, 10, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
}

func TestTaskService_Assign_SelfPickup(t *testing.T) {
	svc, db := newTaskService(t)
	manager := createTestUser(t, db, "manager@example.com", "password123!", domain.RoleManager)
	employee := createTestUser(t, db, "employee@example.com", "password123!", domain.RoleEmployee)

	dto, err := svc.Create(ctxFor(manager), &domain.CreateTaskRequest{Title: "Up for grabs"})
	require.NoError(t, err)

	// Employees may not see or assign unrelated tasks to others, but may
	// pick one up themselves.
	assigned, err := svc.Assign(ctxFor(employee), dto.ID, &domain.AssignTaskRequest{AssigneeID: employee.ID})
	require.NoError(t, err)
	require.NotNil(t, assigned.AssigneeID)
	assert.Equal(t, employee.ID, *assigned.AssigneeID)
	assert.Equal(t, domain.TaskStatusInProgress, assigned.Status)
}

func TestTaskService_Assign_UnknownUser(t *testing.T) {
	svc, db := newTaskService(t)
	manager := createTestUser(t, db, "manager@example.com", "password123!", domain.RoleManager)

	dto, err := svc.Create(ctxFor(manager), &domain.CreateTaskRequest{Title: "Orphan assignment"})
	require.NoError(t, err)

	_, err = svc.Assign(ctxFor(manager), dto.ID, &domain.AssignTaskRequest{AssigneeID: uuid.New()})
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestTaskService_Complete(t *testing.T) {
	svc, db := newTaskService(t)
	employee := createTestUser(t, db, "employee@example.com", "password123!", domain.RoleEmployee)

	dto, err := svc.Create(ctxFor(employee), &domain.CreateTaskRequest{Title: "Finish me"})
	require.NoError(t, err)

	done, err := svc.Complete(ctxFor(employee), dto.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, domain.TaskStatusCompleted, done.Status)
	assert.Equal(t, 100, done.CompletionPercentage)
	assert.NotEmpty(t, done.CompletedAt)
}

func TestTaskService_Update_FullPercentageCompletes(t *testing.T) {
	svc, db := newTaskService(t)
	employee := createTestUser(t, db, "employee@example.com", "password123!", domain.RoleEmployee)

	dto, err := svc.Create(ctxFor(employee), &domain.CreateTaskRequest{Title: "Percent driven"})
	require.NoError(t, err)

	pct := 100
	updated, err := svc.Update(ctxFor(employee), dto.ID, &domain.UpdateTaskRequest{CompletionPercentage: &pct})
	require.NoError(t, err)
	assert.Equal(t, domain.TaskStatusCompleted, updated.Status)
	assert.NotEmpty(t, updated.CompletedAt)
}

func TestTaskService_Update_LoweredPercentageReopens(t *testing.T) {
	svc, db := newTaskService(t)
	employee := createTestUser(t, db, "employee@example.com", "password123!", domain.RoleEmployee)

	dto, err := svc.Create(ctxFor(employee), &domain.CreateTaskRequest{Title: "Reopened"})
	require.NoError(t, err)

	_, err = svc.Complete(ctxFor(employee), dto.ID, nil)
	require.NoError(t, err)

	pct := 60
	reopened, err := svc.Update(ctxFor(employee), dto.ID, &domain.UpdateTaskRequest{CompletionPercentage: &pct})
	require.NoError(t, err)
	assert.Equal(t, domain.TaskStatusInProgress, reopened.Status)
	assert.Equal(t, 60, reopened.CompletionPercentage)
	assert.Empty(t, reopened.CompletedAt)
}

func TestTaskService_Delete(t *testing.T) {
	svc, db := newTaskService(t)
	owner := createTestUser(t, db, "owner@example.com", "password123!", domain.RoleEmployee)
	stranger := createTestUser(t, db, "stranger@example.com", "password123!", domain.RoleEmployee)

	dto, err := svc.Create(ctxFor(owner), &domain.CreateTaskRequest{Title: "Owned"})
	require.NoError(t, err)

	err = svc.Delete(ctxFor(stranger), dto.ID)
	assert.ErrorIs(t, err, service.ErrNotOwner)

	err = svc.Delete(ctxFor(owner), dto.ID)
	assert.NoError(t, err)
}

func TestTaskService_Stats_EmployeeScoped(t *testing.T) {
	svc, db := newTaskService(t)
	employee := createTestUser(t, db, "employee@example.com", "password123!", domain.RoleEmployee)
	manager := createTestUser(t, db, "manager@example.com", "password123!", domain.RoleManager)

	_, err := svc.Create(ctxFor(employee), &domain.CreateTaskRequest{Title: "Mine"})
	require.NoError(t, err)
	_, err = svc.Create(ctxFor(manager), &domain.CreateTaskRequest{Title: "Not mine"})
	require.NoError(t, err)

	stats, err := svc.Stats(ctxFor(employee))
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.Total)

	stats, err = svc.Stats(ctxFor(manager))
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.Total)
}
