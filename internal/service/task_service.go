package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/opsdesk/operations-api/internal/auth"
	"github.com/opsdesk/operations-api/internal/domain"
	"github.com/opsdesk/operations-api/internal/mapper"
	"github.com/opsdesk/operations-api/internal/policy"
	"github.com/opsdesk/operations-api/internal/repository"
	"github.com/opsdesk/operations-api/internal/transition"
)

type TaskService struct {
	taskRepo *repository.TaskRepository
	userRepo *repository.UserRepository
	logger   *zap.Logger
}

func NewTaskService(
	taskRepo *repository.TaskRepository,
	userRepo *repository.UserRepository,
	logger *zap.Logger,
) *TaskService {
	return &TaskService{
		taskRepo: taskRepo,
		userRepo: userRepo,
		logger:   logger,
	}
}

func taskPolicyContext(task *domain.Task) policy.Context {
	return policy.Context{
		OwnerID:    &task.OwnerID,
		AssigneeID: task.AssigneeID,
		Status:     string(task.Status),
	}
}

func (s *TaskService) Create(ctx context.Context, req *domain.CreateTaskRequest) (*domain.TaskDTO, error) {
	userCtx, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrNotAuthenticated
	}
	actor := userCtx.Actor()

	if d := policy.Evaluate(actor, policy.ActionCreate, policy.ResourceTask, policy.Context{}); !d.Allowed {
		return nil, denialError(d)
	}

	task := domain.Task{
		Title:       req.Title,
		Description: req.Description,
		OwnerID:     userCtx.UserID,
		Priority:    req.Priority,
		Status:      domain.TaskStatusPending,
		DueDate:     req.DueDate,
		ReminderAt:  req.ReminderAt,
	}
	if task.Priority == "" {
		task.Priority = domain.TaskPriorityMedium
	}

	if req.AssigneeID != nil {
		if d := policy.Evaluate(actor, policy.ActionAssign, policy.ResourceTask, policy.Context{
			OwnerID:        &task.OwnerID,
			AssignTargetID: req.AssigneeID,
		}); !d.Allowed {
			return nil, denialError(d)
		}
		if _, err := s.userRepo.GetByID(ctx, *req.AssigneeID); err != nil {
			return nil, storageError(err)
		}
		// Assignment at creation advances the task the same way a later
		// assignment would.
		next, err := transition.ApplyTask(task, transition.TaskChanges{AssigneeID: req.AssigneeID}, time.Now())
		if err != nil {
			return nil, transitionError(err)
		}
		task = next
	}

	if err := s.taskRepo.Create(ctx, &task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	dto := mapper.ToTaskDTO(&task)
	return &dto, nil
}

func (s *TaskService) GetByID(ctx context.Context, id uuid.UUID) (*domain.TaskDTO, error) {
	task, err := s.taskRepo.GetByID(ctx, id)
	if err != nil {
		return nil, storageError(err)
	}

	actor := auth.ActorFromContext(ctx)
	if d := policy.Evaluate(actor, policy.ActionRead, policy.ResourceTask, taskPolicyContext(task)); !d.Allowed {
		return nil, denialError(d)
	}

	dto := mapper.ToTaskDTO(task)
	return &dto, nil
}

// List returns tasks visible to the actor. Employees only see tasks
// they own or are assigned; the scoping happens in the query.
func (s *TaskService) List(ctx context.Context, page, pageSize int, filters *repository.TaskFilters) ([]domain.TaskDTO, int64, error) {
	userCtx, ok := auth.FromContext(ctx)
	if !ok {
		return nil, 0, ErrNotAuthenticated
	}
	if !userCtx.IsActive {
		return nil, 0, ErrNotAuthenticated
	}

	if filters == nil {
		filters = &repository.TaskFilters{}
	}
	if userCtx.Role == domain.RoleEmployee {
		filters.VisibleTo = &userCtx.UserID
	}

	tasks, total, err := s.taskRepo.List(ctx, page, pageSize, filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}

	dtos := make([]domain.TaskDTO, len(tasks))
	for i := range tasks {
		dtos[i] = mapper.ToTaskDTO(&tasks[i])
	}
	return dtos, total, nil
}

func (s *TaskService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateTaskRequest) (*domain.TaskDTO, error) {
	task, err := s.taskRepo.GetByID(ctx, id)
	if err != nil {
		return nil, storageError(err)
	}

	actor := auth.ActorFromContext(ctx)
	if d := policy.Evaluate(actor, policy.ActionUpdate, policy.ResourceTask, taskPolicyContext(task)); !d.Allowed {
		return nil, denialError(d)
	}

	if req.AssigneeID != nil && (task.AssigneeID == nil || *task.AssigneeID != *req.AssigneeID) {
		pc := taskPolicyContext(task)
		pc.AssignTargetID = req.AssigneeID
		if d := policy.Evaluate(actor, policy.ActionAssign, policy.ResourceTask, pc); !d.Allowed {
			return nil, denialError(d)
		}
		if _, err := s.userRepo.GetByID(ctx, *req.AssigneeID); err != nil {
			return nil, storageError(err)
		}
	}

	next, err := transition.ApplyTask(*task, transition.TaskChanges{
		Title:                req.Title,
		Description:          req.Description,
		Priority:             req.Priority,
		AssigneeID:           req.AssigneeID,
		Status:               req.Status,
		CompletionPercentage: req.CompletionPercentage,
		DueDate:              req.DueDate,
		ReminderAt:           req.ReminderAt,
	}, time.Now())
	if err != nil {
		return nil, transitionError(err)
	}

	if err := s.taskRepo.Update(ctx, &next); err != nil {
		return nil, storageError(err)
	}

	dto := mapper.ToTaskDTO(&next)
	return &dto, nil
}

// Assign sets the task's assignee. Employees may only assign tasks to
// themselves.
func (s *TaskService) Assign(ctx context.Context, id uuid.UUID, req *domain.AssignTaskRequest) (*domain.TaskDTO, error) {
	task, err := s.taskRepo.GetByID(ctx, id)
	if err != nil {
		return nil, storageError(err)
	}

	actor := auth.ActorFromContext(ctx)
	pc := taskPolicyContext(task)
	pc.AssignTargetID = &req.AssigneeID
	if d := policy.Evaluate(actor, policy.ActionAssign, policy.ResourceTask, pc); !d.Allowed {
		return nil, denialError(d)
	}

	if _, err := s.userRepo.GetByID(ctx, req.AssigneeID); err != nil {
		return nil, storageError(err)
	}

	next, err := transition.ApplyTask(*task, transition.TaskChanges{AssigneeID: &req.AssigneeID}, time.Now())
	if err != nil {
		return nil, transitionError(err)
	}

	if err := s.taskRepo.Update(ctx, &next); err != nil {
		return nil, storageError(err)
	}

	dto := mapper.ToTaskDTO(&next)
	return &dto, nil
}

// Complete closes the task. Without an explicit percentage the task is
// closed at 100 percent.
func (s *TaskService) Complete(ctx context.Context, id uuid.UUID, req *domain.CompleteTaskRequest) (*domain.TaskDTO, error) {
	task, err := s.taskRepo.GetByID(ctx, id)
	if err != nil {
		return nil, storageError(err)
	}

	actor := auth.ActorFromContext(ctx)
	if d := policy.Evaluate(actor, policy.ActionUpdate, policy.ResourceTask, taskPolicyContext(task)); !d.Allowed {
		return nil, denialError(d)
	}

	status := domain.TaskStatusCompleted
	changes := transition.TaskChanges{Status: &status}
	if req != nil && req.CompletionPercentage != nil {
		changes.CompletionPercentage = req.CompletionPercentage
	}

	next, err := transition.ApplyTask(*task, changes, time.Now())
	if err != nil {
		return nil, transitionError(err)
	}

	if err := s.taskRepo.Update(ctx, &next); err != nil {
		return nil, storageError(err)
	}

	dto := mapper.ToTaskDTO(&next)
	return &dto, nil
}

func (s *TaskService) Delete(ctx context.Context, id uuid.UUID) error {
	task, err := s.taskRepo.GetByID(ctx, id)
	if err != nil {
		return storageError(err)
	}

	actor := auth.ActorFromContext(ctx)
	if d := policy.Evaluate(actor, policy.ActionDelete, policy.ResourceTask, taskPolicyContext(task)); !d.Allowed {
		return denialError(d)
	}

	if err := s.taskRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return nil
}

// Stats aggregates task counts in the actor's visible scope
func (s *TaskService) Stats(ctx context.Context) (*domain.TaskStatsDTO, error) {
	userCtx, ok := auth.FromContext(ctx)
	if !ok || !userCtx.IsActive {
		return nil, ErrNotAuthenticated
	}

	filters := &repository.TaskFilters{}
	if userCtx.Role == domain.RoleEmployee {
		filters.VisibleTo = &userCtx.UserID
	}

	stats, err := s.taskRepo.Stats(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate task stats: %w", err)
	}
	return stats, nil
}
