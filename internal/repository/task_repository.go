package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/opsdesk/operations-api/internal/domain"
	"gorm.io/gorm"
)

type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Create(ctx context.Context, task *domain.Task) error {
	return r.db.WithContext(ctx).Create(task).Error
}

func (r *TaskRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	var task domain.Task
	err := r.db.WithContext(ctx).
		Preload("Owner").
		Preload("Assignee").
		First(&task, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// TaskFilters holds filters for listing tasks. VisibleTo restricts the
// result to tasks the given user owns or is assigned, used for employee
// scoping.
type TaskFilters struct {
	Status     *domain.TaskStatus
	Priority   *domain.TaskPriority
	OwnerID    *uuid.UUID
	AssigneeID *uuid.UUID
	DueBefore  *time.Time
	DueAfter   *time.Time
	VisibleTo  *uuid.UUID
}

func (r *TaskRepository) applyFilters(query *gorm.DB, filters *TaskFilters) *gorm.DB {
	if filters == nil {
		return query
	}
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.Priority != nil {
		query = query.Where("priority = ?", *filters.Priority)
	}
	if filters.OwnerID != nil {
		query = query.Where("owner_id = ?", *filters.OwnerID)
	}
	if filters.AssigneeID != nil {
		query = query.Where("assignee_id = ?", *filters.AssigneeID)
	}
	if filters.DueBefore != nil {
		query = query.Where("due_date <= ?", *filters.DueBefore)
	}
	if filters.DueAfter != nil {
		query = query.Where("due_date >= ?", *filters.DueAfter)
	}
	if filters.VisibleTo != nil {
		query = query.Where("owner_id = ? OR assignee_id = ?", *filters.VisibleTo, *filters.VisibleTo)
	}
	return query
}

func (r *TaskRepository) List(ctx context.Context, page, pageSize int, filters *TaskFilters) ([]domain.Task, int64, error) {
	var tasks []domain.Task
	var total int64

	offset := (page - 1) * pageSize

	query := r.applyFilters(r.db.WithContext(ctx).Model(&domain.Task{}), filters)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Preload("Owner").
		Preload("Assignee").
		Order("due_date ASC NULLS LAST, created_at DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&tasks).Error

	return tasks, total, err
}

// Update persists the task guarded by its row version
func (r *TaskRepository) Update(ctx context.Context, task *domain.Task) error {
	return versionedUpdate(r.db.WithContext(ctx), &domain.Task{}, task.ID, &task.RowVersion, task)
}

func (r *TaskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.Task{}, "id = ?", id).Error
}

// Stats aggregates task counts within the filtered scope
func (r *TaskRepository) Stats(ctx context.Context, filters *TaskFilters) (*domain.TaskStatsDTO, error) {
	stats := &domain.TaskStatsDTO{}

	base := func() *gorm.DB {
		return r.applyFilters(r.db.WithContext(ctx).Model(&domain.Task{}), filters)
	}

	if err := base().Count(&stats.Total).Error; err != nil {
		return nil, err
	}
	if err := base().Where("status = ?", domain.TaskStatusPending).Count(&stats.Pending).Error; err != nil {
		return nil, err
	}
	if err := base().Where("status = ?", domain.TaskStatusInProgress).Count(&stats.InProgress).Error; err != nil {
		return nil, err
	}
	if err := base().Where("status = ?", domain.TaskStatusCompleted).Count(&stats.Completed).Error; err != nil {
		return nil, err
	}
	if err := base().
		Where("status <> ? AND due_date IS NOT NULL AND due_date < ?", domain.TaskStatusCompleted, time.Now()).
		Count(&stats.Overdue).Error; err != nil {
		return nil, err
	}

	return stats, nil
}
