package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/opsdesk/operations-api/internal/domain"
	"gorm.io/gorm"
)

type ExpenseRepository struct {
	db *gorm.DB
}

func NewExpenseRepository(db *gorm.DB) *ExpenseRepository {
	return &ExpenseRepository{db: db}
}

func (r *ExpenseRepository) Create(ctx context.Context, expense *domain.Expense) error {
	return r.db.WithContext(ctx).Create(expense).Error
}

func (r *ExpenseRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Expense, error) {
	var expense domain.Expense
	err := r.db.WithContext(ctx).
		Preload("Submitter").
		First(&expense, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &expense, nil
}

// ExpenseFilters holds filters for listing expenses. SubmitterID doubles
// as the employee scoping filter.
type ExpenseFilters struct {
	Status      *domain.ExpenseStatus
	Category    string
	SubmitterID *uuid.UUID
	From        *time.Time
	To          *time.Time
}

func (r *ExpenseRepository) applyFilters(query *gorm.DB, filters *ExpenseFilters) *gorm.DB {
	if filters == nil {
		return query
	}
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.Category != "" {
		query = query.Where("category = ?", filters.Category)
	}
	if filters.SubmitterID != nil {
		query = query.Where("submitter_id = ?", *filters.SubmitterID)
	}
	if filters.From != nil {
		query = query.Where("created_at >= ?", *filters.From)
	}
	if filters.To != nil {
		query = query.Where("created_at <= ?", *filters.To)
	}
	return query
}

func (r *ExpenseRepository) List(ctx context.Context, page, pageSize int, filters *ExpenseFilters) ([]domain.Expense, int64, error) {
	var expenses []domain.Expense
	var total int64

	offset := (page - 1) * pageSize

	query := r.applyFilters(r.db.WithContext(ctx).Model(&domain.Expense{}), filters)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Preload("Submitter").
		Order("created_at DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&expenses).Error

	return expenses, total, err
}

// Update persists the expense guarded by its row version
func (r *ExpenseRepository) Update(ctx context.Context, expense *domain.Expense) error {
	return versionedUpdate(r.db.WithContext(ctx), &domain.Expense{}, expense.ID, &expense.RowVersion, expense)
}

func (r *ExpenseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.Expense{}, "id = ?", id).Error
}

// Stats aggregates counts and amounts within the filtered scope
func (r *ExpenseRepository) Stats(ctx context.Context, filters *ExpenseFilters) (*domain.ExpenseStatsDTO, error) {
	stats := &domain.ExpenseStatsDTO{
		ByStatus:         make(map[string]int64),
		AmountByCategory: make(map[string]float64),
	}

	base := func() *gorm.DB {
		return r.applyFilters(r.db.WithContext(ctx).Model(&domain.Expense{}), filters)
	}

	if err := base().Count(&stats.Total).Error; err != nil {
		return nil, err
	}

	var totalAmount *float64
	if err := base().Select("SUM(amount)").Scan(&totalAmount).Error; err != nil {
		return nil, err
	}
	if totalAmount != nil {
		stats.TotalAmount = *totalAmount
	}

	var statusRows []struct {
		Status string
		Count  int64
	}
	if err := base().
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&statusRows).Error; err != nil {
		return nil, err
	}
	for _, row := range statusRows {
		stats.ByStatus[row.Status] = row.Count
	}

	var categoryRows []struct {
		Category string
		Amount   float64
	}
	if err := base().
		Select("category, SUM(amount) as amount").
		Group("category").
		Scan(&categoryRows).Error; err != nil {
		return nil, err
	}
	for _, row := range categoryRows {
		stats.AmountByCategory[row.Category] = row.Amount
	}

	return stats, nil
}
