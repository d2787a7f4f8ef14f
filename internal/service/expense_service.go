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

type ExpenseService struct {
	expenseRepo *repository.ExpenseRepository
	logger      *zap.Logger
}

func NewExpenseService(expenseRepo *repository.ExpenseRepository, logger *zap.Logger) *ExpenseService {
	return &ExpenseService{
		expenseRepo: expenseRepo,
		logger:      logger,
	}
}

func expensePolicyContext(expense *domain.Expense) policy.Context {
	return policy.Context{
		SubmitterID: &expense.SubmitterID,
		Status:      string(expense.Status),
		CreatedAt:   expense.CreatedAt,
		Now:         time.Now(),
	}
}

func (s *ExpenseService) Create(ctx context.Context, req *domain.CreateExpenseRequest) (*domain.ExpenseDTO, error) {
	userCtx, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrNotAuthenticated
	}

	if d := policy.Evaluate(userCtx.Actor(), policy.ActionCreate, policy.ResourceExpense, policy.Context{}); !d.Allowed {
		return nil, denialError(d)
	}

	expense := &domain.Expense{
		SubmitterID: userCtx.UserID,
		Amount:      req.Amount,
		Currency:    req.Currency,
		Category:    req.Category,
		Description: req.Description,
		ReceiptURL:  req.ReceiptURL,
		Notes:       req.Notes,
		Status:      domain.ExpenseStatusSubmitted,
	}
	if expense.Currency == "" {
		expense.Currency = "NOK"
	}

	if err := s.expenseRepo.Create(ctx, expense); err != nil {
		return nil, fmt.Errorf("failed to create expense: %w", err)
	}

	dto := mapper.ToExpenseDTO(expense)
	return &dto, nil
}

func (s *ExpenseService) GetByID(ctx context.Context, id uuid.UUID) (*domain.ExpenseDTO, error) {
	expense, err := s.expenseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, storageError(err)
	}

	actor := auth.ActorFromContext(ctx)
	if d := policy.Evaluate(actor, policy.ActionRead, policy.ResourceExpense, expensePolicyContext(expense)); !d.Allowed {
		return nil, denialError(d)
	}

	dto := mapper.ToExpenseDTO(expense)
	return &dto, nil
}

// List returns expenses visible to the actor. Employees only see their
// own submissions; the scoping happens in the query.
func (s *ExpenseService) List(ctx context.Context, page, pageSize int, filters *repository.ExpenseFilters) ([]domain.ExpenseDTO, int64, error) {
	userCtx, ok := auth.FromContext(ctx)
	if !ok || !userCtx.IsActive {
		return nil, 0, ErrNotAuthenticated
	}

	if filters == nil {
		filters = &repository.ExpenseFilters{}
	}
	if userCtx.Role == domain.RoleEmployee {
		filters.SubmitterID = &userCtx.UserID
	}

	expenses, total, err := s.expenseRepo.List(ctx, page, pageSize, filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list expenses: %w", err)
	}

	dtos := make([]domain.ExpenseDTO, len(expenses))
	for i := range expenses {
		dtos[i] = mapper.ToExpenseDTO(&expenses[i])
	}
	return dtos, total, nil
}

func (s *ExpenseService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateExpenseRequest) (*domain.ExpenseDTO, error) {
	userCtx, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrNotAuthenticated
	}

	expense, err := s.expenseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, storageError(err)
	}

	pc := expensePolicyContext(expense)
	if req.Status != nil && *req.Status != expense.Status {
		pc.TargetStatus = string(*req.Status)
	}

	if d := policy.Evaluate(userCtx.Actor(), policy.ActionUpdate, policy.ResourceExpense, pc); !d.Allowed {
		return nil, denialError(d)
	}

	next, err := transition.ApplyExpense(*expense, transition.ExpenseChanges{
		Amount:      req.Amount,
		Category:    req.Category,
		Description: req.Description,
		ReceiptURL:  req.ReceiptURL,
		Notes:       req.Notes,
		Status:      req.Status,
	}, userCtx.UserID, time.Now())
	if err != nil {
		return nil, transitionError(err)
	}

	if err := s.expenseRepo.Update(ctx, &next); err != nil {
		return nil, storageError(err)
	}

	dto := mapper.ToExpenseDTO(&next)
	return &dto, nil
}

// Approve moves a submitted expense to approved, stamping the approver
func (s *ExpenseService) Approve(ctx context.Context, id uuid.UUID) (*domain.ExpenseDTO, error) {
	return s.resolve(ctx, id, policy.ActionApprove, domain.ExpenseStatusApproved, "")
}

// Reject moves a submitted expense to rejected. The reason, if given,
// is appended to the expense notes.
func (s *ExpenseService) Reject(ctx context.Context, id uuid.UUID, reason string) (*domain.ExpenseDTO, error) {
	return s.resolve(ctx, id, policy.ActionReject, domain.ExpenseStatusRejected, reason)
}

// Reimburse moves an approved expense to reimbursed, stamping the
// reimburser
func (s *ExpenseService) Reimburse(ctx context.Context, id uuid.UUID) (*domain.ExpenseDTO, error) {
	return s.resolve(ctx, id, policy.ActionReimburse, domain.ExpenseStatusReimbursed, "")
}

func (s *ExpenseService) resolve(ctx context.Context, id uuid.UUID, action policy.Action, target domain.ExpenseStatus, reason string) (*domain.ExpenseDTO, error) {
	userCtx, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrNotAuthenticated
	}

	expense, err := s.expenseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, storageError(err)
	}

	if d := policy.Evaluate(userCtx.Actor(), action, policy.ResourceExpense, expensePolicyContext(expense)); !d.Allowed {
		return nil, denialError(d)
	}

	next, err := transition.ApplyExpense(*expense, transition.ExpenseChanges{
		Status:       &target,
		RejectReason: reason,
	}, userCtx.UserID, time.Now())
	if err != nil {
		return nil, transitionError(err)
	}

	if err := s.expenseRepo.Update(ctx, &next); err != nil {
		return nil, storageError(err)
	}

	s.logger.Info("expense resolved",
		zap.String("expense_id", id.String()),
		zap.String("status", string(next.Status)),
		zap.String("actor_id", userCtx.UserID.String()),
	)

	dto := mapper.ToExpenseDTO(&next)
	return &dto, nil
}

func (s *ExpenseService) Delete(ctx context.Context, id uuid.UUID) error {
	expense, err := s.expenseRepo.GetByID(ctx, id)
	if err != nil {
		return storageError(err)
	}

	actor := auth.ActorFromContext(ctx)
	if d := policy.Evaluate(actor, policy.ActionDelete, policy.ResourceExpense, expensePolicyContext(expense)); !d.Allowed {
		return denialError(d)
	}

	if err := s.expenseRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	return nil
}

// Stats aggregates expense figures in the actor's visible scope
func (s *ExpenseService) Stats(ctx context.Context, filters *repository.ExpenseFilters) (*domain.ExpenseStatsDTO, error) {
	userCtx, ok := auth.FromContext(ctx)
	if !ok || !userCtx.IsActive {
		return nil, ErrNotAuthenticated
	}

	if filters == nil {
		filters = &repository.ExpenseFilters{}
	}
	if userCtx.Role == domain.RoleEmployee {
		filters.SubmitterID = &userCtx.UserID
	}

	stats, err := s.expenseRepo.Stats(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate expense stats: %w", err)
	}
	return stats, nil
}
