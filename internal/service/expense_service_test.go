package service_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/opsdesk/operations-api/internal/domain"
	"github.com/opsdesk/operations-api/internal/repository"
	"github.com/opsdesk/operations-api/internal/service"
)

func newExpenseService(t *testing.T) (*service.ExpenseService, *gorm.DB) {
	db := setupTestDB(t)
	svc := service.NewExpenseService(repository.NewExpenseRepository(db), zap.NewNop())
	return svc, db
}

func submitExpense(t *testing.T, svc *service.ExpenseService, user *domain.User, amount float64) *domain.ExpenseDTO {
	t.Helper()
	dto, err := svc.Create(ctxFor(user), &domain.CreateExpenseRequest{
		Amount:   amount,
		Category: "travel",
	})
	require.NoError(t, err)
	return dto
}

func TestExpenseService_Create_Persists(t *testing.T) {
	svc, db := newExpenseService(t)
	employee := createTestUser(t, db, "employee@example.com", "password123!", domain.RoleEmployee)

	dto := submitExpense(t, svc, employee, 499.50)
	assert.Equal(t, employee.ID, dto.SubmitterID)
	assert.Equal(t, domain.ExpenseStatusSubmitted, dto.Status)
	assert.Equal(t, "NOK", dto.Currency)

	// The record must survive the request
	var stored domain.Expense
	require.NoError(t, db.First(&stored, "id = ?", dto.ID).Error)
	assert.Equal(t, 499.50, stored.Amount)
}

func TestExpenseService_GetByID_EmployeeScoping(t *testing.T) {
	svc, db := newExpenseService(t)
	submitter := createTestUser(t, db, "submitter@example.com", "password123!", domain.RoleEmployee)
	stranger := createTestUser(t, db, "stranger@example.com", "password123!", domain.RoleEmployee)
	finance := createTestUser(t, db, "finance@example.com", "password123!", domain.RoleFinance)

	dto := submitExpense(t, svc, submitter, 100)

	_, err := svc.GetByID(ctxFor(stranger), dto.ID)
	assert.ErrorIs(t, err, service.ErrNotOwner)

	_, err = svc.GetByID(ctxFor(finance), dto.ID)
	assert.NoError(t, err)
}

func TestExpenseService_List_EmployeeSeesOwnOnly(t *testing.T) {
	svc, db := newExpenseService(t)
	employee := createTestUser(t, db, "employee@example.com", "password123!", domain.RoleEmployee)
	other := createTestUser(t, db, "other@example.com", "password123!", domain.RoleEmployee)
	manager := createTestUser(t, db, "manager@example.com", "password123!", domain.RoleManager)

	mine := submitExpense(t, svc, employee, 100)
	submitExpense(t, svc, other, 200)

	expenses, total, err := svc.List(ctxFor(employee), 1, 10, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, expenses, 1)
	assert.Equal(t, mine.ID, expenses[0].ID)

	_, total, err = svc.List(ctxFor(manager), 1, 10, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
}

func TestExpenseService_ApproveRejectReimburse(t *testing.T) {
	svc, db := newExpenseService(t)
	employee := createTestUser(t, db, "employee@example.com", "password123!", domain.RoleEmployee)
	manager := createTestUser(t, db, "manager@example.com", "password123!", domain.RoleManager)
	finance := createTestUser(t, db, "finance@example.com", "password123!", domain.RoleFinance)

	t.Run("approve then reimburse", func(t *testing.T) {
		dto := submitExpense(t, svc, employee, 100)

		approved, err := svc.Approve(ctxFor(manager), dto.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.ExpenseStatusApproved, approved.Status)
		require.NotNil(t, approved.ApproverID)
		assert.Equal(t, manager.ID, *approved.ApproverID)
		assert.NotEmpty(t, approved.ApprovedAt)

		reimbursed, err := svc.Reimburse(ctxFor(finance), dto.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.ExpenseStatusReimbursed, reimbursed.Status)
		require.NotNil(t, reimbursed.ReimburserID)
		assert.Equal(t, finance.ID, *reimbursed.ReimburserID)
	})

	t.Run("reject appends reason to notes", func(t *testing.T) {
		dto := submitExpense(t, svc, employee, 100)

		rejected, err := svc.Reject(ctxFor(manager), dto.ID, "missing receipt")
		require.NoError(t, err)
		assert.Equal(t, domain.ExpenseStatusRejected, rejected.Status)
		assert.Contains(t, rejected.Notes, "Rejected: missing receipt")
	})

	t.Run("employee cannot approve", func(t *testing.T) {
		dto := submitExpense(t, svc, employee, 100)

		_, err := svc.Approve(ctxFor(employee), dto.ID)
		assert.ErrorIs(t, err, service.ErrInsufficientRole)
	})

	t.Run("finance cannot approve", func(t *testing.T) {
		dto := submitExpense(t, svc, employee, 100)

		_, err := svc.Approve(ctxFor(finance), dto.ID)
		assert.ErrorIs(t, err, service.ErrInsufficientRole)
	})

	t.Run("reimburse requires approved state", func(t *testing.T) {
		dto := submitExpense(t, svc, employee, 100)

		_, err := svc.Reimburse(ctxFor(finance), dto.ID)
		assert.ErrorIs(t, err, service.ErrStateConflict)
	})

	t.Run("approve is not repeatable", func(t *testing.T) {
		dto := submitExpense(t, svc, employee, 100)

		_, err := svc.Approve(ctxFor(manager), dto.ID)
		require.NoError(t, err)

		_, err = svc.Approve(ctxFor(manager), dto.ID)
		assert.ErrorIs(t, err, service.ErrStateConflict)
	})
}

func TestExpenseService_Update_DirectStatusWrite(t *testing.T) {
	svc, db := newExpenseService(t)
	employee := createTestUser(t, db, "employee@example.com", "password123!", domain.RoleEmployee)
	manager := createTestUser(t, db, "manager@example.com", "password123!", domain.RoleManager)

	t.Run("manager may approve through update", func(t *testing.T) {
		dto := submitExpense(t, svc, employee, 100)

		status := domain.ExpenseStatusApproved
		updated, err := svc.Update(ctxFor(manager), dto.ID, &domain.UpdateExpenseRequest{Status: &status})
		require.NoError(t, err)
		assert.Equal(t, domain.ExpenseStatusApproved, updated.Status)
		require.NotNil(t, updated.ApproverID)
		assert.Equal(t, manager.ID, *updated.ApproverID)
	})

	t.Run("submitter may not change status", func(t *testing.T) {
		dto := submitExpense(t, svc, employee, 100)

		status := domain.ExpenseStatusApproved
		_, err := svc.Update(ctxFor(employee), dto.ID, &domain.UpdateExpenseRequest{Status: &status})
		assert.ErrorIs(t, err, service.ErrInsufficientRole)
	})

	t.Run("submitter may edit own fields", func(t *testing.T) {
		dto := submitExpense(t, svc, employee, 100)

		amount := 125.0
		updated, err := svc.Update(ctxFor(employee), dto.ID, &domain.UpdateExpenseRequest{Amount: &amount})
		require.NoError(t, err)
		assert.Equal(t, 125.0, updated.Amount)
	})
}

func TestExpenseService_Delete(t *testing.T) {
	svc, db := newExpenseService(t)
	employee := createTestUser(t, db, "employee@example.com", "password123!", domain.RoleEmployee)
	manager := createTestUser(t, db, "manager@example.com", "password123!", domain.RoleManager)
	finance := createTestUser(t, db, "finance@example.com", "password123!", domain.RoleFinance)

	t.Run("submitter deletes own submitted expense", func(t *testing.T) {
		dto := submitExpense(t, svc, employee, 100)

		err := svc.Delete(ctxFor(employee), dto.ID)
		assert.NoError(t, err)

		// The record must actually be gone
		var count int64
		require.NoError(t, db.Model(&domain.Expense{}).Where("id = ?", dto.ID).Count(&count).Error)
		assert.Equal(t, int64(0), count)
	})

	t.Run("submitter cannot delete after approval", func(t *testing.T) {
		dto := submitExpense(t, svc, employee, 100)
		_, err := svc.Approve(ctxFor(manager), dto.ID)
		require.NoError(t, err)

		err = svc.Delete(ctxFor(employee), dto.ID)
		assert.ErrorIs(t, err, service.ErrStateConflict)
	})

	t.Run("manager cannot delete reimbursed expense", func(t *testing.T) {
		dto := submitExpense(t, svc, employee, 100)
		_, err := svc.Approve(ctxFor(manager), dto.ID)
		require.NoError(t, err)
		_, err = svc.Reimburse(ctxFor(finance), dto.ID)
		require.NoError(t, err)

		err = svc.Delete(ctxFor(manager), dto.ID)
		assert.ErrorIs(t, err, service.ErrStateConflict)
	})

	t.Run("finance deletes only aged records", func(t *testing.T) {
		dto := submitExpense(t, svc, employee, 100)

		err := svc.Delete(ctxFor(finance), dto.ID)
		assert.ErrorIs(t, err, service.ErrStateConflict)

		old := time.Now().Add(-15 * 24 * time.Hour)
		require.NoError(t, db.Model(&domain.Expense{}).Where("id = ?", dto.ID).Update("created_at", old).Error)

		err = svc.Delete(ctxFor(finance), dto.ID)
		assert.NoError(t, err)
	})
}

func TestExpenseService_Stats_EmployeeScoped(t *testing.T) {
	svc, db := newExpenseService(t)
	employee := createTestUser(t, db, "employee@example.com", "password123!", domain.RoleEmployee)
	other := createTestUser(t, db, "other@example.com", "password123!", domain.RoleEmployee)
	finance := createTestUser(t, db, "finance@example.com", "password123!", domain.RoleFinance)

	submitExpense(t, svc, employee, 100)
	submitExpense(t, svc, employee, 50)
	submitExpense(t, svc, other, 1000)

	stats, err := svc.Stats(ctxFor(employee), nil)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.Total)
	assert.Equal(t, float64(150), stats.TotalAmount)

	stats, err = svc.Stats(ctxFor(finance), nil)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.Total)
	assert.Equal(t, float64(1150), stats.TotalAmount)
}
