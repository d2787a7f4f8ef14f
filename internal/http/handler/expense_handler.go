package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/opsdesk/operations-api/internal/domain"
	"github.com/opsdesk/operations-api/internal/repository"
	"github.com/opsdesk/operations-api/internal/service"
)

// ExpenseHandler handles HTTP requests for expenses
type ExpenseHandler struct {
	expenseService *service.ExpenseService
	logger         *zap.Logger
}

// NewExpenseHandler creates a new ExpenseHandler
func NewExpenseHandler(expenseService *service.ExpenseService, logger *zap.Logger) *ExpenseHandler {
	return &ExpenseHandler{
		expenseService: expenseService,
		logger:         logger,
	}
}

func parseExpenseFilters(w http.ResponseWriter, r *http.Request) (*repository.ExpenseFilters, bool) {
	filters := &repository.ExpenseFilters{
		Category: r.URL.Query().Get("category"),
	}

	if s := r.URL.Query().Get("status"); s != "" {
		status := domain.ExpenseStatus(s)
		if !status.IsValid() {
			respondWithError(w, http.StatusBadRequest, "Invalid status: must be one of submitted, approved, rejected, reimbursed")
			return nil, false
		}
		filters.Status = &status
	}
	if f := r.URL.Query().Get("from"); f != "" {
		from, err := time.Parse(time.RFC3339, f)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid from: must be an RFC 3339 timestamp")
			return nil, false
		}
		filters.From = &from
	}
	if to := r.URL.Query().Get("to"); to != "" {
		until, err := time.Parse(time.RFC3339, to)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid to: must be an RFC 3339 timestamp")
			return nil, false
		}
		filters.To = &until
	}

	return filters, true
}

// ListExpenses godoc
// @Summary List expenses
// @Description Get paginated expenses; employees only see their own submissions
// @Tags Expenses
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Items per page" default(20)
// @Param status query string false "Filter by status" Enums(submitted, approved, rejected, reimbursed)
// @Param category query string false "Filter by category"
// @Param from query string false "Only expenses created at or after this RFC 3339 timestamp"
// @Param to query string false "Only expenses created at or before this RFC 3339 timestamp"
// @Success 200 {object} domain.PaginatedResponse
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Router /expenses [get]
func (h *ExpenseHandler) ListExpenses(w http.ResponseWriter, r *http.Request) {
	page, pageSize := parsePagination(r)

	filters, ok := parseExpenseFilters(w, r)
	if !ok {
		return
	}

	expenses, total, err := h.expenseService.List(r.Context(), page, pageSize, filters)
	if err != nil {
		h.logger.Error("failed to list expenses", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, domain.PaginatedResponse{
		Items:    expenses,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	})
}

// CreateExpense godoc
// @Summary Submit expense
// @Description Submit a new expense for approval
// @Tags Expenses
// @Accept json
// @Produce json
// @Param request body domain.CreateExpenseRequest true "Expense data"
// @Success 201 {object} domain.ExpenseDTO
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Router /expenses [post]
func (h *ExpenseHandler) CreateExpense(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateExpenseRequest
	if !decodeBody(w, r, &req) {
		return
	}

	expense, err := h.expenseService.Create(r.Context(), &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, expense)
}

// GetExpenseStats godoc
// @Summary Expense statistics
// @Description Get expense totals in the caller's visible scope
// @Tags Expenses
// @Produce json
// @Param status query string false "Filter by status" Enums(submitted, approved, rejected, reimbursed)
// @Param category query string false "Filter by category"
// @Success 200 {object} domain.ExpenseStatsDTO
// @Security BearerAuth
// @Router /expenses/stats [get]
func (h *ExpenseHandler) GetExpenseStats(w http.ResponseWriter, r *http.Request) {
	filters, ok := parseExpenseFilters(w, r)
	if !ok {
		return
	}

	stats, err := h.expenseService.Stats(r.Context(), filters)
	if err != nil {
		h.logger.Error("failed to aggregate expense stats", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, stats)
}

// GetExpense godoc
// @Summary Get expense
// @Description Get an expense by ID
// @Tags Expenses
// @Produce json
// @Param id path string true "Expense ID"
// @Success 200 {object} domain.ExpenseDTO
// @Failure 403 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /expenses/{id} [get]
func (h *ExpenseHandler) GetExpense(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid expense ID: must be a valid UUID")
		return
	}

	expense, err := h.expenseService.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, expense)
}

// UpdateExpense godoc
// @Summary Update expense
// @Description Update an expense; status changes are gated by role and current state
// @Tags Expenses
// @Accept json
// @Produce json
// @Param id path string true "Expense ID"
// @Param request body domain.UpdateExpenseRequest true "Fields to update"
// @Success 200 {object} domain.ExpenseDTO
// @Failure 400 {object} domain.APIError
// @Failure 403 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Failure 409 {object} domain.APIError
// @Security BearerAuth
// @Router /expenses/{id} [put]
func (h *ExpenseHandler) UpdateExpense(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid expense ID: must be a valid UUID")
		return
	}

	var req domain.UpdateExpenseRequest
	if !decodeBody(w, r, &req) {
		return
	}

	expense, err := h.expenseService.Update(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, expense)
}

// ApproveExpense godoc
// @Summary Approve expense
// @Description Approve a submitted expense (manager only)
// @Tags Expenses
// @Produce json
// @Param id path string true "Expense ID"
// @Success 200 {object} domain.ExpenseDTO
// @Failure 403 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Failure 409 {object} domain.APIError
// @Security BearerAuth
// @Router /expenses/{id}/approve [post]
func (h *ExpenseHandler) ApproveExpense(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid expense ID: must be a valid UUID")
		return
	}

	expense, err := h.expenseService.Approve(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, expense)
}

// RejectExpense godoc
// @Summary Reject expense
// @Description Reject a submitted expense with an optional reason (manager only)
// @Tags Expenses
// @Accept json
// @Produce json
// @Param id path string true "Expense ID"
// @Param request body domain.RejectExpenseRequest false "Rejection reason"
// @Success 200 {object} domain.ExpenseDTO
// @Failure 403 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Failure 409 {object} domain.APIError
// @Security BearerAuth
// @Router /expenses/{id}/reject [post]
func (h *ExpenseHandler) RejectExpense(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid expense ID: must be a valid UUID")
		return
	}

	req := &domain.RejectExpenseRequest{}
	if r.ContentLength > 0 {
		if !decodeBody(w, r, req) {
			return
		}
	}

	expense, err := h.expenseService.Reject(r.Context(), id, req.Reason)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, expense)
}

// ReimburseExpense godoc
// @Summary Reimburse expense
// @Description Mark an approved expense reimbursed (finance only)
// @Tags Expenses
// @Produce json
// @Param id path string true "Expense ID"
// @Success 200 {object} domain.ExpenseDTO
// @Failure 403 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Failure 409 {object} domain.APIError
// @Security BearerAuth
// @Router /expenses/{id}/reimburse [post]
func (h *ExpenseHandler) ReimburseExpense(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid expense ID: must be a valid UUID")
		return
	}

	expense, err := h.expenseService.Reimburse(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, expense)
}

// DeleteExpense godoc
// @Summary Delete expense
// @Description Delete an expense; rules depend on role, state and record age
// @Tags Expenses
// @Param id path string true "Expense ID"
// @Success 204
// @Failure 403 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Failure 409 {object} domain.APIError
// @Security BearerAuth
// @Router /expenses/{id} [delete]
func (h *ExpenseHandler) DeleteExpense(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid expense ID: must be a valid UUID")
		return
	}

	if err := h.expenseService.Delete(r.Context(), id); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}
