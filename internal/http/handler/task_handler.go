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

// TaskHandler handles HTTP requests for tasks
type TaskHandler struct {
	taskService *service.TaskService
	logger      *zap.Logger
}

// NewTaskHandler creates a new TaskHandler
func NewTaskHandler(taskService *service.TaskService, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
		logger:      logger,
	}
}

func parseTaskFilters(w http.ResponseWriter, r *http.Request) (*repository.TaskFilters, bool) {
	filters := &repository.TaskFilters{}

	if s := r.URL.Query().Get("status"); s != "" {
		status := domain.TaskStatus(s)
		if !status.IsValid() {
			respondWithError(w, http.StatusBadRequest, "Invalid status: must be one of pending, in_progress, completed")
			return nil, false
		}
		filters.Status = &status
	}
	if p := r.URL.Query().Get("priority"); p != "" {
		priority := domain.TaskPriority(p)
		if !priority.IsValid() {
			respondWithError(w, http.StatusBadRequest, "Invalid priority: must be one of low, medium, high")
			return nil, false
		}
		filters.Priority = &priority
	}
	if a := r.URL.Query().Get("assigneeId"); a != "" {
		assigneeID, err := uuid.Parse(a)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid assigneeId: must be a valid UUID")
			return nil, false
		}
		filters.AssigneeID = &assigneeID
	}
	if d := r.URL.Query().Get("dueBefore"); d != "" {
		due, err := time.Parse(time.RFC3339, d)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid dueBefore: must be an RFC 3339 timestamp")
			return nil, false
		}
		filters.DueBefore = &due
	}

	return filters, true
}

// ListTasks godoc
// @Summary List tasks
// @Description Get paginated tasks; employees only see tasks they own or are assigned
// @Tags Tasks
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Items per page" default(20)
// @Param status query string false "Filter by status" Enums(pending, in_progress, completed)
// @Param priority query string false "Filter by priority" Enums(low, medium, high)
// @Param assigneeId query string false "Filter by assignee ID"
// @Param dueBefore query string false "Only tasks due before this RFC 3339 timestamp"
// @Success 200 {object} domain.PaginatedResponse
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Router /tasks [get]
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	page, pageSize := parsePagination(r)

	filters, ok := parseTaskFilters(w, r)
	if !ok {
		return
	}

	tasks, total, err := h.taskService.List(r.Context(), page, pageSize, filters)
	if err != nil {
		h.logger.Error("failed to list tasks", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, domain.PaginatedResponse{
		Items:    tasks,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	})
}

// CreateTask godoc
// @Summary Create task
// @Description Create a task owned by the caller; assigning at creation advances it
// @Tags Tasks
// @Accept json
// @Produce json
// @Param request body domain.CreateTaskRequest true "Task data"
// @Success 201 {object} domain.TaskDTO
// @Failure 400 {object} domain.APIError
// @Failure 403 {object} domain.APIError
// @Security BearerAuth
// @Router /tasks [post]
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateTaskRequest
	if !decodeBody(w, r, &req) {
		return
	}

	task, err := h.taskService.Create(r.Context(), &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, task)
}

// GetTaskStats godoc
// @Summary Task statistics
// @Description Get task counts in the caller's visible scope
// @Tags Tasks
// @Produce json
// @Success 200 {object} domain.TaskStatsDTO
// @Security BearerAuth
// @Router /tasks/stats [get]
func (h *TaskHandler) GetTaskStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.taskService.Stats(r.Context())
	if err != nil {
		h.logger.Error("failed to aggregate task stats", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, stats)
}

// GetTask godoc
// @Summary Get task
// @Description Get a task by ID
// @Tags Tasks
// @Produce json
// @Param id path string true "Task ID"
// @Success 200 {object} domain.TaskDTO
// @Failure 403 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /tasks/{id} [get]
func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid task ID: must be a valid UUID")
		return
	}

	task, err := h.taskService.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, task)
}

// UpdateTask godoc
// @Summary Update task
// @Description Update a task; status and completion percentage stay consistent
// @Tags Tasks
// @Accept json
// @Produce json
// @Param id path string true "Task ID"
// @Param request body domain.UpdateTaskRequest true "Fields to update"
// @Success 200 {object} domain.TaskDTO
// @Failure 400 {object} domain.APIError
// @Failure 403 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Failure 409 {object} domain.APIError
// @Security BearerAuth
// @Router /tasks/{id} [put]
func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid task ID: must be a valid UUID")
		return
	}

	var req domain.UpdateTaskRequest
	if !decodeBody(w, r, &req) {
		return
	}

	task, err := h.taskService.Update(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, task)
}

// AssignTask godoc
// @Summary Assign task
// @Description Assign a task to a user; employees may only assign to themselves
// @Tags Tasks
// @Accept json
// @Produce json
// @Param id path string true "Task ID"
// @Param request body domain.AssignTaskRequest true "Assignee"
// @Success 200 {object} domain.TaskDTO
// @Failure 400 {object} domain.APIError
// @Failure 403 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /tasks/{id}/assign [post]
func (h *TaskHandler) AssignTask(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid task ID: must be a valid UUID")
		return
	}

	var req domain.AssignTaskRequest
	if !decodeBody(w, r, &req) {
		return
	}

	task, err := h.taskService.Assign(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, task)
}

// CompleteTask godoc
// @Summary Complete task
// @Description Mark a task completed, optionally with a final percentage
// @Tags Tasks
// @Accept json
// @Produce json
// @Param id path string true "Task ID"
// @Param request body domain.CompleteTaskRequest false "Completion data"
// @Success 200 {object} domain.TaskDTO
// @Failure 403 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Failure 409 {object} domain.APIError
// @Security BearerAuth
// @Router /tasks/{id}/complete [post]
func (h *TaskHandler) CompleteTask(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid task ID: must be a valid UUID")
		return
	}

	req := &domain.CompleteTaskRequest{}
	if r.ContentLength > 0 {
		if !decodeBody(w, r, req) {
			return
		}
	}

	task, err := h.taskService.Complete(r.Context(), id, req)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, task)
}

// DeleteTask godoc
// @Summary Delete task
// @Description Delete a task; owners and managers only
// @Tags Tasks
// @Param id path string true "Task ID"
// @Success 204
// @Failure 403 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /tasks/{id} [delete]
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid task ID: must be a valid UUID")
		return
	}

	if err := h.taskService.Delete(r.Context(), id); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}
