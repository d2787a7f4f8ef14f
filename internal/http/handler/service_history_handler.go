package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/opsdesk/operations-api/internal/domain"
	"github.com/opsdesk/operations-api/internal/service"
)

// ServiceHistoryHandler handles HTTP requests for the client service trail
type ServiceHistoryHandler struct {
	historyService *service.ServiceHistoryService
	logger         *zap.Logger
}

// NewServiceHistoryHandler creates a new ServiceHistoryHandler
func NewServiceHistoryHandler(historyService *service.ServiceHistoryService, logger *zap.Logger) *ServiceHistoryHandler {
	return &ServiceHistoryHandler{
		historyService: historyService,
		logger:         logger,
	}
}

// ListHistory godoc
// @Summary List service history
// @Description Get paginated service history for a client, newest first
// @Tags ServiceHistory
// @Produce json
// @Param clientId path string true "Client ID"
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Items per page" default(20)
// @Success 200 {object} domain.PaginatedResponse
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /clients/{clientId}/history [get]
func (h *ServiceHistoryHandler) ListHistory(w http.ResponseWriter, r *http.Request) {
	clientID, err := uuid.Parse(chi.URLParam(r, "clientId"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid client ID: must be a valid UUID")
		return
	}

	page, pageSize := parsePagination(r)

	events, total, err := h.historyService.ListByClient(r.Context(), clientID, page, pageSize)
	if err != nil {
		h.logger.Error("failed to list service history", zap.Error(err), zap.String("client_id", clientID.String()))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, domain.PaginatedResponse{
		Items:    events,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	})
}

// CreateEvent godoc
// @Summary Record service event
// @Description Append an event to a client's service history
// @Tags ServiceHistory
// @Accept json
// @Produce json
// @Param clientId path string true "Client ID"
// @Param request body domain.CreateServiceEventRequest true "Event data"
// @Success 201 {object} domain.ServiceEventDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /clients/{clientId}/history [post]
func (h *ServiceHistoryHandler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	clientID, err := uuid.Parse(chi.URLParam(r, "clientId"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid client ID: must be a valid UUID")
		return
	}

	var req domain.CreateServiceEventRequest
	if !decodeBody(w, r, &req) {
		return
	}

	event, err := h.historyService.Create(r.Context(), clientID, &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, event)
}
