package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/opsdesk/operations-api/internal/domain"
	"github.com/opsdesk/operations-api/internal/repository"
	"github.com/opsdesk/operations-api/internal/service"
)

// ClientHandler handles HTTP requests for clients
type ClientHandler struct {
	clientService *service.ClientService
	logger        *zap.Logger
}

// NewClientHandler creates a new ClientHandler
func NewClientHandler(clientService *service.ClientService, logger *zap.Logger) *ClientHandler {
	return &ClientHandler{
		clientService: clientService,
		logger:        logger,
	}
}

// ListClients godoc
// @Summary List clients
// @Description Get paginated list of clients with optional filters
// @Tags Clients
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Items per page" default(20)
// @Param status query string false "Filter by status" Enums(pending, active, inactive)
// @Param search query string false "Search by name, email or org number"
// @Success 200 {object} domain.PaginatedResponse
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Router /clients [get]
func (h *ClientHandler) ListClients(w http.ResponseWriter, r *http.Request) {
	page, pageSize := parsePagination(r)

	filters := &repository.ClientFilters{
		Search: r.URL.Query().Get("search"),
	}
	if s := r.URL.Query().Get("status"); s != "" {
		status := domain.ClientStatus(s)
		if !status.IsValid() {
			respondWithError(w, http.StatusBadRequest, "Invalid status: must be one of pending, active, inactive")
			return
		}
		filters.Status = &status
	}

	clients, total, err := h.clientService.List(r.Context(), page, pageSize, filters)
	if err != nil {
		h.logger.Error("failed to list clients", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, domain.PaginatedResponse{
		Items:    clients,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	})
}

// CreateClient godoc
// @Summary Create client
// @Description Create a new client in pending status
// @Tags Clients
// @Accept json
// @Produce json
// @Param request body domain.CreateClientRequest true "Client data"
// @Success 201 {object} domain.ClientDTO
// @Failure 400 {object} domain.APIError
// @Failure 403 {object} domain.APIError
// @Security BearerAuth
// @Router /clients [post]
func (h *ClientHandler) CreateClient(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateClientRequest
	if !decodeBody(w, r, &req) {
		return
	}

	client, err := h.clientService.Create(r.Context(), &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, client)
}

// GetClient godoc
// @Summary Get client
// @Description Get a client by ID
// @Tags Clients
// @Produce json
// @Param id path string true "Client ID"
// @Success 200 {object} domain.ClientDTO
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /clients/{id} [get]
func (h *ClientHandler) GetClient(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid client ID: must be a valid UUID")
		return
	}

	client, err := h.clientService.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, client)
}

// GetClientDetails godoc
// @Summary Get client with details
// @Description Get a client with contacts, quotations, history and documents
// @Tags Clients
// @Produce json
// @Param id path string true "Client ID"
// @Success 200 {object} domain.ClientWithDetailsDTO
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /clients/{id}/details [get]
func (h *ClientHandler) GetClientDetails(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid client ID: must be a valid UUID")
		return
	}

	client, err := h.clientService.GetWithDetails(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, client)
}

// UpdateClient godoc
// @Summary Update client
// @Description Update a client; status changes follow the client lifecycle
// @Tags Clients
// @Accept json
// @Produce json
// @Param id path string true "Client ID"
// @Param request body domain.UpdateClientRequest true "Fields to update"
// @Success 200 {object} domain.ClientDTO
// @Failure 400 {object} domain.APIError
// @Failure 403 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Failure 409 {object} domain.APIError
// @Security BearerAuth
// @Router /clients/{id} [put]
func (h *ClientHandler) UpdateClient(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid client ID: must be a valid UUID")
		return
	}

	var req domain.UpdateClientRequest
	if !decodeBody(w, r, &req) {
		return
	}

	client, err := h.clientService.Update(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, client)
}

// DeleteClient godoc
// @Summary Delete client
// @Description Delete a client and all its owned records (admin or manager)
// @Tags Clients
// @Param id path string true "Client ID"
// @Success 204
// @Failure 403 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /clients/{id} [delete]
func (h *ClientHandler) DeleteClient(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid client ID: must be a valid UUID")
		return
	}

	if err := h.clientService.Delete(r.Context(), id); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}
