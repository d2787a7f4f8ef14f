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

// QuotationHandler handles HTTP requests for quotations
type QuotationHandler struct {
	quotationService *service.QuotationService
	logger           *zap.Logger
}

// NewQuotationHandler creates a new QuotationHandler
func NewQuotationHandler(quotationService *service.QuotationService, logger *zap.Logger) *QuotationHandler {
	return &QuotationHandler{
		quotationService: quotationService,
		logger:           logger,
	}
}

// ListQuotations godoc
// @Summary List quotations
// @Description Get paginated list of quotations with optional filters
// @Tags Quotations
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Items per page" default(20)
// @Param status query string false "Filter by status" Enums(draft, sent, accepted, rejected)
// @Param clientId query string false "Filter by client ID"
// @Success 200 {object} domain.PaginatedResponse
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Router /quotations [get]
func (h *QuotationHandler) ListQuotations(w http.ResponseWriter, r *http.Request) {
	page, pageSize := parsePagination(r)

	filters := &repository.QuotationFilters{}
	if s := r.URL.Query().Get("status"); s != "" {
		status := domain.QuotationStatus(s)
		if !status.IsValid() {
			respondWithError(w, http.StatusBadRequest, "Invalid status: must be one of draft, sent, accepted, rejected")
			return
		}
		filters.Status = &status
	}
	if c := r.URL.Query().Get("clientId"); c != "" {
		clientID, err := uuid.Parse(c)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid clientId: must be a valid UUID")
			return
		}
		filters.ClientID = &clientID
	}

	quotations, total, err := h.quotationService.List(r.Context(), page, pageSize, filters)
	if err != nil {
		h.logger.Error("failed to list quotations", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, domain.PaginatedResponse{
		Items:    quotations,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	})
}

// ListClientQuotations godoc
// @Summary List client quotations
// @Description Get all quotations for a client, newest version first
// @Tags Quotations
// @Produce json
// @Param clientId path string true "Client ID"
// @Success 200 {array} domain.QuotationDTO
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /clients/{clientId}/quotations [get]
func (h *QuotationHandler) ListClientQuotations(w http.ResponseWriter, r *http.Request) {
	clientID, err := uuid.Parse(chi.URLParam(r, "clientId"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid client ID: must be a valid UUID")
		return
	}

	quotations, err := h.quotationService.ListByClient(r.Context(), clientID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, quotations)
}

// CreateQuotation godoc
// @Summary Create quotation
// @Description Create a draft quotation; the version number is assigned per client
// @Tags Quotations
// @Accept json
// @Produce json
// @Param clientId path string true "Client ID"
// @Param request body domain.CreateQuotationRequest true "Quotation data"
// @Success 201 {object} domain.QuotationDTO
// @Failure 400 {object} domain.APIError
// @Failure 403 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /clients/{clientId}/quotations [post]
func (h *QuotationHandler) CreateQuotation(w http.ResponseWriter, r *http.Request) {
	clientID, err := uuid.Parse(chi.URLParam(r, "clientId"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid client ID: must be a valid UUID")
		return
	}

	var req domain.CreateQuotationRequest
	if !decodeBody(w, r, &req) {
		return
	}

	quotation, err := h.quotationService.Create(r.Context(), clientID, &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, quotation)
}

// GetQuotation godoc
// @Summary Get quotation
// @Description Get a quotation by ID
// @Tags Quotations
// @Produce json
// @Param id path string true "Quotation ID"
// @Success 200 {object} domain.QuotationDTO
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /quotations/{id} [get]
func (h *QuotationHandler) GetQuotation(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid quotation ID: must be a valid UUID")
		return
	}

	quotation, err := h.quotationService.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, quotation)
}

// UpdateQuotation godoc
// @Summary Update quotation
// @Description Update a quotation; status changes follow draft, sent, accepted/rejected
// @Tags Quotations
// @Accept json
// @Produce json
// @Param id path string true "Quotation ID"
// @Param request body domain.UpdateQuotationRequest true "Fields to update"
// @Success 200 {object} domain.QuotationDTO
// @Failure 400 {object} domain.APIError
// @Failure 403 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Failure 409 {object} domain.APIError
// @Security BearerAuth
// @Router /quotations/{id} [put]
func (h *QuotationHandler) UpdateQuotation(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid quotation ID: must be a valid UUID")
		return
	}

	var req domain.UpdateQuotationRequest
	if !decodeBody(w, r, &req) {
		return
	}

	quotation, err := h.quotationService.Update(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, quotation)
}

// DeleteQuotation godoc
// @Summary Delete quotation
// @Description Delete a quotation
// @Tags Quotations
// @Param id path string true "Quotation ID"
// @Success 204
// @Failure 403 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /quotations/{id} [delete]
func (h *QuotationHandler) DeleteQuotation(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid quotation ID: must be a valid UUID")
		return
	}

	if err := h.quotationService.Delete(r.Context(), id); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}
