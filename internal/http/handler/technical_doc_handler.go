package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/opsdesk/operations-api/internal/domain"
	"github.com/opsdesk/operations-api/internal/service"
)

// TechnicalDocHandler handles HTTP requests for client technical documents
type TechnicalDocHandler struct {
	docService *service.TechnicalDocService
	logger     *zap.Logger
}

// NewTechnicalDocHandler creates a new TechnicalDocHandler
func NewTechnicalDocHandler(docService *service.TechnicalDocService, logger *zap.Logger) *TechnicalDocHandler {
	return &TechnicalDocHandler{
		docService: docService,
		logger:     logger,
	}
}

// ListDocs godoc
// @Summary List technical documents
// @Description Get all technical documents for a client
// @Tags TechnicalDocs
// @Produce json
// @Param clientId path string true "Client ID"
// @Success 200 {array} domain.TechnicalDocDTO
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /clients/{clientId}/docs [get]
func (h *TechnicalDocHandler) ListDocs(w http.ResponseWriter, r *http.Request) {
	clientID, err := uuid.Parse(chi.URLParam(r, "clientId"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid client ID: must be a valid UUID")
		return
	}

	docs, err := h.docService.ListByClient(r.Context(), clientID)
	if err != nil {
		h.logger.Error("failed to list technical docs", zap.Error(err), zap.String("client_id", clientID.String()))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, docs)
}

// CreateDoc godoc
// @Summary Create technical document
// @Description Attach a technical document to a client
// @Tags TechnicalDocs
// @Accept json
// @Produce json
// @Param clientId path string true "Client ID"
// @Param request body domain.CreateTechnicalDocRequest true "Document data"
// @Success 201 {object} domain.TechnicalDocDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /clients/{clientId}/docs [post]
func (h *TechnicalDocHandler) CreateDoc(w http.ResponseWriter, r *http.Request) {
	clientID, err := uuid.Parse(chi.URLParam(r, "clientId"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid client ID: must be a valid UUID")
		return
	}

	var req domain.CreateTechnicalDocRequest
	if !decodeBody(w, r, &req) {
		return
	}

	doc, err := h.docService.Create(r.Context(), clientID, &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, doc)
}

// GetDoc godoc
// @Summary Get technical document
// @Description Get a technical document by ID
// @Tags TechnicalDocs
// @Produce json
// @Param id path string true "Document ID"
// @Success 200 {object} domain.TechnicalDocDTO
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /docs/{id} [get]
func (h *TechnicalDocHandler) GetDoc(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid document ID: must be a valid UUID")
		return
	}

	doc, err := h.docService.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, doc)
}

// UpdateDoc godoc
// @Summary Update technical document
// @Description Update a technical document
// @Tags TechnicalDocs
// @Accept json
// @Produce json
// @Param id path string true "Document ID"
// @Param request body domain.UpdateTechnicalDocRequest true "Fields to update"
// @Success 200 {object} domain.TechnicalDocDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Failure 409 {object} domain.APIError
// @Security BearerAuth
// @Router /docs/{id} [put]
func (h *TechnicalDocHandler) UpdateDoc(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid document ID: must be a valid UUID")
		return
	}

	var req domain.UpdateTechnicalDocRequest
	if !decodeBody(w, r, &req) {
		return
	}

	doc, err := h.docService.Update(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, doc)
}

// DeleteDoc godoc
// @Summary Delete technical document
// @Description Delete a technical document
// @Tags TechnicalDocs
// @Param id path string true "Document ID"
// @Success 204
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /docs/{id} [delete]
func (h *TechnicalDocHandler) DeleteDoc(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid document ID: must be a valid UUID")
		return
	}

	if err := h.docService.Delete(r.Context(), id); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}
