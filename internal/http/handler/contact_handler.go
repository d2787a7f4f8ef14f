package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/opsdesk/operations-api/internal/domain"
	"github.com/opsdesk/operations-api/internal/service"
)

// ContactHandler handles HTTP requests for client contacts
type ContactHandler struct {
	contactService *service.ContactService
	logger         *zap.Logger
}

// NewContactHandler creates a new ContactHandler
func NewContactHandler(contactService *service.ContactService, logger *zap.Logger) *ContactHandler {
	return &ContactHandler{
		contactService: contactService,
		logger:         logger,
	}
}

// ListContacts godoc
// @Summary List client contacts
// @Description Get all contacts for a client, primary first
// @Tags Contacts
// @Produce json
// @Param clientId path string true "Client ID"
// @Success 200 {array} domain.ContactDTO
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /clients/{clientId}/contacts [get]
func (h *ContactHandler) ListContacts(w http.ResponseWriter, r *http.Request) {
	clientID, err := uuid.Parse(chi.URLParam(r, "clientId"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid client ID: must be a valid UUID")
		return
	}

	contacts, err := h.contactService.ListByClient(r.Context(), clientID)
	if err != nil {
		h.logger.Error("failed to list contacts", zap.Error(err), zap.String("client_id", clientID.String()))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, contacts)
}

// CreateContact godoc
// @Summary Create contact
// @Description Create a contact for a client; a primary contact demotes the previous one
// @Tags Contacts
// @Accept json
// @Produce json
// @Param clientId path string true "Client ID"
// @Param request body domain.CreateContactRequest true "Contact data"
// @Success 201 {object} domain.ContactDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /clients/{clientId}/contacts [post]
func (h *ContactHandler) CreateContact(w http.ResponseWriter, r *http.Request) {
	clientID, err := uuid.Parse(chi.URLParam(r, "clientId"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid client ID: must be a valid UUID")
		return
	}

	var req domain.CreateContactRequest
	if !decodeBody(w, r, &req) {
		return
	}

	contact, err := h.contactService.Create(r.Context(), clientID, &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, contact)
}

// GetContact godoc
// @Summary Get contact
// @Description Get a contact by ID
// @Tags Contacts
// @Produce json
// @Param id path string true "Contact ID"
// @Success 200 {object} domain.ContactDTO
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /contacts/{id} [get]
func (h *ContactHandler) GetContact(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid contact ID: must be a valid UUID")
		return
	}

	contact, err := h.contactService.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, contact)
}

// UpdateContact godoc
// @Summary Update contact
// @Description Update a contact; promoting to primary demotes the previous primary
// @Tags Contacts
// @Accept json
// @Produce json
// @Param id path string true "Contact ID"
// @Param request body domain.UpdateContactRequest true "Fields to update"
// @Success 200 {object} domain.ContactDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Failure 409 {object} domain.APIError
// @Security BearerAuth
// @Router /contacts/{id} [put]
func (h *ContactHandler) UpdateContact(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid contact ID: must be a valid UUID")
		return
	}

	var req domain.UpdateContactRequest
	if !decodeBody(w, r, &req) {
		return
	}

	contact, err := h.contactService.Update(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, contact)
}

// DeleteContact godoc
// @Summary Delete contact
// @Description Delete a contact
// @Tags Contacts
// @Param id path string true "Contact ID"
// @Success 204
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /contacts/{id} [delete]
func (h *ContactHandler) DeleteContact(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid contact ID: must be a valid UUID")
		return
	}

	if err := h.contactService.Delete(r.Context(), id); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}
