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

type QuotationService struct {
	quotationRepo *repository.QuotationRepository
	clientRepo    *repository.ClientRepository
	historyRepo   *repository.ServiceHistoryRepository
	logger        *zap.Logger
}

func NewQuotationService(
	quotationRepo *repository.QuotationRepository,
	clientRepo *repository.ClientRepository,
	historyRepo *repository.ServiceHistoryRepository,
	logger *zap.Logger,
) *QuotationService {
	return &QuotationService{
		quotationRepo: quotationRepo,
		clientRepo:    clientRepo,
		historyRepo:   historyRepo,
		logger:        logger,
	}
}

func (s *QuotationService) logEvent(ctx context.Context, clientID uuid.UUID, eventType, title, description string) {
	event := &domain.ServiceEvent{
		ClientID:    clientID,
		EventType:   eventType,
		Title:       title,
		Description: description,
		OccurredAt:  time.Now(),
	}
	if userCtx, ok := auth.FromContext(ctx); ok {
		event.RecordedByID = userCtx.UserID
		event.RecordedByName = userCtx.FullName
	}
	if err := s.historyRepo.Create(ctx, event); err != nil {
		s.logger.Warn("failed to record service event",
			zap.String("client_id", clientID.String()),
			zap.String("event_type", eventType),
			zap.Error(err),
		)
	}
}

// Create inserts a new draft quotation for the client. The version
// number is allocated by the repository inside a locked transaction;
// any version supplied by the caller is ignored.
func (s *QuotationService) Create(ctx context.Context, clientID uuid.UUID, req *domain.CreateQuotationRequest) (*domain.QuotationDTO, error) {
	actor := auth.ActorFromContext(ctx)
	if d := policy.Evaluate(actor, policy.ActionCreate, policy.ResourceQuotation, policy.Context{}); !d.Allowed {
		return nil, denialError(d)
	}

	if _, err := s.clientRepo.GetByID(ctx, clientID); err != nil {
		return nil, storageError(err)
	}

	quotation := &domain.Quotation{
		ClientID:    clientID,
		Title:       req.Title,
		Description: req.Description,
		Amount:      req.Amount,
		Currency:    req.Currency,
		ValidUntil:  req.ValidUntil,
		Status:      domain.QuotationStatusDraft,
	}
	if quotation.Currency == "" {
		quotation.Currency = "NOK"
	}
	if userCtx, ok := auth.FromContext(ctx); ok {
		quotation.CreatedByID = userCtx.UserID
	}

	if err := s.quotationRepo.Create(ctx, quotation); err != nil {
		return nil, storageError(err)
	}

	s.logEvent(ctx, clientID, "quotation_created", "Quotation created",
		fmt.Sprintf("Quotation '%s' v%d was drafted", quotation.Title, quotation.Version))

	dto := mapper.ToQuotationDTO(quotation)
	return &dto, nil
}

func (s *QuotationService) GetByID(ctx context.Context, id uuid.UUID) (*domain.QuotationDTO, error) {
	actor := auth.ActorFromContext(ctx)
	if d := policy.Evaluate(actor, policy.ActionRead, policy.ResourceQuotation, policy.Context{}); !d.Allowed {
		return nil, denialError(d)
	}

	quotation, err := s.quotationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, storageError(err)
	}

	dto := mapper.ToQuotationDTO(quotation)
	return &dto, nil
}

func (s *QuotationService) ListByClient(ctx context.Context, clientID uuid.UUID) ([]domain.QuotationDTO, error) {
	actor := auth.ActorFromContext(ctx)
	if d := policy.Evaluate(actor, policy.ActionRead, policy.ResourceQuotation, policy.Context{}); !d.Allowed {
		return nil, denialError(d)
	}

	quotations, err := s.quotationRepo.ListByClient(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to list quotations: %w", err)
	}

	dtos := make([]domain.QuotationDTO, len(quotations))
	for i := range quotations {
		dtos[i] = mapper.ToQuotationDTO(&quotations[i])
	}
	return dtos, nil
}

func (s *QuotationService) List(ctx context.Context, page, pageSize int, filters *repository.QuotationFilters) ([]domain.QuotationDTO, int64, error) {
	actor := auth.ActorFromContext(ctx)
	if d := policy.Evaluate(actor, policy.ActionRead, policy.ResourceQuotation, policy.Context{}); !d.Allowed {
		return nil, 0, denialError(d)
	}

	quotations, total, err := s.quotationRepo.List(ctx, page, pageSize, filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list quotations: %w", err)
	}

	dtos := make([]domain.QuotationDTO, len(quotations))
	for i := range quotations {
		dtos[i] = mapper.ToQuotationDTO(&quotations[i])
	}
	return dtos, total, nil
}

func (s *QuotationService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateQuotationRequest) (*domain.QuotationDTO, error) {
	quotation, err := s.quotationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, storageError(err)
	}

	actor := auth.ActorFromContext(ctx)
	if d := policy.Evaluate(actor, policy.ActionUpdate, policy.ResourceQuotation, policy.Context{
		Status: string(quotation.Status),
	}); !d.Allowed {
		return nil, denialError(d)
	}

	previousStatus := quotation.Status

	next, err := transition.ApplyQuotation(*quotation, transition.QuotationChanges{
		Title:       req.Title,
		Description: req.Description,
		Amount:      req.Amount,
		ValidUntil:  req.ValidUntil,
		Status:      req.Status,
	}, time.Now())
	if err != nil {
		return nil, transitionError(err)
	}

	if err := s.quotationRepo.Update(ctx, &next); err != nil {
		return nil, storageError(err)
	}

	if next.Status != previousStatus {
		s.logEvent(ctx, next.ClientID, "quotation_status_changed", "Quotation status changed",
			fmt.Sprintf("Quotation '%s' v%d moved from %s to %s",
				next.Title, next.Version, previousStatus, next.Status))
	}

	dto := mapper.ToQuotationDTO(&next)
	return &dto, nil
}

func (s *QuotationService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.quotationRepo.GetByID(ctx, id); err != nil {
		return storageError(err)
	}

	actor := auth.ActorFromContext(ctx)
	if d := policy.Evaluate(actor, policy.ActionDelete, policy.ResourceQuotation, policy.Context{}); !d.Allowed {
		return denialError(d)
	}

	if err := s.quotationRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete quotation: %w", err)
	}
	return nil
}
