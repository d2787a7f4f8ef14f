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
)

type ServiceHistoryService struct {
	historyRepo *repository.ServiceHistoryRepository
	clientRepo  *repository.ClientRepository
	logger      *zap.Logger
}

func NewServiceHistoryService(
	historyRepo *repository.ServiceHistoryRepository,
	clientRepo *repository.ClientRepository,
	logger *zap.Logger,
) *ServiceHistoryService {
	return &ServiceHistoryService{
		historyRepo: historyRepo,
		clientRepo:  clientRepo,
		logger:      logger,
	}
}

func (s *ServiceHistoryService) Create(ctx context.Context, clientID uuid.UUID, req *domain.CreateServiceEventRequest) (*domain.ServiceEventDTO, error) {
	actor := auth.ActorFromContext(ctx)
	if d := policy.Evaluate(actor, policy.ActionCreate, policy.ResourceServiceHistory, policy.Context{}); !d.Allowed {
		return nil, denialError(d)
	}

	if _, err := s.clientRepo.GetByID(ctx, clientID); err != nil {
		return nil, storageError(err)
	}

	event := &domain.ServiceEvent{
		ClientID:    clientID,
		EventType:   req.EventType,
		Title:       req.Title,
		Description: req.Description,
		OccurredAt:  time.Now(),
	}
	if req.OccurredAt != nil {
		event.OccurredAt = *req.OccurredAt
	}
	if userCtx, ok := auth.FromContext(ctx); ok {
		event.RecordedByID = userCtx.UserID
		event.RecordedByName = userCtx.FullName
	}

	if err := s.historyRepo.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to create service event: %w", err)
	}

	dto := mapper.ToServiceEventDTO(event)
	return &dto, nil
}

func (s *ServiceHistoryService) ListByClient(ctx context.Context, clientID uuid.UUID, page, pageSize int) ([]domain.ServiceEventDTO, int64, error) {
	actor := auth.ActorFromContext(ctx)
	if d := policy.Evaluate(actor, policy.ActionRead, policy.ResourceServiceHistory, policy.Context{}); !d.Allowed {
		return nil, 0, denialError(d)
	}

	events, total, err := s.historyRepo.ListByClient(ctx, clientID, page, pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list service history: %w", err)
	}

	dtos := make([]domain.ServiceEventDTO, len(events))
	for i := range events {
		dtos[i] = mapper.ToServiceEventDTO(&events[i])
	}
	return dtos, total, nil
}
