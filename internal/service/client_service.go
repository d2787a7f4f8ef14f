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

type ClientService struct {
	clientRepo  *repository.ClientRepository
	historyRepo *repository.ServiceHistoryRepository
	logger      *zap.Logger
}

func NewClientService(
	clientRepo *repository.ClientRepository,
	historyRepo *repository.ServiceHistoryRepository,
	logger *zap.Logger,
) *ClientService {
	return &ClientService{
		clientRepo:  clientRepo,
		historyRepo: historyRepo,
		logger:      logger,
	}
}

// logEvent appends a service-history entry. Failures are logged and
// swallowed; the trail never blocks the main write.
func (s *ClientService) logEvent(ctx context.Context, clientID uuid.UUID, eventType, title, description string) {
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

func (s *ClientService) Create(ctx context.Context, req *domain.CreateClientRequest) (*domain.ClientDTO, error) {
	actor := auth.ActorFromContext(ctx)
	if d := policy.Evaluate(actor, policy.ActionCreate, policy.ResourceClient, policy.Context{}); !d.Allowed {
		return nil, denialError(d)
	}

	client := &domain.Client{
		Name:       req.Name,
		OrgNumber:  req.OrgNumber,
		Email:      req.Email,
		Phone:      req.Phone,
		Address:    req.Address,
		City:       req.City,
		PostalCode: req.PostalCode,
		Country:    req.Country,
		Notes:      req.Notes,
		Status:     domain.ClientStatusPending,
	}
	if client.Country == "" {
		client.Country = "Norway"
	}

	if err := s.clientRepo.Create(ctx, client); err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	s.logEvent(ctx, client.ID, "client_created", "Client created",
		fmt.Sprintf("Client '%s' was registered", client.Name))

	dto := mapper.ToClientDTO(client)
	return &dto, nil
}

func (s *ClientService) GetByID(ctx context.Context, id uuid.UUID) (*domain.ClientDTO, error) {
	actor := auth.ActorFromContext(ctx)
	if d := policy.Evaluate(actor, policy.ActionRead, policy.ResourceClient, policy.Context{}); !d.Allowed {
		return nil, denialError(d)
	}

	client, err := s.clientRepo.GetByID(ctx, id)
	if err != nil {
		return nil, storageError(err)
	}

	dto := mapper.ToClientDTO(client)
	return &dto, nil
}

func (s *ClientService) GetWithDetails(ctx context.Context, id uuid.UUID) (*domain.ClientWithDetailsDTO, error) {
	actor := auth.ActorFromContext(ctx)
	if d := policy.Evaluate(actor, policy.ActionRead, policy.ResourceClient, policy.Context{}); !d.Allowed {
		return nil, denialError(d)
	}

	client, err := s.clientRepo.GetWithDetails(ctx, id)
	if err != nil {
		return nil, storageError(err)
	}

	dto := mapper.ToClientWithDetailsDTO(client)
	return &dto, nil
}

func (s *ClientService) List(ctx context.Context, page, pageSize int, filters *repository.ClientFilters) ([]domain.ClientDTO, int64, error) {
	actor := auth.ActorFromContext(ctx)
	if d := policy.Evaluate(actor, policy.ActionRead, policy.ResourceClient, policy.Context{}); !d.Allowed {
		return nil, 0, denialError(d)
	}

	clients, total, err := s.clientRepo.List(ctx, page, pageSize, filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list clients: %w", err)
	}

	dtos := make([]domain.ClientDTO, len(clients))
	for i := range clients {
		dtos[i] = mapper.ToClientDTO(&clients[i])
	}
	return dtos, total, nil
}

func (s *ClientService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateClientRequest) (*domain.ClientDTO, error) {
	client, err := s.clientRepo.GetByID(ctx, id)
	if err != nil {
		return nil, storageError(err)
	}

	actor := auth.ActorFromContext(ctx)
	if d := policy.Evaluate(actor, policy.ActionUpdate, policy.ResourceClient, policy.Context{
		Status: string(client.Status),
	}); !d.Allowed {
		return nil, denialError(d)
	}

	previousStatus := client.Status

	next, err := transition.ApplyClient(*client, transition.ClientChanges{
		Name:       req.Name,
		OrgNumber:  req.OrgNumber,
		Email:      req.Email,
		Phone:      req.Phone,
		Address:    req.Address,
		City:       req.City,
		PostalCode: req.PostalCode,
		Country:    req.Country,
		Notes:      req.Notes,
		Status:     req.Status,
	}, time.Now())
	if err != nil {
		return nil, transitionError(err)
	}

	if err := s.clientRepo.Update(ctx, &next); err != nil {
		return nil, storageError(err)
	}

	if next.Status != previousStatus {
		s.logEvent(ctx, next.ID, "status_changed", "Status changed",
			fmt.Sprintf("Client moved from %s to %s", previousStatus, next.Status))
	}

	dto := mapper.ToClientDTO(&next)
	return &dto, nil
}

func (s *ClientService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.clientRepo.GetByID(ctx, id); err != nil {
		return storageError(err)
	}

	actor := auth.ActorFromContext(ctx)
	if d := policy.Evaluate(actor, policy.ActionDelete, policy.ResourceClient, policy.Context{}); !d.Allowed {
		return denialError(d)
	}

	if err := s.clientRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete client: %w", err)
	}

	s.logger.Info("client deleted", zap.String("client_id", id.String()))
	return nil
}
