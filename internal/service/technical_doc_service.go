package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/opsdesk/operations-api/internal/auth"
	"github.com/opsdesk/operations-api/internal/domain"
	"github.com/opsdesk/operations-api/internal/mapper"
	"github.com/opsdesk/operations-api/internal/policy"
	"github.com/opsdesk/operations-api/internal/repository"
)

type TechnicalDocService struct {
	docRepo    *repository.TechnicalDocRepository
	clientRepo *repository.ClientRepository
	logger     *zap.Logger
}

func NewTechnicalDocService(
	docRepo *repository.TechnicalDocRepository,
	clientRepo *repository.ClientRepository,
	logger *zap.Logger,
) *TechnicalDocService {
	return &TechnicalDocService{
		docRepo:    docRepo,
		clientRepo: clientRepo,
		logger:     logger,
	}
}

func (s *TechnicalDocService) Create(ctx context.Context, clientID uuid.UUID, req *domain.CreateTechnicalDocRequest) (*domain.TechnicalDocDTO, error) {
	actor := auth.ActorFromContext(ctx)
	if d := policy.Evaluate(actor, policy.ActionCreate, policy.ResourceTechnicalDoc, policy.Context{}); !d.Allowed {
		return nil, denialError(d)
	}

	if _, err := s.clientRepo.GetByID(ctx, clientID); err != nil {
		return nil, storageError(err)
	}

	doc := &domain.TechnicalDoc{
		ClientID: clientID,
		Title:    req.Title,
		DocType:  req.DocType,
		Content:  req.Content,
	}
	if userCtx, ok := auth.FromContext(ctx); ok {
		doc.CreatedByID = userCtx.UserID
	}

	if err := s.docRepo.Create(ctx, doc); err != nil {
		return nil, fmt.Errorf("failed to create technical doc: %w", err)
	}

	dto := mapper.ToTechnicalDocDTO(doc)
	return &dto, nil
}

func (s *TechnicalDocService) GetByID(ctx context.Context, id uuid.UUID) (*domain.TechnicalDocDTO, error) {
	actor := auth.ActorFromContext(ctx)
	if d := policy.Evaluate(actor, policy.ActionRead, policy.ResourceTechnicalDoc, policy.Context{}); !d.Allowed {
		return nil, denialError(d)
	}

	doc, err := s.docRepo.GetByID(ctx, id)
	if err != nil {
		return nil, storageError(err)
	}

	dto := mapper.ToTechnicalDocDTO(doc)
	return &dto, nil
}

func (s *TechnicalDocService) ListByClient(ctx context.Context, clientID uuid.UUID) ([]domain.TechnicalDocDTO, error) {
	actor := auth.ActorFromContext(ctx)
	if d := policy.Evaluate(actor, policy.ActionRead, policy.ResourceTechnicalDoc, policy.Context{}); !d.Allowed {
		return nil, denialError(d)
	}

	docs, err := s.docRepo.ListByClient(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to list technical docs: %w", err)
	}

	dtos := make([]domain.TechnicalDocDTO, len(docs))
	for i := range docs {
		dtos[i] = mapper.ToTechnicalDocDTO(&docs[i])
	}
	return dtos, nil
}

func (s *TechnicalDocService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateTechnicalDocRequest) (*domain.TechnicalDocDTO, error) {
	doc, err := s.docRepo.GetByID(ctx, id)
	if err != nil {
		return nil, storageError(err)
	}

	actor := auth.ActorFromContext(ctx)
	if d := policy.Evaluate(actor, policy.ActionUpdate, policy.ResourceTechnicalDoc, policy.Context{}); !d.Allowed {
		return nil, denialError(d)
	}

	if req.Title != nil {
		doc.Title = *req.Title
	}
	if req.DocType != nil {
		doc.DocType = *req.DocType
	}
	if req.Content != nil {
		doc.Content = *req.Content
	}

	if err := s.docRepo.Update(ctx, doc); err != nil {
		return nil, storageError(err)
	}

	dto := mapper.ToTechnicalDocDTO(doc)
	return &dto, nil
}

func (s *TechnicalDocService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.docRepo.GetByID(ctx, id); err != nil {
		return storageError(err)
	}

	actor := auth.ActorFromContext(ctx)
	if d := policy.Evaluate(actor, policy.ActionDelete, policy.ResourceTechnicalDoc, policy.Context{}); !d.Allowed {
		return denialError(d)
	}

	if err := s.docRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete technical doc: %w", err)
	}
	return nil
}
