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
	"github.com/opsdesk/operations-api/internal/transition"
)

type ContactService struct {
	contactRepo *repository.ContactRepository
	clientRepo  *repository.ClientRepository
	logger      *zap.Logger
}

func NewContactService(
	contactRepo *repository.ContactRepository,
	clientRepo *repository.ClientRepository,
	logger *zap.Logger,
) *ContactService {
	return &ContactService{
		contactRepo: contactRepo,
		clientRepo:  clientRepo,
		logger:      logger,
	}
}

func (s *ContactService) Create(ctx context.Context, clientID uuid.UUID, req *domain.CreateContactRequest) (*domain.ContactDTO, error) {
	actor := auth.ActorFromContext(ctx)
	if d := policy.Evaluate(actor, policy.ActionCreate, policy.ResourceContact, policy.Context{}); !d.Allowed {
		return nil, denialError(d)
	}

	if _, err := s.clientRepo.GetByID(ctx, clientID); err != nil {
		return nil, storageError(err)
	}

	contact := &domain.Contact{
		ClientID:  clientID,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		Title:     req.Title,
		IsPrimary: req.IsPrimary,
	}

	var err error
	if contact.IsPrimary {
		err = s.contactRepo.CreateAsPrimary(ctx, contact)
	} else {
		err = s.contactRepo.Create(ctx, contact)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create contact: %w", err)
	}

	dto := mapper.ToContactDTO(contact)
	return &dto, nil
}

func (s *ContactService) GetByID(ctx context.Context, id uuid.UUID) (*domain.ContactDTO, error) {
	actor := auth.ActorFromContext(ctx)
	if d := policy.Evaluate(actor, policy.ActionRead, policy.ResourceContact, policy.Context{}); !d.Allowed {
		return nil, denialError(d)
	}

	contact, err := s.contactRepo.GetByID(ctx, id)
	if err != nil {
		return nil, storageError(err)
	}

	dto := mapper.ToContactDTO(contact)
	return &dto, nil
}

func (s *ContactService) ListByClient(ctx context.Context, clientID uuid.UUID) ([]domain.ContactDTO, error) {
	actor := auth.ActorFromContext(ctx)
	if d := policy.Evaluate(actor, policy.ActionRead, policy.ResourceContact, policy.Context{}); !d.Allowed {
		return nil, denialError(d)
	}

	contacts, err := s.contactRepo.ListByClient(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}

	dtos := make([]domain.ContactDTO, len(contacts))
	for i := range contacts {
		dtos[i] = mapper.ToContactDTO(&contacts[i])
	}
	return dtos, nil
}

func (s *ContactService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateContactRequest) (*domain.ContactDTO, error) {
	contact, err := s.contactRepo.GetByID(ctx, id)
	if err != nil {
		return nil, storageError(err)
	}

	actor := auth.ActorFromContext(ctx)
	if d := policy.Evaluate(actor, policy.ActionUpdate, policy.ResourceContact, policy.Context{}); !d.Allowed {
		return nil, denialError(d)
	}

	next, demoteOthers, err := transition.ApplyContact(*contact, transition.ContactChanges{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		Title:     req.Title,
		IsPrimary: req.IsPrimary,
	})
	if err != nil {
		return nil, transitionError(err)
	}

	if demoteOthers {
		err = s.contactRepo.UpdateWithPrimarySwap(ctx, &next)
	} else {
		err = s.contactRepo.Update(ctx, &next)
	}
	if err != nil {
		return nil, storageError(err)
	}

	dto := mapper.ToContactDTO(&next)
	return &dto, nil
}

func (s *ContactService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.contactRepo.GetByID(ctx, id); err != nil {
		return storageError(err)
	}

	actor := auth.ActorFromContext(ctx)
	if d := policy.Evaluate(actor, policy.ActionDelete, policy.ResourceContact, policy.Context{}); !d.Allowed {
		return denialError(d)
	}

	if err := s.contactRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete contact: %w", err)
	}
	return nil
}
