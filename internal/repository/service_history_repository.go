package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/opsdesk/operations-api/internal/domain"
	"gorm.io/gorm"
)

type ServiceHistoryRepository struct {
	db *gorm.DB
}

func NewServiceHistoryRepository(db *gorm.DB) *ServiceHistoryRepository {
	return &ServiceHistoryRepository{db: db}
}

func (r *ServiceHistoryRepository) Create(ctx context.Context, event *domain.ServiceEvent) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *ServiceHistoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.ServiceEvent, error) {
	var event domain.ServiceEvent
	err := r.db.WithContext(ctx).First(&event, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *ServiceHistoryRepository) ListByClient(ctx context.Context, clientID uuid.UUID, page, pageSize int) ([]domain.ServiceEvent, int64, error) {
	var events []domain.ServiceEvent
	var total int64

	offset := (page - 1) * pageSize

	query := r.db.WithContext(ctx).Model(&domain.ServiceEvent{}).Where("client_id = ?", clientID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Order("occurred_at DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&events).Error

	return events, total, err
}

func (r *ServiceHistoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.ServiceEvent{}, "id = ?", id).Error
}
