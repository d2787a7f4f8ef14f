package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/opsdesk/operations-api/internal/domain"
	"gorm.io/gorm"
)

type TechnicalDocRepository struct {
	db *gorm.DB
}

func NewTechnicalDocRepository(db *gorm.DB) *TechnicalDocRepository {
	return &TechnicalDocRepository{db: db}
}

func (r *TechnicalDocRepository) Create(ctx context.Context, doc *domain.TechnicalDoc) error {
	return r.db.WithContext(ctx).Create(doc).Error
}

func (r *TechnicalDocRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.TechnicalDoc, error) {
	var doc domain.TechnicalDoc
	err := r.db.WithContext(ctx).First(&doc, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func (r *TechnicalDocRepository) ListByClient(ctx context.Context, clientID uuid.UUID) ([]domain.TechnicalDoc, error) {
	var docs []domain.TechnicalDoc
	err := r.db.WithContext(ctx).
		Where("client_id = ?", clientID).
		Order("created_at DESC").
		Find(&docs).Error
	return docs, err
}

// Update persists the document guarded by its row version
func (r *TechnicalDocRepository) Update(ctx context.Context, doc *domain.TechnicalDoc) error {
	return versionedUpdate(r.db.WithContext(ctx), &domain.TechnicalDoc{}, doc.ID, &doc.RowVersion, doc)
}

func (r *TechnicalDocRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.TechnicalDoc{}, "id = ?", id).Error
}
