package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/opsdesk/operations-api/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type QuotationRepository struct {
	db *gorm.DB
}

func NewQuotationRepository(db *gorm.DB) *QuotationRepository {
	return &QuotationRepository{db: db}
}

// Create inserts the quotation with the next per-client version number.
// The client row is locked for the duration of the transaction so
// concurrent creates for the same client serialize and versions stay
// gap-free. Callers must leave Version zero; it is assigned here.
func (r *QuotationRepository) Create(ctx context.Context, quotation *domain.Quotation) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		q := tx
		// sqlite has no FOR UPDATE; its writes serialize anyway.
		if tx.Dialector.Name() == "postgres" {
			q = tx.Clauses(clause.Locking{Strength: "UPDATE"})
		}

		var client domain.Client
		if err := q.First(&client, "id = ?", quotation.ClientID).Error; err != nil {
			return fmt.Errorf("failed to lock client row: %w", err)
		}

		var maxVersion int
		if err := tx.Model(&domain.Quotation{}).
			Where("client_id = ?", quotation.ClientID).
			Select("COALESCE(MAX(version), 0)").
			Scan(&maxVersion).Error; err != nil {
			return fmt.Errorf("failed to read max version: %w", err)
		}

		quotation.Version = maxVersion + 1
		return tx.Create(quotation).Error
	})
}

func (r *QuotationRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Quotation, error) {
	var quotation domain.Quotation
	err := r.db.WithContext(ctx).First(&quotation, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &quotation, nil
}

func (r *QuotationRepository) ListByClient(ctx context.Context, clientID uuid.UUID) ([]domain.Quotation, error) {
	var quotations []domain.Quotation
	err := r.db.WithContext(ctx).
		Where("client_id = ?", clientID).
		Order("version DESC").
		Find(&quotations).Error
	return quotations, err
}

// QuotationFilters holds filters for listing quotations
type QuotationFilters struct {
	Status   *domain.QuotationStatus
	ClientID *uuid.UUID
}

func (r *QuotationRepository) List(ctx context.Context, page, pageSize int, filters *QuotationFilters) ([]domain.Quotation, int64, error) {
	var quotations []domain.Quotation
	var total int64

	offset := (page - 1) * pageSize

	query := r.db.WithContext(ctx).Model(&domain.Quotation{})

	if filters != nil {
		if filters.Status != nil {
			query = query.Where("status = ?", *filters.Status)
		}
		if filters.ClientID != nil {
			query = query.Where("client_id = ?", *filters.ClientID)
		}
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Order("created_at DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&quotations).Error

	return quotations, total, err
}

// Update persists the quotation guarded by its row version. Version is
// immutable after creation and never part of the change set.
func (r *QuotationRepository) Update(ctx context.Context, quotation *domain.Quotation) error {
	return versionedUpdate(r.db.WithContext(ctx), &domain.Quotation{}, quotation.ID, &quotation.RowVersion, quotation)
}

func (r *QuotationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.Quotation{}, "id = ?", id).Error
}
