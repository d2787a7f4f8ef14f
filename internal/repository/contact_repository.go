package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/opsdesk/operations-api/internal/domain"
	"gorm.io/gorm"
)

type ContactRepository struct {
	db *gorm.DB
}

func NewContactRepository(db *gorm.DB) *ContactRepository {
	return &ContactRepository{db: db}
}

func (r *ContactRepository) Create(ctx context.Context, contact *domain.Contact) error {
	return r.db.WithContext(ctx).Create(contact).Error
}

// CreateAsPrimary inserts the contact and demotes the client's previous
// primary in the same transaction, keeping at most one primary per client.
// The demotion bumps row_version so snapshots loaded before the swap fail
// their version check instead of writing is_primary back.
func (r *ContactRepository) CreateAsPrimary(ctx context.Context, contact *domain.Contact) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&domain.Contact{}).
			Where("client_id = ? AND is_primary = ?", contact.ClientID, true).
			Updates(map[string]interface{}{
				"is_primary":  false,
				"row_version": gorm.Expr("row_version + 1"),
			}).Error; err != nil {
			return err
		}
		return tx.Create(contact).Error
	})
}

func (r *ContactRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Contact, error) {
	var contact domain.Contact
	err := r.db.WithContext(ctx).First(&contact, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &contact, nil
}

func (r *ContactRepository) ListByClient(ctx context.Context, clientID uuid.UUID) ([]domain.Contact, error) {
	var contacts []domain.Contact
	err := r.db.WithContext(ctx).
		Where("client_id = ?", clientID).
		Order("is_primary DESC, last_name, first_name").
		Find(&contacts).Error
	return contacts, err
}

// Update persists the contact guarded by its row version
func (r *ContactRepository) Update(ctx context.Context, contact *domain.Contact) error {
	return versionedUpdate(r.db.WithContext(ctx), &domain.Contact{}, contact.ID, &contact.RowVersion, contact)
}

// UpdateWithPrimarySwap promotes the contact to primary and demotes the
// client's other contacts atomically. The demotion and the guarded write
// share one transaction so a version conflict rolls both back, and the
// demotion bumps row_version to invalidate snapshots of the old primary.
func (r *ContactRepository) UpdateWithPrimarySwap(ctx context.Context, contact *domain.Contact) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&domain.Contact{}).
			Where("client_id = ? AND id <> ? AND is_primary = ?", contact.ClientID, contact.ID, true).
			Updates(map[string]interface{}{
				"is_primary":  false,
				"row_version": gorm.Expr("row_version + 1"),
			}).Error; err != nil {
			return err
		}
		return versionedUpdate(tx, &domain.Contact{}, contact.ID, &contact.RowVersion, contact)
	})
}

func (r *ContactRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.Contact{}, "id = ?", id).Error
}
