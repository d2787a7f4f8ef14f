package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/opsdesk/operations-api/internal/domain"
	"gorm.io/gorm"
)

type ClientRepository struct {
	db *gorm.DB
}

func NewClientRepository(db *gorm.DB) *ClientRepository {
	return &ClientRepository{db: db}
}

func (r *ClientRepository) Create(ctx context.Context, client *domain.Client) error {
	return r.db.WithContext(ctx).Create(client).Error
}

func (r *ClientRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Client, error) {
	var client domain.Client
	err := r.db.WithContext(ctx).First(&client, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &client, nil
}

// GetWithDetails loads a client together with its contacts, quotations,
// service history and technical documents
func (r *ClientRepository) GetWithDetails(ctx context.Context, id uuid.UUID) (*domain.Client, error) {
	var client domain.Client
	err := r.db.WithContext(ctx).
		Preload("Contacts", func(db *gorm.DB) *gorm.DB {
			return db.Order("last_name, first_name")
		}).
		Preload("Quotations", func(db *gorm.DB) *gorm.DB {
			return db.Order("version DESC")
		}).
		Preload("History", func(db *gorm.DB) *gorm.DB {
			return db.Order("occurred_at DESC")
		}).
		Preload("TechnicalDocs", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC")
		}).
		First(&client, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &client, nil
}

// ClientFilters holds filters for listing clients
type ClientFilters struct {
	Status *domain.ClientStatus
	Search string
}

func (r *ClientRepository) List(ctx context.Context, page, pageSize int, filters *ClientFilters) ([]domain.Client, int64, error) {
	var clients []domain.Client
	var total int64

	offset := (page - 1) * pageSize

	query := r.db.WithContext(ctx).Model(&domain.Client{})

	if filters != nil {
		if filters.Status != nil {
			query = query.Where("status = ?", *filters.Status)
		}
		if filters.Search != "" {
			pattern := "%" + filters.Search + "%"
			query = query.Where(
				"LOWER(name) LIKE LOWER(?) OR LOWER(email) LIKE LOWER(?) OR org_number LIKE ?",
				pattern, pattern, pattern,
			)
		}
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Order("name").
		Offset(offset).
		Limit(pageSize).
		Find(&clients).Error

	return clients, total, err
}

// Update persists the client guarded by its row version
func (r *ClientRepository) Update(ctx context.Context, client *domain.Client) error {
	return versionedUpdate(r.db.WithContext(ctx), &domain.Client{}, client.ID, &client.RowVersion, client)
}

// Delete removes the client; owned rows go with it via the store-level
// cascade constraint
func (r *ClientRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.Client{}, "id = ?", id).Error
}
