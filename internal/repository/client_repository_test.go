package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/opsdesk/operations-api/internal/domain"
	"github.com/opsdesk/operations-api/internal/repository"
)

func TestClientRepository_Create(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewClientRepository(db)

	client := &domain.Client{
		Name:      "Acme AS",
		OrgNumber: "987654321",
		Email:     "post@acme.no",
		Country:   "Norway",
		Status:    domain.ClientStatusPending,
	}

	err := repo.Create(context.Background(), client)
	assert.NoError(t, err)

	found, err := repo.GetByID(context.Background(), client.ID)
	assert.NoError(t, err)
	assert.Equal(t, "Acme AS", found.Name)
	assert.Equal(t, domain.ClientStatusPending, found.Status)
	assert.Nil(t, found.OnboardedAt)
}

func TestClientRepository_List_Filters(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewClientRepository(db)

	pending := createTestClient(t, db, "Pending Works AS")
	active := createTestClient(t, db, "Active Industri AS")
	require.NoError(t, db.Model(active).Update("status", domain.ClientStatusActive).Error)

	t.Run("no filters", func(t *testing.T) {
		clients, total, err := repo.List(context.Background(), 1, 10, nil)
		assert.NoError(t, err)
		assert.Equal(t, int64(2), total)
		assert.Len(t, clients, 2)
	})

	t.Run("filter by status", func(t *testing.T) {
		status := domain.ClientStatusActive
		clients, total, err := repo.List(context.Background(), 1, 10, &repository.ClientFilters{Status: &status})
		assert.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, clients, 1)
		assert.Equal(t, active.ID, clients[0].ID)
	})

	t.Run("search by name case insensitive", func(t *testing.T) {
		clients, total, err := repo.List(context.Background(), 1, 10, &repository.ClientFilters{Search: "pending works"})
		assert.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, clients, 1)
		assert.Equal(t, pending.ID, clients[0].ID)
	})

	t.Run("search by org number", func(t *testing.T) {
		clients, total, err := repo.List(context.Background(), 1, 10, &repository.ClientFilters{Search: pending.OrgNumber})
		assert.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, clients, 1)
		assert.Equal(t, pending.ID, clients[0].ID)
	})

	t.Run("search with no match", func(t *testing.T) {
		_, total, err := repo.List(context.Background(), 1, 10, &repository.ClientFilters{Search: "zzz-no-such-client"})
		assert.NoError(t, err)
		assert.Equal(t, int64(0), total)
	})
}

func TestClientRepository_GetWithDetails(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewClientRepository(db)

	client := createTestClient(t, db, "Detailed AS")
	user := createTestUser(t, db, "recorder@example.com", domain.RoleEmployee)

	createTestContact(t, db, client.ID, "Zoe", "Berg", false)
	createTestContact(t, db, client.ID, "Arne", "Aas", true)

	for i := 1; i <= 2; i++ {
		q := &domain.Quotation{
			ClientID: client.ID,
			Version:  i,
			Title:    "Quote",
			Amount:   1000,
			Currency: "NOK",
			Status:   domain.QuotationStatusDraft,
		}
		require.NoError(t, db.Create(q).Error)
	}

	older := &domain.ServiceEvent{
		ClientID:     client.ID,
		EventType:    "client_created",
		Title:        "Client created",
		OccurredAt:   time.Now().Add(-time.Hour),
		RecordedByID: user.ID,
	}
	newer := &domain.ServiceEvent{
		ClientID:     client.ID,
		EventType:    "status_changed",
		Title:        "Status changed",
		OccurredAt:   time.Now(),
		RecordedByID: user.ID,
	}
	require.NoError(t, db.Create(older).Error)
	require.NoError(t, db.Create(newer).Error)

	doc := &domain.TechnicalDoc{
		ClientID:    client.ID,
		Title:       "Network diagram",
		DocType:     "diagram",
		CreatedByID: user.ID,
	}
	require.NoError(t, db.Create(doc).Error)

	found, err := repo.GetWithDetails(context.Background(), client.ID)
	assert.NoError(t, err)

	require.Len(t, found.Contacts, 2)
	assert.Equal(t, "Aas", found.Contacts[0].LastName)

	require.Len(t, found.Quotations, 2)
	assert.Equal(t, 2, found.Quotations[0].Version)

	require.Len(t, found.History, 2)
	assert.Equal(t, "status_changed", found.History[0].EventType)

	assert.Len(t, found.TechnicalDocs, 1)
}

func TestClientRepository_Update_VersionConflict(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewClientRepository(db)

	client := createTestClient(t, db, "Versioned AS")

	stale, err := repo.GetByID(context.Background(), client.ID)
	require.NoError(t, err)

	client.Notes = "first write"
	require.NoError(t, repo.Update(context.Background(), client))

	stale.Notes = "second write"
	err = repo.Update(context.Background(), stale)
	assert.ErrorIs(t, err, repository.ErrVersionConflict)
}

func TestClientRepository_Update_StampsOnboardedAt(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewClientRepository(db)

	client := createTestClient(t, db, "Onboard AS")

	now := time.Now()
	client.Status = domain.ClientStatusActive
	client.OnboardedAt = &now
	require.NoError(t, repo.Update(context.Background(), client))

	found, err := repo.GetByID(context.Background(), client.ID)
	assert.NoError(t, err)
	assert.Equal(t, domain.ClientStatusActive, found.Status)
	assert.NotNil(t, found.OnboardedAt)
}

func TestClientRepository_Delete(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewClientRepository(db)

	client := createTestClient(t, db, "Doomed AS")

	err := repo.Delete(context.Background(), client.ID)
	assert.NoError(t, err)

	_, err = repo.GetByID(context.Background(), client.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
