package repository_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opsdesk/operations-api/internal/domain"
	"github.com/opsdesk/operations-api/internal/repository"
)

func createTestQuotation(t *testing.T, repo *repository.QuotationRepository, clientID uuid.UUID, title string) *domain.Quotation {
	t.Helper()
	quotation := &domain.Quotation{
		ClientID: clientID,
		Title:    title,
		Amount:   5000,
		Currency: "NOK",
		Status:   domain.QuotationStatusDraft,
	}
	require.NoError(t, repo.Create(context.Background(), quotation))
	return quotation
}

func TestQuotationRepository_Create_AllocatesSequentialVersions(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewQuotationRepository(db)
	client := createTestClient(t, db, "Versioned AS")

	first := createTestQuotation(t, repo, client.ID, "First")
	second := createTestQuotation(t, repo, client.ID, "Second")
	third := createTestQuotation(t, repo, client.ID, "Third")

	assert.Equal(t, 1, first.Version)
	assert.Equal(t, 2, second.Version)
	assert.Equal(t, 3, third.Version)
}

func TestQuotationRepository_Create_ConcurrentAllocationIsGapFree(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewQuotationRepository(db)
	client := createTestClient(t, db, "Contended AS")

	const workers = 8

	var wg sync.WaitGroup
	versions := make(chan int, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			quotation := &domain.Quotation{
				ClientID: client.ID,
				Title:    fmt.Sprintf("Concurrent %d", n),
				Amount:   1000,
				Currency: "NOK",
				Status:   domain.QuotationStatusDraft,
			}
			if err := repo.Create(context.Background(), quotation); err == nil {
				versions <- quotation.Version
			}
		}(i)
	}
	wg.Wait()
	close(versions)

	seen := make(map[int]bool)
	for v := range versions {
		assert.False(t, seen[v], "version %d allocated twice", v)
		seen[v] = true
	}
	require.Len(t, seen, workers)
	for v := 1; v <= workers; v++ {
		assert.True(t, seen[v], "version %d missing from sequence", v)
	}
}

func TestQuotationRepository_Create_VersionsPerClient(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewQuotationRepository(db)

	clientA := createTestClient(t, db, "Client A")
	clientB := createTestClient(t, db, "Client B")

	createTestQuotation(t, repo, clientA.ID, "A1")
	createTestQuotation(t, repo, clientA.ID, "A2")
	b1 := createTestQuotation(t, repo, clientB.ID, "B1")

	// Each client has its own sequence
	assert.Equal(t, 1, b1.Version)
}

func TestQuotationRepository_Create_IgnoresCallerVersion(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewQuotationRepository(db)
	client := createTestClient(t, db, "Stubborn AS")

	quotation := &domain.Quotation{
		ClientID: client.ID,
		Version:  99,
		Title:    "Pushy",
		Amount:   100,
		Currency: "NOK",
		Status:   domain.QuotationStatusDraft,
	}
	require.NoError(t, repo.Create(context.Background(), quotation))
	assert.Equal(t, 1, quotation.Version)
}

func TestQuotationRepository_Create_MissingClient(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewQuotationRepository(db)

	quotation := &domain.Quotation{
		ClientID: uuid.New(),
		Title:    "Orphan",
		Amount:   100,
		Currency: "NOK",
		Status:   domain.QuotationStatusDraft,
	}

	err := repo.Create(context.Background(), quotation)
	assert.Error(t, err)
}

func TestQuotationRepository_ListByClient_NewestVersionFirst(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewQuotationRepository(db)
	client := createTestClient(t, db, "Listed AS")

	createTestQuotation(t, repo, client.ID, "First")
	createTestQuotation(t, repo, client.ID, "Second")

	quotations, err := repo.ListByClient(context.Background(), client.ID)
	assert.NoError(t, err)
	require.Len(t, quotations, 2)
	assert.Equal(t, 2, quotations[0].Version)
	assert.Equal(t, 1, quotations[1].Version)
}

func TestQuotationRepository_List_Filters(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewQuotationRepository(db)

	clientA := createTestClient(t, db, "Filter A")
	clientB := createTestClient(t, db, "Filter B")

	sent := createTestQuotation(t, repo, clientA.ID, "Sent one")
	now := time.Now()
	sent.Status = domain.QuotationStatusSent
	sent.SentAt = &now
	require.NoError(t, repo.Update(context.Background(), sent))

	createTestQuotation(t, repo, clientA.ID, "Draft one")
	createTestQuotation(t, repo, clientB.ID, "Other client")

	t.Run("by status", func(t *testing.T) {
		status := domain.QuotationStatusSent
		quotations, total, err := repo.List(context.Background(), 1, 10, &repository.QuotationFilters{Status: &status})
		assert.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, quotations, 1)
		assert.Equal(t, sent.ID, quotations[0].ID)
	})

	t.Run("by client", func(t *testing.T) {
		_, total, err := repo.List(context.Background(), 1, 10, &repository.QuotationFilters{ClientID: &clientA.ID})
		assert.NoError(t, err)
		assert.Equal(t, int64(2), total)
	})
}

func TestQuotationRepository_Update_VersionConflict(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewQuotationRepository(db)
	client := createTestClient(t, db, "Conflict AS")

	quotation := createTestQuotation(t, repo, client.ID, "Contested")

	stale, err := repo.GetByID(context.Background(), quotation.ID)
	require.NoError(t, err)

	quotation.Amount = 6000
	require.NoError(t, repo.Update(context.Background(), quotation))

	stale.Amount = 7000
	err = repo.Update(context.Background(), stale)
	assert.ErrorIs(t, err, repository.ErrVersionConflict)

	found, err := repo.GetByID(context.Background(), quotation.ID)
	assert.NoError(t, err)
	assert.Equal(t, float64(6000), found.Amount)
}
