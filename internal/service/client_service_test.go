package service_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/opsdesk/operations-api/internal/domain"
	"github.com/opsdesk/operations-api/internal/repository"
	"github.com/opsdesk/operations-api/internal/service"
)

func newClientService(t *testing.T) (*service.ClientService, *gorm.DB) {
	db := setupTestDB(t)
	svc := service.NewClientService(
		repository.NewClientRepository(db),
		repository.NewServiceHistoryRepository(db),
		zap.NewNop(),
	)
	return svc, db
}

func TestClientService_Create(t *testing.T) {
	svc, db := newClientService(t)
	manager := createTestUser(t, db, "manager@example.com", "password123!", domain.RoleManager)

	dto, err := svc.Create(ctxFor(manager), &domain.CreateClientRequest{
		Name:      "Fresh AS",
		OrgNumber: "123456789",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.ClientStatusPending, dto.Status)
	assert.Equal(t, "Norway", dto.Country)

	// Creation leaves a trail in the service history
	var events []domain.ServiceEvent
	require.NoError(t, db.Where("client_id = ?", dto.ID).Find(&events).Error)
	require.Len(t, events, 1)
	assert.Equal(t, "client_created", events[0].EventType)
	assert.Equal(t, manager.ID, events[0].RecordedByID)
}

func TestClientService_Create_EmployeeDenied(t *testing.T) {
	svc, db := newClientService(t)
	employee := createTestUser(t, db, "employee@example.com", "password123!", domain.RoleEmployee)

	_, err := svc.Create(ctxFor(employee), &domain.CreateClientRequest{Name: "Nope AS"})
	assert.ErrorIs(t, err, service.ErrInsufficientRole)
}

func TestClientService_Update_ActivationStampsOnboardedAt(t *testing.T) {
	svc, db := newClientService(t)
	manager := createTestUser(t, db, "manager@example.com", "password123!", domain.RoleManager)
	client := createTestClient(t, db, "Onboarding AS")

	status := domain.ClientStatusActive
	dto, err := svc.Update(ctxFor(manager), client.ID, &domain.UpdateClientRequest{Status: &status})
	require.NoError(t, err)
	assert.Equal(t, domain.ClientStatusActive, dto.Status)
	assert.NotEmpty(t, dto.OnboardedAt)

	// Deactivate and reactivate; the onboarding timestamp must not move
	inactive := domain.ClientStatusInactive
	_, err = svc.Update(ctxFor(manager), client.ID, &domain.UpdateClientRequest{Status: &inactive})
	require.NoError(t, err)

	again, err := svc.Update(ctxFor(manager), client.ID, &domain.UpdateClientRequest{Status: &status})
	require.NoError(t, err)
	assert.Equal(t, dto.OnboardedAt, again.OnboardedAt)

	// Every status change appends a history event
	var count int64
	require.NoError(t, db.Model(&domain.ServiceEvent{}).
		Where("client_id = ? AND event_type = ?", client.ID, "status_changed").
		Count(&count).Error)
	assert.Equal(t, int64(3), count)
}

func TestClientService_Update_InvalidTransition(t *testing.T) {
	svc, db := newClientService(t)
	manager := createTestUser(t, db, "manager@example.com", "password123!", domain.RoleManager)

	client := createTestClient(t, db, "Active AS")
	require.NoError(t, db.Model(client).Update("status", domain.ClientStatusActive).Error)

	// active cannot go back to pending
	status := domain.ClientStatusPending
	_, err := svc.Update(ctxFor(manager), client.ID, &domain.UpdateClientRequest{Status: &status})
	assert.ErrorIs(t, err, service.ErrStateConflict)
}

func TestClientService_Update_EmployeeDenied(t *testing.T) {
	svc, db := newClientService(t)
	employee := createTestUser(t, db, "employee@example.com", "password123!", domain.RoleEmployee)
	client := createTestClient(t, db, "Protected AS")

	name := "Renamed AS"
	_, err := svc.Update(ctxFor(employee), client.ID, &domain.UpdateClientRequest{Name: &name})
	assert.ErrorIs(t, err, service.ErrInsufficientRole)
}

func TestClientService_Update_NotFound(t *testing.T) {
	svc, db := newClientService(t)
	manager := createTestUser(t, db, "manager@example.com", "password123!", domain.RoleManager)

	name := "Ghost AS"
	_, err := svc.Update(ctxFor(manager), uuid.New(), &domain.UpdateClientRequest{Name: &name})
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestClientService_GetByID_AnyActiveRoleReads(t *testing.T) {
	svc, db := newClientService(t)
	employee := createTestUser(t, db, "employee@example.com", "password123!", domain.RoleEmployee)
	client := createTestClient(t, db, "Readable AS")

	dto, err := svc.GetByID(ctxFor(employee), client.ID)
	require.NoError(t, err)
	assert.Equal(t, "Readable AS", dto.Name)
}

func TestClientService_Delete(t *testing.T) {
	svc, db := newClientService(t)
	admin := createTestUser(t, db, "admin@example.com", "password123!", domain.RoleAdmin)
	employee := createTestUser(t, db, "employee@example.com", "password123!", domain.RoleEmployee)
	client := createTestClient(t, db, "Doomed AS")

	err := svc.Delete(ctxFor(employee), client.ID)
	assert.ErrorIs(t, err, service.ErrInsufficientRole)

	err = svc.Delete(ctxFor(admin), client.ID)
	assert.NoError(t, err)

	_, err = svc.GetByID(ctxFor(admin), client.ID)
	assert.ErrorIs(t, err, service.ErrNotFound)
}
