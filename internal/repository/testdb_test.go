package repository_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/opsdesk/operations-api/internal/domain"
)

// setupTestDB opens an in-memory sqlite database and migrates the full
// schema. Each test gets its own database; the single-connection pool
// keeps it alive for the test's duration.
func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&domain.User{},
		&domain.Client{},
		&domain.Contact{},
		&domain.Quotation{},
		&domain.ServiceEvent{},
		&domain.TechnicalDoc{},
		&domain.Task{},
		&domain.Expense{},
	))

	t.Cleanup(func() {
		_ = sqlDB.Close()
	})
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, email string, role domain.Role) *domain.User {
	user := &domain.User{
		Email:        email,
		PasswordHash: "$2a$10$notarealhashnotarealhashnotarealhashnotarealha",
		FullName:     "Test User",
		Role:         role,
		IsActive:     true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createTestClient(t *testing.T, db *gorm.DB, name string) *domain.Client {
	client := &domain.Client{
		Name:      name,
		OrgNumber: fmt.Sprintf("%09d", time.Now().UnixNano()%1000000000),
		Email:     "client@example.com",
		Country:   "Norway",
		Status:    domain.ClientStatusPending,
	}
	require.NoError(t, db.Create(client).Error)
	return client
}

func createTestContact(t *testing.T, db *gorm.DB, clientID uuid.UUID, firstName, lastName string, primary bool) *domain.Contact {
	contact := &domain.Contact{
		ClientID:  clientID,
		FirstName: firstName,
		LastName:  lastName,
		Email:     firstName + "@example.com",
	}
	require.NoError(t, db.Create(contact).Error)
	if primary {
		require.NoError(t, db.Model(contact).Update("is_primary", true).Error)
		contact.IsPrimary = true
	}
	return contact
}
