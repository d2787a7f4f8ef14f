package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/opsdesk/operations-api/internal/auth"
	"github.com/opsdesk/operations-api/internal/domain"
)

// setupTestDB opens an in-memory sqlite database and migrates the full
// schema. The single-connection pool keeps the database alive for the
// test's duration.
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

func createTestUser(t *testing.T, db *gorm.DB, email, password string, role domain.Role) *domain.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	user := &domain.User{
		Email:        email,
		PasswordHash: string(hash),
		FullName:     "Test User",
		Role:         role,
		IsActive:     true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func hashUserPassword(t *testing.T, user *domain.User, password string) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	user.PasswordHash = string(hash)
}

func createTestClient(t *testing.T, db *gorm.DB, name string) *domain.Client {
	t.Helper()
	client := &domain.Client{
		Name:    name,
		Country: "Norway",
		Status:  domain.ClientStatusPending,
	}
	require.NoError(t, db.Create(client).Error)
	return client
}

// ctxFor returns a request context authenticated as the given user
func ctxFor(user *domain.User) context.Context {
	return auth.WithUserContext(context.Background(), &auth.UserContext{
		UserID:   user.ID,
		Email:    user.Email,
		FullName: user.FullName,
		Role:     user.Role,
		IsActive: user.IsActive,
	})
}
