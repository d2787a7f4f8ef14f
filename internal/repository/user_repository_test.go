package repository_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/opsdesk/operations-api/internal/domain"
	"github.com/opsdesk/operations-api/internal/repository"
)

func TestUserRepository_Create(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewUserRepository(db)

	user := &domain.User{
		Email:        "new.user@example.com",
		PasswordHash: "hash",
		FullName:     "New User",
		Role:         domain.RoleEmployee,
		IsActive:     true,
	}

	err := repo.Create(context.Background(), user)
	assert.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, user.ID)
	assert.Equal(t, 1, user.RowVersion)

	found, err := repo.GetByID(context.Background(), user.ID)
	assert.NoError(t, err)
	assert.Equal(t, "new.user@example.com", found.Email)
	assert.Equal(t, domain.RoleEmployee, found.Role)
}

func TestUserRepository_GetByID_NotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewUserRepository(db)

	_, err := repo.GetByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestUserRepository_GetByEmail(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewUserRepository(db)

	user := createTestUser(t, db, "Mixed.Case@Example.COM", domain.RoleManager)

	t.Run("exact match", func(t *testing.T) {
		found, err := repo.GetByEmail(context.Background(), "Mixed.Case@Example.COM")
		assert.NoError(t, err)
		assert.Equal(t, user.ID, found.ID)
	})

	t.Run("case insensitive", func(t *testing.T) {
		found, err := repo.GetByEmail(context.Background(), "mixed.case@example.com")
		assert.NoError(t, err)
		assert.Equal(t, user.ID, found.ID)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := repo.GetByEmail(context.Background(), "nobody@example.com")
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	})
}

func TestUserRepository_List(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewUserRepository(db)

	for _, name := range []string{"Charlie", "Alice", "Bob"} {
		user := &domain.User{
			Email:        name + "@example.com",
			PasswordHash: "hash",
			FullName:     name,
			Role:         domain.RoleEmployee,
			IsActive:     true,
		}
		require.NoError(t, db.Create(user).Error)
	}

	users, total, err := repo.List(context.Background(), 1, 10)
	assert.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, users, 3)
	assert.Equal(t, "Alice", users[0].FullName)
	assert.Equal(t, "Bob", users[1].FullName)
	assert.Equal(t, "Charlie", users[2].FullName)

	users, total, err = repo.List(context.Background(), 2, 2)
	assert.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, users, 1)
}

func TestUserRepository_Update(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewUserRepository(db)

	user := createTestUser(t, db, "update.me@example.com", domain.RoleEmployee)

	user.FullName = "Renamed User"
	user.Role = domain.RoleManager
	err := repo.Update(context.Background(), user)
	assert.NoError(t, err)
	assert.Equal(t, 2, user.RowVersion)

	found, err := repo.GetByID(context.Background(), user.ID)
	assert.NoError(t, err)
	assert.Equal(t, "Renamed User", found.FullName)
	assert.Equal(t, domain.RoleManager, found.Role)
	assert.Equal(t, 2, found.RowVersion)
}

func TestUserRepository_Update_VersionConflict(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewUserRepository(db)

	user := createTestUser(t, db, "conflict@example.com", domain.RoleEmployee)

	stale, err := repo.GetByID(context.Background(), user.ID)
	require.NoError(t, err)

	user.FullName = "First Writer"
	require.NoError(t, repo.Update(context.Background(), user))

	stale.FullName = "Second Writer"
	err = repo.Update(context.Background(), stale)
	assert.ErrorIs(t, err, repository.ErrVersionConflict)

	// The stale copy keeps its original version so the caller can reload
	assert.Equal(t, 1, stale.RowVersion)

	found, err := repo.GetByID(context.Background(), user.ID)
	assert.NoError(t, err)
	assert.Equal(t, "First Writer", found.FullName)
}

func TestUserRepository_Delete(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewUserRepository(db)

	user := createTestUser(t, db, "delete.me@example.com", domain.RoleEmployee)

	err := repo.Delete(context.Background(), user.ID)
	assert.NoError(t, err)

	_, err = repo.GetByID(context.Background(), user.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
