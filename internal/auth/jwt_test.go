package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opsdesk/operations-api/internal/config"
	"github.com/opsdesk/operations-api/internal/domain"
)

func newTestTokenManager(ttlMinutes int) *TokenManager {
	return NewTokenManager(&config.JWTConfig{
		Secret:     "test-secret",
		Issuer:     "operations-api-test",
		TTLMinutes: ttlMinutes,
	})
}

func TestTokenManager_IssueAndValidate(t *testing.T) {
	m := newTestTokenManager(60)

	user := &domain.User{
		Email:    "user@example.com",
		FullName: "Test User",
		Role:     domain.RoleManager,
	}
	user.BeforeCreate(nil)

	token, err := m.Issue(user)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, claims, err := m.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, userID)
	assert.Equal(t, "user@example.com", claims.Email)
	assert.Equal(t, domain.RoleManager, claims.Role)
}

func TestTokenManager_RejectsExpiredToken(t *testing.T) {
	m := newTestTokenManager(-1)

	user := &domain.User{Email: "user@example.com", Role: domain.RoleEmployee}
	user.BeforeCreate(nil)

	token, err := m.Issue(user)
	require.NoError(t, err)

	_, _, err = m.Validate(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestTokenManager_RejectsWrongSecret(t *testing.T) {
	m := newTestTokenManager(60)
	other := NewTokenManager(&config.JWTConfig{
		Secret:     "another-secret",
		Issuer:     "operations-api-test",
		TTLMinutes: 60,
	})

	user := &domain.User{Email: "user@example.com", Role: domain.RoleEmployee}
	user.BeforeCreate(nil)

	token, err := m.Issue(user)
	require.NoError(t, err)

	_, _, err = other.Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManager_RejectsWrongIssuer(t *testing.T) {
	m := newTestTokenManager(60)
	other := NewTokenManager(&config.JWTConfig{
		Secret:     "test-secret",
		Issuer:     "someone-else",
		TTLMinutes: 60,
	})

	user := &domain.User{Email: "user@example.com", Role: domain.RoleEmployee}
	user.BeforeCreate(nil)

	token, err := other.Issue(user)
	require.NoError(t, err)

	_, _, err = m.Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManager_RejectsGarbage(t *testing.T) {
	m := newTestTokenManager(60)
	_, _, err := m.Validate("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
