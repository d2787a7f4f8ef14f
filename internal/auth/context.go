package auth

import (
	"context"

	"github.com/google/uuid"

	"github.com/opsdesk/operations-api/internal/domain"
	"github.com/opsdesk/operations-api/internal/policy"
)

// UserContext holds authenticated user information for a request
type UserContext struct {
	UserID   uuid.UUID
	Email    string
	FullName string
	Role     domain.Role
	IsActive bool
}

type contextKey string

const userContextKey contextKey = "userContext"

// WithUserContext adds user context to the context
func WithUserContext(ctx context.Context, user *UserContext) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// FromContext extracts user context from the context
func FromContext(ctx context.Context) (*UserContext, bool) {
	user, ok := ctx.Value(userContextKey).(*UserContext)
	return user, ok
}

// MustFromContext extracts user context or panics. Only call behind the
// Authenticate middleware.
func MustFromContext(ctx context.Context) *UserContext {
	user, ok := FromContext(ctx)
	if !ok {
		panic("user context not found in context")
	}
	return user
}

// HasAnyRole checks if the user has any of the specified roles
func (u *UserContext) HasAnyRole(roles ...domain.Role) bool {
	for _, role := range roles {
		if u.Role == role {
			return true
		}
	}
	return false
}

// IsAdmin checks if the user is an admin
func (u *UserContext) IsAdmin() bool {
	return u.Role == domain.RoleAdmin
}

// Actor converts the user context into a policy actor. A nil receiver
// maps to a nil actor, which every policy rule denies.
func (u *UserContext) Actor() *policy.Actor {
	if u == nil {
		return nil
	}
	return &policy.Actor{
		ID:       u.UserID,
		Role:     u.Role,
		IsActive: u.IsActive,
	}
}

// ActorFromContext returns the policy actor for the request, nil when
// unauthenticated
func ActorFromContext(ctx context.Context) *policy.Actor {
	user, ok := FromContext(ctx)
	if !ok {
		return nil
	}
	return user.Actor()
}
