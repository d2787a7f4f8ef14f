package auth

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/opsdesk/operations-api/internal/repository"
)

// Middleware handles authentication for HTTP requests
type Middleware struct {
	tokens   *TokenManager
	userRepo *repository.UserRepository
	logger   *zap.Logger
}

// NewMiddleware creates a new authentication middleware
func NewMiddleware(tokens *TokenManager, userRepo *repository.UserRepository, logger *zap.Logger) *Middleware {
	return &Middleware{
		tokens:   tokens,
		userRepo: userRepo,
		logger:   logger,
	}
}

// Authenticate validates the bearer token and loads the user's current
// role and active flag from storage, so deactivations and role changes
// take effect before the token expires.
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			http.Error(w, "Unauthorized: missing authorization header", http.StatusUnauthorized)
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			http.Error(w, "Unauthorized: invalid authorization header format", http.StatusUnauthorized)
			return
		}

		userID, _, err := m.tokens.Validate(parts[1])
		if err != nil {
			m.logger.Warn("token validation failed",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("remote_addr", r.RemoteAddr),
				zap.Error(err),
			)
			http.Error(w, "Unauthorized: "+err.Error(), http.StatusUnauthorized)
			return
		}

		user, err := m.userRepo.GetByID(r.Context(), userID)
		if err != nil {
			m.logger.Warn("token subject not found",
				zap.String("user_id", userID.String()),
				zap.String("path", r.URL.Path),
			)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		if !user.IsActive {
			http.Error(w, "Unauthorized: account disabled", http.StatusUnauthorized)
			return
		}

		userCtx := &UserContext{
			UserID:   user.ID,
			Email:    user.Email,
			FullName: user.FullName,
			Role:     user.Role,
			IsActive: user.IsActive,
		}

		ctx := WithUserContext(r.Context(), userCtx)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
