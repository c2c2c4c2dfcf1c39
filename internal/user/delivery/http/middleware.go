package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/tair/catalog-admin/internal/user/domain"
	"github.com/tair/catalog-admin/pkg/auth"
	"github.com/tair/catalog-admin/pkg/logger"
)

type contextKey string

const (
	UserIDKey   contextKey = "user_id"
	UsernameKey contextKey = "username"
	RoleKey     contextKey = "role"
)

// AuthMiddleware validates the bearer JWT and stores its claims in the context
func AuthMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			respondAuthError(w, http.StatusUnauthorized, "Authorization header required")
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			respondAuthError(w, http.StatusUnauthorized, "Invalid authorization header format")
			return
		}

		claims, err := auth.ValidateToken(parts[1])
		if err != nil {
			respondAuthError(w, http.StatusUnauthorized, "Invalid token")
			return
		}

		ctx := context.WithValue(r.Context(), UserIDKey, claims.UserID)
		ctx = context.WithValue(ctx, UsernameKey, claims.Username)
		ctx = context.WithValue(ctx, RoleKey, claims.Role)

		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

// AdminMiddleware checks if user has admin role
func AdminMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return AuthMiddleware(func(w http.ResponseWriter, r *http.Request) {
		role, ok := r.Context().Value(RoleKey).(string)
		if !ok || role != domain.RoleAdmin {
			respondAuthError(w, http.StatusForbidden, "Admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// PermissionChecker gates handlers on the role/module/action permission table.
// Admins pass unconditionally.
type PermissionChecker struct {
	repo domain.UserRepository
}

// NewPermissionChecker creates a new permission checker
func NewPermissionChecker(repo domain.UserRepository) *PermissionChecker {
	return &PermissionChecker{repo: repo}
}

// Require wraps next so it only runs when the caller's role holds the
// module/action permission
func (p *PermissionChecker) Require(module, action string, next http.HandlerFunc) http.HandlerFunc {
	return AuthMiddleware(func(w http.ResponseWriter, r *http.Request) {
		role, ok := r.Context().Value(RoleKey).(string)
		if !ok {
			respondAuthError(w, http.StatusForbidden, "Role not found in context")
			return
		}

		allowed, err := p.repo.HasPermission(role, module, action)
		if err != nil {
			logger.Error(r.Context()).Err(err).
				Str("role", role).
				Str("module", module).
				Str("action", action).
				Msg("Permission lookup failed")
			respondAuthError(w, http.StatusInternalServerError, "Permission check failed")
			return
		}
		if !allowed {
			respondAuthError(w, http.StatusForbidden, "Insufficient permissions")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// UserIDFromContext extracts the authenticated user id set by AuthMiddleware
func UserIDFromContext(ctx context.Context) (uint, bool) {
	id, ok := ctx.Value(UserIDKey).(uint)
	return id, ok
}

func respondAuthError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{"success": false, "error": message})
}
