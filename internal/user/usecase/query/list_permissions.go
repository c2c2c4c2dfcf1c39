package query

import (
	apperrors "github.com/tair/catalog-admin/internal/errors"
	"github.com/tair/catalog-admin/internal/user/domain"
)

// ListPermissionsQuery represents the query to list a role's permissions
type ListPermissionsQuery struct {
	Role string
}

// ListPermissionsHandler handles list permissions query
type ListPermissionsHandler struct {
	repo domain.UserRepository
}

// NewListPermissionsHandler creates a new list permissions handler
func NewListPermissionsHandler(repo domain.UserRepository) *ListPermissionsHandler {
	return &ListPermissionsHandler{repo: repo}
}

// Handle executes the list permissions query
func (h *ListPermissionsHandler) Handle(q ListPermissionsQuery) ([]domain.Permission, error) {
	if !domain.ValidRole(q.Role) {
		return nil, apperrors.NewValidationError("invalid role: %s", q.Role)
	}
	return h.repo.ListPermissions(q.Role)
}
