package command

import (
	"fmt"

	apperrors "github.com/tair/catalog-admin/internal/errors"
	"github.com/tair/catalog-admin/internal/user/domain"
)

// GrantPermissionCommand represents the command to grant a role an action on a module
type GrantPermissionCommand struct {
	Role   string
	Module string
	Action string
}

// GrantPermissionHandler handles permission grants (admin only)
type GrantPermissionHandler struct {
	repo domain.UserRepository
}

// NewGrantPermissionHandler creates a new grant permission handler
func NewGrantPermissionHandler(repo domain.UserRepository) *GrantPermissionHandler {
	return &GrantPermissionHandler{repo: repo}
}

// Handle executes the grant permission command
func (h *GrantPermissionHandler) Handle(cmd GrantPermissionCommand) (*domain.Permission, error) {
	if !domain.ValidRole(cmd.Role) {
		return nil, apperrors.NewValidationError("invalid role: %s", cmd.Role)
	}
	if cmd.Role == domain.RoleAdmin {
		return nil, apperrors.NewValidationError("admin role has implicit permissions")
	}
	if cmd.Module == "" || cmd.Action == "" {
		return nil, apperrors.NewValidationError("module and action are required")
	}

	exists, err := h.repo.HasPermission(cmd.Role, cmd.Module, cmd.Action)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperrors.NewConflictError("permission %s/%s/%s already granted", cmd.Role, cmd.Module, cmd.Action)
	}

	perm := &domain.Permission{
		Role:   cmd.Role,
		Module: cmd.Module,
		Action: cmd.Action,
	}
	if err := h.repo.GrantPermission(perm); err != nil {
		return nil, fmt.Errorf("failed to grant permission: %w", err)
	}

	return perm, nil
}
