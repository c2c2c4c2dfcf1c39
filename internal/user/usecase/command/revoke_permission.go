package command

import (
	apperrors "github.com/tair/catalog-admin/internal/errors"
	"github.com/tair/catalog-admin/internal/user/domain"
)

// RevokePermissionCommand represents the command to revoke a role's permission
type RevokePermissionCommand struct {
	Role   string
	Module string
	Action string
}

// RevokePermissionHandler handles permission revocation (admin only)
type RevokePermissionHandler struct {
	repo domain.UserRepository
}

// NewRevokePermissionHandler creates a new revoke permission handler
func NewRevokePermissionHandler(repo domain.UserRepository) *RevokePermissionHandler {
	return &RevokePermissionHandler{repo: repo}
}

// Handle executes the revoke permission command
func (h *RevokePermissionHandler) Handle(cmd RevokePermissionCommand) error {
	if cmd.Role == "" || cmd.Module == "" || cmd.Action == "" {
		return apperrors.NewValidationError("role, module and action are required")
	}
	return h.repo.RevokePermission(cmd.Role, cmd.Module, cmd.Action)
}
