package command

import (
	"fmt"
	"time"

	apperrors "github.com/tair/catalog-admin/internal/errors"
	"github.com/tair/catalog-admin/internal/user/domain"
)

// ChangeRoleCommand represents the command to change a user's role (admin only)
type ChangeRoleCommand struct {
	UserID uint
	Role   string
}

// ChangeRoleHandler handles role change command
type ChangeRoleHandler struct {
	repo domain.UserRepository
}

// NewChangeRoleHandler creates a new change role handler
func NewChangeRoleHandler(repo domain.UserRepository) *ChangeRoleHandler {
	return &ChangeRoleHandler{repo: repo}
}

// Handle executes the change role command
func (h *ChangeRoleHandler) Handle(cmd ChangeRoleCommand) (*domain.User, error) {
	if cmd.UserID == 0 {
		return nil, apperrors.NewValidationError("invalid user id")
	}
	if !domain.ValidRole(cmd.Role) {
		return nil, apperrors.NewValidationError("invalid role: %s", cmd.Role)
	}

	user, err := h.repo.FindByID(cmd.UserID)
	if err != nil {
		return nil, err
	}

	user.Role = cmd.Role
	user.UpdatedAt = time.Now()

	if err := h.repo.Update(user); err != nil {
		return nil, fmt.Errorf("failed to change role: %w", err)
	}

	return user, nil
}
