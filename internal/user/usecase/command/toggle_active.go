package command

import (
	"fmt"
	"time"

	apperrors "github.com/tair/catalog-admin/internal/errors"
	"github.com/tair/catalog-admin/internal/user/domain"
)

// ToggleActiveCommand represents the command to activate/deactivate a user (admin only)
type ToggleActiveCommand struct {
	UserID   uint
	IsActive bool
}

// ToggleActiveHandler handles user activation toggle command
type ToggleActiveHandler struct {
	repo domain.UserRepository
}

// NewToggleActiveHandler creates a new toggle active handler
func NewToggleActiveHandler(repo domain.UserRepository) *ToggleActiveHandler {
	return &ToggleActiveHandler{repo: repo}
}

// Handle executes the toggle active command
func (h *ToggleActiveHandler) Handle(cmd ToggleActiveCommand) (*domain.User, error) {
	if cmd.UserID == 0 {
		return nil, apperrors.NewValidationError("invalid user id")
	}

	user, err := h.repo.FindByID(cmd.UserID)
	if err != nil {
		return nil, err
	}

	user.IsActive = cmd.IsActive
	user.UpdatedAt = time.Now()

	if err := h.repo.Update(user); err != nil {
		return nil, fmt.Errorf("failed to update user status: %w", err)
	}

	return user, nil
}
