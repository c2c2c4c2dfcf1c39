package command

import (
	"fmt"
	"strings"
	"time"

	apperrors "github.com/tair/catalog-admin/internal/errors"
	"github.com/tair/catalog-admin/internal/user/domain"
)

// UpdateUserCommand represents the command to update a user's profile
type UpdateUserCommand struct {
	ID       uint
	Email    string
	FullName string
}

// UpdateUserHandler handles user update command
type UpdateUserHandler struct {
	repo domain.UserRepository
}

// NewUpdateUserHandler creates a new update user handler
func NewUpdateUserHandler(repo domain.UserRepository) *UpdateUserHandler {
	return &UpdateUserHandler{repo: repo}
}

// Handle executes the update user command
func (h *UpdateUserHandler) Handle(cmd UpdateUserCommand) (*domain.User, error) {
	if cmd.ID == 0 {
		return nil, apperrors.NewValidationError("invalid user id")
	}
	if strings.TrimSpace(cmd.Email) == "" {
		return nil, apperrors.NewValidationError("email is required")
	}
	if strings.TrimSpace(cmd.FullName) == "" {
		return nil, apperrors.NewValidationError("full name is required")
	}

	user, err := h.repo.FindByID(cmd.ID)
	if err != nil {
		return nil, err
	}

	if !strings.EqualFold(cmd.Email, user.Email) {
		if _, err := h.repo.FindByEmail(cmd.Email); err == nil {
			return nil, apperrors.NewConflictError("email %q already registered", cmd.Email)
		}
	}

	user.Email = strings.ToLower(cmd.Email)
	user.FullName = cmd.FullName
	user.UpdatedAt = time.Now()

	if err := h.repo.Update(user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return user, nil
}
