package command

import (
	"fmt"
	"strings"

	apperrors "github.com/tair/catalog-admin/internal/errors"
	"github.com/tair/catalog-admin/internal/user/domain"
	"github.com/tair/catalog-admin/pkg/auth"
)

// RegisterUserCommand represents the command to register a new user
type RegisterUserCommand struct {
	Username string
	Email    string
	Password string
	FullName string
	Role     string
}

// RegisterUserHandler handles user registration
type RegisterUserHandler struct {
	repo domain.UserRepository
}

// NewRegisterUserHandler creates a new register user handler
func NewRegisterUserHandler(repo domain.UserRepository) *RegisterUserHandler {
	return &RegisterUserHandler{repo: repo}
}

// Handle executes the register user command
func (h *RegisterUserHandler) Handle(cmd RegisterUserCommand) (*domain.User, error) {
	if strings.TrimSpace(cmd.Username) == "" {
		return nil, apperrors.NewValidationError("username is required")
	}
	if strings.TrimSpace(cmd.Email) == "" {
		return nil, apperrors.NewValidationError("email is required")
	}
	if len(cmd.Password) < 6 {
		return nil, apperrors.NewValidationError("password must be at least 6 characters")
	}

	role := cmd.Role
	if role == "" {
		role = domain.RoleUser
	}
	if !domain.ValidRole(role) {
		return nil, apperrors.NewValidationError("invalid role: %s", role)
	}

	if _, err := h.repo.FindByUsername(cmd.Username); err == nil {
		return nil, apperrors.NewConflictError("username %q already taken", cmd.Username)
	}
	if _, err := h.repo.FindByEmail(cmd.Email); err == nil {
		return nil, apperrors.NewConflictError("email %q already registered", cmd.Email)
	}

	hashed, err := auth.HashPassword(cmd.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		Username: cmd.Username,
		Email:    strings.ToLower(cmd.Email),
		Password: hashed,
		FullName: cmd.FullName,
		Role:     role,
		IsActive: true,
	}

	if err := h.repo.Create(user); err != nil {
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	return user, nil
}
