package command

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	apperrors "github.com/tair/catalog-admin/internal/errors"
	"github.com/tair/catalog-admin/internal/taxonomy/domain"
	"github.com/tair/catalog-admin/pkg/slug"
)

// UpdateNodeCommand represents the command to update a taxonomy entry.
// Empty strings leave the corresponding field unchanged; the natural key is
// immutable, renaming keeps the identity.
type UpdateNodeCommand struct {
	Kind        domain.Kind
	ID          uint
	Name        string
	Description *string
	URL         string
	Email       string
	Phone       string
}

// UpdateNodeHandler handles taxonomy update command
type UpdateNodeHandler struct {
	repo domain.NodeRepository
}

// NewUpdateNodeHandler creates a new update node handler
func NewUpdateNodeHandler(repo domain.NodeRepository) *UpdateNodeHandler {
	return &UpdateNodeHandler{repo: repo}
}

// Handle executes the update node command
func (h *UpdateNodeHandler) Handle(cmd UpdateNodeCommand) (*domain.Node, error) {
	if !cmd.Kind.Valid() {
		return nil, apperrors.NewValidationError("unknown taxonomy kind %q", cmd.Kind)
	}
	if cmd.ID == 0 {
		return nil, apperrors.NewValidationError("invalid %s id", cmd.Kind)
	}

	node, err := h.repo.FindByID(cmd.Kind, cmd.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("%s %d not found", cmd.Kind, cmd.ID)
		}
		return nil, fmt.Errorf("failed to load %s: %w", cmd.Kind, err)
	}

	if cmd.Name != "" && cmd.Name != node.Name {
		node.Name = cmd.Name
		node.Slug = slug.Derive(cmd.Name)
	}
	if cmd.Description != nil {
		node.Description = *cmd.Description
	}
	if cmd.URL != "" {
		node.URL = cmd.URL
	}
	if cmd.Email != "" {
		node.Email = cmd.Email
	}
	if cmd.Phone != "" {
		node.Phone = cmd.Phone
	}

	if err := h.repo.Update(cmd.Kind, node); err != nil {
		return nil, fmt.Errorf("failed to update %s: %w", cmd.Kind, err)
	}

	return node, nil
}
