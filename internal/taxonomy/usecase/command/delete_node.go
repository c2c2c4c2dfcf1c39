package command

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	apperrors "github.com/tair/catalog-admin/internal/errors"
	"github.com/tair/catalog-admin/internal/taxonomy/domain"
)

// DeleteNodeCommand represents the command to soft-delete a taxonomy entry
type DeleteNodeCommand struct {
	Kind domain.Kind
	ID   uint
}

// DeleteNodeHandler handles taxonomy deletion command
type DeleteNodeHandler struct {
	repo domain.NodeRepository
}

// NewDeleteNodeHandler creates a new delete node handler
func NewDeleteNodeHandler(repo domain.NodeRepository) *DeleteNodeHandler {
	return &DeleteNodeHandler{repo: repo}
}

// Handle soft-deletes the entry and detaches every live product reference to
// it (set-null-on-parent-delete), in one transaction.
func (h *DeleteNodeHandler) Handle(cmd DeleteNodeCommand) error {
	if !cmd.Kind.Valid() {
		return apperrors.NewValidationError("unknown taxonomy kind %q", cmd.Kind)
	}
	if cmd.ID == 0 {
		return apperrors.NewValidationError("invalid %s id", cmd.Kind)
	}

	if _, err := h.repo.FindByID(cmd.Kind, cmd.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NewNotFoundError("%s %d not found", cmd.Kind, cmd.ID)
		}
		return fmt.Errorf("failed to load %s: %w", cmd.Kind, err)
	}

	return h.repo.Transaction(func(tx domain.NodeRepository) error {
		if err := tx.DetachProducts(cmd.Kind, cmd.ID); err != nil {
			return fmt.Errorf("failed to detach products from %s %d: %w", cmd.Kind, cmd.ID, err)
		}
		if err := tx.SoftDelete(cmd.Kind, cmd.ID); err != nil {
			return fmt.Errorf("failed to delete %s: %w", cmd.Kind, err)
		}
		return nil
	})
}
