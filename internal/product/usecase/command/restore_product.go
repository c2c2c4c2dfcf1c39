package command

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	apperrors "github.com/tair/catalog-admin/internal/errors"
	"github.com/tair/catalog-admin/internal/product/domain"
)

// RestoreProductCommand represents the command to restore a soft-deleted product
type RestoreProductCommand struct {
	ID uint
}

// RestoreProductHandler handles product restore command
type RestoreProductHandler struct {
	repo domain.ProductRepository
}

// NewRestoreProductHandler creates a new restore product handler
func NewRestoreProductHandler(repo domain.ProductRepository) *RestoreProductHandler {
	return &RestoreProductHandler{repo: repo}
}

// Handle restores the row and re-increments every referenced parent counter,
// symmetric with soft-delete, so a delete+restore cycle is counter-neutral.
func (h *RestoreProductHandler) Handle(cmd RestoreProductCommand) (*domain.Product, error) {
	if cmd.ID == 0 {
		return nil, apperrors.NewValidationError("invalid product id")
	}

	product, err := h.repo.FindByIDUnscoped(cmd.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("product %d not found", cmd.ID)
		}
		return nil, fmt.Errorf("failed to load product: %w", err)
	}
	if product.IsLive() {
		return nil, apperrors.NewConflictError("product %d is not deleted", cmd.ID)
	}

	err = h.repo.Transaction(func(tx domain.ProductRepository) error {
		if err := tx.Restore(product.ID); err != nil {
			return fmt.Errorf("failed to restore product: %w", err)
		}
		for kind, ids := range product.ParentRefs() {
			if err := tx.AdjustParentCount(kind, ids, 1); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	product.DeletedAt = gorm.DeletedAt{}
	return product, nil
}
