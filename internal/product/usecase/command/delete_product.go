package command

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	apperrors "github.com/tair/catalog-admin/internal/errors"
	"github.com/tair/catalog-admin/internal/product/domain"
)

// DeleteProductCommand represents the command to soft-delete a product
type DeleteProductCommand struct {
	ID uint
}

// DeleteProductHandler handles product deletion command
type DeleteProductHandler struct {
	repo domain.ProductRepository
}

// NewDeleteProductHandler creates a new delete product handler
func NewDeleteProductHandler(repo domain.ProductRepository) *DeleteProductHandler {
	return &DeleteProductHandler{repo: repo}
}

// Handle soft-deletes the product and decrements the counter of every parent
// it currently references, symmetric with create, in one transaction.
func (h *DeleteProductHandler) Handle(cmd DeleteProductCommand) error {
	if cmd.ID == 0 {
		return apperrors.NewValidationError("invalid product id")
	}

	product, err := h.repo.FindByID(cmd.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NewNotFoundError("product %d not found", cmd.ID)
		}
		return fmt.Errorf("failed to load product: %w", err)
	}

	return h.repo.Transaction(func(tx domain.ProductRepository) error {
		for kind, ids := range product.ParentRefs() {
			if err := tx.AdjustParentCount(kind, ids, -1); err != nil {
				return err
			}
		}
		if err := tx.SoftDelete(product.ID); err != nil {
			return fmt.Errorf("failed to delete product: %w", err)
		}
		return nil
	})
}
