package command

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	apperrors "github.com/tair/catalog-admin/internal/errors"
	"github.com/tair/catalog-admin/internal/purchase/domain"
)

// DeletePurchaseCommand represents the command to soft-delete a purchase
type DeletePurchaseCommand struct {
	ID uint
}

// DeletePurchaseHandler handles purchase deletion command
type DeletePurchaseHandler struct {
	repo domain.PurchaseRepository
}

// NewDeletePurchaseHandler creates a new delete purchase handler
func NewDeletePurchaseHandler(repo domain.PurchaseRepository) *DeletePurchaseHandler {
	return &DeletePurchaseHandler{repo: repo}
}

// Handle soft-deletes the purchase; a completed purchase takes its quantity
// back out of the product's stock in the same transaction.
func (h *DeletePurchaseHandler) Handle(cmd DeletePurchaseCommand) error {
	if cmd.ID == 0 {
		return apperrors.NewValidationError("invalid purchase id")
	}

	purchase, err := h.repo.FindByID(cmd.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NewNotFoundError("purchase %d not found", cmd.ID)
		}
		return fmt.Errorf("failed to load purchase: %w", err)
	}

	return h.repo.Transaction(func(tx domain.PurchaseRepository) error {
		if purchase.IsCompleted() {
			if err := tx.AdjustProductStock(purchase.ProductID, -purchase.Quantity); err != nil {
				return err
			}
		}
		if err := tx.SoftDelete(purchase.ID); err != nil {
			return fmt.Errorf("failed to delete purchase: %w", err)
		}
		return nil
	})
}
