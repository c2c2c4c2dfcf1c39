package command

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	apperrors "github.com/tair/catalog-admin/internal/errors"
	"github.com/tair/catalog-admin/internal/purchase/domain"
)

// UpdatePurchaseCommand represents the command to update a purchase.
// Nil pointers leave the corresponding field unchanged.
type UpdatePurchaseCommand struct {
	ID        uint
	Currency  *string
	Quantity  *int
	CostPrice *float64
	Status    *string
	VendorID  *uint
	ProductID *uint
}

// UpdatePurchaseHandler handles purchase update command
type UpdatePurchaseHandler struct {
	repo domain.PurchaseRepository
}

// NewUpdatePurchaseHandler creates a new update purchase handler
func NewUpdatePurchaseHandler(repo domain.PurchaseRepository) *UpdatePurchaseHandler {
	return &UpdatePurchaseHandler{repo: repo}
}

// Handle applies the changes and moves product stock by the exact net effect
// of the transition, all in one transaction:
//
//   - productId change while previously completed reverses the old product
//     first (previous quantity off the previous product);
//   - not-completed to completed adds the current quantity;
//   - completed to not-completed subtracts the previous quantity;
//   - completed to completed with a quantity change applies the net delta.
func (h *UpdatePurchaseHandler) Handle(cmd UpdatePurchaseCommand) (*domain.Purchase, error) {
	if cmd.ID == 0 {
		return nil, apperrors.NewValidationError("invalid purchase id")
	}

	purchase, err := h.repo.FindByID(cmd.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("purchase %d not found", cmd.ID)
		}
		return nil, fmt.Errorf("failed to load purchase: %w", err)
	}

	prevStatus := purchase.Status
	prevQuantity := purchase.Quantity
	prevProductID := purchase.ProductID
	wasCompleted := purchase.IsCompleted()
	expectedVersion := purchase.Version

	if cmd.Currency != nil {
		if !domain.ValidCurrency(*cmd.Currency) {
			return nil, apperrors.NewValidationError("invalid currency: %s", *cmd.Currency)
		}
		purchase.Currency = *cmd.Currency
	}
	if cmd.Quantity != nil {
		if *cmd.Quantity < domain.MinQuantity || *cmd.Quantity > domain.MaxQuantity {
			return nil, apperrors.NewValidationError("quantity must be between %d and %d", domain.MinQuantity, domain.MaxQuantity)
		}
		purchase.Quantity = *cmd.Quantity
	}
	if cmd.CostPrice != nil {
		if *cmd.CostPrice < 0 {
			return nil, apperrors.NewValidationError("cost price cannot be negative")
		}
		purchase.CostPrice = *cmd.CostPrice
	}
	if cmd.Status != nil {
		if !domain.ValidStatus(*cmd.Status) {
			return nil, apperrors.NewValidationError("invalid status: %s", *cmd.Status)
		}
		purchase.Status = *cmd.Status
	}
	if cmd.VendorID != nil {
		purchase.VendorID = cmd.VendorID
	}
	if cmd.ProductID != nil && *cmd.ProductID != prevProductID {
		exists, err := h.repo.ProductExists(*cmd.ProductID)
		if err != nil {
			return nil, fmt.Errorf("failed to check product: %w", err)
		}
		if !exists {
			return nil, apperrors.NewNotFoundError("product %d not found", *cmd.ProductID)
		}
		purchase.ProductID = *cmd.ProductID
	}

	// totalAmount is a pure function of quantity and cost price, recomputed
	// before every persist
	purchase.TotalAmount = domain.ComputeTotal(purchase.Quantity, purchase.CostPrice)

	isCompleted := purchase.IsCompleted()
	productChanged := purchase.ProductID != prevProductID
	statusChanged := purchase.Status != prevStatus
	quantityChanged := purchase.Quantity != prevQuantity

	err = h.repo.Transaction(func(tx domain.PurchaseRepository) error {
		// The stock moves below are derived from the loaded snapshot, so the
		// guarded write must win before any stock is touched. A competing
		// update rolls this one back as a conflict.
		if err := tx.Update(purchase, expectedVersion); err != nil {
			return err
		}

		if !statusChanged && !quantityChanged && !productChanged {
			return nil
		}

		if productChanged && wasCompleted {
			// Reverse the old product before touching the new one
			if err := tx.AdjustProductStock(prevProductID, -prevQuantity); err != nil {
				return err
			}
			// The previous contribution is gone; the current product gains
			// the full current quantity if still completed
			if isCompleted {
				return tx.AdjustProductStock(purchase.ProductID, purchase.Quantity)
			}
			return nil
		}

		switch {
		case !wasCompleted && isCompleted:
			return tx.AdjustProductStock(purchase.ProductID, purchase.Quantity)
		case wasCompleted && !isCompleted:
			return tx.AdjustProductStock(purchase.ProductID, -prevQuantity)
		case wasCompleted && isCompleted && quantityChanged:
			return tx.AdjustProductStock(purchase.ProductID, purchase.Quantity-prevQuantity)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return purchase, nil
}
