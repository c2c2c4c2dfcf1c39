package command

import (
	"fmt"

	apperrors "github.com/tair/catalog-admin/internal/errors"
	"github.com/tair/catalog-admin/internal/purchase/domain"
)

// CreatePurchaseCommand represents the command to create a purchase
type CreatePurchaseCommand struct {
	Currency  string
	Quantity  int
	CostPrice float64
	Status    string
	VendorID  *uint
	ProductID uint
	UserID    uint
}

// CreatePurchaseHandler handles purchase creation command
type CreatePurchaseHandler struct {
	repo domain.PurchaseRepository
}

// NewCreatePurchaseHandler creates a new create purchase handler
func NewCreatePurchaseHandler(repo domain.PurchaseRepository) *CreatePurchaseHandler {
	return &CreatePurchaseHandler{repo: repo}
}

// Handle validates and persists the purchase. A purchase created directly in
// completed status adds its quantity to the product's stock inside the same
// transaction.
func (h *CreatePurchaseHandler) Handle(cmd CreatePurchaseCommand) (*domain.Purchase, error) {
	if cmd.ProductID == 0 {
		return nil, apperrors.NewValidationError("product_id is required")
	}
	if cmd.UserID == 0 {
		return nil, apperrors.NewValidationError("user_id is required")
	}
	if cmd.Quantity < domain.MinQuantity || cmd.Quantity > domain.MaxQuantity {
		return nil, apperrors.NewValidationError("quantity must be between %d and %d", domain.MinQuantity, domain.MaxQuantity)
	}
	if cmd.CostPrice < 0 {
		return nil, apperrors.NewValidationError("cost price cannot be negative")
	}
	if cmd.Currency == "" {
		cmd.Currency = domain.CurrencyUSD
	}
	if !domain.ValidCurrency(cmd.Currency) {
		return nil, apperrors.NewValidationError("invalid currency: %s", cmd.Currency)
	}
	if cmd.Status == "" {
		cmd.Status = domain.StatusPending
	}
	if !domain.ValidStatus(cmd.Status) {
		return nil, apperrors.NewValidationError("invalid status: %s", cmd.Status)
	}

	exists, err := h.repo.ProductExists(cmd.ProductID)
	if err != nil {
		return nil, fmt.Errorf("failed to check product: %w", err)
	}
	if !exists {
		return nil, apperrors.NewNotFoundError("product %d not found", cmd.ProductID)
	}

	purchase := &domain.Purchase{
		Currency:    cmd.Currency,
		Quantity:    cmd.Quantity,
		CostPrice:   cmd.CostPrice,
		TotalAmount: domain.ComputeTotal(cmd.Quantity, cmd.CostPrice),
		Status:      cmd.Status,
		Version:     1,
		VendorID:    cmd.VendorID,
		ProductID:   cmd.ProductID,
		UserID:      cmd.UserID,
	}

	err = h.repo.Transaction(func(tx domain.PurchaseRepository) error {
		if err := tx.Create(purchase); err != nil {
			return fmt.Errorf("failed to create purchase: %w", err)
		}
		if purchase.IsCompleted() {
			if err := tx.AdjustProductStock(purchase.ProductID, purchase.Quantity); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return purchase, nil
}
