package command

import (
	apperrors "github.com/tair/catalog-admin/internal/errors"
	"github.com/tair/catalog-admin/internal/product/domain"
)

// AdjustStockCommand represents a manual stock correction. Delta is signed;
// the adjustment fails instead of clamping when it would drive stock negative.
type AdjustStockCommand struct {
	ProductID uint
	Delta     int
}

// AdjustStockHandler handles manual stock adjustments
type AdjustStockHandler struct {
	repo domain.ProductRepository
}

// NewAdjustStockHandler creates a new adjust stock handler
func NewAdjustStockHandler(repo domain.ProductRepository) *AdjustStockHandler {
	return &AdjustStockHandler{repo: repo}
}

// Handle executes the stock adjustment
func (h *AdjustStockHandler) Handle(cmd AdjustStockCommand) error {
	if cmd.ProductID == 0 {
		return apperrors.NewValidationError("invalid product id")
	}
	if cmd.Delta == 0 {
		return apperrors.NewValidationError("delta cannot be zero")
	}

	return h.repo.AdjustStock(cmd.ProductID, cmd.Delta)
}
