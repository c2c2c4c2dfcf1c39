package query

import (
	"fmt"

	apperrors "github.com/tair/catalog-admin/internal/errors"
	"github.com/tair/catalog-admin/internal/purchase/domain"
)

// ListPurchasesQuery represents the query to list purchases
type ListPurchasesQuery struct {
	Limit     int
	Offset    int
	Status    string // Optional: filter by status
	ProductID uint   // Optional: filter by product
}

// ListPurchasesHandler handles list purchases query
type ListPurchasesHandler struct {
	repo domain.PurchaseRepository
}

// NewListPurchasesHandler creates a new list purchases handler
func NewListPurchasesHandler(repo domain.PurchaseRepository) *ListPurchasesHandler {
	return &ListPurchasesHandler{repo: repo}
}

// Handle executes the list purchases query
func (h *ListPurchasesHandler) Handle(q ListPurchasesQuery) ([]domain.Purchase, error) {
	if q.Limit <= 0 {
		q.Limit = 50
	}

	var purchases []domain.Purchase
	var err error

	switch {
	case q.ProductID != 0:
		purchases, err = h.repo.FindByProductID(q.ProductID, q.Limit, q.Offset)
	case q.Status != "":
		if !domain.ValidStatus(q.Status) {
			return nil, apperrors.NewValidationError("invalid status: %s", q.Status)
		}
		purchases, err = h.repo.FindByStatus(q.Status, q.Limit, q.Offset)
	default:
		purchases, err = h.repo.FindAll(q.Limit, q.Offset)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list purchases: %w", err)
	}

	return purchases, nil
}
