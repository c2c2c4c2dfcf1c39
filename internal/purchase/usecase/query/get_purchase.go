package query

import (
	"errors"

	"gorm.io/gorm"

	apperrors "github.com/tair/catalog-admin/internal/errors"
	"github.com/tair/catalog-admin/internal/purchase/domain"
)

// GetPurchaseQuery represents the query to get a purchase by ID
type GetPurchaseQuery struct {
	ID uint
}

// GetPurchaseHandler handles get purchase query
type GetPurchaseHandler struct {
	repo domain.PurchaseRepository
}

// NewGetPurchaseHandler creates a new get purchase handler
func NewGetPurchaseHandler(repo domain.PurchaseRepository) *GetPurchaseHandler {
	return &GetPurchaseHandler{repo: repo}
}

// Handle executes the get purchase query
func (h *GetPurchaseHandler) Handle(q GetPurchaseQuery) (*domain.Purchase, error) {
	if q.ID == 0 {
		return nil, apperrors.NewValidationError("invalid purchase id")
	}

	purchase, err := h.repo.FindByID(q.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("purchase %d not found", q.ID)
		}
		return nil, err
	}
	return purchase, nil
}
