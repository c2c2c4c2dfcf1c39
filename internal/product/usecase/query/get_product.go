package query

import (
	"errors"

	"gorm.io/gorm"

	apperrors "github.com/tair/catalog-admin/internal/errors"
	"github.com/tair/catalog-admin/internal/product/domain"
)

// GetProductQuery represents the query to get a product by ID
type GetProductQuery struct {
	ID             uint
	IncludeDeleted bool
}

// GetProductHandler handles get product query
type GetProductHandler struct {
	repo domain.ProductRepository
}

// NewGetProductHandler creates a new get product handler
func NewGetProductHandler(repo domain.ProductRepository) *GetProductHandler {
	return &GetProductHandler{repo: repo}
}

// Handle executes the get product query
func (h *GetProductHandler) Handle(q GetProductQuery) (*domain.Product, error) {
	if q.ID == 0 {
		return nil, apperrors.NewValidationError("invalid product id")
	}

	find := h.repo.FindByID
	if q.IncludeDeleted {
		find = h.repo.FindByIDUnscoped
	}

	product, err := find(q.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("product %d not found", q.ID)
		}
		return nil, err
	}
	return product, nil
}
