package query

import (
	"fmt"

	"github.com/tair/catalog-admin/internal/product/domain"
)

// GetStatsQuery represents the query to get product statistics
type GetStatsQuery struct{}

// ProductStats represents product statistics
type ProductStats struct {
	TotalProducts    int64            `json:"total_products"`
	TotalStock       int64            `json:"total_stock"`
	TotalSaleStock   int64            `json:"total_sale_stock"`
	ProductsByStatus map[string]int64 `json:"products_by_status"`
}

// GetStatsHandler handles get stats query
type GetStatsHandler struct {
	repo domain.ProductRepository
}

// NewGetStatsHandler creates a new get stats handler
func NewGetStatsHandler(repo domain.ProductRepository) *GetStatsHandler {
	return &GetStatsHandler{repo: repo}
}

// Handle executes the get stats query
func (h *GetStatsHandler) Handle(q GetStatsQuery) (*ProductStats, error) {
	total, err := h.repo.Count()
	if err != nil {
		return nil, fmt.Errorf("failed to get product count: %w", err)
	}

	products, err := h.repo.FindAll(10000, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to get products: %w", err)
	}

	stats := &ProductStats{
		TotalProducts:    total,
		ProductsByStatus: make(map[string]int64),
	}
	for _, product := range products {
		stats.TotalStock += int64(product.InStock)
		stats.TotalSaleStock += int64(product.SaleStock)
		stats.ProductsByStatus[product.Status]++
	}

	return stats, nil
}
