package command

import (
	"errors"
	"fmt"

	"github.com/lib/pq"
	"gorm.io/gorm"

	apperrors "github.com/tair/catalog-admin/internal/errors"
	"github.com/tair/catalog-admin/internal/product/domain"
	"github.com/tair/catalog-admin/pkg/slug"
)

// CreateProductCommand represents the command to create a new product
type CreateProductCommand struct {
	SKU           string
	Name          string
	Description   string
	Status        string
	Price         float64
	InStock       int
	SaleStock     int
	Tags          []string
	CatalogID     *uint
	CategoryID    *uint
	SubCategoryID *uint
	BrandID       *uint
	VehicleTypeID *uint
	WebsiteIDs    []int64
	UserID        uint
}

// CreateProductHandler handles product creation command
type CreateProductHandler struct {
	repo domain.ProductRepository
}

// NewCreateProductHandler creates a new create product handler
func NewCreateProductHandler(repo domain.ProductRepository) *CreateProductHandler {
	return &CreateProductHandler{repo: repo}
}

// Handle persists the product and increments the counter of every referenced
// parent. The row write and all counter increments run in one transaction so
// a missing parent rolls everything back.
func (h *CreateProductHandler) Handle(cmd CreateProductCommand) (*domain.Product, error) {
	if cmd.Name == "" {
		return nil, apperrors.NewValidationError("product name is required")
	}
	if cmd.SKU == "" {
		return nil, apperrors.NewValidationError("SKU is required")
	}
	if cmd.UserID == 0 {
		return nil, apperrors.NewValidationError("user_id is required")
	}
	if cmd.InStock < 0 || cmd.SaleStock < 0 {
		return nil, apperrors.NewValidationError("stock cannot be negative")
	}
	if cmd.Price < 0 {
		return nil, apperrors.NewValidationError("price cannot be negative")
	}
	if cmd.Status == "" {
		cmd.Status = domain.StatusDraft
	}
	if !domain.ValidStatus(cmd.Status) {
		return nil, apperrors.NewValidationError("invalid status: %s", cmd.Status)
	}

	// The sku unique index covers soft-deleted rows, so the duplicate check
	// has to look through them as well
	if existing, _ := h.repo.FindBySKU(cmd.SKU); existing != nil {
		return nil, apperrors.NewConflictError("SKU %s already exists", cmd.SKU)
	}

	product := &domain.Product{
		SKU:           cmd.SKU,
		Name:          cmd.Name,
		Slug:          slug.Derive(cmd.Name),
		Description:   cmd.Description,
		Status:        cmd.Status,
		Price:         cmd.Price,
		Version:       1,
		InStock:       cmd.InStock,
		SaleStock:     cmd.SaleStock,
		Tags:          pq.StringArray(cmd.Tags),
		CatalogID:     cmd.CatalogID,
		CategoryID:    cmd.CategoryID,
		SubCategoryID: cmd.SubCategoryID,
		BrandID:       cmd.BrandID,
		VehicleTypeID: cmd.VehicleTypeID,
		WebsiteIDs:    normalizeWebsites(cmd.WebsiteIDs),
		UserID:        cmd.UserID,
	}

	err := h.repo.Transaction(func(tx domain.ProductRepository) error {
		if err := tx.Create(product); err != nil {
			// A concurrent create can slip past the lookup above; the sku
			// unique index is the authority
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apperrors.NewConflictError("SKU %s already exists", cmd.SKU)
			}
			return fmt.Errorf("failed to create product: %w", err)
		}
		// Counters adjust after the row write so the id exists, but still
		// inside the same transaction
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

	return product, nil
}

// normalizeWebsites drops duplicate ids while preserving order
func normalizeWebsites(ids []int64) pq.Int64Array {
	if len(ids) == 0 {
		return nil
	}
	seen := make(map[int64]bool, len(ids))
	out := make(pq.Int64Array, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
