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

// AssociationPatch carries the full desired parent association state. A nil
// member clears that association; the whole patch being absent from the
// command leaves associations untouched.
type AssociationPatch struct {
	CatalogID     *uint
	CategoryID    *uint
	SubCategoryID *uint
	BrandID       *uint
	VehicleTypeID *uint
	WebsiteIDs    []int64
}

// UpdateProductCommand represents the command to update a product.
// Empty strings and nil pointers leave the corresponding field unchanged.
type UpdateProductCommand struct {
	ID           uint
	Name         string
	Description  *string
	Status       string
	Price        *float64
	SaleStock    *int
	Tags         []string
	Associations *AssociationPatch
}

// UpdateProductHandler handles product update command
type UpdateProductHandler struct {
	repo domain.ProductRepository
}

// NewUpdateProductHandler creates a new update product handler
func NewUpdateProductHandler(repo domain.ProductRepository) *UpdateProductHandler {
	return &UpdateProductHandler{repo: repo}
}

// counterDelta is one pending counter adjustment
type counterDelta struct {
	kind  domain.ParentKind
	ids   []uint
	delta int
}

// Handle applies the field changes and moves parent counters by the
// difference between the previous and the new association state. The row
// update is guarded by the version read here; a concurrent writer wins the
// race and this call reports a conflict instead of clobbering.
func (h *UpdateProductHandler) Handle(cmd UpdateProductCommand) (*domain.Product, error) {
	if cmd.ID == 0 {
		return nil, apperrors.NewValidationError("invalid product id")
	}

	product, err := h.repo.FindByID(cmd.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("product %d not found", cmd.ID)
		}
		return nil, fmt.Errorf("failed to load product: %w", err)
	}

	changed := false

	if cmd.Name != "" && cmd.Name != product.Name {
		product.Name = cmd.Name
		product.Slug = slug.Derive(cmd.Name)
		changed = true
	}
	if cmd.Description != nil && *cmd.Description != product.Description {
		product.Description = *cmd.Description
		changed = true
	}
	if cmd.Status != "" && cmd.Status != product.Status {
		if !domain.ValidStatus(cmd.Status) {
			return nil, apperrors.NewValidationError("invalid status: %s", cmd.Status)
		}
		product.Status = cmd.Status
		changed = true
	}
	if cmd.Price != nil && *cmd.Price != product.Price {
		if *cmd.Price < 0 {
			return nil, apperrors.NewValidationError("price cannot be negative")
		}
		product.Price = *cmd.Price
		changed = true
	}
	if cmd.SaleStock != nil && *cmd.SaleStock != product.SaleStock {
		if *cmd.SaleStock < 0 {
			return nil, apperrors.NewValidationError("sale stock cannot be negative")
		}
		product.SaleStock = *cmd.SaleStock
		changed = true
	}
	if cmd.Tags != nil {
		product.Tags = pq.StringArray(cmd.Tags)
		changed = true
	}

	var deltas []counterDelta
	if cmd.Associations != nil {
		deltas = applyAssociations(product, cmd.Associations)
		if len(deltas) > 0 {
			changed = true
		}
	}

	if !changed {
		return product, nil
	}

	expected := product.Version
	err = h.repo.Transaction(func(tx domain.ProductRepository) error {
		if err := tx.Update(product, expected); err != nil {
			return err
		}
		for _, d := range deltas {
			if err := tx.AdjustParentCount(d.kind, d.ids, d.delta); err != nil {
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

// applyAssociations writes the new association state onto the product and
// returns the counter adjustments moving the old state to the new one.
// Each single-valued field adjusts independently: old parent down, new parent
// up, nil meaning no adjustment on that side. Website membership moves by set
// difference.
func applyAssociations(product *domain.Product, patch *AssociationPatch) []counterDelta {
	var deltas []counterDelta

	single := []struct {
		kind domain.ParentKind
		prev *uint
		next *uint
		dst  **uint
	}{
		{domain.ParentCatalog, product.CatalogID, patch.CatalogID, &product.CatalogID},
		{domain.ParentCategory, product.CategoryID, patch.CategoryID, &product.CategoryID},
		{domain.ParentSubCategory, product.SubCategoryID, patch.SubCategoryID, &product.SubCategoryID},
		{domain.ParentBrand, product.BrandID, patch.BrandID, &product.BrandID},
		{domain.ParentVehicleType, product.VehicleTypeID, patch.VehicleTypeID, &product.VehicleTypeID},
	}

	for _, f := range single {
		if equalRef(f.prev, f.next) {
			continue
		}
		if f.prev != nil {
			deltas = append(deltas, counterDelta{f.kind, []uint{*f.prev}, -1})
		}
		if f.next != nil {
			deltas = append(deltas, counterDelta{f.kind, []uint{*f.next}, +1})
		}
		*f.dst = f.next
	}

	next := normalizeWebsites(patch.WebsiteIDs)
	removed, added := domain.WebsiteDiff(product.WebsiteIDs, next)
	if len(removed) > 0 {
		deltas = append(deltas, counterDelta{domain.ParentWebsite, removed, -1})
	}
	if len(added) > 0 {
		deltas = append(deltas, counterDelta{domain.ParentWebsite, added, +1})
	}
	if len(removed) > 0 || len(added) > 0 {
		product.WebsiteIDs = next
	}

	return deltas
}

func equalRef(a, b *uint) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
