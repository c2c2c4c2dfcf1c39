package domain

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Product statuses
const (
	StatusDraft        = "draft"
	StatusActive       = "active"
	StatusInactive     = "inactive"
	StatusDiscontinued = "discontinued"
	StatusPublish      = "publish"
)

// ValidStatus reports whether s is a member of the product status enum
func ValidStatus(s string) bool {
	switch s {
	case StatusDraft, StatusActive, StatusInactive, StatusDiscontinued, StatusPublish:
		return true
	}
	return false
}

// Product represents the product entity. InStock is purchase-driven and must
// never go negative; Version strictly increases on every persisted mutation
// and is enforced as an optimistic concurrency guard on update.
type Product struct {
	ID            uint           `json:"id" gorm:"primaryKey"`
	SKU           string         `json:"sku" gorm:"uniqueIndex;not null"`
	Name          string         `json:"name" gorm:"not null"`
	Slug          string         `json:"slug" gorm:"index"`
	Description   string         `json:"description"`
	Status        string         `json:"status" gorm:"not null;default:'draft'"`
	Price         float64        `json:"price"`
	Version       int            `json:"version" gorm:"not null;default:1"`
	InStock       int            `json:"in_stock" gorm:"not null;default:0"`
	SaleStock     int            `json:"sale_stock" gorm:"not null;default:0"`
	Tags          pq.StringArray `json:"tags" gorm:"type:text[]"`
	CatalogID     *uint          `json:"catalog_id" gorm:"index"`
	CategoryID    *uint          `json:"category_id" gorm:"index"`
	SubCategoryID *uint          `json:"sub_category_id" gorm:"index"`
	BrandID       *uint          `json:"brand_id" gorm:"index"`
	VehicleTypeID *uint          `json:"vehicle_type_id" gorm:"index"`
	WebsiteIDs    pq.Int64Array  `json:"website_ids" gorm:"type:integer[]"`
	UserID        uint           `json:"user_id" gorm:"not null;index"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `json:"-" gorm:"index"`
}

// TableName specifies the table name
func (Product) TableName() string {
	return "products"
}

// IsLive reports whether the product counts toward parent counters
func (p *Product) IsLive() bool {
	return !p.DeletedAt.Valid
}

// ParentKind identifies a counter-carrying parent table
type ParentKind string

const (
	ParentCatalog     ParentKind = "catalog"
	ParentCategory    ParentKind = "category"
	ParentSubCategory ParentKind = "sub_category"
	ParentBrand       ParentKind = "brand"
	ParentVehicleType ParentKind = "vehicle_type"
	ParentWebsite     ParentKind = "website"
)

// ParentRefs returns the ids of every parent the product currently
// references, keyed by kind. Nil single-valued associations and empty
// website membership are omitted.
func (p *Product) ParentRefs() map[ParentKind][]uint {
	refs := make(map[ParentKind][]uint)

	single := map[ParentKind]*uint{
		ParentCatalog:     p.CatalogID,
		ParentCategory:    p.CategoryID,
		ParentSubCategory: p.SubCategoryID,
		ParentBrand:       p.BrandID,
		ParentVehicleType: p.VehicleTypeID,
	}
	for kind, id := range single {
		if id != nil {
			refs[kind] = []uint{*id}
		}
	}

	if len(p.WebsiteIDs) > 0 {
		ids := make([]uint, 0, len(p.WebsiteIDs))
		for _, id := range p.WebsiteIDs {
			ids = append(ids, uint(id))
		}
		refs[ParentWebsite] = ids
	}

	return refs
}

// ProductRepository defines the contract for product data access. Update
// carries the caller's expected version; the implementation must reject the
// write when the row has moved on. AdjustStock and AdjustParentCount must be
// single atomic statements, never read-modify-write.
type ProductRepository interface {
	Create(product *Product) error
	FindByID(id uint) (*Product, error)
	FindByIDUnscoped(id uint) (*Product, error)
	FindBySKU(sku string) (*Product, error)
	FindAll(limit, offset int) ([]Product, error)
	FindByStatus(status string, limit, offset int) ([]Product, error)
	Update(product *Product, expectedVersion int) error
	SoftDelete(id uint) error
	Restore(id uint) error
	Count() (int64, error)
	AdjustStock(id uint, delta int) error
	AdjustParentCount(kind ParentKind, ids []uint, delta int) error

	// Transaction runs fn against a transaction-bound repository; any error
	// rolls the whole unit back.
	Transaction(fn func(ProductRepository) error) error
}

// WebsiteDiff computes the set difference between the previous and current
// website membership: removed = prev - cur, added = cur - prev.
func WebsiteDiff(prev, cur pq.Int64Array) (removed, added []uint) {
	prevSet := make(map[int64]bool, len(prev))
	for _, id := range prev {
		prevSet[id] = true
	}
	curSet := make(map[int64]bool, len(cur))
	for _, id := range cur {
		curSet[id] = true
	}

	for _, id := range prev {
		if !curSet[id] {
			removed = append(removed, uint(id))
		}
	}
	for _, id := range cur {
		if !prevSet[id] {
			added = append(added, uint(id))
		}
	}
	return removed, added
}
