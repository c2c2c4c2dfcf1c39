package domain

import (
	"time"

	"gorm.io/gorm"
)

// Kind identifies one of the taxonomy tables. They all share the same shape
// and the same soft-delete-aware uniqueness protocol, so a single entity
// covers them.
type Kind string

const (
	KindCatalog     Kind = "catalog"
	KindCategory    Kind = "category"
	KindSubCategory Kind = "sub_category"
	KindBrand       Kind = "brand"
	KindVehicleType Kind = "vehicle_type"
	KindWebsite     Kind = "website"
	KindVendor      Kind = "vendor"
)

// Kinds lists every taxonomy kind in a stable order
var Kinds = []Kind{
	KindCatalog, KindCategory, KindSubCategory,
	KindBrand, KindVehicleType, KindWebsite, KindVendor,
}

var kindTables = map[Kind]string{
	KindCatalog:     "catalogs",
	KindCategory:    "categories",
	KindSubCategory: "sub_categories",
	KindBrand:       "brands",
	KindVehicleType: "vehicle_types",
	KindWebsite:     "websites",
	KindVendor:      "vendors",
}

// Valid reports whether k names a known taxonomy table
func (k Kind) Valid() bool {
	_, ok := kindTables[k]
	return ok
}

// Table returns the database table backing the kind
func (k Kind) Table() string {
	return kindTables[k]
}

// Node is a taxonomy row: catalog, category, sub-category, brand, vehicle
// type, website or vendor. NaturalKey is the stable uniqueness key (the
// slugified name, or the url for websites, or the email for vendors); Slug
// is a display artifact with a random suffix. ProductCount is the
// denormalized number of live products referencing this row, maintained by
// the product lifecycle and checked by the reconciler.
type Node struct {
	ID           uint           `json:"id" gorm:"primaryKey"`
	Name         string         `json:"name" gorm:"not null"`
	NaturalKey   string         `json:"-" gorm:"uniqueIndex;not null"`
	Slug         string         `json:"slug"`
	Description  string         `json:"description"`
	URL          string         `json:"url,omitempty"`
	Email        string         `json:"email,omitempty"`
	Phone        string         `json:"phone,omitempty"`
	ProductCount int            `json:"product_count" gorm:"not null;default:0"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `json:"-" gorm:"index"`
}

// NodeRepository defines the contract for taxonomy data access. Every method
// takes the kind explicitly; implementations route it to the backing table.
type NodeRepository interface {
	Create(kind Kind, node *Node) error
	FindByID(kind Kind, id uint) (*Node, error)
	FindByNaturalKeyUnscoped(kind Kind, key string) (*Node, error)
	FindAll(kind Kind, limit, offset int) ([]Node, error)
	Update(kind Kind, node *Node) error
	SoftDelete(kind Kind, id uint) error
	Restore(kind Kind, id uint) error
	Count(kind Kind) (int64, error)

	// DetachProducts clears every live product reference to the node, the
	// "set null on parent delete" side of a taxonomy delete.
	DetachProducts(kind Kind, id uint) error

	// Transaction runs fn against a transaction-bound repository
	Transaction(fn func(NodeRepository) error) error
}
