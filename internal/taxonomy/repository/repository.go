package repository

import (
	"gorm.io/gorm"

	apperrors "github.com/tair/catalog-admin/internal/errors"
	productdomain "github.com/tair/catalog-admin/internal/product/domain"
	purchasedomain "github.com/tair/catalog-admin/internal/purchase/domain"
	"github.com/tair/catalog-admin/internal/taxonomy/domain"
)

type GormNodeRepository struct {
	db *gorm.DB
}

func NewGormNodeRepository(db *gorm.DB) *GormNodeRepository {
	return &GormNodeRepository{db: db}
}

// AutoMigrate creates every taxonomy table from the shared Node shape
func (r *GormNodeRepository) AutoMigrate() error {
	for _, kind := range domain.Kinds {
		if err := r.db.Table(kind.Table()).AutoMigrate(&domain.Node{}); err != nil {
			return err
		}
	}
	return nil
}

func (r *GormNodeRepository) Create(kind domain.Kind, node *domain.Node) error {
	return r.db.Table(kind.Table()).Create(node).Error
}

func (r *GormNodeRepository) FindByID(kind domain.Kind, id uint) (*domain.Node, error) {
	var node domain.Node
	err := r.db.Table(kind.Table()).Where("deleted_at IS NULL").First(&node, id).Error
	if err != nil {
		return nil, err
	}
	return &node, nil
}

// FindByNaturalKeyUnscoped looks through soft-deleted rows as well; the
// uniqueness protocol depends on seeing them.
func (r *GormNodeRepository) FindByNaturalKeyUnscoped(kind domain.Kind, key string) (*domain.Node, error) {
	var node domain.Node
	err := r.db.Table(kind.Table()).Unscoped().Where("natural_key = ?", key).First(&node).Error
	if err != nil {
		return nil, err
	}
	return &node, nil
}

func (r *GormNodeRepository) FindAll(kind domain.Kind, limit, offset int) ([]domain.Node, error) {
	var nodes []domain.Node
	err := r.db.Table(kind.Table()).Where("deleted_at IS NULL").
		Limit(limit).Offset(offset).Order("id").Find(&nodes).Error
	return nodes, err
}

func (r *GormNodeRepository) Update(kind domain.Kind, node *domain.Node) error {
	return r.db.Table(kind.Table()).Where("id = ?", node.ID).
		Select("*").Omit("id", "created_at").Updates(node).Error
}

func (r *GormNodeRepository) SoftDelete(kind domain.Kind, id uint) error {
	return r.db.Table(kind.Table()).Where("id = ?", id).
		Update("deleted_at", gorm.Expr("now()")).Error
}

func (r *GormNodeRepository) Restore(kind domain.Kind, id uint) error {
	return r.db.Table(kind.Table()).Unscoped().Where("id = ?", id).
		Update("deleted_at", nil).Error
}

func (r *GormNodeRepository) Count(kind domain.Kind) (int64, error) {
	var count int64
	err := r.db.Table(kind.Table()).Where("deleted_at IS NULL").Count(&count).Error
	return count, err
}

// DetachProducts clears every live reference to the node: foreign keys are
// nulled, website membership is removed from the array, vendor references on
// purchases are nulled. Every touched row gets its version bumped so the
// optimistic guard sees the mutation. Counters need no adjustment here, the
// node row and its count leave together.
func (r *GormNodeRepository) DetachProducts(kind domain.Kind, id uint) error {
	switch kind {
	case domain.KindCatalog:
		return r.nullProductColumn("catalog_id", id)
	case domain.KindCategory:
		return r.nullProductColumn("category_id", id)
	case domain.KindSubCategory:
		return r.nullProductColumn("sub_category_id", id)
	case domain.KindBrand:
		return r.nullProductColumn("brand_id", id)
	case domain.KindVehicleType:
		return r.nullProductColumn("vehicle_type_id", id)
	case domain.KindWebsite:
		return r.db.Model(&productdomain.Product{}).
			Where("? = ANY(website_ids)", id).
			Updates(map[string]interface{}{
				"website_ids": gorm.Expr("array_remove(website_ids, ?)", id),
				"version":     gorm.Expr("version + 1"),
			}).Error
	case domain.KindVendor:
		return r.db.Model(&purchasedomain.Purchase{}).
			Where("vendor_id = ?", id).
			Updates(map[string]interface{}{
				"vendor_id": nil,
				"version":   gorm.Expr("version + 1"),
			}).Error
	}
	return apperrors.NewValidationError("unknown taxonomy kind %q", kind)
}

func (r *GormNodeRepository) nullProductColumn(column string, id uint) error {
	return r.db.Model(&productdomain.Product{}).
		Where(column+" = ?", id).
		Updates(map[string]interface{}{
			column:    nil,
			"version": gorm.Expr("version + 1"),
		}).Error
}

// Transaction runs fn against a transaction-bound repository
func (r *GormNodeRepository) Transaction(fn func(domain.NodeRepository) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(NewGormNodeRepository(tx))
	})
}
