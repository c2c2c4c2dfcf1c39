package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	apperrors "github.com/tair/catalog-admin/internal/errors"
	"github.com/tair/catalog-admin/internal/product/domain"
)

// parentTables maps a parent kind onto its counter-carrying table
var parentTables = map[domain.ParentKind]string{
	domain.ParentCatalog:     "catalogs",
	domain.ParentCategory:    "categories",
	domain.ParentSubCategory: "sub_categories",
	domain.ParentBrand:       "brands",
	domain.ParentVehicleType: "vehicle_types",
	domain.ParentWebsite:     "websites",
}

type GormProductRepository struct {
	db *gorm.DB
}

func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

func (r *GormProductRepository) AutoMigrate() error {
	return r.db.AutoMigrate(&domain.Product{})
}

func (r *GormProductRepository) Create(product *domain.Product) error {
	return r.db.Create(product).Error
}

func (r *GormProductRepository) FindByID(id uint) (*domain.Product, error) {
	var product domain.Product
	err := r.db.First(&product, id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// FindByIDUnscoped also sees soft-deleted rows, for the restore path
func (r *GormProductRepository) FindByIDUnscoped(id uint) (*domain.Product, error) {
	var product domain.Product
	err := r.db.Unscoped().First(&product, id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// FindBySKU looks through soft-deleted rows as well: the sku unique index
// covers them, so duplicate detection has to see them too.
func (r *GormProductRepository) FindBySKU(sku string) (*domain.Product, error) {
	var product domain.Product
	err := r.db.Unscoped().Where("sku = ?", sku).First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *GormProductRepository) FindAll(limit, offset int) ([]domain.Product, error) {
	var products []domain.Product
	err := r.db.Limit(limit).Offset(offset).Order("id").Find(&products).Error
	return products, err
}

func (r *GormProductRepository) FindByStatus(status string, limit, offset int) ([]domain.Product, error) {
	var products []domain.Product
	err := r.db.Where("status = ?", status).Limit(limit).Offset(offset).Order("id").Find(&products).Error
	return products, err
}

// Update persists the product guarded by the version the caller read. A zero
// row count means the row moved on underneath us and surfaces as a conflict.
func (r *GormProductRepository) Update(product *domain.Product, expectedVersion int) error {
	product.Version = expectedVersion + 1

	res := r.db.Model(&domain.Product{}).
		Where("id = ? AND version = ?", product.ID, expectedVersion).
		Select("*").
		Omit("id", "created_at", "deleted_at").
		Updates(product)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.NewConflictError("product %d was modified concurrently (expected version %d)", product.ID, expectedVersion)
	}
	return nil
}

func (r *GormProductRepository) SoftDelete(id uint) error {
	return r.db.Delete(&domain.Product{}, id).Error
}

func (r *GormProductRepository) Restore(id uint) error {
	return r.db.Unscoped().Model(&domain.Product{}).
		Where("id = ?", id).
		Update("deleted_at", nil).Error
}

func (r *GormProductRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&domain.Product{}).Count(&count).Error
	return count, err
}

// AdjustStock applies a signed stock delta as one conditional statement. The
// guard keeps in_stock from ever dipping below zero regardless of concurrent
// purchases, and every successful adjustment bumps the version.
func (r *GormProductRepository) AdjustStock(id uint, delta int) error {
	res := r.db.Model(&domain.Product{}).
		Where("id = ? AND in_stock + ? >= 0", id, delta).
		Updates(map[string]interface{}{
			"in_stock": gorm.Expr("in_stock + ?", delta),
			"version":  gorm.Expr("version + 1"),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		if _, err := r.FindByID(id); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NewNotFoundError("product %d not found", id)
			}
			return err
		}
		return apperrors.NewInvariantViolation(
			fmt.Sprintf("stock adjustment of %d on product %d would go negative", delta, id), nil)
	}
	return nil
}

// AdjustParentCount applies a signed delta to product_count on every given
// parent row in a single statement. Fewer rows touched than ids passed means
// a parent is missing or deleted, which corrupts the counters and must abort
// the enclosing transaction.
func (r *GormProductRepository) AdjustParentCount(kind domain.ParentKind, ids []uint, delta int) error {
	if len(ids) == 0 {
		return nil
	}
	table, ok := parentTables[kind]
	if !ok {
		return apperrors.NewValidationError("unknown parent kind %q", kind)
	}

	res := r.db.Table(table).
		Where("id IN ? AND deleted_at IS NULL", ids).
		Update("product_count", gorm.Expr("product_count + ?", delta))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected != int64(len(ids)) {
		return apperrors.NewInvariantViolation(
			fmt.Sprintf("counter adjustment touched %d of %d %s rows", res.RowsAffected, len(ids), table), nil)
	}
	return nil
}

// Transaction runs fn against a transaction-bound repository
func (r *GormProductRepository) Transaction(fn func(domain.ProductRepository) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(NewGormProductRepository(tx))
	})
}
