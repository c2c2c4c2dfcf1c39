package repository

import (
	"fmt"

	"gorm.io/gorm"

	apperrors "github.com/tair/catalog-admin/internal/errors"
	productdomain "github.com/tair/catalog-admin/internal/product/domain"
	"github.com/tair/catalog-admin/internal/purchase/domain"
)

type GormPurchaseRepository struct {
	db *gorm.DB
}

func NewGormPurchaseRepository(db *gorm.DB) *GormPurchaseRepository {
	return &GormPurchaseRepository{db: db}
}

func (r *GormPurchaseRepository) AutoMigrate() error {
	return r.db.AutoMigrate(&domain.Purchase{})
}

func (r *GormPurchaseRepository) Create(purchase *domain.Purchase) error {
	return r.db.Create(purchase).Error
}

func (r *GormPurchaseRepository) FindByID(id uint) (*domain.Purchase, error) {
	var purchase domain.Purchase
	err := r.db.First(&purchase, id).Error
	if err != nil {
		return nil, err
	}
	return &purchase, nil
}

func (r *GormPurchaseRepository) FindAll(limit, offset int) ([]domain.Purchase, error) {
	var purchases []domain.Purchase
	err := r.db.Limit(limit).Offset(offset).Order("id").Find(&purchases).Error
	return purchases, err
}

func (r *GormPurchaseRepository) FindByStatus(status string, limit, offset int) ([]domain.Purchase, error) {
	var purchases []domain.Purchase
	err := r.db.Where("status = ?", status).Limit(limit).Offset(offset).Order("id").Find(&purchases).Error
	return purchases, err
}

func (r *GormPurchaseRepository) FindByProductID(productID uint, limit, offset int) ([]domain.Purchase, error) {
	var purchases []domain.Purchase
	err := r.db.Where("product_id = ?", productID).Limit(limit).Offset(offset).Order("id").Find(&purchases).Error
	return purchases, err
}

// Update persists the purchase guarded by the version the caller read. The
// stock effect of a status or quantity change is derived from that snapshot,
// so a row that moved on in the meantime must not be overwritten.
func (r *GormPurchaseRepository) Update(purchase *domain.Purchase, expectedVersion int) error {
	purchase.Version = expectedVersion + 1

	res := r.db.Model(&domain.Purchase{}).
		Where("id = ? AND version = ?", purchase.ID, expectedVersion).
		Select("*").
		Omit("id", "created_at", "deleted_at").
		Updates(purchase)
	if res.Error != nil {
		purchase.Version = expectedVersion
		return res.Error
	}
	if res.RowsAffected == 0 {
		purchase.Version = expectedVersion
		return apperrors.NewConflictError(
			"purchase %d was modified concurrently (expected version %d)", purchase.ID, expectedVersion)
	}
	return nil
}

func (r *GormPurchaseRepository) SoftDelete(id uint) error {
	return r.db.Delete(&domain.Purchase{}, id).Error
}

func (r *GormPurchaseRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&domain.Purchase{}).Count(&count).Error
	return count, err
}

// ProductExists checks that the referenced product is live
func (r *GormPurchaseRepository) ProductExists(productID uint) (bool, error) {
	var count int64
	err := r.db.Model(&productdomain.Product{}).Where("id = ?", productID).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// AdjustProductStock applies a signed stock delta as one conditional
// statement, mirroring the product repository primitive so purchase
// transactions carry their stock effect themselves.
func (r *GormPurchaseRepository) AdjustProductStock(productID uint, delta int) error {
	res := r.db.Model(&productdomain.Product{}).
		Where("id = ? AND in_stock + ? >= 0", productID, delta).
		Updates(map[string]interface{}{
			"in_stock": gorm.Expr("in_stock + ?", delta),
			"version":  gorm.Expr("version + 1"),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := r.db.Model(&productdomain.Product{}).Where("id = ?", productID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return apperrors.NewNotFoundError("product %d not found", productID)
		}
		return apperrors.NewInvariantViolation(
			fmt.Sprintf("stock adjustment of %d on product %d would go negative", delta, productID), nil)
	}
	return nil
}

// Transaction runs fn against a transaction-bound repository
func (r *GormPurchaseRepository) Transaction(fn func(domain.PurchaseRepository) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(NewGormPurchaseRepository(tx))
	})
}
