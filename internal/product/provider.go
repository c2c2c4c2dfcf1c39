package product

import (
	"gorm.io/gorm"

	"github.com/tair/catalog-admin/internal/product/domain"
	"github.com/tair/catalog-admin/internal/product/repository"
)

// ProvideProductRepository wraps the GORM repository with the tracing decorator
func ProvideProductRepository(db *gorm.DB) domain.ProductRepository {
	return repository.NewProductRepositoryWithTracing(db)
}
