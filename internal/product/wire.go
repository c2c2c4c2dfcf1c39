//go:build wireinject
// +build wireinject

package product

import (
	"database/sql"

	"github.com/google/wire"
	"gorm.io/gorm"

	"github.com/tair/catalog-admin/internal/product/delivery/http"
	"github.com/tair/catalog-admin/internal/product/usecase/command"
	"github.com/tair/catalog-admin/kafka"
)

// InitializeProductHandler wires the product HTTP handler
func InitializeProductHandler(db *gorm.DB, sqlDB *sql.DB, publisher *kafka.Publisher) *http.ProductHandler {
	wire.Build(
		ProvideProductRepository,
		command.NewReconcileCountersHandler,
		http.NewProductHandler,
	)
	return nil
}
