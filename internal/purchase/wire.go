//go:build wireinject
// +build wireinject

package purchase

import (
	"github.com/google/wire"
	"gorm.io/gorm"

	"github.com/tair/catalog-admin/internal/purchase/delivery/http"
	"github.com/tair/catalog-admin/internal/purchase/domain"
	"github.com/tair/catalog-admin/internal/purchase/repository"
	"github.com/tair/catalog-admin/internal/purchase/usecase/command"
	"github.com/tair/catalog-admin/internal/purchase/usecase/query"
)

// InitializePurchaseHandler wires the purchase HTTP handler
func InitializePurchaseHandler(db *gorm.DB) *http.PurchaseHandler {
	wire.Build(
		repository.NewGormPurchaseRepository,
		wire.Bind(new(domain.PurchaseRepository), new(*repository.GormPurchaseRepository)),
		command.NewCreatePurchaseHandler,
		command.NewUpdatePurchaseHandler,
		command.NewDeletePurchaseHandler,
		query.NewGetPurchaseHandler,
		query.NewListPurchasesHandler,
		http.NewPurchaseHandler,
	)
	return nil
}
