//go:build wireinject
// +build wireinject

package taxonomy

import (
	"github.com/google/wire"
	"gorm.io/gorm"

	"github.com/tair/catalog-admin/internal/taxonomy/delivery/http"
	"github.com/tair/catalog-admin/internal/taxonomy/domain"
	"github.com/tair/catalog-admin/internal/taxonomy/repository"
	"github.com/tair/catalog-admin/internal/taxonomy/usecase/command"
	"github.com/tair/catalog-admin/internal/taxonomy/usecase/query"
)

// InitializeNodeHandler wires the taxonomy HTTP handler
func InitializeNodeHandler(db *gorm.DB) *http.NodeHandler {
	wire.Build(
		repository.NewGormNodeRepository,
		wire.Bind(new(domain.NodeRepository), new(*repository.GormNodeRepository)),
		command.NewCreateNodeHandler,
		command.NewUpdateNodeHandler,
		command.NewDeleteNodeHandler,
		query.NewGetNodeHandler,
		query.NewListNodesHandler,
		http.NewNodeHandler,
	)
	return nil
}
