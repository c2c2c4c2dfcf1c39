//go:build wireinject
// +build wireinject

package user

import (
	"github.com/google/wire"
	"gorm.io/gorm"

	"github.com/tair/catalog-admin/internal/user/delivery/http"
	"github.com/tair/catalog-admin/internal/user/domain"
	"github.com/tair/catalog-admin/internal/user/repository"
)

var RepositorySet = wire.NewSet(
	repository.NewGormUserRepository,
	wire.Bind(new(domain.UserRepository), new(*repository.GormUserRepository)),
)

// InitializeUserHandler wires the user HTTP handler
func InitializeUserHandler(db *gorm.DB) *http.UserHandler {
	wire.Build(
		RepositorySet,
		http.NewUserHandler,
	)
	return nil
}

// InitializePermissionChecker wires the permission gate used by the other
// module routers
func InitializePermissionChecker(db *gorm.DB) *http.PermissionChecker {
	wire.Build(
		RepositorySet,
		http.NewPermissionChecker,
	)
	return nil
}
