package service

import (
	"github.com/imagehub/image-hub/internal/config"
	"github.com/imagehub/image-hub/internal/logger"
	"github.com/imagehub/image-hub/internal/store"
)

// Services bundles every application service the HTTP layer depends on.
type Services struct {
	AuthService     AuthService
	CatalogService  CatalogService
	CategoryService CategoryService
}

// NewServices wires the application services over the given storages.
func NewServices(storages *store.Storages, cfg config.StructuredConfig, logger *logger.Logger) *Services {
	return &Services{
		AuthService:     NewAuthService(storages.UserRepository, cfg.Auth, logger),
		CatalogService:  NewCatalogService(storages.ImageRepository, storages.ImageFileStorage, cfg.Catalog, logger),
		CategoryService: NewCategoryService(storages.CategoryRepository, logger),
	}
}
