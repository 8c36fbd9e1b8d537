package store

import (
	"github.com/imagehub/image-hub/internal/config"
	"github.com/imagehub/image-hub/internal/logger"
)

// Storages bundles every persistence dependency the service layer needs.
type Storages struct {
	UserRepository     UserRepository
	ImageRepository    ImageRepository
	CategoryRepository CategoryRepository
	ImageFileStorage   ImageFileStorage
}

// NewStorages wires the SQL repositories and the on-disk image storage.
func NewStorages(db *DB, cfg config.Files, logger *logger.Logger) (*Storages, error) {
	fileStorage, err := NewFileImageStorage(cfg, logger)
	if err != nil {
		return nil, err
	}

	return &Storages{
		UserRepository:     NewUserRepository(db, logger),
		ImageRepository:    NewImageRepository(db, logger),
		CategoryRepository: NewCategoryRepository(db, logger),
		ImageFileStorage:   fileStorage,
	}, nil
}
