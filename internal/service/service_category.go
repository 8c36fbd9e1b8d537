package service

import (
	"context"
	"strconv"

	"github.com/imagehub/image-hub/internal/logger"
	"github.com/imagehub/image-hub/internal/store"
	"github.com/imagehub/image-hub/models"
)

type categoryService struct {
	categories store.CategoryRepository
	logger     *logger.Logger
}

// NewCategoryService constructs a CategoryService over the given repository.
func NewCategoryService(categories store.CategoryRepository, logger *logger.Logger) CategoryService {
	return &categoryService{
		categories: categories,
		logger:     logger,
	}
}

// CreateCategory registers a new shared category under its normalized
// (trimmed, uppercased) name. Administrator-only.
func (s *categoryService) CreateCategory(ctx context.Context, identity models.Identity, request models.CategoryCreateRequest) (models.CategoryResponse, error) {
	log := logger.FromContext(ctx)

	if !identity.IsAdmin {
		return models.CategoryResponse{}, ErrAdminRequired
	}
	if err := request.Validate(); err != nil {
		return models.CategoryResponse{}, err
	}

	category, err := s.categories.CreateCategory(ctx, models.NormalizeCategoryName(request.Name))
	if err != nil {
		log.Err(err).Str("category_name", request.Name).Msg("category creation failed")
		return models.CategoryResponse{}, err
	}

	return models.CategoryResponse{ID: category.ID, Name: category.Name}, nil
}

// ListCategories returns one page of the shared catalog, ascending by id.
// The continuation key is the decimal id of the last row returned.
func (s *categoryService) ListCategories(ctx context.Context, key *string, size int) (models.CategoryListResponse, error) {
	log := logger.FromContext(ctx)

	if size < 1 || size > models.MaxPageSize {
		return models.CategoryListResponse{}, models.ErrPageSizeOutOfRange
	}

	var lastID *int64
	if key != nil {
		decoded, err := strconv.ParseInt(*key, 10, 64)
		if err != nil {
			return models.CategoryListResponse{}, models.ErrBadCursor
		}
		lastID = &decoded
	}

	page, err := s.categories.ListCategories(ctx, lastID, size)
	if err != nil {
		log.Err(err).Msg("category listing failed")
		return models.CategoryListResponse{}, err
	}

	categories := make([]models.CategoryResponse, 0, len(page))
	for _, category := range page {
		categories = append(categories, models.CategoryResponse{ID: category.ID, Name: category.Name})
	}

	var nextKey *string
	if len(page) == size {
		key := strconv.FormatInt(page[len(page)-1].ID, 10)
		nextKey = &key
	}

	return models.CategoryListResponse{Categories: categories, NextKey: nextKey}, nil
}

// DeleteCategory removes a category and, by cascade, every mapping that
// references it. Administrator-only.
func (s *categoryService) DeleteCategory(ctx context.Context, identity models.Identity, categoryID int64) error {
	log := logger.FromContext(ctx)

	if !identity.IsAdmin {
		return ErrAdminRequired
	}

	if err := s.categories.DeleteCategory(ctx, categoryID); err != nil {
		log.Err(err).Int64("category_id", categoryID).Msg("category deletion failed")
		return err
	}

	return nil
}
