package store

import (
	"context"
	"fmt"

	"github.com/imagehub/image-hub/internal/logger"
	"github.com/imagehub/image-hub/models"
	"github.com/jackc/pgerrcode"
)

type categoryRepository struct {
	db     *DB
	logger *logger.Logger
}

// NewCategoryRepository constructs a [CategoryRepository] backed by the
// provided database connection and logger.
func NewCategoryRepository(db *DB, logger *logger.Logger) CategoryRepository {
	logger.Debug().Msg("creating category repository")
	return &categoryRepository{
		db:     db,
		logger: logger,
	}
}

// CreateCategory inserts a category under its normalized name and returns
// the stored record. A unique violation on the name maps to
// [ErrCategoryNameAlreadyExists].
func (r *categoryRepository) CreateCategory(ctx context.Context, name string) (models.ImageCategory, error) {
	log := logger.FromContext(ctx)

	var category models.ImageCategory
	row := r.db.QueryRowContext(ctx, createCategory, name)
	if err := row.Scan(&category.ID, &category.Name, &category.CreatedAt); err != nil {
		if postgresError(err) == pgerrcode.UniqueViolation {
			return models.ImageCategory{}, ErrCategoryNameAlreadyExists
		}

		log.Err(err).
			Str("func", "*categoryRepository.CreateCategory").
			Str("category_name", name).
			Msg("error inserting category")
		return models.ImageCategory{}, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return category, nil
}

// ListCategories returns one page of categories ordered by id ascending,
// continuing strictly above lastID when non-nil.
func (r *categoryRepository) ListCategories(ctx context.Context, lastID *int64, size int) ([]models.ImageCategory, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildListCategoriesQuery(lastID, size)
	if err != nil {
		log.Err(err).Str("func", "*categoryRepository.ListCategories").Msg("failed to create query")
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*categoryRepository.ListCategories").Msg("failed to execute query")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	categories := make([]models.ImageCategory, 0, size)

	for rows.Next() {
		var category models.ImageCategory
		if scanErr := rows.Scan(&category.ID, &category.Name, &category.CreatedAt); scanErr != nil {
			log.Err(scanErr).Str("func", "*categoryRepository.ListCategories").Msg("failed to scan category row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}

		categories = append(categories, category)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).Str("func", "*categoryRepository.ListCategories").Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	return categories, nil
}

// DeleteCategory removes the category; mappings referencing it are removed
// by the ON DELETE CASCADE constraint. A missing row maps to
// [ErrCategoryNotFound].
func (r *categoryRepository) DeleteCategory(ctx context.Context, categoryID int64) error {
	log := logger.FromContext(ctx)

	result, err := r.db.ExecContext(ctx, deleteCategory, categoryID)
	if err != nil {
		log.Err(err).
			Str("func", "*categoryRepository.DeleteCategory").
			Int64("category_id", categoryID).
			Msg("error deleting category")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrCategoryNotFound
	}

	return nil
}
