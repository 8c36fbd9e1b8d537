package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/imagehub/image-hub/internal/logger"
	"github.com/imagehub/image-hub/models"
	"github.com/jackc/pgerrcode"
)

// imageRepository is the PostgreSQL-backed implementation of
// [ImageRepository]. It executes all catalog CRUD and listing scans against
// the "image_info" and "image_category_mapping" tables using the embedded
// [*DB] connection.
//
// Every public method obtains a context-scoped logger via
// [logger.FromContext] so that all database interactions are traced with
// structured fields (image_id, user_id, page size, etc.).
type imageRepository struct {
	db     *DB
	logger *logger.Logger
}

// NewImageRepository constructs an [ImageRepository] backed by the provided
// database connection and logger.
func NewImageRepository(db *DB, logger *logger.Logger) ImageRepository {
	logger.Debug().Msg("creating image repository")
	return &imageRepository{
		db:     db,
		logger: logger,
	}
}

// CreateImage inserts the catalog record and its initial category mappings
// inside one transaction. A foreign-key violation on the mappings means the
// request referenced category ids that do not exist; the transaction is
// rolled back and a [*ReferenceNotFoundError] names the requested ids.
//
// The persistFiles hook runs between the insert and the commit: it sees the
// server-assigned id, and its error aborts the transaction, so no committed
// record can exist without its files having been written first.
func (r *imageRepository) CreateImage(ctx context.Context, image models.ImageInfo, categoryIDs []int64, persistFiles func(models.ImageInfo) error) (models.ImageInfo, error) {
	log := logger.FromContext(ctx)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).Str("func", "*imageRepository.CreateImage").Msg("error during opening transaction")
		return models.ImageInfo{}, fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx, insertImage, image.FileName, image.Description, image.UploaderID, image.UploaderAdminID)
	if err := row.Scan(&image.ID, &image.CreatedAt, &image.UpdatedAt); err != nil {
		log.Err(err).Str("func", "*imageRepository.CreateImage").Msg("error inserting image record")
		return models.ImageInfo{}, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	if err := insertMappings(ctx, tx, image.ID, categoryIDs); err != nil {
		log.Err(err).
			Str("func", "*imageRepository.CreateImage").
			Int64("image_id", image.ID).
			Msg("error inserting category mappings")
		return models.ImageInfo{}, err
	}

	if persistFiles != nil {
		if err := persistFiles(image); err != nil {
			log.Err(err).
				Str("func", "*imageRepository.CreateImage").
				Int64("image_id", image.ID).
				Msg("file persistence failed, rolling back record")
			return models.ImageInfo{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		log.Err(err).Str("func", "*imageRepository.CreateImage").Msg("error committing transaction")
		return models.ImageInfo{}, fmt.Errorf("%w: %w", ErrCommittingTransaction, err)
	}

	return image, nil
}

// GetImageForIdentity returns the image when the caller may access it. The
// query itself encodes the access rule, so a missing row and a forbidden row
// are the same empty result: [ErrNotFoundOrForbidden].
func (r *imageRepository) GetImageForIdentity(ctx context.Context, imageID int64, identity models.Identity) (models.ImageInfo, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildImageAccessQuery(imageID, identity)
	if err != nil {
		log.Err(err).Str("func", "*imageRepository.GetImageForIdentity").Msg("failed to create query")
		return models.ImageInfo{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var image models.ImageInfo
	row := r.db.QueryRowContext(ctx, query, args...)
	err = row.Scan(
		&image.ID,
		&image.FileName,
		&image.Description,
		&image.UploaderID,
		&image.UploaderAdminID,
		&image.CreatedAt,
		&image.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.ImageInfo{}, ErrNotFoundOrForbidden
		}

		log.Err(err).
			Str("func", "*imageRepository.GetImageForIdentity").
			Int64("image_id", imageID).
			Msg("failed to scan image row")
		return models.ImageInfo{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return image, nil
}

// ListUserImages returns one page of the caller's uploads, ordered by id
// descending, continuing strictly below lastID when non-nil.
func (r *imageRepository) ListUserImages(ctx context.Context, userID int64, lastID *int64, size int) ([]models.ImageInfo, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildListUserImagesQuery(userID, lastID, size)
	if err != nil {
		log.Err(err).
			Str("func", "*imageRepository.ListUserImages").
			Int64("user_id", userID).
			Msg("failed to create query")
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	return r.queryImages(ctx, query, args)
}

// ListAdminImages returns one page of the two-phase admin feed: owned
// uploads first, then the orphaned pool, in one linear range scan selected
// by the cursor's phase.
func (r *imageRepository) ListAdminImages(ctx context.Context, adminID int64, cursor *models.AdminCursor, size int) ([]models.ImageInfo, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildListAdminImagesQuery(adminID, cursor, size)
	if err != nil {
		log.Err(err).
			Str("func", "*imageRepository.ListAdminImages").
			Int64("admin_id", adminID).
			Msg("failed to create query")
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	return r.queryImages(ctx, query, args)
}

// GetImageCategories returns the ids of the categories currently mapped to
// the image, ascending.
func (r *imageRepository) GetImageCategories(ctx context.Context, imageID int64) ([]int64, error) {
	log := logger.FromContext(ctx)

	rows, err := r.db.QueryContext(ctx, getImageCategories, imageID)
	if err != nil {
		log.Err(err).
			Str("func", "*imageRepository.GetImageCategories").
			Int64("image_id", imageID).
			Msg("failed to execute query for image categories")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	categoryIDs := make([]int64, 0, 8)

	for rows.Next() {
		var id int64
		if scanErr := rows.Scan(&id); scanErr != nil {
			log.Err(scanErr).
				Str("func", "*imageRepository.GetImageCategories").
				Int64("image_id", imageID).
				Msg("failed to scan category id")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}

		categoryIDs = append(categoryIDs, id)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).
			Str("func", "*imageRepository.GetImageCategories").
			Int64("image_id", imageID).
			Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	return categoryIDs, nil
}

// UpdateImage applies the description edit and the reconciled category
// mutation atomically: mapping deletions, mapping insertions, and the row
// update share a single transaction, so a failed insert (for example a
// dangling category id) leaves nothing applied.
func (r *imageRepository) UpdateImage(ctx context.Context, imageID int64, description *string, mutation models.CategoryMutation) error {
	log := logger.FromContext(ctx)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).Str("func", "*imageRepository.UpdateImage").Msg("error during opening transaction")
		return fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	if description != nil {
		if _, err := tx.ExecContext(ctx, updateImageDescription, *description, imageID); err != nil {
			log.Err(err).
				Str("func", "*imageRepository.UpdateImage").
				Int64("image_id", imageID).
				Msg("error updating image description")
			return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
		}
	} else if !mutation.Empty() {
		if _, err := tx.ExecContext(ctx, touchImage, imageID); err != nil {
			log.Err(err).
				Str("func", "*imageRepository.UpdateImage").
				Int64("image_id", imageID).
				Msg("error touching image record")
			return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
		}
	}

	if len(mutation.Remove) > 0 {
		if _, err := tx.ExecContext(ctx, deleteCategoryMappings, imageID, mutation.Remove); err != nil {
			log.Err(err).
				Str("func", "*imageRepository.UpdateImage").
				Int64("image_id", imageID).
				Msg("error deleting category mappings")
			return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
		}
	}

	if err := insertMappings(ctx, tx, imageID, mutation.Insert); err != nil {
		log.Err(err).
			Str("func", "*imageRepository.UpdateImage").
			Int64("image_id", imageID).
			Msg("error inserting category mappings")
		return err
	}

	if err := tx.Commit(); err != nil {
		log.Err(err).Str("func", "*imageRepository.UpdateImage").Msg("error committing transaction")
		return fmt.Errorf("%w: %w", ErrCommittingTransaction, err)
	}

	return nil
}

// DeleteImage removes the catalog record. Category mappings are removed by
// the ON DELETE CASCADE constraint.
func (r *imageRepository) DeleteImage(ctx context.Context, imageID int64) error {
	log := logger.FromContext(ctx)

	result, err := r.db.ExecContext(ctx, deleteImage, imageID)
	if err != nil {
		log.Err(err).
			Str("func", "*imageRepository.DeleteImage").
			Int64("image_id", imageID).
			Msg("error deleting image record")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFoundOrForbidden
	}

	return nil
}

// ReleaseImage clears the admin ownership link, moving the image into the
// orphaned pool visible to every admin. Only the current owner may release.
func (r *imageRepository) ReleaseImage(ctx context.Context, imageID, adminID int64) error {
	log := logger.FromContext(ctx)

	result, err := r.db.ExecContext(ctx, releaseImage, imageID, adminID)
	if err != nil {
		log.Err(err).
			Str("func", "*imageRepository.ReleaseImage").
			Int64("image_id", imageID).
			Int64("admin_id", adminID).
			Msg("error releasing image ownership")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFoundOrForbidden
	}

	return nil
}

// queryImages runs a listing query and scans the result into catalog records.
func (r *imageRepository) queryImages(ctx context.Context, query string, args []any) ([]models.ImageInfo, error) {
	log := logger.FromContext(ctx)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*imageRepository.queryImages").Msg("failed to execute listing query")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	images := make([]models.ImageInfo, 0, 50)

	for rows.Next() {
		var image models.ImageInfo

		scanErr := rows.Scan(
			&image.ID,
			&image.FileName,
			&image.Description,
			&image.UploaderID,
			&image.UploaderAdminID,
			&image.CreatedAt,
			&image.UpdatedAt,
		)
		if scanErr != nil {
			log.Err(scanErr).Str("func", "*imageRepository.queryImages").Msg("failed to scan image row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}

		images = append(images, image)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).Str("func", "*imageRepository.queryImages").Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	return images, nil
}

// insertMappings inserts one mapping row per category id inside the caller's
// transaction. A foreign-key violation is translated into a
// [*ReferenceNotFoundError] naming the requested ids.
func insertMappings(ctx context.Context, tx *sql.Tx, imageID int64, categoryIDs []int64) error {
	if len(categoryIDs) == 0 {
		return nil
	}

	stmt, err := tx.PrepareContext(ctx, insertCategoryMapping)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	defer stmt.Close()

	for _, categoryID := range categoryIDs {
		if _, err := stmt.ExecContext(ctx, imageID, categoryID); err != nil {
			if postgresError(err) == pgerrcode.ForeignKeyViolation {
				return &ReferenceNotFoundError{CategoryIDs: categoryIDs}
			}
			return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
		}
	}

	return nil
}
