// SPDX-License-Identifier: Apache-2.0

package service

import (
	"context"
	"fmt"

	"github.com/imagehub/image-hub/internal/config"
	"github.com/imagehub/image-hub/internal/logger"
	"github.com/imagehub/image-hub/internal/store"
	"github.com/imagehub/image-hub/models"
)

// catalogService composes the image repository, the binary file store, and
// the category reconciler into the façade the HTTP layer talks to.
//
// Access rules live here: plain users only ever see their own uploads,
// admins see their own uploads plus the orphaned pool. Handlers pass the
// authenticated identity in and never query storage directly.
type catalogService struct {
	images store.ImageRepository
	files  store.ImageFileStorage

	// maxCategories caps how many categories one image may be mapped to.
	maxCategories int

	logger *logger.Logger
}

// NewCatalogService constructs a CatalogService over the given repositories.
func NewCatalogService(images store.ImageRepository, files store.ImageFileStorage, cfg config.Catalog, logger *logger.Logger) CatalogService {
	return &catalogService{
		images:        images,
		files:         files,
		maxCategories: cfg.MaxCategoriesPerImage,
		logger:        logger,
	}
}

// ListImages returns one page of the caller's feed.
//
// Plain users walk their own uploads in descending id order; the
// continuation key is the decimal id of the last row returned. Admins walk
// a two-phase feed (their own uploads, then the orphaned pool) whose key
// additionally carries the phase marker. An undecodable key yields
// models.ErrBadCursor; a size outside 1..models.MaxPageSize yields
// models.ErrPageSizeOutOfRange — it is a client error, never clamped.
func (s *catalogService) ListImages(ctx context.Context, identity models.Identity, key *string, size int) (models.ImageListResponse, error) {
	log := logger.FromContext(ctx)

	if size < 1 || size > models.MaxPageSize {
		return models.ImageListResponse{}, models.ErrPageSizeOutOfRange
	}

	var (
		page    []models.ImageInfo
		nextKey *string
		err     error
	)

	if identity.IsAdmin {
		var cursor *models.AdminCursor
		if key != nil {
			decoded, parseErr := models.ParseAdminCursor(*key)
			if parseErr != nil {
				return models.ImageListResponse{}, parseErr
			}
			cursor = &decoded
		}

		page, err = s.images.ListAdminImages(ctx, identity.UserID, cursor, size)
		if err != nil {
			log.Err(err).Int64("admin_id", identity.UserID).Msg("admin image listing failed")
			return models.ImageListResponse{}, fmt.Errorf("admin image listing failed: %w", err)
		}
		nextKey = models.NextAdminCursor(identity.UserID, page, size)
	} else {
		var lastID *int64
		if key != nil {
			decoded, parseErr := models.ParseUserCursor(*key)
			if parseErr != nil {
				return models.ImageListResponse{}, parseErr
			}
			lastID = &decoded
		}

		page, err = s.images.ListUserImages(ctx, identity.UserID, lastID, size)
		if err != nil {
			log.Err(err).Int64("user_id", identity.UserID).Msg("user image listing failed")
			return models.ImageListResponse{}, fmt.Errorf("user image listing failed: %w", err)
		}
		nextKey = models.NextUserCursor(page, size)
	}

	items := make([]models.ImageResponse, 0, len(page))
	for _, image := range page {
		response, err := s.toImageResponse(ctx, image)
		if err != nil {
			return models.ImageListResponse{}, err
		}
		items = append(items, response)
	}

	return models.ImageListResponse{Items: items, NextKey: nextKey}, nil
}

// GetImage returns the outward shape of one image the caller may access.
func (s *catalogService) GetImage(ctx context.Context, identity models.Identity, imageID int64) (models.ImageResponse, error) {
	image, err := s.images.GetImageForIdentity(ctx, imageID, identity)
	if err != nil {
		return models.ImageResponse{}, err
	}

	return s.toImageResponse(ctx, image)
}

// GetImageFilePath resolves the on-disk path of an image's original file
// for a caller that may access it. The requested file name must match the
// record's; anything else is a miss, so object names cannot be probed.
func (s *catalogService) GetImageFilePath(ctx context.Context, identity models.Identity, imageID int64, fileName string) (string, error) {
	image, err := s.images.GetImageForIdentity(ctx, imageID, identity)
	if err != nil {
		return "", err
	}

	if image.FileName != fileName {
		return "", store.ErrNotFoundOrForbidden
	}

	return s.files.ImageFilePath(image.ID, image.FileName), nil
}

// GetThumbnailPath resolves the on-disk path of an image's thumbnail for a
// caller that may access it.
func (s *catalogService) GetThumbnailPath(ctx context.Context, identity models.Identity, imageID int64) (string, error) {
	image, err := s.images.GetImageForIdentity(ctx, imageID, identity)
	if err != nil {
		return "", err
	}

	return s.files.ThumbnailPath(image.ID), nil
}

// UploadImage persists a new image: the catalog record, its initial
// category mappings, and the binary plus thumbnail on disk.
//
// Files are written inside the record's transaction, before the commit. A
// file-write failure rolls the record back; a commit failure after the files
// were written removes them again, so disk state never outlives its catalog
// record.
func (s *catalogService) UploadImage(ctx context.Context, identity models.Identity, upload models.ImageUpload) (models.ImageResponse, error) {
	log := logger.FromContext(ctx)

	if upload.FileName == "" || len(upload.Data) == 0 {
		return models.ImageResponse{}, ErrInvalidDataProvided
	}
	if len(upload.FileName) > models.MaxFileNameLen {
		return models.ImageResponse{}, models.ErrFileNameTooLong
	}
	if upload.Description != nil && len(*upload.Description) > models.MaxDescriptionLen {
		return models.ImageResponse{}, models.ErrDescriptionTooLong
	}
	if len(upload.CategoryIDs) > s.maxCategories {
		return models.ImageResponse{}, &CategoryLimitError{
			NumUpdatedCategories: len(upload.CategoryIDs),
			Limit:                s.maxCategories,
		}
	}

	image, err := models.NewImageInfo(upload.FileName, upload.Description, identity)
	if err != nil {
		return models.ImageResponse{}, err
	}

	var writtenID int64

	created, err := s.images.CreateImage(ctx, image, upload.CategoryIDs, func(row models.ImageInfo) error {
		if saveErr := s.files.SaveImageFiles(ctx, row.ID, row.FileName, upload.Data); saveErr != nil {
			return saveErr
		}
		writtenID = row.ID
		return nil
	})
	if err != nil {
		if writtenID != 0 {
			if cleanupErr := s.files.DeleteImageFiles(writtenID); cleanupErr != nil {
				log.Err(cleanupErr).Int64("image_id", writtenID).Msg("failed to clean up files of uncommitted image")
			}
		}
		log.Err(err).Str("file_name", upload.FileName).Msg("image upload failed")
		return models.ImageResponse{}, err
	}

	return s.toImageResponse(ctx, created)
}

// UpdateImage applies a partial edit: an optional description change plus
// add/remove category sets, reconciled against the image's current
// memberships and applied atomically.
func (s *catalogService) UpdateImage(ctx context.Context, identity models.Identity, imageID int64, request models.ImageUpdateRequest) (models.ImageResponse, error) {
	log := logger.FromContext(ctx)

	if request.Description != nil && len(*request.Description) > models.MaxDescriptionLen {
		return models.ImageResponse{}, models.ErrDescriptionTooLong
	}

	// access check before anything else: a miss must look identical for
	// missing and foreign images
	if _, err := s.images.GetImageForIdentity(ctx, imageID, identity); err != nil {
		return models.ImageResponse{}, err
	}

	current, err := s.images.GetImageCategories(ctx, imageID)
	if err != nil {
		return models.ImageResponse{}, err
	}

	mutation, err := ReconcileCategories(current, request.AddCategories, request.RemoveCategories, s.maxCategories)
	if err != nil {
		return models.ImageResponse{}, err
	}

	if request.Description != nil || !mutation.Empty() {
		if err := s.images.UpdateImage(ctx, imageID, request.Description, mutation); err != nil {
			log.Err(err).Int64("image_id", imageID).Msg("image update failed")
			return models.ImageResponse{}, err
		}
	}

	return s.GetImage(ctx, identity, imageID)
}

// DeleteImage removes the image the caller may access: files first, then
// the catalog record. A record-deletion failure after the files are gone is
// surfaced to the caller; the row stays queryable but its content does not,
// which is the lesser inconsistency compared to disk state without a record.
func (s *catalogService) DeleteImage(ctx context.Context, identity models.Identity, imageID int64) error {
	log := logger.FromContext(ctx)

	if _, err := s.images.GetImageForIdentity(ctx, imageID, identity); err != nil {
		return err
	}

	if err := s.files.DeleteImageFiles(imageID); err != nil {
		log.Err(err).Int64("image_id", imageID).Msg("failed to delete image files")
		return fmt.Errorf("failed to delete image files: %w", err)
	}

	if err := s.images.DeleteImage(ctx, imageID); err != nil {
		log.Err(err).Int64("image_id", imageID).Msg("failed to delete image record")
		return err
	}

	return nil
}

// ReleaseImage detaches an admin-owned image from its owner, moving it into
// the orphaned pool every admin can see. Only admins may release, and only
// images they currently own.
func (s *catalogService) ReleaseImage(ctx context.Context, identity models.Identity, imageID int64) error {
	if !identity.IsAdmin {
		return ErrAdminRequired
	}

	return s.images.ReleaseImage(ctx, imageID, identity.UserID)
}

// toImageResponse shapes a catalog record for the outside: category ids are
// attached and the file URLs are derived from the record's id.
func (s *catalogService) toImageResponse(ctx context.Context, image models.ImageInfo) (models.ImageResponse, error) {
	categories, err := s.images.GetImageCategories(ctx, image.ID)
	if err != nil {
		return models.ImageResponse{}, err
	}

	return models.ImageResponse{
		ID:           image.ID,
		FileName:     image.FileName,
		ImageURL:     fmt.Sprintf("/api/images/%d/file/%s", image.ID, image.FileName),
		ThumbnailURL: fmt.Sprintf("/api/images/%d/thumbnail", image.ID),
		Description:  image.Description,
		Categories:   categories,
		CreatedAt:    image.CreatedAt,
		UpdatedAt:    image.UpdatedAt,
	}, nil
}
