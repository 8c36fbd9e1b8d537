package store

import (
	"context"

	"github.com/imagehub/image-hub/models"
)

// UserRepository persists and looks up user accounts.
type UserRepository interface {
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	FindUserByUserName(ctx context.Context, userName string) (models.User, error)
}

// ImageRepository persists catalog records, their category mappings, and
// serves the cursor-paginated listing scans.
type ImageRepository interface {
	// CreateImage inserts the catalog record and its initial category
	// mappings in one transaction and returns the stored record with
	// server-assigned fields populated. When persistFiles is non-nil it
	// runs after the insert but before the commit, so binary storage is
	// written while the row is still uncommitted: a write failure rolls
	// the record back.
	CreateImage(ctx context.Context, image models.ImageInfo, categoryIDs []int64, persistFiles func(models.ImageInfo) error) (models.ImageInfo, error)

	// GetImageForIdentity returns the image when the caller may access it:
	// plain users see their own uploads, admins see their own uploads and
	// the orphaned pool. A miss is always ErrNotFoundOrForbidden.
	GetImageForIdentity(ctx context.Context, imageID int64, identity models.Identity) (models.ImageInfo, error)

	// ListUserImages returns one page of the caller's uploads, ordered by
	// id descending, starting below lastID when non-nil.
	ListUserImages(ctx context.Context, userID int64, lastID *int64, size int) ([]models.ImageInfo, error)

	// ListAdminImages returns one page of the two-phase admin feed: the
	// admin's own uploads first, then the orphaned pool, each in descending
	// id order. The cursor selects where inside the composite scan the page
	// starts.
	ListAdminImages(ctx context.Context, adminID int64, cursor *models.AdminCursor, size int) ([]models.ImageInfo, error)

	// GetImageCategories returns the category ids currently mapped to the
	// image, sorted ascending.
	GetImageCategories(ctx context.Context, imageID int64) ([]int64, error)

	// UpdateImage applies a description change and a category mutation to
	// the image atomically, in a single transaction.
	UpdateImage(ctx context.Context, imageID int64, description *string, mutation models.CategoryMutation) error

	// DeleteImage removes the catalog record; mappings cascade.
	DeleteImage(ctx context.Context, imageID int64) error

	// ReleaseImage clears the admin ownership of an image owned by adminID,
	// moving it into the orphaned pool.
	ReleaseImage(ctx context.Context, imageID, adminID int64) error
}

// CategoryRepository manages the shared category catalog.
type CategoryRepository interface {
	CreateCategory(ctx context.Context, name string) (models.ImageCategory, error)
	ListCategories(ctx context.Context, lastID *int64, size int) ([]models.ImageCategory, error)
	DeleteCategory(ctx context.Context, categoryID int64) error
}

// ImageFileStorage persists image binaries and their thumbnails on disk,
// content-addressed by image id.
type ImageFileStorage interface {
	// SaveImageFiles writes the original upload and a generated thumbnail
	// under the image's directory.
	SaveImageFiles(ctx context.Context, imageID int64, fileName string, data []byte) error

	// DeleteImageFiles removes the image's directory and everything in it.
	// Removing files of an unknown image is a no-op.
	DeleteImageFiles(imageID int64) error

	// ImageFilePath resolves the on-disk path of the original file.
	ImageFilePath(imageID int64, fileName string) string

	// ThumbnailPath resolves the on-disk path of the generated thumbnail.
	ThumbnailPath(imageID int64) string
}
