package service

import (
	"context"

	"github.com/imagehub/image-hub/models"
)

// AuthService handles account registration, credential verification, and
// the access-token lifecycle.
type AuthService interface {
	RegisterUser(ctx context.Context, credentials models.Credentials) (models.User, error)
	Login(ctx context.Context, credentials models.Credentials) (models.User, error)
	CreateToken(ctx context.Context, user models.User) (models.TokenResponse, error)
	ParseToken(ctx context.Context, tokenString string) (models.Identity, error)
}

// CatalogService is the façade the HTTP layer calls for everything
// image-related: listing, retrieval, upload, edit, deletion, and admin
// ownership release. Access rules are enforced here, not in the handlers.
type CatalogService interface {
	ListImages(ctx context.Context, identity models.Identity, key *string, size int) (models.ImageListResponse, error)
	GetImage(ctx context.Context, identity models.Identity, imageID int64) (models.ImageResponse, error)
	GetImageFilePath(ctx context.Context, identity models.Identity, imageID int64, fileName string) (string, error)
	GetThumbnailPath(ctx context.Context, identity models.Identity, imageID int64) (string, error)
	UploadImage(ctx context.Context, identity models.Identity, upload models.ImageUpload) (models.ImageResponse, error)
	UpdateImage(ctx context.Context, identity models.Identity, imageID int64, request models.ImageUpdateRequest) (models.ImageResponse, error)
	DeleteImage(ctx context.Context, identity models.Identity, imageID int64) error
	ReleaseImage(ctx context.Context, identity models.Identity, imageID int64) error
}

// CategoryService manages the shared category catalog. Mutations are
// administrator-only; listing is open to every authenticated caller.
type CategoryService interface {
	CreateCategory(ctx context.Context, identity models.Identity, request models.CategoryCreateRequest) (models.CategoryResponse, error)
	ListCategories(ctx context.Context, key *string, size int) (models.CategoryListResponse, error)
	DeleteCategory(ctx context.Context, identity models.Identity, categoryID int64) error
}
