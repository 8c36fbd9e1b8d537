package models

import (
	"errors"
	"time"
)

// Validation bounds for image fields.
const (
	MaxFileNameLen    = 511
	MaxDescriptionLen = 511
)

// ErrInvalidOwnership is returned by [NewImageInfo] when the uploader
// identity would produce a row with both or neither owner column set.
var ErrInvalidOwnership = errors.New("image must be owned by exactly one of uploader_id or uploader_admin_id")

// ImageInfo is the catalog record of a single uploaded image.
//
// Ownership is split across two namespaces: images uploaded by plain users
// carry UploaderID, images uploaded by admins carry UploaderAdminID. At most
// one of the two is ever set. An image whose UploaderAdminID has been cleared
// (both columns NULL) is "orphaned" and becomes visible to every admin.
type ImageInfo struct {
	ID              int64     `json:"id"`
	FileName        string    `json:"file_name"`
	Description     *string   `json:"description"`
	UploaderID      *int64    `json:"-"`
	UploaderAdminID *int64    `json:"-"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// TableName returns the name of the database table
// associated with the ImageInfo model.
func (i ImageInfo) TableName() string {
	return "image_info"
}

// NewImageInfo constructs a fresh catalog record owned by the uploader.
// Exactly one owner column is set, selected by the uploader's admin flag.
// This constructor is the only sanctioned way to create an [ImageInfo], so
// no code path can produce a record with both or neither owner set.
func NewImageInfo(fileName string, description *string, uploader Identity) (ImageInfo, error) {
	if uploader.UserID == 0 {
		return ImageInfo{}, ErrInvalidOwnership
	}

	img := ImageInfo{
		FileName:    fileName,
		Description: description,
	}

	id := uploader.UserID
	if uploader.IsAdmin {
		img.UploaderAdminID = &id
	} else {
		img.UploaderID = &id
	}

	return img, nil
}

// OwnedByAdmin reports whether the image belongs to the given admin account.
func (i ImageInfo) OwnedByAdmin(adminID int64) bool {
	return i.UploaderAdminID != nil && *i.UploaderAdminID == adminID
}

// Orphaned reports whether the image has no admin owner and therefore
// belongs to the pool visible to every admin.
func (i ImageInfo) Orphaned() bool {
	return i.UploaderID == nil && i.UploaderAdminID == nil
}
