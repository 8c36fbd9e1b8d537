package models

import "time"

// TokenResponse is returned by the register and login endpoints.
// TokenType is always "bearer".
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// ImageResponse is the outward shape of a single catalog record, including
// the URLs under which the original file and its thumbnail are served.
type ImageResponse struct {
	ID           int64     `json:"id"`
	FileName     string    `json:"file_name"`
	ImageURL     string    `json:"image_url"`
	ThumbnailURL string    `json:"thumbnail_url"`
	Description  *string   `json:"description"`
	Categories   []int64   `json:"categories"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ImageListResponse is one page of the catalog feed. NextKey is the opaque
// continuation cursor; nil means the scan is complete.
type ImageListResponse struct {
	Items   []ImageResponse `json:"items"`
	NextKey *string         `json:"next_key"`
}

// CategoryResponse is the outward shape of a single category.
type CategoryResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// CategoryListResponse is one page of the category listing.
type CategoryListResponse struct {
	Categories []CategoryResponse `json:"categories"`
	NextKey    *string            `json:"next_key"`
}
