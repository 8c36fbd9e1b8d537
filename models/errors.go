package models

import "errors"

// Boundary validation errors. They are client errors by definition and are
// matched with [errors.Is] in the HTTP layer.
var (
	ErrUserNameOutOfBounds     = errors.New("user_name must be between 4 and 31 characters")
	ErrPasswordOutOfBounds     = errors.New("password must be between 4 and 63 characters")
	ErrCategoryNameOutOfBounds = errors.New("category name must be between 4 and 63 characters")
	ErrDescriptionTooLong      = errors.New("description must be at most 511 characters")
	ErrFileNameTooLong         = errors.New("file name must be at most 511 characters")
	ErrPageSizeOutOfRange      = errors.New("page size must be between 1 and 1000")
)
