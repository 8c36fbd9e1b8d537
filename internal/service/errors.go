package service

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidDataProvided = errors.New("invalid data provided")
	ErrWrongPassword       = errors.New("wrong password")

	ErrTokenCreationFailed = errors.New("token creation failed")

	// ErrAdminRequired is returned when a plain user calls an
	// administrator-only operation.
	ErrAdminRequired = errors.New("administrator privileges required")
)

// CategoryLimitError is returned when an edit would leave an image mapped to
// more categories than the configured cap. No part of the edit is applied.
type CategoryLimitError struct {
	// NumUpdatedCategories is the projected membership size the edit would
	// have produced.
	NumUpdatedCategories int

	// Limit is the configured maximum.
	Limit int
}

// Error implements the error interface.
func (e *CategoryLimitError) Error() string {
	return fmt.Sprintf("an image can't have more than %d categories, requested %d", e.Limit, e.NumUpdatedCategories)
}
