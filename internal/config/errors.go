package config

import "errors"

// Validation errors returned by [StructuredConfig.validate] when required
// configuration groups are incomplete or invalid.
var (
	// ErrInvalidAuthConfigs indicates invalid token settings
	// (for example, a missing token sign key).
	ErrInvalidAuthConfigs = errors.New("invalid auth configuration")
	// ErrInvalidStorageConfigs indicates invalid storage settings
	// (for example, an empty DSN or image directory).
	ErrInvalidStorageConfigs = errors.New("invalid storage configuration")
	// ErrInvalidCatalogConfigs indicates invalid catalog limits
	// (for example, a non-positive category cap).
	ErrInvalidCatalogConfigs = errors.New("invalid catalog configuration")
)
