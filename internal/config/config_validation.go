// SPDX-License-Identifier: Apache-2.0

package config

import "time"

// Fallback values applied after merging when a setting was provided by no
// source. Secrets and the DSN never get defaults.
const (
	defaultTokenIssuer           = "image-hub"
	defaultTokenDuration         = 30 * time.Minute
	defaultThumbnailSize         = uint(128)
	defaultMaxCategoriesPerImage = 5
	defaultHTTPAddress           = "localhost:8080"
)

// applyDefaults fills zero-valued optional settings with their fallbacks.
func (cfg *StructuredConfig) applyDefaults() {
	if cfg.Auth.TokenIssuer == "" {
		cfg.Auth.TokenIssuer = defaultTokenIssuer
	}
	if cfg.Auth.TokenDuration == 0 {
		cfg.Auth.TokenDuration = defaultTokenDuration
	}
	if cfg.Storage.Files.ThumbnailSize == 0 {
		cfg.Storage.Files.ThumbnailSize = defaultThumbnailSize
	}
	if cfg.Catalog.MaxCategoriesPerImage == 0 {
		cfg.Catalog.MaxCategoriesPerImage = defaultMaxCategoriesPerImage
	}
	if cfg.Server.HTTPAddress == "" {
		cfg.Server.HTTPAddress = defaultHTTPAddress
	}
}

// validate checks that the final merged [StructuredConfig] satisfies all
// application invariants before it is used at startup.
//
// Returns nil if the configuration is valid, or a descriptive error otherwise.
func (cfg *StructuredConfig) validate() error {
	if cfg.Auth.TokenSignKey == "" {
		return ErrInvalidAuthConfigs
	}

	if cfg.Storage.DB.DSN == "" {
		return ErrInvalidStorageConfigs
	}

	if cfg.Storage.Files.ImageDir == "" {
		return ErrInvalidStorageConfigs
	}

	if cfg.Catalog.MaxCategoriesPerImage < 1 {
		return ErrInvalidCatalogConfigs
	}

	return nil
}
