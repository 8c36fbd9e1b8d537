// SPDX-License-Identifier: Apache-2.0

package http

import "errors"

// Sentinel errors used by the authentication middleware when parsing the
// "Authorization" HTTP header. Callers can match against them with [errors.Is].
var (
	// ErrEmptyAuthorizationHeader is returned by the auth middleware when the
	// incoming request does not include an "Authorization" header at all.
	ErrEmptyAuthorizationHeader = errors.New("empty `Authorization` header")

	// errBadImageID is reported when the {imageID} path parameter is not a
	// decimal integer.
	errBadImageID = errors.New("image id must be an integer")

	// errBadCategoryID is reported when the {categoryID} path parameter is
	// not a decimal integer.
	errBadCategoryID = errors.New("category id must be an integer")

	// errBadSizeParameter is reported when the "size" query parameter is
	// present but not a decimal integer.
	errBadSizeParameter = errors.New("size must be an integer")
)
