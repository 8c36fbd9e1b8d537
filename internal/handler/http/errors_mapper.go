package http

import (
	"errors"
	"net/http"

	"github.com/imagehub/image-hub/internal/service"
	"github.com/imagehub/image-hub/internal/store"
	"github.com/imagehub/image-hub/internal/utils"
	"github.com/imagehub/image-hub/models"
)

var errorStatusMap = map[error]int{
	service.ErrInvalidDataProvided: http.StatusBadRequest,
	service.ErrWrongPassword:       http.StatusUnauthorized,
	service.ErrAdminRequired:       http.StatusForbidden,

	utils.ErrInvalidToken:        http.StatusUnauthorized,
	utils.ErrExpiredToken:        http.StatusUnauthorized,
	utils.ErrInvalidDecodedToken: http.StatusUnauthorized,

	models.ErrUserNameOutOfBounds:     http.StatusBadRequest,
	models.ErrPasswordOutOfBounds:     http.StatusBadRequest,
	models.ErrCategoryNameOutOfBounds: http.StatusBadRequest,
	models.ErrDescriptionTooLong:      http.StatusBadRequest,
	models.ErrFileNameTooLong:         http.StatusBadRequest,
	models.ErrPageSizeOutOfRange:      http.StatusBadRequest,
	models.ErrBadCursor:               http.StatusBadRequest,

	store.ErrUserNameAlreadyExists:     http.StatusConflict,
	store.ErrNoUserWasFound:            http.StatusUnauthorized,
	store.ErrCategoryNameAlreadyExists: http.StatusConflict,
	store.ErrCategoryNotFound:          http.StatusNotFound,
	store.ErrNotFoundOrForbidden:       http.StatusNotFound,
	store.ErrNotAnImage:                http.StatusBadRequest,

	store.ErrBuildingSQLQuery:      http.StatusInternalServerError,
	store.ErrExecutingQuery:        http.StatusInternalServerError,
	store.ErrBeginningTransaction:  http.StatusInternalServerError,
	store.ErrCommittingTransaction: http.StatusInternalServerError,
	store.ErrExecutingStatement:    http.StatusInternalServerError,
	store.ErrScanningRow:           http.StatusInternalServerError,
	store.ErrScanningRows:          http.StatusInternalServerError,
}

func statusFromError(err error) int {
	var limitErr *service.CategoryLimitError
	if errors.As(err, &limitErr) {
		return http.StatusBadRequest
	}

	var refErr *store.ReferenceNotFoundError
	if errors.As(err, &refErr) {
		return http.StatusBadRequest
	}

	for target, status := range errorStatusMap {
		if errors.Is(err, target) {
			return status
		}
	}
	return http.StatusInternalServerError
}

// writeError reports err with its mapped status. Server-side failures are
// masked behind the generic status text so that internals never leak.
func writeError(w http.ResponseWriter, err error) {
	status := statusFromError(err)
	if status == http.StatusInternalServerError {
		http.Error(w, http.StatusText(status), status)
		return
	}

	http.Error(w, err.Error(), status)
}
