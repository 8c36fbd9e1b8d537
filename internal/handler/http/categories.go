package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/imagehub/image-hub/internal/logger"
	"github.com/imagehub/image-hub/internal/utils"
	"github.com/imagehub/image-hub/models"
)

// listCategories serves one page of the shared category catalog. Open to
// every authenticated caller.
func (h *Handler) listCategories(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	size := defaultPageSize
	if rawSize := r.URL.Query().Get("size"); rawSize != "" {
		parsed, err := strconv.Atoi(rawSize)
		if err != nil {
			http.Error(w, errBadSizeParameter.Error(), http.StatusBadRequest)
			return
		}
		size = parsed
	}

	var nextKey *string
	if rawKey := r.URL.Query().Get("next_key"); rawKey != "" {
		nextKey = &rawKey
	}

	page, err := h.services.CategoryService.ListCategories(ctx, nextKey, size)
	if err != nil {
		log.Err(err).Msg("category listing failed")
		writeError(w, err)
		return
	}

	utils.WriteJSON(w, page, http.StatusOK)
}

// createCategory registers a new category. Admin-only (enforced by the
// requireAdmin middleware and again in the service).
func (h *Handler) createCategory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	identity, ok := utils.GetIdentityFromContext(ctx)
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	var request models.CategoryCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	category, err := h.services.CategoryService.CreateCategory(ctx, identity, request)
	if err != nil {
		log.Err(err).Str("category_name", request.Name).Msg("category creation failed")
		writeError(w, err)
		return
	}

	utils.WriteJSON(w, category, http.StatusCreated)
}

// deleteCategory removes a category and its mappings. Admin-only.
func (h *Handler) deleteCategory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	identity, ok := utils.GetIdentityFromContext(ctx)
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	categoryID, err := strconv.ParseInt(chi.URLParam(r, "categoryID"), 10, 64)
	if err != nil {
		http.Error(w, errBadCategoryID.Error(), http.StatusBadRequest)
		return
	}

	if err := h.services.CategoryService.DeleteCategory(ctx, identity, categoryID); err != nil {
		log.Err(err).Int64("category_id", categoryID).Msg("category deletion failed")
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
