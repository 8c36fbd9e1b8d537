// SPDX-License-Identifier: Apache-2.0

package http

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/imagehub/image-hub/internal/logger"
	"github.com/imagehub/image-hub/internal/utils"
	"github.com/imagehub/image-hub/models"
)

// maxUploadBytes caps the multipart form memory for image uploads.
const maxUploadBytes = 32 << 20 // 32 MiB

// defaultPageSize is used when the "size" query parameter is absent.
const defaultPageSize = 100

// listImages serves one page of the caller's feed. Query parameters:
// "next_key" (opaque continuation cursor) and "size" (1..1000).
func (h *Handler) listImages(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	identity, ok := utils.GetIdentityFromContext(ctx)
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

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

	page, err := h.services.CatalogService.ListImages(ctx, identity, nextKey, size)
	if err != nil {
		log.Err(err).Msg("image listing failed")
		writeError(w, err)
		return
	}

	utils.WriteJSON(w, page, http.StatusOK)
}

// uploadImage accepts a multipart form with a "file" part and optional
// "description" and repeated "categories" fields.
func (h *Handler) uploadImage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	identity, ok := utils.GetIdentityFromContext(ctx)
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		log.Err(err).Msg("invalid multipart form")
		http.Error(w, "invalid multipart form", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		log.Err(err).Msg("missing file part")
		http.Error(w, "missing file part", http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		log.Err(err).Msg("failed to read file part")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	upload := models.ImageUpload{
		FileName: header.Filename,
		Data:     data,
	}

	if description := r.FormValue("description"); description != "" {
		upload.Description = &description
	}

	for _, rawID := range r.Form["categories"] {
		categoryID, parseErr := strconv.ParseInt(rawID, 10, 64)
		if parseErr != nil {
			http.Error(w, errBadCategoryID.Error(), http.StatusBadRequest)
			return
		}
		upload.CategoryIDs = append(upload.CategoryIDs, categoryID)
	}

	image, err := h.services.CatalogService.UploadImage(ctx, identity, upload)
	if err != nil {
		log.Err(err).Str("file_name", upload.FileName).Msg("image upload failed")
		writeError(w, err)
		return
	}

	utils.WriteJSON(w, image, http.StatusCreated)
}

func (h *Handler) getImage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	identity, imageID, ok := h.imageRequest(w, r)
	if !ok {
		return
	}

	image, err := h.services.CatalogService.GetImage(ctx, identity, imageID)
	if err != nil {
		log.Err(err).Int64("image_id", imageID).Msg("image retrieval failed")
		writeError(w, err)
		return
	}

	utils.WriteJSON(w, image, http.StatusOK)
}

func (h *Handler) updateImage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	identity, imageID, ok := h.imageRequest(w, r)
	if !ok {
		return
	}

	var request models.ImageUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	image, err := h.services.CatalogService.UpdateImage(ctx, identity, imageID, request)
	if err != nil {
		log.Err(err).Int64("image_id", imageID).Msg("image update failed")
		writeError(w, err)
		return
	}

	utils.WriteJSON(w, image, http.StatusOK)
}

func (h *Handler) deleteImage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	identity, imageID, ok := h.imageRequest(w, r)
	if !ok {
		return
	}

	if err := h.services.CatalogService.DeleteImage(ctx, identity, imageID); err != nil {
		log.Err(err).Int64("image_id", imageID).Msg("image deletion failed")
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) getImageFile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	identity, imageID, ok := h.imageRequest(w, r)
	if !ok {
		return
	}

	fileName := chi.URLParam(r, "fileName")

	path, err := h.services.CatalogService.GetImageFilePath(ctx, identity, imageID, fileName)
	if err != nil {
		log.Err(err).Int64("image_id", imageID).Msg("image file resolution failed")
		writeError(w, err)
		return
	}

	http.ServeFile(w, r, path)
}

func (h *Handler) getImageThumbnail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	identity, imageID, ok := h.imageRequest(w, r)
	if !ok {
		return
	}

	path, err := h.services.CatalogService.GetThumbnailPath(ctx, identity, imageID)
	if err != nil {
		log.Err(err).Int64("image_id", imageID).Msg("thumbnail resolution failed")
		writeError(w, err)
		return
	}

	http.ServeFile(w, r, path)
}

// releaseImage detaches an admin-owned image into the orphaned pool.
func (h *Handler) releaseImage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	identity, imageID, ok := h.imageRequest(w, r)
	if !ok {
		return
	}

	if err := h.services.CatalogService.ReleaseImage(ctx, identity, imageID); err != nil {
		log.Err(err).Int64("image_id", imageID).Msg("image release failed")
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// imageRequest extracts the authenticated identity and the {imageID} path
// parameter, reporting the proper client error itself. The bool result is
// false when a response has already been written.
func (h *Handler) imageRequest(w http.ResponseWriter, r *http.Request) (models.Identity, int64, bool) {
	identity, ok := utils.GetIdentityFromContext(r.Context())
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return models.Identity{}, 0, false
	}

	imageID, err := strconv.ParseInt(chi.URLParam(r, "imageID"), 10, 64)
	if err != nil {
		http.Error(w, errBadImageID.Error(), http.StatusBadRequest)
		return models.Identity{}, 0, false
	}

	return identity, imageID, true
}
