// SPDX-License-Identifier: Apache-2.0

package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/imagehub/image-hub/internal/config"
	"github.com/imagehub/image-hub/internal/logger"
	"github.com/imagehub/image-hub/internal/store"
	"github.com/imagehub/image-hub/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ─────────────────────────────────────────────
// Mock: store.ImageRepository
// ─────────────────────────────────────────────

type mockImageRepository struct {
	createFn        func(ctx context.Context, image models.ImageInfo, categoryIDs []int64, persistFiles func(models.ImageInfo) error) (models.ImageInfo, error)
	getFn           func(ctx context.Context, imageID int64, identity models.Identity) (models.ImageInfo, error)
	listUserFn      func(ctx context.Context, userID int64, lastID *int64, size int) ([]models.ImageInfo, error)
	listAdminFn     func(ctx context.Context, adminID int64, cursor *models.AdminCursor, size int) ([]models.ImageInfo, error)
	getCategoriesFn func(ctx context.Context, imageID int64) ([]int64, error)
	updateFn        func(ctx context.Context, imageID int64, description *string, mutation models.CategoryMutation) error
	deleteFn        func(ctx context.Context, imageID int64) error
	releaseFn       func(ctx context.Context, imageID, adminID int64) error
}

func (m *mockImageRepository) CreateImage(ctx context.Context, image models.ImageInfo, categoryIDs []int64, persistFiles func(models.ImageInfo) error) (models.ImageInfo, error) {
	if m.createFn != nil {
		return m.createFn(ctx, image, categoryIDs, persistFiles)
	}
	return image, nil
}

func (m *mockImageRepository) GetImageForIdentity(ctx context.Context, imageID int64, identity models.Identity) (models.ImageInfo, error) {
	if m.getFn != nil {
		return m.getFn(ctx, imageID, identity)
	}
	return models.ImageInfo{ID: imageID}, nil
}

func (m *mockImageRepository) ListUserImages(ctx context.Context, userID int64, lastID *int64, size int) ([]models.ImageInfo, error) {
	if m.listUserFn != nil {
		return m.listUserFn(ctx, userID, lastID, size)
	}
	return nil, nil
}

func (m *mockImageRepository) ListAdminImages(ctx context.Context, adminID int64, cursor *models.AdminCursor, size int) ([]models.ImageInfo, error) {
	if m.listAdminFn != nil {
		return m.listAdminFn(ctx, adminID, cursor, size)
	}
	return nil, nil
}

func (m *mockImageRepository) GetImageCategories(ctx context.Context, imageID int64) ([]int64, error) {
	if m.getCategoriesFn != nil {
		return m.getCategoriesFn(ctx, imageID)
	}
	return nil, nil
}

func (m *mockImageRepository) UpdateImage(ctx context.Context, imageID int64, description *string, mutation models.CategoryMutation) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, imageID, description, mutation)
	}
	return nil
}

func (m *mockImageRepository) DeleteImage(ctx context.Context, imageID int64) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, imageID)
	}
	return nil
}

func (m *mockImageRepository) ReleaseImage(ctx context.Context, imageID, adminID int64) error {
	if m.releaseFn != nil {
		return m.releaseFn(ctx, imageID, adminID)
	}
	return nil
}

// ─────────────────────────────────────────────
// Mock: store.ImageFileStorage
// ─────────────────────────────────────────────

type mockFileStorage struct {
	saveFn   func(ctx context.Context, imageID int64, fileName string, data []byte) error
	deleteFn func(imageID int64) error
	deleted  []int64
}

func (m *mockFileStorage) SaveImageFiles(ctx context.Context, imageID int64, fileName string, data []byte) error {
	if m.saveFn != nil {
		return m.saveFn(ctx, imageID, fileName, data)
	}
	return nil
}

func (m *mockFileStorage) DeleteImageFiles(imageID int64) error {
	m.deleted = append(m.deleted, imageID)
	if m.deleteFn != nil {
		return m.deleteFn(imageID)
	}
	return nil
}

func (m *mockFileStorage) ImageFilePath(imageID int64, fileName string) string {
	return fmt.Sprintf("/img/%d/%s", imageID, fileName)
}

func (m *mockFileStorage) ThumbnailPath(imageID int64) string {
	return fmt.Sprintf("/img/%d/thumbnail/thumbnail.jpg", imageID)
}

func newTestCatalogService(images store.ImageRepository, files store.ImageFileStorage) CatalogService {
	return NewCatalogService(images, files, config.Catalog{MaxCategoriesPerImage: 5}, logger.Nop())
}

func ptr[T any](v T) *T { return &v }

// ─────────────────────────────────────────────
// ListImages
// ─────────────────────────────────────────────

func TestListImages_SizeBounds(t *testing.T) {
	svc := newTestCatalogService(&mockImageRepository{}, &mockFileStorage{})
	ctx := context.Background()
	user := models.Identity{UserID: 42}

	for _, size := range []int{0, -1, models.MaxPageSize + 1} {
		_, err := svc.ListImages(ctx, user, nil, size)
		require.ErrorIs(t, err, models.ErrPageSizeOutOfRange, "size %d", size)
	}
}

func TestListImages_BadCursor(t *testing.T) {
	svc := newTestCatalogService(&mockImageRepository{}, &mockFileStorage{})
	ctx := context.Background()

	_, err := svc.ListImages(ctx, models.Identity{UserID: 42}, ptr("not-a-number"), 10)
	require.ErrorIs(t, err, models.ErrBadCursor)

	// user-format cursor is not valid in admin mode
	_, err = svc.ListImages(ctx, models.Identity{UserID: 7, IsAdmin: true}, ptr("123"), 10)
	require.ErrorIs(t, err, models.ErrBadCursor)

	_, err = svc.ListImages(ctx, models.Identity{UserID: 7, IsAdmin: true}, ptr("weird-0-0"), 10)
	require.ErrorIs(t, err, models.ErrBadCursor)
}

func TestListImages_UserWalk(t *testing.T) {
	// ids 5..1; page size 2 ⇒ pages [5 4], [3 2], [1]
	repo := &mockImageRepository{
		listUserFn: func(_ context.Context, userID int64, lastID *int64, size int) ([]models.ImageInfo, error) {
			var page []models.ImageInfo
			start := int64(5)
			if lastID != nil {
				start = *lastID - 1
			}
			for id := start; id >= 1 && len(page) < size; id-- {
				page = append(page, models.ImageInfo{ID: id, FileName: "f.png", UploaderID: &userID})
			}
			return page, nil
		},
	}
	svc := newTestCatalogService(repo, &mockFileStorage{})
	ctx := context.Background()
	user := models.Identity{UserID: 42}

	var visited []int64
	var key *string
	for {
		page, err := svc.ListImages(ctx, user, key, 2)
		require.NoError(t, err)
		for _, item := range page.Items {
			visited = append(visited, item.ID)
		}
		if page.NextKey == nil {
			break
		}
		key = page.NextKey
	}

	assert.Equal(t, []int64{5, 4, 3, 2, 1}, visited)
}

func TestListImages_AdminTwoPhaseWalk(t *testing.T) {
	adminID := int64(7)

	// admin owns {10,8}; orphaned pool {9,7}
	owned := []int64{10, 8}
	orphaned := []int64{9, 7}

	repo := &mockImageRepository{
		listAdminFn: func(_ context.Context, _ int64, cursor *models.AdminCursor, size int) ([]models.ImageInfo, error) {
			var feed []models.ImageInfo
			for _, id := range owned {
				if cursor != nil && (cursor.Phase != models.CursorPhaseOwned || id >= cursor.LastID) {
					continue
				}
				feed = append(feed, models.ImageInfo{ID: id, FileName: "f.png", UploaderAdminID: &adminID})
			}
			for _, id := range orphaned {
				if cursor != nil && cursor.Phase == models.CursorPhaseOrphaned && id >= cursor.LastID {
					continue
				}
				feed = append(feed, models.ImageInfo{ID: id, FileName: "f.png"})
			}
			if len(feed) > size {
				feed = feed[:size]
			}
			return feed, nil
		},
	}
	svc := newTestCatalogService(repo, &mockFileStorage{})
	ctx := context.Background()
	admin := models.Identity{UserID: adminID, IsAdmin: true}

	// page size 1 walks the full composite order, owned phase first
	var visited []int64
	var key *string
	for i := 0; i < 10; i++ {
		page, err := svc.ListImages(ctx, admin, key, 1)
		require.NoError(t, err)
		for _, item := range page.Items {
			visited = append(visited, item.ID)
		}
		if page.NextKey == nil {
			break
		}
		// every intermediate cursor round-trips through its wire form
		_, parseErr := models.ParseAdminCursor(*page.NextKey)
		require.NoError(t, parseErr)
		key = page.NextKey
	}

	assert.Equal(t, []int64{10, 8, 9, 7}, visited)
}

// ─────────────────────────────────────────────
// UploadImage
// ─────────────────────────────────────────────

func TestUploadImage_Validation(t *testing.T) {
	svc := newTestCatalogService(&mockImageRepository{}, &mockFileStorage{})
	ctx := context.Background()
	user := models.Identity{UserID: 42}

	_, err := svc.UploadImage(ctx, user, models.ImageUpload{FileName: "", Data: []byte("x")})
	require.ErrorIs(t, err, ErrInvalidDataProvided)

	_, err = svc.UploadImage(ctx, user, models.ImageUpload{FileName: "f.png", Data: nil})
	require.ErrorIs(t, err, ErrInvalidDataProvided)

	longName := make([]byte, models.MaxFileNameLen+1)
	for i := range longName {
		longName[i] = 'a'
	}
	_, err = svc.UploadImage(ctx, user, models.ImageUpload{FileName: string(longName), Data: []byte("x")})
	require.ErrorIs(t, err, models.ErrFileNameTooLong)

	_, err = svc.UploadImage(ctx, user, models.ImageUpload{
		FileName:    "f.png",
		Data:        []byte("x"),
		CategoryIDs: []int64{1, 2, 3, 4, 5, 6},
	})
	var limitErr *CategoryLimitError
	require.ErrorAs(t, err, &limitErr)
	assert.Equal(t, 6, limitErr.NumUpdatedCategories)
}

func TestUploadImage_WritesFilesBeforeCommit(t *testing.T) {
	files := &mockFileStorage{}
	var savedDuringTx bool

	repo := &mockImageRepository{
		createFn: func(_ context.Context, image models.ImageInfo, _ []int64, persistFiles func(models.ImageInfo) error) (models.ImageInfo, error) {
			image.ID = 10
			if err := persistFiles(image); err != nil {
				return models.ImageInfo{}, err
			}
			savedDuringTx = true
			return image, nil
		},
	}
	svc := newTestCatalogService(repo, files)

	response, err := svc.UploadImage(context.Background(), models.Identity{UserID: 42}, models.ImageUpload{
		FileName: "cat.png",
		Data:     []byte("pixels"),
	})
	require.NoError(t, err)
	assert.True(t, savedDuringTx)
	assert.Equal(t, int64(10), response.ID)
	assert.Equal(t, "/api/images/10/file/cat.png", response.ImageURL)
	assert.Equal(t, "/api/images/10/thumbnail", response.ThumbnailURL)
	assert.Empty(t, files.deleted)
}

func TestUploadImage_CommitFailureDeletesFiles(t *testing.T) {
	files := &mockFileStorage{}
	commitErr := errors.New("commit failed")

	repo := &mockImageRepository{
		createFn: func(_ context.Context, image models.ImageInfo, _ []int64, persistFiles func(models.ImageInfo) error) (models.ImageInfo, error) {
			image.ID = 10
			if err := persistFiles(image); err != nil {
				return models.ImageInfo{}, err
			}
			return models.ImageInfo{}, commitErr
		},
	}
	svc := newTestCatalogService(repo, files)

	_, err := svc.UploadImage(context.Background(), models.Identity{UserID: 42}, models.ImageUpload{
		FileName: "cat.png",
		Data:     []byte("pixels"),
	})
	require.ErrorIs(t, err, commitErr)

	// disk state must not outlive the rolled-back record
	assert.Equal(t, []int64{10}, files.deleted)
}

func TestUploadImage_FileWriteFailureLeavesNothing(t *testing.T) {
	writeErr := errors.New("disk full")
	files := &mockFileStorage{
		saveFn: func(context.Context, int64, string, []byte) error { return writeErr },
	}
	repo := &mockImageRepository{
		createFn: func(_ context.Context, image models.ImageInfo, _ []int64, persistFiles func(models.ImageInfo) error) (models.ImageInfo, error) {
			image.ID = 10
			if err := persistFiles(image); err != nil {
				return models.ImageInfo{}, err
			}
			return image, nil
		},
	}
	svc := newTestCatalogService(repo, files)

	_, err := svc.UploadImage(context.Background(), models.Identity{UserID: 42}, models.ImageUpload{
		FileName: "cat.png",
		Data:     []byte("pixels"),
	})
	require.ErrorIs(t, err, writeErr)
	assert.Empty(t, files.deleted)
}

// ─────────────────────────────────────────────
// UpdateImage / DeleteImage / ReleaseImage
// ─────────────────────────────────────────────

func TestUpdateImage_ReconcilesAgainstCurrentState(t *testing.T) {
	var applied models.CategoryMutation
	var appliedDescription *string

	repo := &mockImageRepository{
		getFn: func(_ context.Context, imageID int64, _ models.Identity) (models.ImageInfo, error) {
			return models.ImageInfo{ID: imageID, FileName: "f.png"}, nil
		},
		getCategoriesFn: func(context.Context, int64) ([]int64, error) {
			return []int64{1, 2, 3}, nil
		},
		updateFn: func(_ context.Context, _ int64, description *string, mutation models.CategoryMutation) error {
			applied = mutation
			appliedDescription = description
			return nil
		},
	}
	svc := newTestCatalogService(repo, &mockFileStorage{})

	_, err := svc.UpdateImage(context.Background(), models.Identity{UserID: 42}, 10, models.ImageUpdateRequest{
		Description:      ptr("new description"),
		AddCategories:    []int64{3, 4},
		RemoveCategories: []int64{2, 3},
	})
	require.NoError(t, err)
	require.NotNil(t, appliedDescription)
	assert.Equal(t, "new description", *appliedDescription)
	assert.Equal(t, []int64{4}, applied.Insert)
	assert.Equal(t, []int64{2}, applied.Remove)
}

func TestUpdateImage_NoopSkipsStorage(t *testing.T) {
	updateCalled := false
	repo := &mockImageRepository{
		getCategoriesFn: func(context.Context, int64) ([]int64, error) {
			return []int64{1}, nil
		},
		updateFn: func(context.Context, int64, *string, models.CategoryMutation) error {
			updateCalled = true
			return nil
		},
	}
	svc := newTestCatalogService(repo, &mockFileStorage{})

	_, err := svc.UpdateImage(context.Background(), models.Identity{UserID: 42}, 10, models.ImageUpdateRequest{
		AddCategories: []int64{1}, // already present
	})
	require.NoError(t, err)
	assert.False(t, updateCalled)
}

func TestUpdateImage_ForeignImage(t *testing.T) {
	repo := &mockImageRepository{
		getFn: func(context.Context, int64, models.Identity) (models.ImageInfo, error) {
			return models.ImageInfo{}, store.ErrNotFoundOrForbidden
		},
	}
	svc := newTestCatalogService(repo, &mockFileStorage{})

	_, err := svc.UpdateImage(context.Background(), models.Identity{UserID: 43}, 10, models.ImageUpdateRequest{})
	require.ErrorIs(t, err, store.ErrNotFoundOrForbidden)
}

func TestDeleteImage_FilesFirst(t *testing.T) {
	var order []string
	files := &mockFileStorage{
		deleteFn: func(int64) error {
			order = append(order, "files")
			return nil
		},
	}
	repo := &mockImageRepository{
		deleteFn: func(context.Context, int64) error {
			order = append(order, "record")
			return nil
		},
	}
	svc := newTestCatalogService(repo, files)

	require.NoError(t, svc.DeleteImage(context.Background(), models.Identity{UserID: 42}, 10))
	assert.Equal(t, []string{"files", "record"}, order)
}

func TestGetImageFilePath(t *testing.T) {
	repo := &mockImageRepository{
		getFn: func(_ context.Context, imageID int64, _ models.Identity) (models.ImageInfo, error) {
			return models.ImageInfo{ID: imageID, FileName: "cat.png"}, nil
		},
	}
	svc := newTestCatalogService(repo, &mockFileStorage{})
	ctx := context.Background()
	user := models.Identity{UserID: 42}

	path, err := svc.GetImageFilePath(ctx, user, 10, "cat.png")
	require.NoError(t, err)
	assert.Equal(t, "/img/10/cat.png", path)

	// a mismatched name must be indistinguishable from a missing image
	_, err = svc.GetImageFilePath(ctx, user, 10, "other.png")
	require.ErrorIs(t, err, store.ErrNotFoundOrForbidden)

	thumb, err := svc.GetThumbnailPath(ctx, user, 10)
	require.NoError(t, err)
	assert.Equal(t, "/img/10/thumbnail/thumbnail.jpg", thumb)
}

func TestReleaseImage(t *testing.T) {
	t.Run("plain user refused", func(t *testing.T) {
		svc := newTestCatalogService(&mockImageRepository{}, &mockFileStorage{})

		err := svc.ReleaseImage(context.Background(), models.Identity{UserID: 42}, 10)
		require.ErrorIs(t, err, ErrAdminRequired)
	})

	t.Run("owner releases", func(t *testing.T) {
		var releasedBy int64
		repo := &mockImageRepository{
			releaseFn: func(_ context.Context, _ int64, adminID int64) error {
				releasedBy = adminID
				return nil
			},
		}
		svc := newTestCatalogService(repo, &mockFileStorage{})

		err := svc.ReleaseImage(context.Background(), models.Identity{UserID: 7, IsAdmin: true}, 10)
		require.NoError(t, err)
		assert.Equal(t, int64(7), releasedBy)
	})
}
