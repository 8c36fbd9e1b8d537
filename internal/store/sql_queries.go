// SPDX-License-Identifier: Apache-2.0

package store

import (
	sq "github.com/Masterminds/squirrel"
	"github.com/imagehub/image-hub/models"
)

// psql is the statement builder for every dynamically constructed query.
// PostgreSQL uses $n placeholders.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// imageColumns is the canonical column list of the image_info table, in scan
// order.
var imageColumns = []string{
	"id",
	"file_name",
	"description",
	"uploader_id",
	"uploader_admin_id",
	"created_at",
	"updated_at",
}

// buildListUserImagesQuery constructs one page of the user-mode listing:
// the caller's own uploads, ordered by id descending. A non-nil lastID
// continues the keyset scan strictly below it; offsets are never used
// because they drift under concurrent inserts and deletes.
func buildListUserImagesQuery(userID int64, lastID *int64, size int) (string, []any, error) {
	query := psql.Select(imageColumns...).
		From("image_info").
		Where(sq.Eq{"uploader_id": userID})

	if lastID != nil {
		query = query.Where(sq.Lt{"id": *lastID})
	}

	return query.
		OrderBy("id DESC").
		Limit(uint64(size)).
		ToSql()
}

// buildListAdminImagesQuery constructs one page of the two-phase admin feed.
//
// The feed merges two ownership groups into a single deterministic order:
// the admin's own uploads (owned rank 0) followed by the orphaned pool
// (owned rank 1), each descending by id. The rank is expressed directly as
// "uploader_admin_id IS NULL" in the ORDER BY — false sorts before true, so
// owned rows come first without any client-side merge.
//
// The cursor's phase selects the continuation predicate:
//   - no cursor: both groups, from the top;
//   - owned phase: the owned scan below the cursor id, plus the entire
//     orphaned pool, so the phase transition happens automatically when the
//     owned group is exhausted;
//   - orphaned phase: only the orphaned pool below the cursor id.
//
// Image ids only increase, so "id <" continuation is stable under concurrent
// inserts: no row is duplicated or skipped across page boundaries as long as
// its ownership classification does not change mid-scan.
func buildListAdminImagesQuery(adminID int64, cursor *models.AdminCursor, size int) (string, []any, error) {
	var where sq.Sqlizer

	switch {
	case cursor == nil:
		where = sq.Or{
			sq.Eq{"uploader_admin_id": adminID},
			sq.Eq{"uploader_admin_id": nil},
		}
	case cursor.Phase == models.CursorPhaseOwned:
		where = sq.Or{
			sq.And{
				sq.Eq{"uploader_admin_id": adminID},
				sq.Lt{"id": cursor.LastID},
			},
			sq.Eq{"uploader_admin_id": nil},
		}
	default: // orphaned phase
		where = sq.And{
			sq.Eq{"uploader_admin_id": nil},
			sq.Lt{"id": cursor.LastID},
		}
	}

	return psql.Select(imageColumns...).
		From("image_info").
		Where(where).
		OrderBy("uploader_admin_id IS NULL", "id DESC").
		Limit(uint64(size)).
		ToSql()
}

// buildImageAccessQuery constructs the single-row access check for one
// image. Plain users match only their own uploads; admins match their own
// uploads and the orphaned pool. An empty result set means "not found or
// forbidden" — the two cases are indistinguishable on purpose.
func buildImageAccessQuery(imageID int64, identity models.Identity) (string, []any, error) {
	query := psql.Select(imageColumns...).
		From("image_info").
		Where(sq.Eq{"id": imageID})

	if identity.IsAdmin {
		query = query.Where(sq.Or{
			sq.Eq{"uploader_admin_id": identity.UserID},
			sq.Eq{"uploader_admin_id": nil},
		})
	} else {
		query = query.Where(sq.Eq{"uploader_id": identity.UserID})
	}

	return query.ToSql()
}

// buildListCategoriesQuery constructs one page of the category listing,
// ordered by id ascending with keyset continuation above lastID.
func buildListCategoriesQuery(lastID *int64, size int) (string, []any, error) {
	query := psql.Select("id", "name", "created_at").
		From("image_category")

	if lastID != nil {
		query = query.Where(sq.Gt{"id": *lastID})
	}

	return query.
		OrderBy("id ASC").
		Limit(uint64(size)).
		ToSql()
}

// Static DML statements.
const (
	createUser = `INSERT INTO users (user_name, password_hash, is_admin)
    VALUES ($1, $2, $3)
    RETURNING id, user_name, password_hash, is_admin;`

	findUserByUserName = `SELECT id, user_name, password_hash, is_admin
    FROM users
    WHERE user_name = $1;`

	insertImage = `INSERT INTO image_info (file_name, description, uploader_id, uploader_admin_id)
    VALUES ($1, $2, $3, $4)
    RETURNING id, created_at, updated_at;`

	insertCategoryMapping = `INSERT INTO image_category_mapping (image_info_id, category_id)
    VALUES ($1, $2);`

	deleteCategoryMappings = `DELETE FROM image_category_mapping
    WHERE image_info_id = $1 AND category_id = ANY($2);`

	getImageCategories = `SELECT category_id
    FROM image_category_mapping
    WHERE image_info_id = $1
    ORDER BY category_id;`

	updateImageDescription = `UPDATE image_info
    SET description = $1, updated_at = now()
    WHERE id = $2;`

	touchImage = `UPDATE image_info
    SET updated_at = now()
    WHERE id = $1;`

	deleteImage = `DELETE FROM image_info
    WHERE id = $1;`

	releaseImage = `UPDATE image_info
    SET uploader_admin_id = NULL, updated_at = now()
    WHERE id = $1 AND uploader_admin_id = $2;`

	createCategory = `INSERT INTO image_category (name)
    VALUES ($1)
    RETURNING id, name, created_at;`

	deleteCategory = `DELETE FROM image_category
    WHERE id = $1;`
)
