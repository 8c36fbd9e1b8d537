package models

import (
	"sort"
	"strings"
	"time"
)

// Validation bounds for category names. Names are stored uppercase; the
// column is varchar(63) with a unique constraint.
const (
	MinCategoryNameLen = 4
	MaxCategoryNameLen = 63
)

// ImageCategory is a shared tag that any image may be mapped to. Categories
// have a lifecycle independent from images; deleting a category cascades to
// its mappings only.
type ImageCategory struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the name of the database table
// associated with the ImageCategory model.
func (c ImageCategory) TableName() string {
	return "image_category"
}

// NormalizeCategoryName canonicalizes a raw category name: surrounding
// whitespace is trimmed and the result is uppercased, matching the stored
// form used by the unique constraint.
func NormalizeCategoryName(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}

// CategoryMutation is the minimal set of membership changes produced by
// category reconciliation for one image: mapping rows to insert and mapping
// rows to delete. Both slices are sorted ascending so that equal inputs
// always produce identical mutations.
type CategoryMutation struct {
	Insert []int64
	Remove []int64
}

// Empty reports whether applying the mutation would change nothing.
func (m CategoryMutation) Empty() bool {
	return len(m.Insert) == 0 && len(m.Remove) == 0
}

// SortIDs sorts an id slice in place, ascending. Shared by the reconciler
// and tests that compare mutation sets.
func SortIDs(ids []int64) {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
}
