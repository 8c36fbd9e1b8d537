// SPDX-License-Identifier: Apache-2.0

package service

import "github.com/imagehub/image-hub/models"

// ReconcileCategories computes the minimal membership mutation that takes an
// image's current category set to the state requested by a partial edit.
//
// The edit is a pair of sets (add, remove) applied against current:
//
//  1. An id named in both add and remove carries ambiguous intent and is
//     dropped from both sides, resolving it as a no-op.
//  2. Removing an id that is not currently mapped is a silent no-op.
//  3. Adding an id that survives the removals is a silent no-op.
//  4. The projected membership (current minus removals, plus additions) is
//     checked against the cap before anything is emitted: exceeding it
//     fails with a [*CategoryLimitError] and no partial mutation.
//
// The emitted mutation is minimal: every id in Insert is genuinely new and
// every id in Remove is genuinely present. Reapplying the same edit against
// the resulting state therefore yields an empty mutation.
//
// Both output slices are sorted ascending, so equal inputs produce
// byte-for-byte identical mutations regardless of request ordering.
func ReconcileCategories(current, add, remove []int64, limit int) (models.CategoryMutation, error) {
	addSet := toSet(add)
	removeSet := toSet(remove)

	// ambiguous ids are dropped from both sides
	for id := range addSet {
		if removeSet[id] {
			delete(addSet, id)
			delete(removeSet, id)
		}
	}

	currentSet := toSet(current)

	projected := make(map[int64]bool, len(currentSet)+len(addSet))
	toRemove := make([]int64, 0, len(removeSet))
	for id := range currentSet {
		if removeSet[id] {
			toRemove = append(toRemove, id)
			continue
		}
		projected[id] = true
	}

	toInsert := make([]int64, 0, len(addSet))
	for id := range addSet {
		if projected[id] {
			continue
		}
		projected[id] = true
		toInsert = append(toInsert, id)
	}

	if len(projected) > limit {
		return models.CategoryMutation{}, &CategoryLimitError{
			NumUpdatedCategories: len(projected),
			Limit:                limit,
		}
	}

	models.SortIDs(toInsert)
	models.SortIDs(toRemove)

	return models.CategoryMutation{Insert: toInsert, Remove: toRemove}, nil
}

func toSet(ids []int64) map[int64]bool {
	set := make(map[int64]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}
