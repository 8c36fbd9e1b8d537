package models

import (
	"errors"
	"strconv"
	"strings"
)

// MaxPageSize caps how many rows a single listing request may ask for.
// Exceeding it is a client error; the value is not silently clamped.
const MaxPageSize = 1000

// ErrBadCursor is returned when a pagination continuation key cannot be
// decoded. Callers surface it as a 400-class client error.
var ErrBadCursor = errors.New("invalid pagination key")

// AdminCursorPhase marks which half of the two-phase admin scan a cursor was
// emitted from: the admin's own uploads, or the orphaned pool that follows.
type AdminCursorPhase string

// Phase markers embedded in admin cursors. The wire format of an admin
// cursor is "<phase>-<decimal image id>".
const (
	CursorPhaseOwned    AdminCursorPhase = "own"
	CursorPhaseOrphaned AdminCursorPhase = "orphan"
)

// AdminCursor is the decoded continuation key for the admin listing scan.
//
// The admin feed is ordered by the composite key (owned_rank ASC, id DESC):
// the admin's own images first, then the orphaned pool, each in descending
// id order. Encoding the phase into the cursor lets the next page be served
// by a single range scan with no client-side merge; the transition from the
// owned phase into the orphaned pool happens automatically once the owned
// scan is exhausted.
type AdminCursor struct {
	Phase  AdminCursorPhase
	LastID int64
}

// ParseAdminCursor decodes an admin continuation key. A key of the wrong
// arity, an unknown phase marker, or a non-integer id yields [ErrBadCursor].
func ParseAdminCursor(key string) (AdminCursor, error) {
	parts := strings.Split(key, "-")
	if len(parts) != 2 {
		return AdminCursor{}, ErrBadCursor
	}

	phase := AdminCursorPhase(parts[0])
	if phase != CursorPhaseOwned && phase != CursorPhaseOrphaned {
		return AdminCursor{}, ErrBadCursor
	}

	lastID, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return AdminCursor{}, ErrBadCursor
	}

	return AdminCursor{Phase: phase, LastID: lastID}, nil
}

// String encodes the cursor into its opaque wire form.
// It implements the [fmt.Stringer] interface.
func (c AdminCursor) String() string {
	return string(c.Phase) + "-" + strconv.FormatInt(c.LastID, 10)
}

// NextAdminCursor derives the continuation key to hand back with a full
// page: the phase is decided by whether the page's last row still belongs to
// the caller, and the id is that row's. Returns nil for a short page, which
// means the scan is complete.
func NextAdminCursor(adminID int64, page []ImageInfo, size int) *string {
	if len(page) < size {
		return nil
	}

	last := page[len(page)-1]
	cursor := AdminCursor{Phase: CursorPhaseOrphaned, LastID: last.ID}
	if last.OwnedByAdmin(adminID) {
		cursor.Phase = CursorPhaseOwned
	}

	key := cursor.String()
	return &key
}

// ParseUserCursor decodes a user-mode continuation key: the decimal id of
// the last row returned. Non-integer input yields [ErrBadCursor].
func ParseUserCursor(key string) (int64, error) {
	lastID, err := strconv.ParseInt(key, 10, 64)
	if err != nil {
		return 0, ErrBadCursor
	}

	return lastID, nil
}

// NextUserCursor derives the user-mode continuation key from the current
// page, or nil if the page is short and the scan is complete.
func NextUserCursor(page []ImageInfo, size int) *string {
	if len(page) < size {
		return nil
	}

	key := strconv.FormatInt(page[len(page)-1].ID, 10)
	return &key
}
