package store

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by repository methods to signal well-known failure
// conditions. Callers should use [errors.Is] to match against these values.
var (
	// ErrUserNameAlreadyExists is returned when an attempt to register a new
	// user fails because the user_name is already taken.
	ErrUserNameAlreadyExists = errors.New("user name already exists")

	// ErrNoUserWasFound is returned when a query expected to match at least
	// one user record produces an empty result set.
	ErrNoUserWasFound = errors.New("no user was found")

	// ErrCategoryNameAlreadyExists is returned when creating a category whose
	// normalized name collides with an existing one.
	ErrCategoryNameAlreadyExists = errors.New("category name already exists")

	// ErrCategoryNotFound is returned when a delete targets a category id
	// that does not exist.
	ErrCategoryNotFound = errors.New("category was not found")

	// ErrNotFoundOrForbidden is returned when an image either does not exist
	// or exists but the caller has no access to it. The two cases are
	// deliberately indistinguishable so that callers cannot leak resource
	// existence to unauthorized clients.
	ErrNotFoundOrForbidden = errors.New("image does not exist or access is denied")
)

// Low-level database operation errors. These are returned (or wrapped) by
// repository methods when a SQL-level operation fails before any domain logic
// can be applied.
var (
	// ErrBuildingSQLQuery is returned when constructing a parameterised SQL
	// query fails.
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a SELECT or similar
	// read-only query against the database fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrBeginningTransaction is returned when the database driver cannot
	// start a new transaction.
	ErrBeginningTransaction = errors.New("failed to begin transaction")

	// ErrCommittingTransaction is returned when committing an open
	// transaction fails. The transaction is considered rolled back at this
	// point.
	ErrCommittingTransaction = errors.New("failed to commit transaction")

	// ErrExecutingStatement is returned when executing a DML statement
	// (INSERT, UPDATE, DELETE) fails.
	ErrExecutingStatement = errors.New("failed to execute statement")

	// ErrScanningRow is returned when scanning column values from a single
	// result row into a destination struct fails.
	ErrScanningRow = errors.New("failed to scan row")

	// ErrScanningRows is returned when scanning column values during
	// multi-row iteration fails, typically mid-result-set.
	ErrScanningRows = errors.New("failed to scan rows")
)

// ReferenceNotFoundError is returned when inserting category mappings hits a
// foreign-key violation: one or more of the requested category ids do not
// name an existing category. The surrounding transaction is rolled back
// before this error is surfaced.
type ReferenceNotFoundError struct {
	// CategoryIDs is the set of ids the failed insert referenced.
	CategoryIDs []int64
}

// Error implements the error interface.
func (e *ReferenceNotFoundError) Error() string {
	return fmt.Sprintf("categories do not exist: %v", e.CategoryIDs)
}
