package models

// Validation bounds for user account fields. The user_name column is
// varchar(31); the password bounds apply to the plaintext before hashing.
const (
	MinUserNameLen = 4
	MaxUserNameLen = 31
	MinPasswordLen = 4
	MaxPasswordLen = 63
)

// User represents an account entity used for authentication and authorization.
// PasswordHash holds a bcrypt digest and must never be exposed outside
// trusted boundaries.
type User struct {
	// ID is the internal unique identifier of the user.
	// It is not exposed via JSON and is used only at the persistence layer.
	ID int64 `json:"-"`

	// UserName is the unique account name used during authentication.
	UserName string `json:"user_name"`

	// PasswordHash is the bcrypt digest of the account password.
	// Never serialized.
	PasswordHash string `json:"-"`

	// IsAdmin marks privileged accounts that may manage categories and see
	// the orphaned image pool.
	IsAdmin bool `json:"is_admin"`
}

// TableName returns the name of the database table
// associated with the User model.
func (u User) TableName() string {
	return "users"
}

// Identity is the authenticated caller extracted from a verified token. It
// is the only piece of user state that travels with a request.
type Identity struct {
	// UserID is the account id carried in the token subject.
	UserID int64

	// IsAdmin grants access to the orphaned pool and category management.
	IsAdmin bool
}
