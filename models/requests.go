package models

// Credentials is the signup/login request body.
type Credentials struct {
	UserName string `json:"user_name"`
	Password string `json:"password"`
}

// Validate checks the length bounds on both fields. The bounds mirror the
// database column sizes and are enforced here, at the boundary, independent
// of any serialization library.
func (c Credentials) Validate() error {
	if len(c.UserName) < MinUserNameLen || len(c.UserName) > MaxUserNameLen {
		return ErrUserNameOutOfBounds
	}
	if len(c.Password) < MinPasswordLen || len(c.Password) > MaxPasswordLen {
		return ErrPasswordOutOfBounds
	}

	return nil
}

// ImageUpload carries a decoded multipart upload into the catalog service.
type ImageUpload struct {
	FileName    string
	Data        []byte
	Description *string
	CategoryIDs []int64
}

// ImageUpdateRequest is the body of a PATCH on a single image. All fields
// are optional; absent fields leave the corresponding state untouched.
type ImageUpdateRequest struct {
	Description      *string `json:"description"`
	AddCategories    []int64 `json:"add_categories"`
	RemoveCategories []int64 `json:"remove_categories"`
}

// CategoryCreateRequest is the body of an admin category creation call.
type CategoryCreateRequest struct {
	Name string `json:"name"`
}

// Validate checks the name bounds against the raw (pre-normalization) input.
func (r CategoryCreateRequest) Validate() error {
	name := NormalizeCategoryName(r.Name)
	if len(name) < MinCategoryNameLen || len(name) > MaxCategoryNameLen {
		return ErrCategoryNameOutOfBounds
	}

	return nil
}
