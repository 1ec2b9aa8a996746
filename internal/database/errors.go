package database

import "errors"

// Sentinel errors returned by the data layer. The API layer maps them to
// status codes; callers must not learn more from a denial than the code
// itself (a forbidden page and a missing page are distinguished on purpose
// only for members who could otherwise enumerate slugs).
var (
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("forbidden")
	ErrConflict           = errors.New("already exists")
	ErrLocked             = errors.New("account locked")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrValidation         = errors.New("invalid data")
)
