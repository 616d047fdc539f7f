package service

import "errors"

// Sentinel errors mapped to HTTP status codes by the handlers. Store-level
// failures are returned as-is and surfaced as a generic internal error.
var (
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrForbidden          = errors.New("forbidden")
)
