package services

import "errors"

// Failures the handlers translate into client-facing statuses. Anything
// else bubbling out of a service is treated as an internal error.
var (
	ErrValidation         = errors.New("missing required field")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotFound           = errors.New("not found")
)
