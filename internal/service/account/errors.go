package account

import "errors"

// Operation failures, mapped to HTTP status codes at the handler boundary.
var (
	ErrValidation         = errors.New("missing required fields")
	ErrConflict           = errors.New("customer with this email or username already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrNotFound           = errors.New("customer not found")
	ErrForbidden          = errors.New("admin access required")
)
