package storage

import "errors"

// Common storage errors
var (
	// ErrRowNotFound indicates that no row matched the filter of an update or delete
	ErrRowNotFound = errors.New("no rows matched")

	// ErrConflict indicates that an insert collides with an existing row key
	ErrConflict = errors.New("row already exists")

	// ErrInvalidPayload indicates that the request body is not a usable JSON object
	ErrInvalidPayload = errors.New("invalid payload")
)
