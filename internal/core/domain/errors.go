package domain

import "errors"

// Domain errors represent pipeline failures.
// Stage errors wrap their cause so callers can match both the kind and
// the underlying fault with errors.Is.
var (
	// ErrAcquisition indicates the dataset could not be obtained or unpacked:
	// authentication failure, no archive produced, missing members, or a
	// corrupt archive.
	ErrAcquisition = errors.New("acquisition failed")

	// ErrTransform indicates the extracted files could not be turned into an
	// engagement table: missing or unreadable input, malformed data, or
	// missing keys.
	ErrTransform = errors.New("transform failed")

	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// Authentication Errors.

	// ErrAuthRequired indicates no provider credentials are configured.
	ErrAuthRequired = errors.New("authentication required")

	// ErrAuthInvalid indicates the provider rejected the credentials.
	ErrAuthInvalid = errors.New("authentication invalid")
)
