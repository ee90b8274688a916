// Package apperr holds the error kinds surfaced across the store boundary.
package apperr

import "errors"

var (
	ErrInvalidName      = errors.New("invalid note name")
	ErrStoreUnavailable = errors.New("store unavailable")
)
