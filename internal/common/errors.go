// Package common defines shared constants and sentinel errors used across
// the service layers of empvault. Callers should use errors.Is to match these
// values.
package common

import (
	"errors"
	"fmt"
)

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorUnexpected   = errors.New("unexpected error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Registration / profile errors.
	ErrInvalidEmail             = errors.New("invalid email")
	ErrWeakPassword             = errors.New("password must be at least 8 characters")
	ErrDuplicateEmail           = errors.New("email already registered")
	ErrExhaustedIdentifierSpace = errors.New("could not allocate a unique employee id")
	ErrValidation               = errors.New("validation error")

	// ErrInvalidToken covers malformed, badly signed and expired tokens alike.
	// It matches ErrorUnauthorized as well.
	ErrInvalidToken = fmt.Errorf("%w: invalid or expired token", ErrorUnauthorized)

	// Document integrity outcomes.
	ErrNoSuchOwner = errors.New("no record found for employee")
	ErrNoDocument  = errors.New("no document found for this employee")
	ErrMismatch    = errors.New("document hash does not match the record")
)
