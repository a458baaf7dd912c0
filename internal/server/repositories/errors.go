// Package repositories holds what the per-entity PostgreSQL repositories
// share: mapping of driver errors onto typed conflicts.
package repositories

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// uniqueViolation is the SQLSTATE for unique_violation.
const uniqueViolation = "23505"

// Logical names of the unique fields on employees.
const (
	FieldEmail          = "email"
	FieldPublicID       = "emp_id"
	FieldIdentityDigest = "user_hash"
)

// ErrConflict is matched by every ConflictError.
var ErrConflict = errors.New("conflict")

// ConflictError reports a uniqueness violation on a logical field.
type ConflictError struct {
	Field string
}

func (e ConflictError) Error() string {
	if e.Field == "" {
		return ErrConflict.Error()
	}
	return fmt.Sprintf("%v: %s", ErrConflict, e.Field)
}

func (e ConflictError) Unwrap() error { return ErrConflict }

// constraintFields maps constraint names from the migrations to fields.
var constraintFields = map[string]string{
	"employees_pkey":          FieldPublicID,
	"employees_email_key":     FieldEmail,
	"employees_user_hash_key": FieldIdentityDigest,
}

// AsConflict converts a unique violation into a ConflictError and reports
// whether it did so.
func AsConflict(err error) (ConflictError, bool) {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != uniqueViolation {
		return ConflictError{}, false
	}
	return ConflictError{Field: constraintFields[pgErr.ConstraintName]}, true
}

// ConflictField returns the field of a ConflictError anywhere in err's chain.
func ConflictField(err error) (string, bool) {
	var ce ConflictError
	if errors.As(err, &ce) {
		return ce.Field, true
	}
	return "", false
}
