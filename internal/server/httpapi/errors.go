package httpapi

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/empvault/internal/common"
)

// statusFor maps a service error onto an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, common.ErrInvalidEmail),
		errors.Is(err, common.ErrWeakPassword),
		errors.Is(err, common.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, common.ErrDuplicateEmail):
		return http.StatusConflict
	case errors.Is(err, common.ErrorUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, common.ErrNoSuchOwner),
		errors.Is(err, common.ErrNoDocument),
		errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound
	case errors.Is(err, common.ErrExhaustedIdentifierSpace):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// writeServiceError writes err with its mapped status. Internal details are
// not exposed for 5xx responses.
func writeServiceError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status >= http.StatusInternalServerError {
		msg = http.StatusText(status)
	}
	writeError(w, status, msg)
}
