// Package validate checks user-supplied employee fields before they reach
// the store. Every failure wraps common.ErrInvalidEmail or
// common.ErrValidation so transports can map it with errors.Is.
package validate

import (
	"fmt"
	"net/mail"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dmitrijs2005/empvault/internal/common"
	"github.com/dmitrijs2005/empvault/internal/server/models"
)

// Field limits mirror the column widths in the migrations.
const (
	MaxEmailLength       = 100
	MaxNameLength        = 50
	MaxMobileLength      = 15
	MaxDesignationLength = 100
	MaxDepartmentLength  = 100
	MinPasswordLength    = 8
)

// DateLayout is the wire format of a date of birth.
const DateLayout = "2006-01-02"

var (
	namePattern   = regexp.MustCompile(`^[A-Za-z ]+$`)
	mobilePattern = regexp.MustCompile(`^[0-9+()\-\s]+$`)
	// domain part must contain a dot; net/mail alone accepts "a@b"
	domainPattern = regexp.MustCompile(`^[A-Za-z0-9](?:[A-Za-z0-9-]*[A-Za-z0-9])?(?:\.[A-Za-z0-9](?:[A-Za-z0-9-]*[A-Za-z0-9])?)+$`)
)

// Email reports whether an already normalized address is well formed.
func Email(email string) error {
	if email == "" || len(email) > MaxEmailLength {
		return common.ErrInvalidEmail
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email || addr.Name != "" {
		return common.ErrInvalidEmail
	}
	at := strings.LastIndexByte(email, '@')
	if at <= 0 || !domainPattern.MatchString(email[at+1:]) {
		return common.ErrInvalidEmail
	}
	return nil
}

// Password enforces the minimum length, counted in characters.
func Password(password string) error {
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return common.ErrWeakPassword
	}
	return nil
}

// ParseDate parses a YYYY-MM-DD date of birth.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: dateOfBirth must be YYYY-MM-DD", common.ErrValidation)
	}
	return t, nil
}

// ProfileUpdate validates every supplied field of u except Email, which
// the caller normalizes and checks with Email. Empty strings are allowed
// and clear the field.
func ProfileUpdate(u models.ProfileUpdate, now time.Time) error {
	if err := name("firstName", u.FirstName); err != nil {
		return err
	}
	if err := name("lastName", u.LastName); err != nil {
		return err
	}
	if u.DateOfBirth != nil && u.DateOfBirth.After(now) {
		return fmt.Errorf("%w: dateOfBirth is in the future", common.ErrValidation)
	}
	if u.Mobile != nil && *u.Mobile != "" {
		if len(*u.Mobile) > MaxMobileLength || !mobilePattern.MatchString(*u.Mobile) {
			return fmt.Errorf("%w: invalid mobile number format", common.ErrValidation)
		}
	}
	if err := maxLen("jobDesignation", u.JobDesignation, MaxDesignationLength); err != nil {
		return err
	}
	return maxLen("department", u.Department, MaxDepartmentLength)
}

func name(field string, v *string) error {
	if v == nil || *v == "" {
		return nil
	}
	if len(*v) > MaxNameLength || !namePattern.MatchString(*v) {
		return fmt.Errorf("%w: %s: only letters and spaces allowed, at most %d", common.ErrValidation, field, MaxNameLength)
	}
	return nil
}

func maxLen(field string, v *string, limit int) error {
	if v != nil && utf8.RuneCountInString(*v) > limit {
		return fmt.Errorf("%w: %s longer than %d characters", common.ErrValidation, field, limit)
	}
	return nil
}
