package models

import "time"

// PersonalInfo is the at-most-one personal fragment of an employee.
type PersonalInfo struct {
	EmployeeID  string
	FirstName   string
	LastName    string
	DateOfBirth *time.Time
}

// ContactInfo is the at-most-one contact fragment. Email mirrors the
// employee's current email whenever the fragment is written.
type ContactInfo struct {
	EmployeeID string
	Mobile     string
	Email      string
	Address    string
}

// EmploymentInfo is the at-most-one employment fragment.
type EmploymentInfo struct {
	EmployeeID     string
	JobDesignation string
	Department     string
}

// ProfileUpdate is a partial profile change. Nil fields are left untouched.
type ProfileUpdate struct {
	FirstName      *string
	LastName       *string
	DateOfBirth    *time.Time
	Mobile         *string
	Email          *string
	Address        *string
	JobDesignation *string
	Department     *string
}

// TouchesPersonal reports whether any PersonalInfo field is supplied.
func (u ProfileUpdate) TouchesPersonal() bool {
	return u.FirstName != nil || u.LastName != nil || u.DateOfBirth != nil
}

// TouchesContact reports whether any ContactInfo field is supplied.
func (u ProfileUpdate) TouchesContact() bool {
	return u.Mobile != nil || u.Address != nil || u.Email != nil
}

// TouchesEmployment reports whether any EmploymentInfo field is supplied.
func (u ProfileUpdate) TouchesEmployment() bool {
	return u.JobDesignation != nil || u.Department != nil
}

// Profile is the merged read view of an employee and its fragments.
type Profile struct {
	PublicID       string
	Email          string
	IdentityDigest string
	FirstName      string
	LastName       string
	DateOfBirth    *time.Time
	Mobile         string
	Address        string
	JobDesignation string
	Department     string
	// DocumentDigest is the content digest of the most recent upload, if any.
	DocumentDigest *string
}
