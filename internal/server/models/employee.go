// Package models defines server-side data models persisted in the database.
package models

import "time"

// Employee is the identity root. PublicID never changes once assigned.
type Employee struct {
	PublicID         string
	Email            string
	CredentialDigest string
	IdentityDigest   string
	CreatedAt        time.Time
}
