package grpc

import (
	"github.com/dmitrijs2005/empvault/internal/server/models"
	"github.com/dmitrijs2005/empvault/internal/server/validate"
)

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterResponse struct {
	EmployeeID string `json:"employeeId"`
	Message    string `json:"message"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken string   `json:"accessToken"`
	Profile     *Profile `json:"profile"`
}

type MeRequest struct{}

type ProfileResponse struct {
	Profile *Profile `json:"profile"`
}

// UpdateProfileRequest mirrors models.ProfileUpdate: nil fields are left
// untouched and an empty dateOfBirth keeps the stored date.
type UpdateProfileRequest struct {
	FirstName      *string `json:"firstName,omitempty"`
	LastName       *string `json:"lastName,omitempty"`
	DateOfBirth    *string `json:"dateOfBirth,omitempty"`
	Mobile         *string `json:"mobile,omitempty"`
	Email          *string `json:"email,omitempty"`
	Address        *string `json:"address,omitempty"`
	JobDesignation *string `json:"jobDesignation,omitempty"`
	Department     *string `json:"department,omitempty"`
}

type UploadDocumentRequest struct {
	Name      string `json:"name"`
	MediaType string `json:"mediaType"`
	Content   []byte `json:"content"`
}

type UploadDocumentResponse struct {
	DocumentID   string `json:"documentId"`
	DocumentHash string `json:"documentHash"`
	Size         int64  `json:"size"`
}

type VerifyDocumentRequest struct {
	EmployeeID string `json:"employeeId"`
	Hash       string `json:"hash"`
}

type VerifyDocumentResponse struct {
	Verdict string `json:"verdict"`
	Match   bool   `json:"match"`
}

// Profile is the merged profile as sent over gRPC.
type Profile struct {
	EmployeeID     string  `json:"employeeId"`
	Email          string  `json:"email"`
	UserHash       string  `json:"userHash"`
	FirstName      string  `json:"firstName"`
	LastName       string  `json:"lastName"`
	DateOfBirth    string  `json:"dateOfBirth"`
	Mobile         string  `json:"mobile"`
	Address        string  `json:"address"`
	JobDesignation string  `json:"jobDesignation"`
	Department     string  `json:"department"`
	DocumentHash   *string `json:"documentHash"`
}

func profileFromModel(p *models.Profile) *Profile {
	out := &Profile{
		EmployeeID:     p.PublicID,
		Email:          p.Email,
		UserHash:       p.IdentityDigest,
		FirstName:      p.FirstName,
		LastName:       p.LastName,
		Mobile:         p.Mobile,
		Address:        p.Address,
		JobDesignation: p.JobDesignation,
		Department:     p.Department,
		DocumentHash:   p.DocumentDigest,
	}
	if p.DateOfBirth != nil {
		out.DateOfBirth = p.DateOfBirth.Format(validate.DateLayout)
	}
	return out
}

func (r *UpdateProfileRequest) toModel() (models.ProfileUpdate, error) {
	u := models.ProfileUpdate{
		FirstName:      r.FirstName,
		LastName:       r.LastName,
		Mobile:         r.Mobile,
		Email:          r.Email,
		Address:        r.Address,
		JobDesignation: r.JobDesignation,
		Department:     r.Department,
	}
	if r.DateOfBirth != nil && *r.DateOfBirth != "" {
		d, err := validate.ParseDate(*r.DateOfBirth)
		if err != nil {
			return models.ProfileUpdate{}, err
		}
		u.DateOfBirth = &d
	}
	return u, nil
}
