package httpapi

import (
	"time"

	"github.com/dmitrijs2005/empvault/internal/server/models"
	"github.com/dmitrijs2005/empvault/internal/server/validate"
)

type profileView struct {
	FirstName      string  `json:"firstName"`
	LastName       string  `json:"lastName"`
	DateOfBirth    string  `json:"dateOfBirth"`
	Mobile         string  `json:"mobile"`
	Email          string  `json:"email"`
	Address        string  `json:"address"`
	JobDesignation string  `json:"jobDesignation"`
	Department     string  `json:"department"`
	EmployeeID     string  `json:"employeeId"`
	UserHash       string  `json:"userHash"`
	DocumentHash   *string `json:"documentHash"`
}

func newProfileView(p *models.Profile) profileView {
	v := profileView{
		FirstName:      p.FirstName,
		LastName:       p.LastName,
		Mobile:         p.Mobile,
		Email:          p.Email,
		Address:        p.Address,
		JobDesignation: p.JobDesignation,
		Department:     p.Department,
		EmployeeID:     p.PublicID,
		UserHash:       p.IdentityDigest,
		DocumentHash:   p.DocumentDigest,
	}
	if p.DateOfBirth != nil {
		v.DateOfBirth = p.DateOfBirth.Format(validate.DateLayout)
	}
	return v
}

type documentView struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	MediaType    string    `json:"mediaType"`
	DocumentHash string    `json:"documentHash"`
	Size         int64     `json:"size"`
	UploadedAt   time.Time `json:"uploadedAt"`
}

func newDocumentView(d models.Document) documentView {
	return documentView{
		ID:           d.ID,
		Name:         d.Name,
		MediaType:    d.MediaType,
		DocumentHash: d.ContentDigest,
		Size:         d.Size,
		UploadedAt:   d.UploadedAt,
	}
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// profileRequest uses pointers so that absent fields stay untouched.
type profileRequest struct {
	FirstName      *string `json:"firstName"`
	LastName       *string `json:"lastName"`
	DateOfBirth    *string `json:"dateOfBirth"`
	Mobile         *string `json:"mobile"`
	Email          *string `json:"email"`
	Address        *string `json:"address"`
	JobDesignation *string `json:"jobDesignation"`
	Department     *string `json:"department"`
	// The read-only fields of profileView are accepted and ignored so that a
	// fetched profile can be sent back as is.
	EmployeeID   *string `json:"employeeId"`
	UserHash     *string `json:"userHash"`
	DocumentHash *string `json:"documentHash"`
}

// toUpdate converts the request. An empty dateOfBirth leaves the stored
// date untouched.
func (r profileRequest) toUpdate() (models.ProfileUpdate, error) {
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

type verifyRequest struct {
	EmployeeID string `json:"employeeId"`
	Hash       string `json:"hash"`
}
