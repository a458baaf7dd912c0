package profiles

import (
	"context"

	"github.com/dmitrijs2005/empvault/internal/server/models"
)

// Repository reads and upserts the three optional profile fragments. Each
// Get returns common.ErrorNotFound when the fragment was never written.
type Repository interface {
	GetPersonal(ctx context.Context, employeeID string) (*models.PersonalInfo, error)
	GetContact(ctx context.Context, employeeID string) (*models.ContactInfo, error)
	GetEmployment(ctx context.Context, employeeID string) (*models.EmploymentInfo, error)

	UpsertPersonal(ctx context.Context, p *models.PersonalInfo) error
	UpsertContact(ctx context.Context, c *models.ContactInfo) error
	UpsertEmployment(ctx context.Context, e *models.EmploymentInfo) error
}
