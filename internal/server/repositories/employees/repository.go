package employees

import (
	"context"

	"github.com/dmitrijs2005/empvault/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, employee *models.Employee) (*models.Employee, error)
	GetByEmail(ctx context.Context, email string) (*models.Employee, error)
	GetByPublicID(ctx context.Context, publicID string) (*models.Employee, error)
	ExistsPublicID(ctx context.Context, publicID string) (bool, error)
	UpdateEmail(ctx context.Context, publicID, email string) error
}
