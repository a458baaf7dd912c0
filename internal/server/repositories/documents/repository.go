package documents

import (
	"context"

	"github.com/dmitrijs2005/empvault/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, d *models.Document) (*models.Document, error)
	// Latest returns the owner's most recent document, or common.ErrorNotFound.
	Latest(ctx context.Context, ownerID string) (*models.Document, error)
	ListByOwner(ctx context.Context, ownerID string) ([]models.Document, error)
	GetByID(ctx context.Context, ownerID, id string) (*models.Document, error)
}
