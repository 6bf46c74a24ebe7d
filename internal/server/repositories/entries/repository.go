package entries

import (
	"context"

	"github.com/dmitrijs2005/gophjournal/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, entry *models.Entry) error
	GetByID(ctx context.Context, id string) (*models.Entry, error)
	ListByUser(ctx context.Context, userID string, filter models.EntryFilter) ([]*models.Entry, error)
	Update(ctx context.Context, entry *models.Entry) error
	Delete(ctx context.Context, id, userID string) error
}
