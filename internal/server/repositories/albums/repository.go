package albums

import (
	"context"

	"github.com/cachao/media/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, album *models.Album) (*models.Album, error)
	GetByID(ctx context.Context, id string) (*models.Album, error)
	ListByEvent(ctx context.Context, eventID string) ([]*models.Album, error)
}
