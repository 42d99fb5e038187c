package videos

import (
	"context"

	"github.com/cachao/media/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, video *models.Video) (*models.Video, error)
	GetByID(ctx context.Context, id string) (*models.Video, error)
	ListByEvent(ctx context.Context, eventID string) ([]*models.Video, error)
}
