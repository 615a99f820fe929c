package cameras

import (
	"context"

	"github.com/dmitrijs2005/groundstation/internal/server/models"
)

// Repository is the storage contract for camera records. List order is the
// authoritative order sent to clients.
type Repository interface {
	List(ctx context.Context) ([]models.Camera, error)
	Create(ctx context.Context, c *models.Camera) (*models.Camera, error)
	Update(ctx context.Context, c *models.Camera) (*models.Camera, error)
	Delete(ctx context.Context, ids []int64) error
}
