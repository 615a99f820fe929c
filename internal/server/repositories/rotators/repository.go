package rotators

import (
	"context"

	"github.com/dmitrijs2005/groundstation/internal/server/models"
)

type Repository interface {
	List(ctx context.Context) ([]models.Rotator, error)
	Create(ctx context.Context, rot *models.Rotator) (*models.Rotator, error)
	Update(ctx context.Context, rot *models.Rotator) (*models.Rotator, error)
	Delete(ctx context.Context, ids []int64) error
}
