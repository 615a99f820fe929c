package sdrs

import (
	"context"

	"github.com/dmitrijs2005/groundstation/internal/server/models"
)

type Repository interface {
	List(ctx context.Context) ([]models.SDRDevice, error)
	Create(ctx context.Context, d *models.SDRDevice) (*models.SDRDevice, error)
	Update(ctx context.Context, d *models.SDRDevice) (*models.SDRDevice, error)
	Delete(ctx context.Context, ids []int64) error
}
