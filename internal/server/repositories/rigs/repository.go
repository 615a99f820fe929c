package rigs

import (
	"context"

	"github.com/dmitrijs2005/groundstation/internal/server/models"
)

type Repository interface {
	List(ctx context.Context) ([]models.Rig, error)
	Create(ctx context.Context, rig *models.Rig) (*models.Rig, error)
	Update(ctx context.Context, rig *models.Rig) (*models.Rig, error)
	Delete(ctx context.Context, ids []int64) error
}
