package recordings

import (
	"context"

	"github.com/dmitrijs2005/groundstation/internal/server/models"
)

type Repository interface {
	List(ctx context.Context) ([]models.Recording, error)
	GetByID(ctx context.Context, id int64) (*models.Recording, error)
	Create(ctx context.Context, rec *models.Recording) (*models.Recording, error)
	Delete(ctx context.Context, ids []int64) error
	MarkUploaded(ctx context.Context, id int64) error
}
