package tlesources

import (
	"context"
	"time"

	"github.com/dmitrijs2005/groundstation/internal/server/models"
)

type Repository interface {
	List(ctx context.Context) ([]models.TLESource, error)
	GetByID(ctx context.Context, id int64) (*models.TLESource, error)
	Create(ctx context.Context, src *models.TLESource) (*models.TLESource, error)
	Update(ctx context.Context, src *models.TLESource) (*models.TLESource, error)
	Delete(ctx context.Context, ids []int64) error

	// MarkFetched stamps a successful refresh with its time and the number of
	// element sets imported.
	MarkFetched(ctx context.Context, id int64, fetchedAt time.Time, count int) error
}
