package satellites

import (
	"context"

	"github.com/dmitrijs2005/groundstation/internal/server/models"
)

type Repository interface {
	List(ctx context.Context) ([]models.Satellite, error)
	Create(ctx context.Context, s *models.Satellite) (*models.Satellite, error)
	Update(ctx context.Context, s *models.Satellite) (*models.Satellite, error)
	Delete(ctx context.Context, ids []int64) error

	// UpsertByNorad inserts the satellite or, when its NORAD catalog number is
	// already known, refreshes the element set and group. Used by TLE source
	// refresh so re-imports never duplicate satellites.
	UpsertByNorad(ctx context.Context, s *models.Satellite) error
}
