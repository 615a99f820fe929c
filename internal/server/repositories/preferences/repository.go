package preferences

import (
	"context"

	"github.com/dmitrijs2005/groundstation/internal/server/models"
)

// Repository stores the station-wide preferences singleton (row id 1).
type Repository interface {
	Get(ctx context.Context) (*models.Preferences, error)
	Save(ctx context.Context, p *models.Preferences) (*models.Preferences, error)
}
