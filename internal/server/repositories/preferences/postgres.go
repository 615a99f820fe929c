package preferences

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/groundstation/internal/dbx"
	"github.com/dmitrijs2005/groundstation/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Get(ctx context.Context) (*models.Preferences, error) {
	query :=
		`SELECT id, callsign, latitude, longitude, altitude_m, locator, timezone, metric, updated_at
		 FROM preferences
		 WHERE id = 1`

	p := &models.Preferences{}
	err := r.db.QueryRowContext(ctx, query).
		Scan(&p.ID, &p.Callsign, &p.Latitude, &p.Longitude, &p.AltitudeM, &p.Locator, &p.Timezone, &p.Metric, &p.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return p, nil
}

func (r *PostgresRepository) Save(ctx context.Context, p *models.Preferences) (*models.Preferences, error) {
	query :=
		`UPDATE preferences
		 SET callsign = $1, latitude = $2, longitude = $3, altitude_m = $4,
		     locator = $5, timezone = $6, metric = $7, updated_at = now()
		 WHERE id = 1
		 RETURNING id, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		p.Callsign, p.Latitude, p.Longitude, p.AltitudeM, p.Locator, p.Timezone, p.Metric).
		Scan(&p.ID, &p.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return p, nil
}
