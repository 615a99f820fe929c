package sdrs

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/groundstation/internal/common"
	"github.com/dmitrijs2005/groundstation/internal/dbx"
	"github.com/dmitrijs2005/groundstation/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) List(ctx context.Context) ([]models.SDRDevice, error) {
	query :=
		`SELECT id, name, driver, serial, sample_rate, ppm, enabled, created_at, updated_at
		 FROM sdr_devices
		 ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]models.SDRDevice, 0)
	for rows.Next() {
		var d models.SDRDevice
		if err := rows.Scan(&d.ID, &d.Name, &d.Driver, &d.Serial, &d.SampleRate, &d.PPM, &d.Enabled, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, d)
	}
	return result, rows.Err()
}

func (r *PostgresRepository) Create(ctx context.Context, d *models.SDRDevice) (*models.SDRDevice, error) {
	query :=
		`INSERT INTO sdr_devices (name, driver, serial, sample_rate, ppm, enabled)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query, d.Name, d.Driver, d.Serial, d.SampleRate, d.PPM, d.Enabled).
		Scan(&d.ID, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return d, nil
}

func (r *PostgresRepository) Update(ctx context.Context, d *models.SDRDevice) (*models.SDRDevice, error) {
	query :=
		`UPDATE sdr_devices
		 SET name = $2, driver = $3, serial = $4, sample_rate = $5, ppm = $6, enabled = $7, updated_at = now()
		 WHERE id = $1
		 RETURNING created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query, d.ID, d.Name, d.Driver, d.Serial, d.SampleRate, d.PPM, d.Enabled).
		Scan(&d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return d, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, ids []int64) error {
	query := `DELETE FROM sdr_devices WHERE id = ANY($1)`
	if _, err := r.db.ExecContext(ctx, query, ids); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
