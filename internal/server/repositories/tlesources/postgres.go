package tlesources

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

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

const selectColumns = `id, name, url, group_name, auto_refresh, last_fetched_at, satellite_count, created_at, updated_at`

func scanSource(row interface{ Scan(...any) error }, src *models.TLESource) error {
	return row.Scan(&src.ID, &src.Name, &src.URL, &src.GroupName, &src.AutoRefresh,
		&src.LastFetchedAt, &src.SatelliteCount, &src.CreatedAt, &src.UpdatedAt)
}

func (r *PostgresRepository) List(ctx context.Context) ([]models.TLESource, error) {
	query := `SELECT ` + selectColumns + ` FROM tle_sources ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]models.TLESource, 0)
	for rows.Next() {
		var src models.TLESource
		if err := scanSource(rows, &src); err != nil {
			return nil, err
		}
		result = append(result, src)
	}
	return result, rows.Err()
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.TLESource, error) {
	query := `SELECT ` + selectColumns + ` FROM tle_sources WHERE id = $1`

	var src models.TLESource
	err := scanSource(r.db.QueryRowContext(ctx, query, id), &src)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &src, nil
}

func (r *PostgresRepository) Create(ctx context.Context, src *models.TLESource) (*models.TLESource, error) {
	query :=
		`INSERT INTO tle_sources (name, url, group_name, auto_refresh)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query, src.Name, src.URL, src.GroupName, src.AutoRefresh).
		Scan(&src.ID, &src.CreatedAt, &src.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return src, nil
}

func (r *PostgresRepository) Update(ctx context.Context, src *models.TLESource) (*models.TLESource, error) {
	query :=
		`UPDATE tle_sources
		 SET name = $2, url = $3, group_name = $4, auto_refresh = $5, updated_at = now()
		 WHERE id = $1
		 RETURNING last_fetched_at, satellite_count, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query, src.ID, src.Name, src.URL, src.GroupName, src.AutoRefresh).
		Scan(&src.LastFetchedAt, &src.SatelliteCount, &src.CreatedAt, &src.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return src, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, ids []int64) error {
	query := `DELETE FROM tle_sources WHERE id = ANY($1)`
	if _, err := r.db.ExecContext(ctx, query, ids); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) MarkFetched(ctx context.Context, id int64, fetchedAt time.Time, count int) error {
	query :=
		`UPDATE tle_sources
		 SET last_fetched_at = $2, satellite_count = $3, updated_at = now()
		 WHERE id = $1`

	if _, err := r.db.ExecContext(ctx, query, id, fetchedAt, count); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
