package recordings

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

func (r *PostgresRepository) List(ctx context.Context) ([]models.Recording, error) {
	query :=
		`SELECT id, satellite, started_at, duration_s, storage_key, status, created_at
		 FROM recordings
		 ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]models.Recording, 0)
	for rows.Next() {
		var rec models.Recording
		if err := rows.Scan(&rec.ID, &rec.Satellite, &rec.StartedAt, &rec.DurationS, &rec.StorageKey, &rec.Status, &rec.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, rec)
	}
	return result, rows.Err()
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.Recording, error) {
	query :=
		`SELECT id, satellite, started_at, duration_s, storage_key, status, created_at
		 FROM recordings
		 WHERE id = $1`

	rec := &models.Recording{}
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&rec.ID, &rec.Satellite, &rec.StartedAt, &rec.DurationS, &rec.StorageKey, &rec.Status, &rec.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return rec, nil
}

func (r *PostgresRepository) Create(ctx context.Context, rec *models.Recording) (*models.Recording, error) {
	query :=
		`INSERT INTO recordings (satellite, started_at, duration_s, storage_key, status)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query, rec.Satellite, rec.StartedAt, rec.DurationS, rec.StorageKey, rec.Status).
		Scan(&rec.ID, &rec.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return rec, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, ids []int64) error {
	query := `DELETE FROM recordings WHERE id = ANY($1)`
	if _, err := r.db.ExecContext(ctx, query, ids); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) MarkUploaded(ctx context.Context, id int64) error {
	query := `UPDATE recordings SET status = 'uploaded' WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
