package rotators

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

func (r *PostgresRepository) List(ctx context.Context) ([]models.Rotator, error) {
	query :=
		`SELECT id, name, host, port, min_az, max_az, min_el, max_el, enabled, created_at, updated_at
		 FROM rotators
		 ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]models.Rotator, 0)
	for rows.Next() {
		var rot models.Rotator
		if err := rows.Scan(&rot.ID, &rot.Name, &rot.Host, &rot.Port,
			&rot.MinAz, &rot.MaxAz, &rot.MinEl, &rot.MaxEl,
			&rot.Enabled, &rot.CreatedAt, &rot.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, rot)
	}
	return result, rows.Err()
}

func (r *PostgresRepository) Create(ctx context.Context, rot *models.Rotator) (*models.Rotator, error) {
	query :=
		`INSERT INTO rotators (name, host, port, min_az, max_az, min_el, max_el, enabled)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query, rot.Name, rot.Host, rot.Port,
		rot.MinAz, rot.MaxAz, rot.MinEl, rot.MaxEl, rot.Enabled).
		Scan(&rot.ID, &rot.CreatedAt, &rot.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return rot, nil
}

func (r *PostgresRepository) Update(ctx context.Context, rot *models.Rotator) (*models.Rotator, error) {
	query :=
		`UPDATE rotators
		 SET name = $2, host = $3, port = $4, min_az = $5, max_az = $6,
		     min_el = $7, max_el = $8, enabled = $9, updated_at = now()
		 WHERE id = $1
		 RETURNING created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query, rot.ID, rot.Name, rot.Host, rot.Port,
		rot.MinAz, rot.MaxAz, rot.MinEl, rot.MaxEl, rot.Enabled).
		Scan(&rot.CreatedAt, &rot.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return rot, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, ids []int64) error {
	query := `DELETE FROM rotators WHERE id = ANY($1)`
	if _, err := r.db.ExecContext(ctx, query, ids); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
