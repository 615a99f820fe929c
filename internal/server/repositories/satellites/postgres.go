package satellites

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

func (r *PostgresRepository) List(ctx context.Context) ([]models.Satellite, error) {
	query :=
		`SELECT id, name, norad_id, group_name, tle_line1, tle_line2, enabled, created_at, updated_at
		 FROM satellites
		 ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]models.Satellite, 0)
	for rows.Next() {
		var s models.Satellite
		if err := rows.Scan(&s.ID, &s.Name, &s.NoradID, &s.GroupName, &s.TLELine1, &s.TLELine2, &s.Enabled, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	return result, rows.Err()
}

func (r *PostgresRepository) Create(ctx context.Context, s *models.Satellite) (*models.Satellite, error) {
	query :=
		`INSERT INTO satellites (name, norad_id, group_name, tle_line1, tle_line2, enabled)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query, s.Name, s.NoradID, s.GroupName, s.TLELine1, s.TLELine2, s.Enabled).
		Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return s, nil
}

func (r *PostgresRepository) Update(ctx context.Context, s *models.Satellite) (*models.Satellite, error) {
	query :=
		`UPDATE satellites
		 SET name = $2, norad_id = $3, group_name = $4, tle_line1 = $5, tle_line2 = $6, enabled = $7, updated_at = now()
		 WHERE id = $1
		 RETURNING created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query, s.ID, s.Name, s.NoradID, s.GroupName, s.TLELine1, s.TLELine2, s.Enabled).
		Scan(&s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return s, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, ids []int64) error {
	query := `DELETE FROM satellites WHERE id = ANY($1)`
	if _, err := r.db.ExecContext(ctx, query, ids); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) UpsertByNorad(ctx context.Context, s *models.Satellite) error {
	query :=
		`INSERT INTO satellites (name, norad_id, group_name, tle_line1, tle_line2, enabled)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (norad_id) DO UPDATE SET
		     name = excluded.name,
		     group_name = excluded.group_name,
		     tle_line1 = excluded.tle_line1,
		     tle_line2 = excluded.tle_line2,
		     updated_at = now()`

	if _, err := r.db.ExecContext(ctx, query, s.Name, s.NoradID, s.GroupName, s.TLELine1, s.TLELine2, s.Enabled); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
