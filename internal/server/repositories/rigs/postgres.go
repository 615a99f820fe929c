package rigs

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

func (r *PostgresRepository) List(ctx context.Context) ([]models.Rig, error) {
	query :=
		`SELECT id, name, host, port, model, enabled, created_at, updated_at
		 FROM rigs
		 ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]models.Rig, 0)
	for rows.Next() {
		var rig models.Rig
		if err := rows.Scan(&rig.ID, &rig.Name, &rig.Host, &rig.Port, &rig.Model, &rig.Enabled, &rig.CreatedAt, &rig.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, rig)
	}
	return result, rows.Err()
}

func (r *PostgresRepository) Create(ctx context.Context, rig *models.Rig) (*models.Rig, error) {
	query :=
		`INSERT INTO rigs (name, host, port, model, enabled)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query, rig.Name, rig.Host, rig.Port, rig.Model, rig.Enabled).
		Scan(&rig.ID, &rig.CreatedAt, &rig.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return rig, nil
}

func (r *PostgresRepository) Update(ctx context.Context, rig *models.Rig) (*models.Rig, error) {
	query :=
		`UPDATE rigs
		 SET name = $2, host = $3, port = $4, model = $5, enabled = $6, updated_at = now()
		 WHERE id = $1
		 RETURNING created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query, rig.ID, rig.Name, rig.Host, rig.Port, rig.Model, rig.Enabled).
		Scan(&rig.CreatedAt, &rig.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return rig, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, ids []int64) error {
	query := `DELETE FROM rigs WHERE id = ANY($1)`
	if _, err := r.db.ExecContext(ctx, query, ids); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
