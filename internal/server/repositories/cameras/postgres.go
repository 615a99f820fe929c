package cameras

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

func (r *PostgresRepository) List(ctx context.Context) ([]models.Camera, error) {
	query :=
		`SELECT id, name, url, type, enabled, created_at, updated_at
		 FROM cameras
		 ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]models.Camera, 0)
	for rows.Next() {
		var c models.Camera
		if err := rows.Scan(&c.ID, &c.Name, &c.URL, &c.Type, &c.Enabled, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	return result, rows.Err()
}

func (r *PostgresRepository) Create(ctx context.Context, c *models.Camera) (*models.Camera, error) {
	query :=
		`INSERT INTO cameras (name, url, type, enabled)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query, c.Name, c.URL, c.Type, c.Enabled).
		Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return c, nil
}

func (r *PostgresRepository) Update(ctx context.Context, c *models.Camera) (*models.Camera, error) {
	query :=
		`UPDATE cameras
		 SET name = $2, url = $3, type = $4, enabled = $5, updated_at = now()
		 WHERE id = $1
		 RETURNING created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query, c.ID, c.Name, c.URL, c.Type, c.Enabled).
		Scan(&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return c, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, ids []int64) error {
	query := `DELETE FROM cameras WHERE id = ANY($1)`
	if _, err := r.db.ExecContext(ctx, query, ids); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
