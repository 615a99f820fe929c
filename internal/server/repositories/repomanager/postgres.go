package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/groundstation/internal/dbx"
	"github.com/dmitrijs2005/groundstation/internal/server/migrations"
	"github.com/dmitrijs2005/groundstation/internal/server/repositories/cameras"
	"github.com/dmitrijs2005/groundstation/internal/server/repositories/preferences"
	"github.com/dmitrijs2005/groundstation/internal/server/repositories/recordings"
	"github.com/dmitrijs2005/groundstation/internal/server/repositories/rigs"
	"github.com/dmitrijs2005/groundstation/internal/server/repositories/rotators"
	"github.com/dmitrijs2005/groundstation/internal/server/repositories/satellites"
	"github.com/dmitrijs2005/groundstation/internal/server/repositories/sdrs"
	"github.com/dmitrijs2005/groundstation/internal/server/repositories/tlesources"
	"github.com/dmitrijs2005/groundstation/internal/server/repositories/users"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

type PostgresRepositoryManager struct{}

func NewPostgresRepositoryManager() *PostgresRepositoryManager {
	return &PostgresRepositoryManager{}
}

func (m *PostgresRepositoryManager) Cameras(db dbx.DBTX) cameras.Repository {
	return cameras.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Rigs(db dbx.DBTX) rigs.Repository {
	return rigs.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Rotators(db dbx.DBTX) rotators.Repository {
	return rotators.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) SDRs(db dbx.DBTX) sdrs.Repository {
	return sdrs.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Satellites(db dbx.DBTX) satellites.Repository {
	return satellites.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) TLESources(db dbx.DBTX) tlesources.Repository {
	return tlesources.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Preferences(db dbx.DBTX) preferences.Repository {
	return preferences.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Recordings(db dbx.DBTX) recordings.Repository {
	return recordings.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	return goose.UpContext(ctx, db, ".")
}
