// Package repomanager hands out per-resource repositories bound to a DB
// handle. Services pass either the pooled *sql.DB or a transaction, so a
// multi-step mutation can run all its repository calls atomically.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/groundstation/internal/dbx"
	"github.com/dmitrijs2005/groundstation/internal/server/repositories/cameras"
	"github.com/dmitrijs2005/groundstation/internal/server/repositories/preferences"
	"github.com/dmitrijs2005/groundstation/internal/server/repositories/recordings"
	"github.com/dmitrijs2005/groundstation/internal/server/repositories/rigs"
	"github.com/dmitrijs2005/groundstation/internal/server/repositories/rotators"
	"github.com/dmitrijs2005/groundstation/internal/server/repositories/satellites"
	"github.com/dmitrijs2005/groundstation/internal/server/repositories/sdrs"
	"github.com/dmitrijs2005/groundstation/internal/server/repositories/tlesources"
	"github.com/dmitrijs2005/groundstation/internal/server/repositories/users"
)

type RepositoryManager interface {
	Cameras(db dbx.DBTX) cameras.Repository
	Rigs(db dbx.DBTX) rigs.Repository
	Rotators(db dbx.DBTX) rotators.Repository
	SDRs(db dbx.DBTX) sdrs.Repository
	Satellites(db dbx.DBTX) satellites.Repository
	TLESources(db dbx.DBTX) tlesources.Repository
	Users(db dbx.DBTX) users.Repository
	Preferences(db dbx.DBTX) preferences.Repository
	Recordings(db dbx.DBTX) recordings.Repository

	RunMigrations(ctx context.Context, db *sql.DB) error
}
