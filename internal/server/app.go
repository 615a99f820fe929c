// Package server initializes and runs the station server: storage, business
// services, the websocket hub and the metrics endpoint, with graceful
// shutdown on SIGINT/SIGTERM.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/groundstation/internal/logging"
	"github.com/dmitrijs2005/groundstation/internal/server/config"
	"github.com/dmitrijs2005/groundstation/internal/server/hub"
	"github.com/dmitrijs2005/groundstation/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/groundstation/internal/server/services"
)

// defaultAdminPassword seeds the first admin account; operators are expected
// to change it after first login.
const defaultAdminPassword = "admin"

type App struct {
	config *config.Config
	logger logging.Logger

	db *sql.DB
	rm repomanager.RepositoryManager

	hub     *hub.Hub
	metrics *hub.Metrics
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	app := &App{config: cfg, logger: logger}

	if cfg.DatabaseDSN == "" {
		// No DSN configured: run against the in-memory store. Useful for
		// development and demos; state is lost on restart.
		logger.Warn(ctx, "no database DSN configured, using in-memory store")
		app.rm = repomanager.NewInMemoryRepositoryManager()
	} else {
		db, err := sql.Open("pgx", cfg.DatabaseDSN)
		if err != nil {
			return nil, fmt.Errorf("db open error: %w", err)
		}
		if err := db.PingContext(ctx); err != nil {
			return nil, fmt.Errorf("db ping error: %w", err)
		}
		app.db = db
		app.rm = repomanager.NewPostgresRepositoryManager()
		if err := app.rm.RunMigrations(ctx, db); err != nil {
			return nil, fmt.Errorf("migration error: %w", err)
		}
	}

	stationService := services.NewStationService(app.db, app.rm)
	userService := services.NewUserService(app.db, app.rm, cfg.SecretKey, cfg.TokenValidityDuration)
	tleService := services.NewTLEService(app.db, app.rm)
	recordingService := services.NewRecordingService(app.db, app.rm, cfg)

	if err := userService.EnsureAdmin(ctx, defaultAdminPassword); err != nil {
		return nil, fmt.Errorf("admin init error: %w", err)
	}

	app.metrics = hub.NewMetrics()
	app.hub = hub.New(logger, app.metrics, stationService, userService, tleService, recordingService)

	return app, nil
}

func (app *App) initSignalHandler(cancel context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancel()
	}()
}

func (app *App) serve(ctx context.Context, srv *http.Server, name string) {
	app.logger.Info(ctx, "listening", "server", name, "addr", srv.Addr)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		app.logger.Error(ctx, "server failed", "server", name, "error", err)
	}
}

func (app *App) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	app.logger.Info(ctx, "starting station server")
	app.initSignalHandler(cancel)

	mux := http.NewServeMux()
	mux.Handle("/ws", app.hub)
	endpoint := &http.Server{Addr: app.config.EndpointAddr, Handler: mux}

	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", app.metrics.Handler())
	metricsSrv := &http.Server{Addr: app.config.MetricsAddr, Handler: metricsMux}

	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		app.serve(ctx, endpoint, "endpoint")
	}()
	go func() {
		defer wg.Done()
		app.serve(ctx, metricsSrv, "metrics")
	}()
	go func() {
		defer wg.Done()
		app.hub.RunStatusTicker(ctx, app.config.StatusInterval)
	}()

	<-ctx.Done()
	app.logger.Info(context.Background(), "shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	endpoint.Shutdown(shutdownCtx)
	metricsSrv.Shutdown(shutdownCtx)

	wg.Wait()

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error(context.Background(), "db close error", "error", err)
		}
	}
}
