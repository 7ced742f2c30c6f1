// Package server implements app.Runner for the tracker HTTP server process:
// the provider lookup gateway plus the tracking session API.
package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"
	"go.uber.org/zap"

	"github.com/chainsafe/bridge-tracker/pkg/app/httpserver"
	"github.com/chainsafe/bridge-tracker/pkg/config"
	"github.com/chainsafe/bridge-tracker/pkg/explorer"
	"github.com/chainsafe/bridge-tracker/pkg/fallback"
	"github.com/chainsafe/bridge-tracker/pkg/fetcher"
	"github.com/chainsafe/bridge-tracker/pkg/gateway"
	"github.com/chainsafe/bridge-tracker/pkg/migrations/trackerdb"
	"github.com/chainsafe/bridge-tracker/pkg/pgutil"
	mghelper "github.com/chainsafe/bridge-tracker/pkg/pgutil/migrations"
	"github.com/chainsafe/bridge-tracker/pkg/session"
	"github.com/chainsafe/bridge-tracker/pkg/tracker"
	"github.com/chainsafe/bridge-tracker/pkg/trackstore"
)

const defaultHTTPMiddlewareTimeout = 60 * time.Second

// Server holds configuration for the tracker server process.
type Server struct {
	cfg *config.Config
}

// NewServer initializes a new Server.
func NewServer(cfg *config.Config) *Server {
	return &Server{cfg: cfg}
}

// Run starts the HTTP server and blocks until an OS shutdown signal is
// received or the server fails.
func (s *Server) Run() error {
	if s.cfg == nil {
		return fmt.Errorf("nil config")
	}
	cfg := s.cfg

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, err := config.NewLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting cross-chain message tracker",
		zap.String("host", cfg.Server.Host),
		zap.Int("port", cfg.Server.Port),
	)

	store, closeDB, err := s.maybeOpenStore(ctx, logger)
	if err != nil {
		return err
	}
	if closeDB != nil {
		defer closeDB()
	}

	gw := gateway.New(&cfg.Gateway,
		fallback.NewGenerator(fallback.WithChains(cfg.Fallback.SourceChainID, cfg.Fallback.DestChainID)),
		logger)

	engine := tracker.NewEngine(
		fetcher.NewClient(&cfg.Fetcher, logger),
		tracker.OptionsFromConfig(&cfg.Tracker),
		logger)

	var outcomes session.OutcomeStore
	if store != nil {
		outcomes = store
	}
	manager := session.NewManager(engine, outcomes, &cfg.Session, logger)

	router := s.newRouter(gw, manager, explorer.NewLinks(&cfg.Explorer), logger)

	err = httpserver.ServeAndWait(ctx, logger, httpserver.New(&cfg.Server, router), cfg.Server.ShutdownTimeout)

	// Sessions persist their outcome on finish; stop them before the DB closes.
	manager.Shutdown()

	return err
}

// maybeOpenStore connects to Postgres and applies pending migrations when the
// database is enabled. Without it finished sessions live only in memory.
func (s *Server) maybeOpenStore(ctx context.Context, logger *zap.Logger) (trackstore.Store, func(), error) {
	if !s.cfg.Database.Enabled {
		logger.Info("Database disabled, tracking outcomes are kept in memory only")
		return nil, nil, nil
	}

	db, err := pgutil.ConnectDB(ctx, &s.cfg.Database, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("connect tracker db: %w", err)
	}
	cleanup := func() { _ = db.Close() }

	if err := migrateDB(ctx, db); err != nil {
		cleanup()
		return nil, nil, err
	}
	logger.Info("Tracker database ready", zap.String("database", s.cfg.Database.Database))

	return trackstore.NewStore(db), cleanup, nil
}

func migrateDB(ctx context.Context, db *bun.DB) error {
	if err := mghelper.Migrate(ctx, migrate.NewMigrator(db, trackerdb.Migrations)); err != nil {
		return fmt.Errorf("migrate tracker db: %w", err)
	}
	return nil
}

func (s *Server) newRouter(gw *gateway.Gateway, svc session.Service, links explorer.Links, logger *zap.Logger) http.Handler {
	cfg := s.cfg

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(defaultHTTPMiddlewareTimeout))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	if cfg.Monitoring.Enabled {
		r.Handle(cfg.Monitoring.MetricsPath, promhttp.Handler())
		logger.Info("Metrics enabled", zap.String("path", cfg.Monitoring.MetricsPath))
	}

	gateway.RegisterRoutes(r, gw, logger)
	session.RegisterRoutes(r, svc, links, logger)

	logger.Info("Lookup gateway enabled",
		zap.String("path", gateway.LookupPath),
		zap.Strings("providers", gw.Providers()))

	return r
}
