// Package server wires the stockwatch components together and runs the HTTP
// dashboard, the gRPC health endpoint and the session janitor until the
// process is signalled.
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

	"github.com/dmitrijs2005/stockwatch/internal/logging"
	"github.com/dmitrijs2005/stockwatch/internal/server/cache"
	"github.com/dmitrijs2005/stockwatch/internal/server/config"
	"github.com/dmitrijs2005/stockwatch/internal/server/prices"
	"github.com/dmitrijs2005/stockwatch/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/stockwatch/internal/server/services"
	"github.com/redis/go-redis/v9"

	gs "github.com/dmitrijs2005/stockwatch/internal/server/grpc"
	hs "github.com/dmitrijs2005/stockwatch/internal/server/http"
)

const (
	sessionPruneInterval = 15 * time.Minute
	shutdownTimeout      = 5 * time.Second
	healthProbeInterval  = 5 * time.Second
)

type App struct {
	config    *config.Config
	logger    logging.Logger
	db        *sql.DB
	redis     *redis.Client
	accounts  *services.AccountService
	catalog   *services.CatalogService
	dashboard *services.DashboardService
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewJSONLogger(os.Stdout, slog.LevelInfo)

	db, err := sql.Open("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	app := &App{config: c, logger: logger, db: db}

	if c.RedisURL != "" {
		client, err := cache.Connect(ctx, c.RedisURL)
		if err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("redis init error: %w", err)
		}
		app.redis = client
		rm = repomanager.WithSessionStore(rm, cache.NewRedisSessionStore(client))
		logger.Info(ctx, "sessions stored in redis")
	}

	app.accounts = services.NewAccountService(db, rm, services.NewBcryptHasher(c.BcryptCost), c)
	app.catalog = services.NewCatalogService(db, rm)
	app.dashboard = services.NewDashboardService(
		app.catalog,
		services.NewSubscriptionService(db, rm),
		prices.NewGenerator(nil),
		logger,
	)

	if err := app.catalog.EnsureSeeded(ctx); err != nil {
		logger.Warn(ctx, "initial catalog seeding failed", "error", err)
	}

	return app, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	h, err := hs.NewHandler(app.accounts, app.dashboard, app.logger, app.config.SecureCookies)
	if err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
		return
	}

	srv := &http.Server{
		Addr:              app.config.EndpointAddrHTTP,
		Handler:           hs.NewRouter(h),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		app.logger.Info(ctx, "Stopping HTTP server...")
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(sctx); err != nil {
			app.logger.Error(ctx, "http shutdown error", "error", err)
		}
	}()

	app.logger.Info(ctx, "Starting HTTP server", "address", srv.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.db.PingContext, healthProbeInterval)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// runSessionJanitor periodically drops expired sessions until ctx ends.
func (app *App) runSessionJanitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := app.accounts.PruneSessions(ctx)
			if err != nil {
				app.logger.Warn(ctx, "session pruning failed", "error", err)
				continue
			}
			if n > 0 {
				app.logger.Info(ctx, "expired sessions pruned", "count", n)
			}
		}
	}
}

// Run blocks until a termination signal arrives or a server fails, then
// releases the database and Redis connections.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(3)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()
	go func() {
		defer wg.Done()
		app.runSessionJanitor(ctx, sessionPruneInterval)
	}()

	wg.Wait()

	app.close()
	app.logger.Info(context.Background(), "App stopped")
}

func (app *App) close() {
	if app.redis != nil {
		if err := app.redis.Close(); err != nil {
			app.logger.Warn(context.Background(), "redis close error", "error", err)
		}
	}
	if err := app.db.Close(); err != nil {
		app.logger.Warn(context.Background(), "db close error", "error", err)
	}
}
