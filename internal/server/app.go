// Package server wires configuration, storage, services and the HTTP and
// gRPC listeners into a runnable application with graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/envmon/internal/logging"
	"github.com/dmitrijs2005/envmon/internal/server/auth"
	"github.com/dmitrijs2005/envmon/internal/server/config"
	"github.com/dmitrijs2005/envmon/internal/server/httpserver"
	"github.com/dmitrijs2005/envmon/internal/server/metrics"
	"github.com/dmitrijs2005/envmon/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/envmon/internal/server/services"
	_ "github.com/jackc/pgx/v5/stdlib"

	gs "github.com/dmitrijs2005/envmon/internal/server/grpc"
)

const dbConnectTimeout = 10 * time.Second

type App struct {
	config         *config.Config
	logger         logging.Logger
	db             *sql.DB
	repos          repomanager.RepositoryManager
	userService    *services.UserService
	readingService *services.ReadingService
	tokens         *auth.TokenIssuer
	sessions       *auth.SessionCarrier
	metrics        *metrics.Metrics
}

// OpenStorage returns the repository manager for the configured backend.
// For postgres it also connects and migrates; the returned *sql.DB is nil for
// the memory backend.
func OpenStorage(ctx context.Context, c *config.Config) (*sql.DB, repomanager.RepositoryManager, error) {

	if c.StorageBackend == config.StorageMemory {
		return nil, repomanager.NewInMemoryRepositoryManager(), nil
	}

	db, err := sql.Open("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, nil, fmt.Errorf("db open error: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, dbConnectTimeout)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("db ping error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("db migration error: %w", err)
	}

	return db, rm, nil
}

func NewApp(c *config.Config) (*App, error) {

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}

	logger := logging.New(c.Env, os.Stdout)

	db, rm, err := OpenStorage(context.Background(), c)
	if err != nil {
		return nil, err
	}

	tokens := auth.NewTokenIssuer(auth.TokenConfig{
		SecretKey: []byte(c.SecretKey),
		Validity:  c.TokenValidityDuration,
	})

	sessions := auth.NewSessionCarrier(auth.CookieConfig{
		Name:   c.CookieName,
		Domain: c.CookieDomain,
		Secure: c.CookieSecure(),
	})

	return &App{
		config:         c,
		logger:         logger,
		db:             db,
		repos:          rm,
		userService:    services.NewUserService(db, rm, auth.NewBcryptHasher(c.BcryptCost), tokens),
		readingService: services.NewReadingService(db, rm, c),
		tokens:         tokens,
		sessions:       sessions,
		metrics:        metrics.New(),
	}, nil
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

	s := httpserver.NewHTTPServer(app.config.HTTPAddr, app.logger,
		app.userService, app.readingService, app.tokens, app.sessions, app.metrics)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {

	s := gs.NewGRPCServer(app.config.GRPCAddr, app.logger, app.repos.Readings(app.db))

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run blocks until ctx is cancelled, a signal arrives or a listener fails.
func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "storage", app.config.StorageBackend, "env", app.config.Env)

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error(ctx, "db close error", "error", err)
		}
	}

	app.logger.Info(ctx, "App stopped")
}
