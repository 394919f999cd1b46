// Package server initializes and runs the HR portal authentication server.
// It builds the storage backend and services from config, starts the REST
// API and the gRPC health endpoint, and shuts both down on SIGINT/SIGTERM.
package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/hrportal/internal/logging"
	"github.com/dmitrijs2005/hrportal/internal/server/auth"
	"github.com/dmitrijs2005/hrportal/internal/server/config"
	"github.com/dmitrijs2005/hrportal/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/hrportal/internal/server/services"
	"github.com/sethvargo/go-retry"

	gs "github.com/dmitrijs2005/hrportal/internal/server/grpc"
	hs "github.com/dmitrijs2005/hrportal/internal/server/http"
)

const (
	storageAttempts = 5
	storageBackoff  = 250 * time.Millisecond
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	manager     repomanager.RepositoryManager
	userService *services.UserService
}

// NewRepositoryManager picks PostgreSQL for a non-empty DSN and the
// in-memory store otherwise.
func NewRepositoryManager(dsn string) (repomanager.RepositoryManager, error) {
	if dsn == "" {
		return repomanager.NewInMemoryRepositoryManager(), nil
	}
	m, err := repomanager.NewPostgresRepositoryManager(dsn)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// NewUserService builds the hasher, the token codec and the service from c.
func NewUserService(c *config.Config, logger logging.Logger, m repomanager.RepositoryManager) (*services.UserService, error) {
	hasher := auth.NewBcryptHasher(c.BcryptCost, c.HashConcurrency)
	codec := auth.NewTokenCodec(c.SecretKey, c.AccessTokenValidityDuration)
	return services.NewUserService(logger, m, hasher, codec)
}

func NewApp(c *config.Config, logger logging.Logger) (*App, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	m, err := NewRepositoryManager(c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	us, err := NewUserService(c, logger, m)
	if err != nil {
		_ = m.Close()
		return nil, fmt.Errorf("user service init error: %w", err)
	}

	return &App{config: c, logger: logger, manager: m, userService: us}, nil
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
	h := hs.NewHandler(app.userService, app.logger, app.config.AppName, app.config.AppVersion)
	router := hs.NewRouter(hs.RouterOptions{
		APIPrefix:      app.config.APIPrefix,
		TrustedOrigins: app.config.TrustedOrigins,
	}, h, app.userService, app.logger)

	s := hs.NewServer(app.config.EndpointAddrHTTP, router, app.logger,
		app.config.ReadTimeout, app.config.WriteTimeout, app.config.ShutdownTimeout)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := gs.NewHealthServer(app.config.EndpointAddrGRPC, app.logger, app.manager, app.config.HealthCheckInterval)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run applies migrations and serves until a signal arrives, ctx is
// cancelled, or either server fails.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "name", app.config.AppName, "version", app.config.AppVersion)

	defer func() {
		if err := app.manager.Close(); err != nil {
			app.logger.Error(ctx, "storage close failed", "error", err)
		}
	}()

	if err := waitForStorage(ctx, app.manager, storageAttempts, storageBackoff); err != nil {
		return fmt.Errorf("storage unreachable: %w", err)
	}

	if err := app.manager.RunMigrations(ctx); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}

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

	app.logger.Info(context.WithoutCancel(ctx), "App stopped")
	return nil
}

// waitForStorage pings m with exponential backoff until it answers or the
// retries run out. Only startup waits like this; requests never retry.
func waitForStorage(ctx context.Context, m repomanager.RepositoryManager, retries uint64, base time.Duration) error {
	b := retry.WithMaxRetries(retries, retry.NewExponential(base))
	return retry.Do(ctx, b, func(ctx context.Context) error {
		if err := m.Ping(ctx); err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})
}
