package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/campfirehq/campfire/internal/auth/http"
	"github.com/campfirehq/campfire/internal/auth/service"
	"github.com/campfirehq/campfire/internal/auth/store"
	"github.com/campfirehq/campfire/internal/auth/store/drivers/sqlite"
	"github.com/campfirehq/campfire/pkg/httpx"
	"github.com/campfirehq/campfire/pkg/jwtx"
	"github.com/campfirehq/campfire/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags. Later problem
	BuildVersion = "v0.1.0"
)

// Application encapsulates the auth service application with all its dependencies
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	db     store.Store
	signer *jwtx.HS256

	// Services
	tokenService        *service.TokenService
	userService         *service.UserService
	guardService        *service.GuardService
	housekeepingService *service.HousekeepingService

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized.
// A missing or undersized signing secret is a hard failure: the process must
// not come up able to mint unverifiable tokens.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "auth-service",
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	signer, err := jwtx.NewHS256([]byte(cfg.SigningSecret), cfg.Issuer, cfg.Audience)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize token signer: %w", err)
	}
	app.signer = signer

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	app.initServices()
	if err := app.initHTTP(); err != nil {
		_ = app.db.Close()
		return nil, err
	}

	// Housekeeping sweeps both limiter tables alongside expired refresh rows.
	app.housekeepingService = service.NewHousekeepingService(
		app.db,
		app.logger,
		app.cfg.HousekeepingInterval,
		app.router.AddressLimiter,
		app.router.ClientLimiter,
	)

	if err := app.userService.EnsureBaseline(
		context.Background(), cfg.AdminUsername, cfg.AdminPassword,
	); err != nil {
		_ = app.db.Close()
		return nil, fmt.Errorf("failed to seed baseline data: %w", err)
	}

	return app, nil
}

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	app.housekeepingService.Start()

	app.logger.Info("auth service starting", "port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down auth service...")

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.housekeepingService.Stop()

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("auth service stopped")
	return nil
}

// initDatabase initializes the database and applies migrations
func (app *Application) initDatabase() error {
	host := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", app.cfg.DatabaseFile)
	db, err := sqlite.NewStore(host)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully")
	return nil
}

// initServices initializes all business logic services
func (app *Application) initServices() {
	app.tokenService = &service.TokenService{
		Signer:     app.signer,
		Store:      app.db,
		Issuer:     app.cfg.Issuer,
		Audience:   app.cfg.Audience,
		AccessTTL:  app.cfg.AccessTokenTTL,
		RefreshTTL: app.cfg.RefreshTokenTTL,
	}

	app.userService = &service.UserService{Store: app.db}
	app.guardService = &service.GuardService{Store: app.db}
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() error {
	router, err := httpapi.NewRouter(httpapi.Config{
		Verifier:     app.signer,
		BuildVersion: BuildVersion,
		ExemptPaths:  app.cfg.ExemptPaths,
		AddressPolicy: httpx.RateLimitPolicy{
			Limit:  app.cfg.AddressRateLimit,
			Window: app.cfg.AddressRateWindow,
		},
		ClientPolicy: httpx.RateLimitPolicy{
			Limit:  app.cfg.ClientRateLimit,
			Window: app.cfg.ClientRateWindow,
		},
		MemberRoles: app.cfg.MemberRoles,
		AdminRoles:  app.cfg.AdminRoles,
	}, app.db, app.logger)
	if err != nil {
		return fmt.Errorf("failed to initialize router: %w", err)
	}

	// Wire services to router
	router.TokenService = app.tokenService
	router.UserService = app.userService
	router.GuardService = app.guardService
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
	return nil
}
