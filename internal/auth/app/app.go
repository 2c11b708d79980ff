package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/smtp"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/laptrinhthatde/apishop/internal/auth/email"
	httpapi "github.com/laptrinhthatde/apishop/internal/auth/http"
	"github.com/laptrinhthatde/apishop/internal/auth/service"
	"github.com/laptrinhthatde/apishop/internal/auth/store"
	"github.com/laptrinhthatde/apishop/internal/auth/store/drivers/sqlite"
	"github.com/laptrinhthatde/apishop/pkg/cryptox"
	"github.com/laptrinhthatde/apishop/pkg/jwtx"
	"github.com/laptrinhthatde/apishop/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags. Later problem
	BuildVersion = "v0.1.0"
)

// Application encapsulates the auth service with all its dependencies
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	db        store.Store
	blacklist *service.Blacklist
	mailer    email.Mailer

	accessVerifier *jwtx.Verifier

	// Services
	authService         *service.AuthService
	userService         *service.UserService
	housekeepingService *service.HousekeepingService

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized
func New(cfg Config) (*Application, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "apishop-auth",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	// Set pepper path for password hashing
	cryptox.SetPepperPath(app.cfg.PepperFile)

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	if err := app.initServices(); err != nil {
		_ = app.db.Close()
		return nil, err
	}
	app.initHTTP()

	return app, nil
}

func validateConfig(cfg Config) error {
	if cfg.AccessSecret == "" || cfg.RefreshSecret == "" {
		return errors.New("AUTH_ACCESS_SECRET and AUTH_REFRESH_SECRET must be set")
	}
	if cfg.AccessSecret == cfg.RefreshSecret {
		return errors.New("access and refresh secrets must differ")
	}
	if cfg.RefreshTTL <= cfg.AccessTTL {
		return errors.New("refresh token TTL must exceed access token TTL")
	}
	return nil
}

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	// Start housekeeping service
	app.housekeepingService.Start()

	app.logger.Info("auth service starting", "port", app.cfg.Port, "version", BuildVersion)

	// Start server in a goroutine
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	// Setup signal handling for graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a shutdown signal or server error
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

	// Shutdown the HTTP server
	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	// Stop the housekeeping service
	app.housekeepingService.Stop()

	// Close database connection
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
func (app *Application) initServices() error {
	accessSigner, err := jwtx.NewSigner(
		[]byte(app.cfg.AccessSecret), jwtx.UseAccess, app.cfg.AccessTTL, app.cfg.Issuer)
	if err != nil {
		return fmt.Errorf("access signer: %w", err)
	}
	refreshSigner, err := jwtx.NewSigner(
		[]byte(app.cfg.RefreshSecret), jwtx.UseRefresh, app.cfg.RefreshTTL, app.cfg.Issuer)
	if err != nil {
		return fmt.Errorf("refresh signer: %w", err)
	}

	app.accessVerifier = jwtx.NewVerifier([]byte(app.cfg.AccessSecret), jwtx.UseAccess, app.cfg.Issuer)
	refreshVerifier := jwtx.NewVerifier([]byte(app.cfg.RefreshSecret), jwtx.UseRefresh, app.cfg.Issuer)

	app.blacklist = service.NewBlacklist()
	app.mailer = app.buildMailer()

	app.authService = &service.AuthService{
		Store:           app.db,
		AccessSigner:    accessSigner,
		RefreshSigner:   refreshSigner,
		AccessVerifier:  app.accessVerifier,
		RefreshVerifier: refreshVerifier,
		Blacklist:       app.blacklist,
		Mailer:          app.mailer,
		ResetTTL:        app.cfg.ResetTTL,
		ResetBaseURL:    app.cfg.ResetBaseURL,
	}

	app.userService = &service.UserService{Store: app.db}

	app.housekeepingService = service.NewHousekeepingService(
		app.db,
		app.blacklist,
		app.logger,
		app.cfg.HousekeepingInterval,
	)

	return nil
}

// buildMailer picks SMTP when a relay is configured, otherwise the
// log-only mailer so dev environments work without mail infrastructure.
func (app *Application) buildMailer() email.Mailer {
	if app.cfg.SMTPAddr == "" {
		app.logger.Info("no SMTP relay configured, using log mailer")
		return &email.LogMailer{Logger: app.logger}
	}

	var auth smtp.Auth
	if app.cfg.SMTPUsername != "" {
		host := app.cfg.SMTPAddr
		if i := strings.IndexByte(host, ':'); i >= 0 {
			host = host[:i]
		}
		auth = smtp.PlainAuth("", app.cfg.SMTPUsername, app.cfg.SMTPPassword, host)
	}

	return &email.SMTPMailer{
		Addr: app.cfg.SMTPAddr,
		From: app.cfg.SMTPFrom,
		Auth: auth,
	}
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		app.accessVerifier,
		app.blacklist,
		BuildVersion,
		app.db,
		app.logger,
	)

	// Wire services to router
	router.AuthService = app.authService
	router.UserService = app.userService
	router.RefreshTTL = app.cfg.RefreshTTL
	router.SecureCookie = app.cfg.SecureCookies
	router.ApplyRoutes()

	app.router = router

	// Initialize HTTP server
	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
