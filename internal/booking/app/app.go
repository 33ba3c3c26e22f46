package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/aussiebroadwan/booking/internal/booking/http"
	"github.com/aussiebroadwan/booking/internal/booking/metrics"
	"github.com/aussiebroadwan/booking/internal/booking/service"
	"github.com/aussiebroadwan/booking/internal/booking/store"
	"github.com/aussiebroadwan/booking/internal/booking/store/drivers/postgres"
	"github.com/aussiebroadwan/booking/internal/booking/store/drivers/sqlite"
	"github.com/aussiebroadwan/booking/pkg/cryptox"
	"github.com/aussiebroadwan/booking/pkg/httpx"
	"github.com/aussiebroadwan/booking/pkg/jwtx"
	"github.com/aussiebroadwan/booking/pkg/slogx"
)

// BuildVersion is overridden at build time with -ldflags.
var BuildVersion = "v0.1.0"

// Application owns every long-lived dependency of the booking service.
type Application struct {
	cfg     Config
	logger  *slog.Logger
	metrics *metrics.Metrics

	db         store.Store
	keyManager *jwtx.KeyManager

	authService         *service.AuthService
	userService         *service.UserService
	groupService        *service.GroupService
	housekeepingService *service.HousekeepingService
	housekeepingStarted bool

	server *http.Server
	router *httpapi.Router
}

// New builds the application. The database is migrated before New
// returns.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "booking",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
		metrics: metrics.New(),
	}

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	keyManager, err := jwtx.NewEphemeralKeyManager(jwtx.KeyManagerOptions{
		Issuer:   cfg.Issuer,
		Audience: cfg.Audience,
		NumKeys:  cfg.NumKeys,
	})
	if err != nil {
		_ = app.db.Close()
		return nil, fmt.Errorf("failed to initialize JWT keys: %w", err)
	}
	app.keyManager = keyManager
	app.logger.Info("signing keys generated", "count", keyManager.NumSigners())

	if err := app.initServices(); err != nil {
		_ = app.db.Close()
		return nil, err
	}
	app.initHTTP()

	return app, nil
}

// Handler returns the root HTTP handler.
func (app *Application) Handler() http.Handler { return app.router }

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	app.housekeepingService.Start()
	app.housekeepingStarted = true

	app.logger.Info("booking service starting", "port", app.cfg.Port, "driver", app.cfg.DBDriver)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(shutdown)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			_ = app.Shutdown()
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig.String())
		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}
	return nil
}

// Shutdown drains HTTP requests, stops housekeeping and closes the
// database.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down booking service")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	if app.housekeepingStarted {
		app.housekeepingService.Stop()
		app.housekeepingStarted = false
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("booking service stopped")
	return nil
}

func (app *Application) initDatabase() error {
	var (
		db  store.Store
		err error
	)
	switch app.cfg.DBDriver {
	case DriverPostgres:
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		db, err = postgres.NewStore(ctx, app.cfg.DatabaseURL, postgres.PoolOptions{
			MaxOpenConns:    app.cfg.DBMaxOpenConns,
			MaxIdleConns:    app.cfg.DBMaxOpenConns / 2,
			ConnMaxLifetime: 30 * time.Minute,
		})
	default:
		db, err = sqlite.NewStore(sqlite.DSN(app.cfg.DatabaseFile))
	}
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied", "driver", app.cfg.DBDriver)
	return nil
}

func (app *Application) initServices() error {
	pepper, err := cryptox.LoadPepper(app.cfg.PepperFile)
	if err != nil {
		return fmt.Errorf("failed to load pepper: %w", err)
	}
	hasher := cryptox.NewArgon2Hasher(pepper)

	app.authService = &service.AuthService{
		Store:  app.db,
		Hasher: hasher,
		Tokens: &service.TokenIssuer{
			Signer:     app.keyManager,
			Issuer:     app.cfg.Issuer,
			Audience:   app.cfg.Audience,
			AccessTTL:  app.cfg.AccessTTL,
			RefreshTTL: app.cfg.RefreshTTL,
		},
		Metrics:     app.metrics,
		PhoneRegion: app.cfg.PhoneRegion,
	}
	app.userService = &service.UserService{
		Store:       app.db,
		Hasher:      hasher,
		PhoneRegion: app.cfg.PhoneRegion,
	}
	app.groupService = &service.GroupService{
		Store:   app.db,
		Metrics: app.metrics,
	}

	app.housekeepingService = service.NewHousekeepingService(
		app.authService,
		app.logger,
		app.metrics,
		app.cfg.HousekeepingInterval,
	)
	return nil
}

func (app *Application) initHTTP() {
	clientIP := httpx.IPKeyExtractor
	if app.cfg.TrustProxy {
		clientIP = httpx.ProxyIPKeyExtractor
	}

	router := httpapi.NewRouter(
		app.keyManager.KeySet(),
		app.keyManager.Verifier(),
		app.db,
		app.metrics,
		app.logger,
		httpapi.Options{
			Version:    BuildVersion,
			RateLimits: app.cfg.RateLimits,
			ClientIP:   clientIP,
		},
	)
	router.AuthService = app.authService
	router.UserService = app.userService
	router.GroupService = app.groupService
	router.ApplyRoutes()
	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
