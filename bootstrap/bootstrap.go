// Package bootstrap wires all dependencies and starts the application:
// config holder, stores, payment provider, token services, app
// services, and the HTTP server with graceful shutdown.
package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/blackforge/storefront/adapters/auth"
	"github.com/blackforge/storefront/adapters/clock"
	"github.com/blackforge/storefront/adapters/hasher"
	"github.com/blackforge/storefront/adapters/idgen"
	"github.com/blackforge/storefront/adapters/jsonstore"
	"github.com/blackforge/storefront/adapters/metrics"
	"github.com/blackforge/storefront/adapters/payment"
	"github.com/blackforge/storefront/app"
	"github.com/blackforge/storefront/config"
	"github.com/blackforge/storefront/web"
	"github.com/rs/zerolog"
)

// App represents the running application.
type App struct {
	Logger     zerolog.Logger
	Config     *config.Holder
	HTTPServer *http.Server
	Metrics    *metrics.Collector

	hotReload bool
}

// New creates and initializes the application from a config file path.
// When hotReload is set, the config file is watched and SIGHUP forces
// a reload.
func New(configPath string, hotReload bool) (*App, error) {
	bootLogger := zerolog.New(os.Stderr).With().Timestamp().Logger()

	holder, err := config.NewHolder(configPath, bootLogger)
	if err != nil {
		return nil, err
	}
	cfg := holder.Get()

	logger := setupLogger(cfg.Logging)
	logger.Info().Str("provider", cfg.Payment.Provider).Msg("initializing storefront")

	a := &App{
		Logger:    logger,
		Config:    holder,
		hotReload: hotReload,
	}

	if cfg.Metrics.Enabled {
		a.Metrics = metrics.New()
		logger.Info().Msg("prometheus metrics enabled")
	}

	realClock := clock.Real{}
	scrypt := hasher.NewScrypt()
	ids := idgen.UUID{}

	catalogStore := jsonstore.NewCatalogStore(cfg.Store.DataDir, realClock, logger)
	memberStore := jsonstore.NewMemberStore(cfg.Store.DataDir, realClock, logger)
	adminStore := jsonstore.NewAdminStore(
		cfg.Store.DataDir,
		cfg.Admin.CredentialsSecret,
		cfg.Admin.Owner,
		cfg.Admin.BootstrapPassword,
		scrypt,
		realClock,
		logger,
	)

	provider, err := payment.NewProvider(cfg.Payment)
	if err != nil {
		return nil, fmt.Errorf("init payment provider: %w", err)
	}

	sessionTokens := auth.NewTokenService(cfg.Auth.SessionSecret, cfg.Auth.AdminTTL, cfg.Auth.MemberTTL, realClock)
	downloadTokens := auth.NewDownloadTokenService(cfg.Auth.DownloadSecret, cfg.Auth.DownloadTTL, realClock)

	checkoutSvc := app.NewCheckoutService(catalogStore, provider, holder, realClock, logger)
	downloadSvc := app.NewDownloadService(catalogStore, memberStore, downloadTokens, holder, logger)
	memberSvc := app.NewMemberService(memberStore, provider, scrypt, sessionTokens, ids, realClock, logger)
	adminSvc := app.NewAdminService(catalogStore, adminStore, sessionTokens, cfg.Admin.Owner, logger)

	handler := web.NewHandler(web.Deps{
		Checkout:  checkoutSvc,
		Downloads: downloadSvc,
		Members:   memberSvc,
		Admin:     adminSvc,
		Tokens:    sessionTokens,
		Config:    holder,
		Metrics:   a.Metrics,
		Logger:    logger,
	})

	a.HTTPServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      handler.Router(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	if a.Metrics != nil {
		holder.OnChange(func(*config.Config) {
			a.Metrics.ConfigReloads.Inc()
			a.Metrics.ConfigLastReload.SetToCurrentTime()
		})
	}

	return a, nil
}

// setupLogger builds the application logger from config.
func setupLogger(cfg config.LoggingConfig) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}

	var logger zerolog.Logger
	if cfg.Format == "console" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr})
	} else {
		logger = zerolog.New(os.Stderr)
	}
	return logger.Level(level).With().Timestamp().Logger()
}

// Run starts the HTTP server and blocks until shutdown.
func (a *App) Run() error {
	if a.hotReload {
		if err := a.Config.WatchFile(); err != nil {
			a.Logger.Warn().Err(err).Msg("config file watch unavailable")
		}
		a.Config.WatchSignals()
	}

	errCh := make(chan error, 1)
	go func() {
		a.Logger.Info().
			Str("addr", a.HTTPServer.Addr).
			Msg("starting http server")
		if err := a.HTTPServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case sig := <-quit:
		a.Logger.Info().Str("signal", sig.String()).Msg("shutting down")
	}

	return a.Shutdown()
}

// Shutdown gracefully stops the application.
func (a *App) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	a.Config.Stop()

	if a.HTTPServer != nil {
		if err := a.HTTPServer.Shutdown(ctx); err != nil {
			a.Logger.Error().Err(err).Msg("http server shutdown error")
		}
	}

	a.Logger.Info().Msg("shutdown complete")
	return nil
}
