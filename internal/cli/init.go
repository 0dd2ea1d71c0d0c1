// Package cli provides common CLI initialization utilities shared by
// cmd/txboard and cmd/txboard-seed.
package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"txboard/internal/backend"
	"txboard/internal/config"
	applog "txboard/internal/log"
	"txboard/internal/seed"

	"github.com/joho/godotenv"
)

// SetupLogger initializes structured logging at the named level and sets it
// as the default logger. Unknown level names fall back to info.
func SetupLogger(level string) *applog.Logger {
	cfg := applog.DefaultConfig()
	if lvl, err := config.ParseLogLevel(level); err == nil {
		cfg.Level = lvl
	}
	logger := applog.New(cfg)
	applog.SetDefault(logger)
	return logger
}

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration, builds the logger from it and
// validates it. Exits the process on validation failure.
func LoadAndValidateConfig() (*config.Config, *applog.Logger) {
	cfg := config.Load()
	logger := SetupLogger(cfg.LogLevel)
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", applog.FieldError, err)
		os.Exit(1)
	}
	return cfg, logger
}

// InitBackend creates the configured store and optional event publisher.
// Exits the process on failure.
func InitBackend(ctx context.Context, logger *applog.Logger, cfg *config.Config) *backend.BackendResult {
	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", applog.FieldError, err)
		os.Exit(1)
	}

	result, err := backend.NewFactory(logger).CreateBackend(ctx, backendCfg)
	if err != nil {
		logger.Error("Failed to initialize backend", applog.FieldError, err, applog.FieldBackend, backendCfg.Type)
		os.Exit(1)
	}
	return result
}

// Seed populates an empty store from the configured feed.
func Seed(ctx context.Context, logger *applog.Logger, cfg *config.Config, be *backend.BackendResult) (seed.Result, error) {
	var publisher seed.Publisher
	if be.Events != nil {
		publisher = be.Events
	}
	source := seed.NewHTTPSource(cfg.SeedURL, cfg.SeedTimeout)
	return seed.New(be.Backend, source, publisher, logger).Run(ctx)
}

// Cleanup releases backend resources, logging any failure.
func Cleanup(logger *applog.Logger, be *backend.BackendResult) {
	if be == nil || be.Cleanup == nil {
		return
	}
	if err := be.Cleanup(); err != nil {
		logger.Warn("Backend cleanup failed", applog.FieldError, err)
	}
}

// LogSeedError logs a failed seed run, tagging upstream failures.
func LogSeedError(logger *applog.Logger, err error) {
	errType := applog.ErrorTypeInternal
	var upErr *seed.UpstreamError
	if errors.As(err, &upErr) {
		errType = applog.ErrorTypeUpstream
	}
	logger.WithComponent(applog.ComponentSeed).Error("Seeding failed",
		applog.FieldError, err,
		"error_type", errType)
}

// GracefulShutdown calls shutdown once SIGINT or SIGTERM arrives, bounded by
// timeout. The returned channel closes when shutdown has finished.
func GracefulShutdown(logger *applog.Logger, timeout time.Duration, shutdown func(context.Context) error) <-chan struct{} {
	done := make(chan struct{})

	go func() {
		defer close(done)

		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		if err := shutdown(ctx); err != nil {
			logger.Error("Shutdown error", applog.FieldError, err, applog.FieldOperation, applog.OpShutdown)
			return
		}
		logger.Info("Shutdown complete")
	}()

	return done
}
