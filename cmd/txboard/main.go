package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"txboard/internal/cli"
	apphttp "txboard/internal/http"
	applog "txboard/internal/log"
)

func main() {
	cli.LoadEnvFile()
	cfg, logger := cli.LoadAndValidateConfig()

	ctx := context.Background()
	be := cli.InitBackend(ctx, logger, cfg)

	// Seeding completes before the listener opens, so requests never see a
	// partially populated store.
	if cfg.SeedOnStartup {
		if res, err := cli.Seed(ctx, logger, cfg, be); err != nil {
			cli.LogSeedError(logger, err)
			if cfg.SeedRequired {
				cli.Cleanup(logger, be)
				os.Exit(1)
			}
			logger.Warn("Starting without seed data")
		} else if !res.Skipped {
			logger.Info("Store seeded", applog.FieldCount, res.Inserted)
		}
	}

	srv := apphttp.NewServer(":"+cfg.Port, be.Backend, logger)
	srv.MaxHeaderBytes = 1 << 16

	done := cli.GracefulShutdown(logger, 30*time.Second, srv.Shutdown)

	logger.Info("Starting txboard server",
		"port", cfg.Port,
		applog.FieldBackend, cfg.DataBackend,
		applog.FieldOperation, applog.OpStartup)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", applog.FieldError, err, "port", cfg.Port)
		cli.Cleanup(logger, be)
		os.Exit(1)
	}

	<-done
	cli.Cleanup(logger, be)
	logger.Info("Server stopped gracefully")
}
