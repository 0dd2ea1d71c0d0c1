package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"txboard/internal/cli"
	applog "txboard/internal/log"
)

func main() {
	cli.LoadEnvFile()
	cfg, logger := cli.LoadAndValidateConfig()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.DataBackend == "memory" {
		logger.Warn("Seeding the memory backend has no lasting effect")
	}

	be := cli.InitBackend(ctx, logger, cfg)

	res, err := cli.Seed(ctx, logger, cfg, be)
	cli.Cleanup(logger, be)
	if err != nil {
		cli.LogSeedError(logger, err)
		os.Exit(1)
	}

	if res.Skipped {
		logger.Info("Store already populated", applog.FieldCount, res.Existing)
		return
	}
	logger.Info("Store seeded", applog.FieldCount, res.Inserted, applog.FieldSource, cfg.SeedURL)
}
