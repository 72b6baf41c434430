package main

import (
	"context"
	"flag"

	"moola-wars-bot/internal/common"
	"moola-wars-bot/internal/config"

	"go.uber.org/zap"
)

func main() {
	dummyFlag := flag.Bool("dummy", false, "Seed a few dummy ledger rows for local testing")
	flag.Parse()

	_, loggerCleanup := common.InitializeLogger()
	defer loggerCleanup()

	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		zap.L().Fatal("Failed to load config", zap.Error(err))
	}
	if *dummyFlag {
		cfg.Database.CreateDummyRows = true
	}

	zap.L().Info("Setting up SQLite database", zap.String("path", cfg.Database.Path))

	dbService, err := common.InitializeDatabaseOnly(ctx, cfg)
	if err != nil {
		zap.L().Fatal("Failed to initialize database", zap.Error(err))
	}
	defer dbService.Close()

	zap.L().Info("Database setup complete")
}
