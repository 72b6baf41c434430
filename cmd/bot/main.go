package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"moola-wars-bot/internal/bot"
	"moola-wars-bot/internal/common"
	"moola-wars-bot/internal/config"
	"moola-wars-bot/internal/roster"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		_, _ = zap.NewProduction()
		zap.L().Fatal("Failed to load configuration", zap.Error(err))
	}

	_, loggerCleanup := common.InitializeLogger()
	defer loggerCleanup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	zap.L().Info("Starting Moola Wars bot")

	services, err := common.InitializeServices(ctx, cfg)
	if err != nil {
		zap.L().Fatal("Failed to initialize services", zap.Error(err))
	}
	defer services.Close()

	source := roster.NewGuildSource(services.Session, cfg.Snapshot.MemberBatchSize, cfg.Snapshot.MemberBatchDelay)

	b := bot.New(bot.Config{
		Session:  services.Session,
		Store:    services.DbService,
		Roles:    services.Roles,
		Roster:   source,
		Discord:  cfg.Discord,
		Snapshot: cfg.Snapshot,
	})

	if err := b.Start(ctx); err != nil {
		zap.L().Fatal("Failed to start bot", zap.Error(err))
	}

	zap.L().Info("Bot running", zap.String("guild_id", cfg.Discord.GuildId))
	zap.L().Info("Press Ctrl+C to stop")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	zap.L().Info("Shutdown signal received, stopping bot...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	done := make(chan struct{})
	go func() {
		b.Stop()
		close(done)
	}()

	select {
	case <-done:
		zap.L().Info("Bot stopped gracefully")
	case <-shutdownCtx.Done():
		zap.L().Warn("Forced shutdown after timeout")
	}
}
