package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"moola-wars-bot/internal/common"
	"moola-wars-bot/internal/config"
	"moola-wars-bot/internal/models"
	"moola-wars-bot/internal/roster"
	"moola-wars-bot/internal/snapshot"

	"go.uber.org/zap"
)

func defaultOutputPath() string {
	timestamp := strings.NewReplacer(":", "-", ".", "-").Replace(time.Now().UTC().Format(time.RFC3339))
	return fmt.Sprintf("snapshot_%s.csv", timestamp)
}

func printBadgeStats(stats models.SnapshotStats) {
	fmt.Printf("\n┌─ Badge totals\n")
	for i, kind := range models.AllBadgeKinds {
		isLast := i == len(models.AllBadgeKinds)-1
		fmt.Printf("%s %-18s: %6d users (%d without wallet)\n",
			common.BoxPrefix(isLast),
			kind.String(),
			stats.Totals[kind],
			stats.NoWallet[kind])
	}
}

func writeReport(report, path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("unable to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(report), 0o644); err != nil {
		return fmt.Errorf("unable to write report: %w", err)
	}
	return nil
}

func main() {
	outputFlag := flag.String("output", "", "Output CSV path (default: snapshot_<timestamp>.csv)")
	includeIds := flag.Bool("include-ids", false, "Include the discord_id column in the report")
	flag.Parse()

	logger, loggerCleanup := common.InitializeLogger()
	defer loggerCleanup()

	ctx := context.Background()

	logger.Info("Starting snapshot export")

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	services, err := common.InitializeServices(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to initialize services", zap.Error(err))
	}
	defer services.Close()

	source := roster.NewGuildSource(services.Session, cfg.Snapshot.MemberBatchSize, cfg.Snapshot.MemberBatchDelay)
	generator := snapshot.NewGenerator(services.DbService, source, services.Roles.BadgeRoles, cfg.Snapshot)
	generator.OnProgress = func(message string) {
		fmt.Println(message)
	}

	result, err := generator.Generate(ctx, cfg.Discord.GuildId, nil, *includeIds)
	if err != nil {
		logger.Fatal("Snapshot run failed", zap.Error(err))
	}

	outputPath := *outputFlag
	if outputPath == "" {
		outputPath = defaultOutputPath()
	}
	if err := writeReport(result.Report, outputPath); err != nil {
		logger.Fatal("Failed to write report", zap.Error(err))
	}

	common.PrintHeader("SNAPSHOT REPORT", common.DefaultWidth)
	printBadgeStats(result.Stats)

	summary := fmt.Sprintf("SUMMARY: %d users processed, report written to %s",
		result.Stats.TotalProcessed, outputPath)
	common.PrintFooter(summary, common.DefaultWidth)

	logger.Info("Snapshot export completed",
		zap.Int("processed", result.Stats.TotalProcessed),
		zap.String("output", outputPath))
}
