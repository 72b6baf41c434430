package bot

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"moola-wars-bot/internal/models"
	"moola-wars-bot/internal/snapshot"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

// handleSnapshot runs the full snapshot pipeline for the guild and posts
// the resulting CSV into the invoking channel. Admin only.
func (b *Bot) handleSnapshot(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !b.requireAdmin(s, i) {
		return
	}

	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Flags: discordgo.MessageFlagsEphemeral},
	})
	if err != nil {
		zap.L().Error("Failed to defer snapshot reply", zap.Error(err))
		return
	}

	progress, err := s.ChannelMessageSend(i.ChannelID, "Starting snapshot process...")
	if err != nil {
		zap.L().Error("Failed to create progress message", zap.Error(err))
		return
	}

	generator := snapshot.NewGenerator(b.store, b.roster, b.roles.BadgeRoles, b.snapcfg)
	generator.OnProgress = func(message string) {
		if _, err := s.ChannelMessageEdit(i.ChannelID, progress.ID, message); err != nil {
			zap.L().Debug("Failed to edit progress message", zap.Error(err))
		}
	}

	result, err := generator.Generate(ctx, b.discord.GuildId, nil, true)
	if err != nil {
		zap.L().Error("Snapshot run failed", zap.Error(err))
		if _, editErr := s.ChannelMessageEdit(i.ChannelID, progress.ID, "Error processing snapshot. Please try again."); editErr != nil {
			zap.L().Debug("Failed to edit progress message", zap.Error(editErr))
		}
		b.editReply(s, i, "An error occurred while processing the snapshot command.")
		return
	}

	logSnapshotStats(result.Stats)

	timestamp := strings.NewReplacer(":", "-", ".", "-").Replace(time.Now().UTC().Format(time.RFC3339))
	path, err := b.saveReport(result.Report, fmt.Sprintf("snapshot_%s.csv", timestamp))
	if err != nil {
		zap.L().Error("Failed to save snapshot file", zap.Error(err))
		b.editReply(s, i, "An error occurred while saving the snapshot file.")
		return
	}
	defer func() {
		if err := os.Remove(path); err != nil {
			zap.L().Warn("Failed to remove snapshot temp file", zap.String("path", path), zap.Error(err))
		}
	}()

	file, err := os.Open(path)
	if err != nil {
		zap.L().Error("Failed to reopen snapshot file", zap.Error(err))
		b.editReply(s, i, "An error occurred while uploading the snapshot file.")
		return
	}
	defer file.Close()

	_, err = s.ChannelMessageSendComplex(i.ChannelID, &discordgo.MessageSend{
		Content: fmt.Sprintf("✅ Snapshot complete! Total users processed: %d", result.Stats.TotalProcessed),
		Files:   []*discordgo.File{{Name: filepath.Base(path), ContentType: "text/csv", Reader: file}},
	})
	if err != nil {
		zap.L().Error("Failed to upload snapshot file", zap.Error(err))
		b.editReply(s, i, "An error occurred while uploading the snapshot file.")
		return
	}

	if _, err := s.ChannelMessageEdit(i.ChannelID, progress.ID, "✅ Snapshot complete!"); err != nil {
		zap.L().Debug("Failed to edit progress message", zap.Error(err))
	}
	b.editReply(s, i, "✅ Snapshot complete! Check the channel for the file.")
}

// saveReport writes report content under the configured temp directory.
func (b *Bot) saveReport(content, filename string) (string, error) {
	if err := os.MkdirAll(b.snapcfg.TempDir, 0o755); err != nil {
		return "", fmt.Errorf("unable to create temp directory: %w", err)
	}
	path := filepath.Join(b.snapcfg.TempDir, filename)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("unable to write snapshot file: %w", err)
	}
	return path, nil
}

func (b *Bot) editReply(s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	if _, err := s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{Content: &content}); err != nil {
		zap.L().Error("Failed to edit interaction reply", zap.Error(err))
	}
}

func logSnapshotStats(stats models.SnapshotStats) {
	for _, kind := range models.AllBadgeKinds {
		zap.L().Info("Badge statistics",
			zap.String("badge", kind.String()),
			zap.Int("total", stats.Totals[kind]),
			zap.Int("no_wallet", stats.NoWallet[kind]))
	}
	zap.L().Info("Snapshot totals", zap.Int("processed", stats.TotalProcessed))
}
