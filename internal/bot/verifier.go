package bot

import (
	"context"
	"time"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

// watchVerification polls the ledger store until the external linking
// flow creates a record for the user, then swaps the newcomer role for
// the verified role and notifies the user. Gives up after the configured
// timeout; polling stops early when the bot shuts down.
func (b *Bot) watchVerification(s *discordgo.Session, i *discordgo.InteractionCreate, userId string) {
	b.watchers.Add(1)
	go func() {
		defer b.watchers.Done()

		ticker := time.NewTicker(b.discord.VerifyPollInterval)
		defer ticker.Stop()
		deadline := time.NewTimer(b.discord.VerifyTimeout)
		defer deadline.Stop()

		for {
			select {
			case <-b.stopChan:
				return
			case <-deadline.C:
				zap.L().Info("Verification watch timed out", zap.String("discord_id", userId))
				return
			case <-ticker.C:
				ctx, cancel := context.WithTimeout(context.Background(), b.discord.VerifyPollInterval)
				rec, err := b.store.GetRecord(ctx, userId)
				cancel()
				if err != nil {
					zap.L().Warn("Verification poll failed", zap.String("discord_id", userId), zap.Error(err))
					continue
				}
				if rec == nil {
					continue
				}

				b.completeVerification(s, i, userId)
				return
			}
		}
	}()
}

func (b *Bot) completeVerification(s *discordgo.Session, i *discordgo.InteractionCreate, userId string) {
	if err := s.GuildMemberRoleAdd(b.discord.GuildId, userId, b.roles.VerifiedRoleId); err != nil {
		zap.L().Error("Failed to add verified role", zap.String("discord_id", userId), zap.Error(err))
	} else {
		zap.L().Info("Added verified role", zap.String("discord_id", userId))
	}

	if err := s.GuildMemberRoleRemove(b.discord.GuildId, userId, b.roles.NewcomerRoleId); err != nil {
		zap.L().Error("Failed to remove newcomer role", zap.String("discord_id", userId), zap.Error(err))
	} else {
		zap.L().Info("Removed newcomer role", zap.String("discord_id", userId))
	}

	_, err := s.FollowupMessageCreate(i.Interaction, true, &discordgo.WebhookParams{
		Content: "✅ Verification complete! Your roles have been updated.",
		Flags:   discordgo.MessageFlagsEphemeral,
	})
	if err != nil {
		zap.L().Warn("Failed to send verification followup", zap.String("discord_id", userId), zap.Error(err))
	}
}
