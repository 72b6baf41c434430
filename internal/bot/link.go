package bot

import (
	"context"
	"fmt"

	"moola-wars-bot/internal/common"

	"github.com/bwmarrin/discordgo"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

func memberHasRole(member *discordgo.Member, roleId string) bool {
	for _, held := range member.Roles {
		if held == roleId {
			return true
		}
	}
	return false
}

// handleWankme starts the wallet-link handshake: hands out a one-time
// token plus the linking URL, then watches for the verification to land.
// Already-linked users just get their verified role restored.
func (b *Bot) handleWankme(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate) {
	userId := interactionUserId(i)
	if userId == "" {
		return
	}

	rec, err := b.store.GetRecord(ctx, userId)
	if err != nil {
		zap.L().Error("Failed to look up ledger record", zap.String("discord_id", userId), zap.Error(err))
		b.replyEphemeral(s, i, "An error occurred, please try again later.")
		return
	}

	if rec != nil {
		if i.Member != nil && !memberHasRole(i.Member, b.roles.VerifiedRoleId) {
			if err := s.GuildMemberRoleAdd(b.discord.GuildId, userId, b.roles.VerifiedRoleId); err != nil {
				zap.L().Error("Failed to restore verified role", zap.String("discord_id", userId), zap.Error(err))
			} else {
				b.replyEphemeral(s, i, "✅ Your verified status has been restored!")
				return
			}
		}
		b.replyEphemeral(s, i, fmt.Sprintf(
			"You have already linked your account. Your linked account: `%s`",
			common.MaskAddress(rec.Address)))
		return
	}

	token := uuid.New().String()
	if err := b.store.CreateLinkToken(ctx, token, userId); err != nil {
		zap.L().Error("Failed to create link token", zap.String("discord_id", userId), zap.Error(err))
		b.replyEphemeral(s, i, "An error occurred while generating the token.")
		return
	}

	link := fmt.Sprintf("%s/game?token=%s&discord=%s", b.discord.LinkBaseURL, token, userId)
	b.replyEphemeral(s, i, fmt.Sprintf(
		"Hey %s, to link your Discord account to your address click this link:\n\n%s",
		displayName(i), link))

	b.watchVerification(s, i, userId)
}

// handleUpdateWallet hands out a fresh token for an already-linked user.
func (b *Bot) handleUpdateWallet(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate) {
	userId := interactionUserId(i)
	if userId == "" {
		return
	}

	rec, err := b.store.GetRecord(ctx, userId)
	if err != nil {
		zap.L().Error("Failed to look up ledger record", zap.String("discord_id", userId), zap.Error(err))
		b.replyEphemeral(s, i, "An error occurred, please try again later.")
		return
	}
	if rec == nil {
		b.replyEphemeral(s, i, "You need to link your account first. Use /wankme to get started.")
		return
	}

	token := uuid.New().String()
	if err := b.store.CreateLinkToken(ctx, token, userId); err != nil {
		zap.L().Error("Failed to create link token", zap.String("discord_id", userId), zap.Error(err))
		b.replyEphemeral(s, i, "An error occurred while generating the token.")
		return
	}

	link := fmt.Sprintf("%s/update-wallet?token=%s&discord=%s", b.discord.LinkBaseURL, token, userId)
	b.replyEphemeral(s, i, fmt.Sprintf(
		"Hey %s, to update your wallet address, click this link:\n\n%s",
		displayName(i), link))
}

func displayName(i *discordgo.InteractionCreate) string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.Username
	}
	if i.User != nil {
		return i.User.Username
	}
	return "there"
}
