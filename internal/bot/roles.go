package bot

import (
	"context"
	"fmt"
	"time"

	"moola-wars-bot/internal/common"
	"moola-wars-bot/internal/store"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

// memberDelay paces per-member role mutations during a backfill so a
// large guild doesn't trip the REST rate limiter.
const memberDelay = 100 * time.Millisecond

// handleAlreadyWanked backfills the verified role onto every
// wallet-linked user. Admin only; progress is reported in-channel as the
// walk advances.
func (b *Bot) handleAlreadyWanked(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !b.requireAdmin(s, i) {
		return
	}

	status, err := s.ChannelMessageSend(i.ChannelID, "Starting role assignment process...")
	if err != nil {
		zap.L().Error("Failed to create status message", zap.Error(err))
		b.replyEphemeral(s, i, "Failed to start the role assignment process.")
		return
	}
	b.replyEphemeral(s, i, "Process started! Check the status message above.")

	var added, existing, errored, processed int
	pacer := common.NewPacer(memberDelay)
	pagePacer := common.NewPacer(b.snapcfg.LedgerPageDelay)
	offset := 0

	for {
		if err := pagePacer.Wait(ctx); err != nil {
			return
		}

		records, total, err := b.store.QueryRecords(ctx, store.RecordFilter{AddressNotNull: true}, offset, b.snapcfg.LedgerPageSize)
		if err != nil {
			zap.L().Error("Failed to fetch verified users page", zap.Int("offset", offset), zap.Error(err))
			if _, editErr := s.ChannelMessageEdit(i.ChannelID, status.ID, "An error occurred while assigning roles to verified users."); editErr != nil {
				zap.L().Debug("Failed to edit status message", zap.Error(editErr))
			}
			return
		}
		if len(records) == 0 {
			break
		}

		for _, rec := range records {
			if err := pacer.Wait(ctx); err != nil {
				return
			}
			processed++

			member, err := s.GuildMember(b.discord.GuildId, rec.DiscordId, discordgo.WithContext(ctx))
			if err != nil {
				errored++
				continue
			}
			if memberHasRole(member, b.roles.VerifiedRoleId) {
				existing++
				continue
			}
			if err := s.GuildMemberRoleAdd(b.discord.GuildId, rec.DiscordId, b.roles.VerifiedRoleId); err != nil {
				zap.L().Error("Failed to add verified role",
					zap.String("discord_id", rec.DiscordId),
					zap.Error(err))
				errored++
				continue
			}
			added++
		}

		b.editBackfillStatus(s, i.ChannelID, status.ID, "Verified Role Assignment Progress",
			added, existing, errored, processed)

		offset += len(records)
		if offset >= total {
			break
		}
	}

	b.editBackfillStatus(s, i.ChannelID, status.ID, "Verified Role Assignment Complete",
		added, existing, errored, processed)
	zap.L().Info("Role backfill complete",
		zap.Int("added", added),
		zap.Int("existing", existing),
		zap.Int("errors", errored),
		zap.Int("processed", processed))
}

func (b *Bot) editBackfillStatus(s *discordgo.Session, channelId, messageId, title string, added, existing, errored, processed int) {
	embed := &discordgo.MessageEmbed{
		Color: 0x0099FF,
		Title: title,
		Description: fmt.Sprintf(
			"**Progress:**\n\n"+
				"• %d users received the verified role\n"+
				"• %d users already had the role\n"+
				"• %d errors encountered\n\n"+
				"Processed %d users so far",
			added, existing, errored, processed),
	}

	empty := ""
	embeds := []*discordgo.MessageEmbed{embed}
	_, err := s.ChannelMessageEditComplex(&discordgo.MessageEdit{
		Channel: channelId,
		ID:      messageId,
		Content: &empty,
		Embeds:  &embeds,
	})
	if err != nil {
		zap.L().Debug("Failed to edit backfill status message", zap.Error(err))
	}
}
