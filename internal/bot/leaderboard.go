package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"moola-wars-bot/internal/models"
	"moola-wars-bot/internal/store"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

const leaderboardPageSize = 10

func teamEmoji(team string) string {
	if team == models.TeamBullas {
		return "🐂"
	}
	return "🐻"
}

func teamColor(team string) int {
	if team == models.TeamBullas {
		return 0x22C55E
	}
	return 0xEF4444
}

// handleLeaderboard renders one page of a team's points leaderboard with
// the requester's own rank pinned on top.
func (b *Bot) handleLeaderboard(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate) {
	var team string
	page := 1
	for _, opt := range i.ApplicationCommandData().Options {
		switch opt.Name {
		case "team":
			team = opt.StringValue()
		case "page":
			page = int(opt.IntValue())
		}
	}

	embed, components, err := b.renderLeaderboard(ctx, s, team, page, interactionUserId(i), displayName(i))
	if err != nil {
		zap.L().Error("Failed to render leaderboard", zap.String("team", team), zap.Error(err))
		b.replyEphemeral(s, i, "An error occurred while processing the leaderboard command.")
		return
	}
	if embed == nil {
		b.replyEphemeral(s, i, "No users found.")
		return
	}

	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds:     []*discordgo.MessageEmbed{embed},
			Components: components,
		},
	})
	if err != nil {
		zap.L().Error("Failed to send leaderboard reply", zap.Error(err))
	}
}

// handleLeaderboardButton pages an existing leaderboard message. Only the
// user who ran the original command may use its buttons.
func (b *Bot) handleLeaderboardButton(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate) {
	parts := strings.Split(i.MessageComponentData().CustomID, "_")
	if len(parts) != 3 || (parts[0] != "prev" && parts[0] != "next") {
		return
	}
	team := parts[1]
	currentPage, err := strconv.Atoi(parts[2])
	if err != nil {
		return
	}

	if i.Message != nil && i.Message.Interaction != nil && i.Message.Interaction.User != nil &&
		i.Message.Interaction.User.ID != interactionUserId(i) {
		b.replyEphemeral(s, i, "Only the user who ran this command can use these buttons.")
		return
	}

	newPage := currentPage - 1
	if parts[0] == "next" {
		newPage = currentPage + 1
	}
	if newPage < 1 {
		newPage = 1
	}

	if err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredMessageUpdate,
	}); err != nil {
		zap.L().Error("Failed to acknowledge pagination", zap.Error(err))
		return
	}

	embed, components, err := b.renderLeaderboard(ctx, s, team, newPage, interactionUserId(i), displayName(i))
	if err != nil || embed == nil {
		zap.L().Error("Failed to render leaderboard page", zap.String("team", team), zap.Int("page", newPage), zap.Error(err))
		content := "An error occurred while updating the leaderboard."
		empty := []discordgo.MessageComponent{}
		if _, editErr := s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{
			Content:    &content,
			Components: &empty,
		}); editErr != nil {
			zap.L().Error("Failed to edit leaderboard message", zap.Error(editErr))
		}
		return
	}

	embeds := []*discordgo.MessageEmbed{embed}
	if _, err := s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{
		Embeds:     &embeds,
		Components: &components,
	}); err != nil {
		zap.L().Error("Failed to edit leaderboard message", zap.Error(err))
	}
}

func (b *Bot) renderLeaderboard(ctx context.Context, s *discordgo.Session, team string, page int, requesterId, requesterName string) (*discordgo.MessageEmbed, []discordgo.MessageComponent, error) {
	filter := store.RecordFilter{Team: team, ExcludeDiscordIds: b.roles.ExcludedUserIds}
	offset := (page - 1) * leaderboardPageSize

	records, total, err := b.store.QueryRecords(ctx, filter, offset, leaderboardPageSize)
	if err != nil {
		return nil, nil, err
	}
	if len(records) == 0 {
		return nil, nil, nil
	}

	totalPages := (total + leaderboardPageSize - 1) / leaderboardPageSize
	embed := &discordgo.MessageEmbed{Color: teamColor(team)}

	rank, ownRecord, err := b.store.GetTeamRank(ctx, requesterId, team, b.roles.ExcludedUserIds)
	if err != nil {
		zap.L().Warn("Failed to compute requester rank", zap.String("discord_id", requesterId), zap.Error(err))
	} else if rank > 0 && ownRecord != nil {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: "Your Rank",
			Value: fmt.Sprintf("%d. %s %s • %s mL",
				rank, teamEmoji(team), requesterName, ownRecord.Points.String()),
		})
	}

	entries := make([]string, 0, len(records))
	for idx, rec := range records {
		name := rec.DiscordId
		if user, err := s.User(rec.DiscordId); err == nil {
			name = user.Username
		}
		entries = append(entries, fmt.Sprintf("%d. %s %s • %s mL",
			offset+idx+1, teamEmoji(team), name, rec.Points.String()))
	}
	embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
		Name:  "🏆 Leaderboard",
		Value: strings.Join(entries, "\n"),
	})
	embed.Footer = &discordgo.MessageEmbedFooter{
		Text: fmt.Sprintf("Page %d/%d", page, totalPages),
	}

	components := []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    "Previous",
					Style:    discordgo.SecondaryButton,
					CustomID: fmt.Sprintf("prev_%s_%d", team, page),
					Disabled: page <= 1,
				},
				discordgo.Button{
					Label:    "Next",
					Style:    discordgo.SecondaryButton,
					CustomID: fmt.Sprintf("next_%s_%d", team, page),
					Disabled: page >= totalPages,
				},
			},
		},
	}

	return embed, components, nil
}
