package bot

import (
	"context"
	"fmt"
	"sync"

	"moola-wars-bot/internal/models"
	"moola-wars-bot/internal/roster"
	"moola-wars-bot/internal/store"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

// Config contains the collaborators a Bot needs.
type Config struct {
	Session  *discordgo.Session
	Store    store.LedgerStore
	Roles    *models.RoleConfig
	Roster   roster.Source
	Discord  models.DiscordConfig
	Snapshot models.SnapshotConfig
}

// Bot owns the gateway session and dispatches slash commands.
type Bot struct {
	session *discordgo.Session
	store   store.LedgerStore
	roles   *models.RoleConfig
	roster  roster.Source
	discord models.DiscordConfig
	snapcfg models.SnapshotConfig

	// Watcher bookkeeping so Stop can wait for in-flight verification polls.
	watchers sync.WaitGroup
	stopChan chan struct{}
}

func New(cfg Config) *Bot {
	return &Bot{
		session:  cfg.Session,
		store:    cfg.Store,
		roles:    cfg.Roles,
		roster:   cfg.Roster,
		discord:  cfg.Discord,
		snapcfg:  cfg.Snapshot,
		stopChan: make(chan struct{}),
	}
}

func commandDefinitions() []*discordgo.ApplicationCommand {
	minPage := float64(1)
	return []*discordgo.ApplicationCommand{
		{
			Name:        "wankme",
			Description: "Get started with Moola Wars and earn your roles",
		},
		{
			Name:        "updatewallet",
			Description: "Update your wallet address",
		},
		{
			Name:        "snapshot",
			Description: "Take a snapshot of the current standings",
		},
		{
			Name:        "alreadywanked",
			Description: "Assign the verified role to all linked users (Admin only)",
		},
		{
			Name:        "leaderboard",
			Description: "View the leaderboard",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "team",
					Description: "Team leaderboard to view",
					Required:    true,
					Choices: []*discordgo.ApplicationCommandOptionChoice{
						{Name: "Bullas", Value: models.TeamBullas},
						{Name: "Beras", Value: models.TeamBeras},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "page",
					Description: "Page number",
					MinValue:    &minPage,
				},
			},
		},
	}
}

// Start opens the gateway connection and registers guild commands.
func (b *Bot) Start(ctx context.Context) error {
	b.session.AddHandler(b.onReady)
	b.session.AddHandler(func(s *discordgo.Session, i *discordgo.InteractionCreate) {
		b.onInteraction(ctx, s, i)
	})
	b.session.AddHandler(b.onMemberAdd)

	if err := b.session.Open(); err != nil {
		return fmt.Errorf("unable to open gateway connection: %w", err)
	}
	return nil
}

// Stop closes the gateway and waits for in-flight verification watchers.
func (b *Bot) Stop() {
	close(b.stopChan)
	b.watchers.Wait()
	if err := b.session.Close(); err != nil {
		zap.L().Warn("Failed to close gateway session", zap.Error(err))
	}
}

func (b *Bot) onReady(s *discordgo.Session, _ *discordgo.Ready) {
	zap.L().Info("Gateway session ready", zap.String("user", s.State.User.Username))

	// Wipe stale global commands, then register the guild set; bulk
	// overwrite replaces whatever duplicates earlier deploys left behind.
	if _, err := s.ApplicationCommandBulkOverwrite(s.State.User.ID, "", nil); err != nil {
		zap.L().Error("Failed to clear global commands", zap.Error(err))
	}
	if _, err := s.ApplicationCommandBulkOverwrite(s.State.User.ID, b.discord.GuildId, commandDefinitions()); err != nil {
		zap.L().Error("Failed to register guild commands", zap.Error(err))
		return
	}
	zap.L().Info("Guild commands registered", zap.String("guild_id", b.discord.GuildId))
}

func (b *Bot) onInteraction(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		switch i.ApplicationCommandData().Name {
		case "wankme":
			b.handleWankme(ctx, s, i)
		case "updatewallet":
			b.handleUpdateWallet(ctx, s, i)
		case "snapshot":
			b.handleSnapshot(ctx, s, i)
		case "alreadywanked":
			b.handleAlreadyWanked(ctx, s, i)
		case "leaderboard":
			b.handleLeaderboard(ctx, s, i)
		}
	case discordgo.InteractionMessageComponent:
		b.handleLeaderboardButton(ctx, s, i)
	}
}

// onMemberAdd tags newcomers with the entry role.
func (b *Bot) onMemberAdd(s *discordgo.Session, m *discordgo.GuildMemberAdd) {
	if m.User == nil {
		return
	}
	if err := s.GuildMemberRoleAdd(m.GuildID, m.User.ID, b.roles.NewcomerRoleId); err != nil {
		zap.L().Error("Failed to add newcomer role",
			zap.String("discord_id", m.User.ID),
			zap.Error(err))
		return
	}
	zap.L().Info("Added newcomer role", zap.String("discord_id", m.User.ID))
}

func interactionUserId(i *discordgo.InteractionCreate) string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.ID
	}
	if i.User != nil {
		return i.User.ID
	}
	return ""
}

func (b *Bot) replyEphemeral(s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		zap.L().Error("Failed to send interaction reply", zap.Error(err))
	}
}
