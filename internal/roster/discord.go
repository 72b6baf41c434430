package roster

import (
	"context"
	"fmt"
	"time"

	"moola-wars-bot/internal/common"
	"moola-wars-bot/internal/models"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

// Compile-time check: *GuildSource must satisfy Source.
var _ Source = (*GuildSource)(nil)

// GuildSource fetches rosters from the Discord guild-members endpoint,
// paging with the after-cursor and pausing between pages to stay under
// the gateway rate limits.
type GuildSource struct {
	session    *discordgo.Session
	batchSize  int
	batchDelay time.Duration
}

func NewGuildSource(session *discordgo.Session, batchSize int, batchDelay time.Duration) *GuildSource {
	if batchSize <= 0 || batchSize > 1000 {
		// Discord caps the members endpoint at 1000 per call.
		batchSize = 1000
	}
	return &GuildSource{
		session:    session,
		batchSize:  batchSize,
		batchDelay: batchDelay,
	}
}

// ListAllMembers retrieves the full current roster of a guild. Individual
// entries missing user data (e.g. members departing mid-listing) are
// skipped, not reported as errors; only a failed page read aborts.
func (g *GuildSource) ListAllMembers(ctx context.Context, guildId string) (*Roster, error) {
	if guildId == "" {
		return nil, fmt.Errorf("guild id cannot be empty")
	}

	var identities []models.Identity
	after := ""
	pacer := common.NewPacer(g.batchDelay)
	skipped := 0

	for {
		if err := pacer.Wait(ctx); err != nil {
			return nil, err
		}

		members, err := g.session.GuildMembers(guildId, after, g.batchSize, discordgo.WithContext(ctx))
		if err != nil {
			return nil, fmt.Errorf("unable to list guild members after %q: %w", after, err)
		}
		if len(members) == 0 {
			break
		}

		for _, m := range members {
			identity, ok := identityFromMember(m)
			if !ok {
				skipped++
				continue
			}
			identities = append(identities, identity)
		}

		// Advance the cursor past this page. The last entry can itself be
		// a skipped member with no user data; fall back to the last
		// identity we kept so the cursor still moves.
		if last := members[len(members)-1]; last.User != nil {
			after = last.User.ID
		} else if len(identities) > 0 {
			after = identities[len(identities)-1].DiscordId
		} else {
			break
		}
		if len(members) < g.batchSize {
			break
		}

		zap.L().Debug("Fetched guild member batch",
			zap.String("guild_id", guildId),
			zap.Int("total_so_far", len(identities)))
	}

	zap.L().Info("Fetched guild roster",
		zap.String("guild_id", guildId),
		zap.Int("members", len(identities)),
		zap.Int("skipped", skipped))
	return New(identities), nil
}

func identityFromMember(m *discordgo.Member) (models.Identity, bool) {
	if m == nil || m.User == nil || m.User.ID == "" {
		return models.Identity{}, false
	}

	roleIds := make(map[string]struct{}, len(m.Roles))
	for _, roleId := range m.Roles {
		roleIds[roleId] = struct{}{}
	}

	name := m.Nick
	if name == "" {
		name = m.User.Username
	}

	return models.Identity{
		DiscordId:   m.User.ID,
		DisplayName: name,
		RoleIds:     roleIds,
	}, true
}
