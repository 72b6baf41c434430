package roster

import (
	"context"

	"moola-wars-bot/internal/models"
)

// Source produces membership snapshots for a community.
type Source interface {
	ListAllMembers(ctx context.Context, guildId string) (*Roster, error)
}

// Roster is an immutable point-in-time view of a community's membership.
// The snapshot engine treats it as read-only for the duration of a run.
type Roster struct {
	members map[string]models.Identity
	order   []string
}

// New builds a roster from fetched identities. Later duplicates of the
// same Discord ID are dropped; fetch order is preserved for iteration.
func New(identities []models.Identity) *Roster {
	r := &Roster{
		members: make(map[string]models.Identity, len(identities)),
		order:   make([]string, 0, len(identities)),
	}
	for _, id := range identities {
		if id.DiscordId == "" {
			continue
		}
		if _, exists := r.members[id.DiscordId]; exists {
			continue
		}
		r.members[id.DiscordId] = id
		r.order = append(r.order, id.DiscordId)
	}
	return r
}

// Resolve looks up a member by Discord ID.
func (r *Roster) Resolve(discordId string) (models.Identity, bool) {
	id, ok := r.members[discordId]
	return id, ok
}

// Members returns all identities in fetch order.
func (r *Roster) Members() []models.Identity {
	out := make([]models.Identity, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.members[id])
	}
	return out
}

// Len returns the number of distinct members.
func (r *Roster) Len() int {
	return len(r.members)
}
