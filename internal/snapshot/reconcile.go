package snapshot

import (
	"context"
	"sync"

	"moola-wars-bot/internal/models"
	"moola-wars-bot/internal/roster"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// reconcileOrphans re-checks every NO_WALLET placeholder against the
// ledger store with a fresh authoritative lookup: the store may have been
// updated since the bulk read, or the record may have been excluded
// upstream by a resolution miss that no longer applies.
//
// A placeholder is upgraded in place — same row slot, so row count and
// order are preserved — only when a wallet-linked record exists AND the
// member still resolves in the roster AND still shows at least one badge
// flag. Everything else, including lookup failures, leaves the committed
// placeholder untouched; this pass never raises and never touches the
// counters, which were frozen before it started.
func (g *Generator) reconcileOrphans(ctx context.Context, st *runState, ros *roster.Roster) {
	if len(st.pending) == 0 {
		return
	}

	zap.L().Info("Reconciling no-wallet placeholders", zap.Int("pending", len(st.pending)))

	var mu sync.Mutex
	upgraded := 0

	group := new(errgroup.Group)
	group.SetLimit(g.cfg.ReconcileConcurrency)

	for _, p := range st.pending {
		p := p // each task closes over its own fixed row slot
		group.Go(func() error {
			rec, err := g.store.FindVerifiedByDiscordId(ctx, p.discordId)
			if err != nil {
				zap.L().Warn("Reconciliation lookup failed, keeping placeholder",
					zap.String("discord_id", p.discordId),
					zap.Error(err))
				return nil
			}
			if rec == nil || !rec.HasAddress() {
				return nil
			}

			identity, ok := ros.Resolve(p.discordId)
			if !ok {
				return nil
			}

			flags := g.badges.Derive(identity)
			if flags.Empty() {
				// The row was already committed; never downgrade it.
				return nil
			}

			mu.Lock()
			st.overwriteRow(p.rowIndex, models.ClassifiedRow{
				DiscordId: p.discordId,
				Address:   rec.Address,
				Points:    rec.Points,
				Badges:    flags,
			})
			upgraded++
			mu.Unlock()

			zap.L().Debug("Upgraded no-wallet placeholder",
				zap.String("discord_id", p.discordId))
			return nil
		})
	}

	// Tasks absorb their own failures, so Wait cannot return an error.
	_ = group.Wait()

	zap.L().Info("Reconciliation pass complete",
		zap.Int("pending", len(st.pending)),
		zap.Int("upgraded", upgraded))
}
