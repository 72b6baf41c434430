package snapshot

import (
	"moola-wars-bot/internal/models"
	"moola-wars-bot/internal/roster"

	"github.com/shopspring/decimal"
)

// classifyVerified walks the deduplicated wallet-linked records, resolves
// each against the roster, derives its badge flags, and commits a row for
// every record that carries at least one tracked badge.
//
// Records are skipped entirely (not counted, not emitted) when the member
// cannot be resolved in the roster or holds no tracked badge; a
// wallet-linked record with zero relevant badges carries no report value.
func classifyVerified(st *runState, ros *roster.Roster, records []models.LedgerRecord, badges models.BadgeRoles) {
	for _, rec := range records {
		if !rec.HasAddress() {
			continue
		}

		identity, ok := ros.Resolve(rec.DiscordId)
		if !ok {
			// Member left between the ledger read and the roster fetch.
			continue
		}

		flags := badges.Derive(identity)
		if flags.Empty() {
			continue
		}

		for _, kind := range models.AllBadgeKinds {
			if flags.Has(kind) {
				st.stats.Totals[kind]++
			}
		}

		st.markProcessed(rec.DiscordId)
		st.appendRow(models.ClassifiedRow{
			DiscordId: rec.DiscordId,
			Address:   rec.Address,
			Points:    rec.Points,
			Badges:    flags,
		})
	}

	st.stats.TotalProcessed = len(st.processed)
}

// detectOrphans scans every roster member the classification pass did not
// cover and emits a NO_WALLET placeholder for those holding a tracked
// badge, queueing each for the reverse-reconciliation pass.
func detectOrphans(st *runState, ros *roster.Roster, badges models.BadgeRoles) {
	for _, identity := range ros.Members() {
		if st.isProcessed(identity.DiscordId) {
			continue
		}

		flags := badges.Derive(identity)
		if flags.Empty() {
			continue
		}

		for _, kind := range models.AllBadgeKinds {
			if flags.Has(kind) {
				st.stats.NoWallet[kind]++
			}
		}

		index := st.appendRow(models.ClassifiedRow{
			DiscordId: identity.DiscordId,
			Address:   models.NoWallet,
			Points:    decimal.Zero,
			Badges:    flags,
		})
		st.pending = append(st.pending, pendingRow{rowIndex: index, discordId: identity.DiscordId})
	}
}
