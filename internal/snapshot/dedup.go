package snapshot

import "moola-wars-bot/internal/models"

// DedupRecords collapses possibly-duplicate ledger rows (concurrent link
// writes, stale duplicates) into one canonical row per Discord ID. Pure
// function of its input; the winner does not depend on input order except
// for exact ties, where the first encountered wins.
//
// Tie-break, per pair of rows for the same user:
//   - a row with a wallet address beats one without, regardless of points
//   - between two wallet-linked rows, strictly higher points wins
//   - otherwise the earlier row is kept
//
// Rows with an empty Discord ID are malformed and discarded silently.
func DedupRecords(records []models.LedgerRecord) []models.LedgerRecord {
	kept := make(map[string]models.LedgerRecord, len(records))
	var order []string

	for _, rec := range records {
		if rec.DiscordId == "" {
			continue
		}

		existing, seen := kept[rec.DiscordId]
		if !seen {
			kept[rec.DiscordId] = rec
			order = append(order, rec.DiscordId)
			continue
		}

		switch {
		case rec.HasAddress() && !existing.HasAddress():
			kept[rec.DiscordId] = rec
		case rec.HasAddress() && existing.HasAddress() && rec.Points.GreaterThan(existing.Points):
			kept[rec.DiscordId] = rec
		}
	}

	out := make([]models.LedgerRecord, 0, len(order))
	for _, id := range order {
		out = append(out, kept[id])
	}
	return out
}
