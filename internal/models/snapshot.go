package models

import "github.com/shopspring/decimal"

// NoWallet is the address placeholder emitted for identities that hold a
// tracked badge but have no resolvable wallet-linked ledger record.
const NoWallet = "NO_WALLET"

// Identity is one community member as observed in a roster snapshot.
// The roster source owns these; the snapshot engine only reads them.
type Identity struct {
	DiscordId   string
	DisplayName string
	RoleIds     map[string]struct{}
}

// HasRole reports whether the member currently holds the given role ID.
func (i Identity) HasRole(roleId string) bool {
	_, ok := i.RoleIds[roleId]
	return ok
}

// ClassifiedRow is one output line of the snapshot report.
type ClassifiedRow struct {
	DiscordId string
	Address   string // wallet address or NoWallet
	Points    decimal.Decimal
	Badges    BadgeSet
}

// SnapshotStats aggregates one snapshot run. Fully recomputed each run
// and frozen before the reconciliation pass: the reconciler rewrites
// rows but never counters.
type SnapshotStats struct {
	// Totals counts wallet-linked holders per badge.
	Totals [NumBadgeKinds]int
	// NoWallet counts members holding the badge with no linked wallet.
	NoWallet [NumBadgeKinds]int
	// TotalProcessed counts distinct identities classified with a wallet.
	TotalProcessed int
}
