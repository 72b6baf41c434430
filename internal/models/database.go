package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Team values for the points competition.
const (
	TeamBullas = "bullas"
	TeamBeras  = "beras"
)

// LedgerRecord is one persisted points/wallet row keyed by Discord ID.
// Concurrent or stale writes can leave more than one row per user;
// snapshot.DedupRecords collapses them to one canonical row.
type LedgerRecord struct {
	DiscordId string          `db:"discord_id"`
	Address   string          `db:"address"` // empty = no linked wallet
	Points    decimal.Decimal `db:"points"`
	Team      string          `db:"team"` // bullas, beras, or empty
	CreatedAt time.Time       `db:"created_at"`
	UpdatedAt time.Time       `db:"updated_at"`
}

// HasAddress reports whether the record has a linked wallet address.
func (r LedgerRecord) HasAddress() bool {
	return r.Address != ""
}

// LinkToken is a one-time token handed out by /wankme or /updatewallet.
// The external linking flow marks it used once the wallet is connected.
type LinkToken struct {
	Token     string    `db:"token"`
	DiscordId string    `db:"discord_id"`
	Used      bool      `db:"used"`
	CreatedAt time.Time `db:"created_at"`
}
