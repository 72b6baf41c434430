package store

import (
	"context"
	"errors"

	"moola-wars-bot/internal/models"

	"github.com/shopspring/decimal"
)

// Sentinel errors shared across all backend implementations.
var (
	ErrRecordNotFound = errors.New("no ledger record for user")
	ErrDuplicateToken = errors.New("link token already exists")
)

// RecordFilter narrows a paginated ledger query.
type RecordFilter struct {
	// AddressNotNull keeps only wallet-linked rows.
	AddressNotNull bool
	// Team keeps only rows for one team; empty matches any team.
	Team string
	// ExcludeDiscordIds drops specific users (leaderboard exclusions).
	ExcludeDiscordIds []string
}

// LedgerStore defines the contract that every backend must satisfy.
// Query results are ordered by points descending.
type LedgerStore interface {
	// --- Records ---
	// QueryRecords returns one page plus the total match count, so
	// callers can drive pagination from the first page.
	QueryRecords(ctx context.Context, filter RecordFilter, offset, limit int) ([]models.LedgerRecord, int, error)
	// GetRecord returns the canonical row for a user, or (nil, nil)
	// when none exists.
	GetRecord(ctx context.Context, discordId string) (*models.LedgerRecord, error)
	// FindVerifiedByDiscordId returns a wallet-linked row for a user,
	// or (nil, nil) when no such row exists. A non-nil error always
	// means the lookup itself failed, never "not found".
	FindVerifiedByDiscordId(ctx context.Context, discordId string) (*models.LedgerRecord, error)
	InsertRecord(ctx context.Context, discordId, address, team string) (*models.LedgerRecord, error)
	AdjustPoints(ctx context.Context, discordId string, delta decimal.Decimal) (decimal.Decimal, error)
	// GetTeamRank returns the 1-based points rank of a user within a
	// team, or (0, nil, nil) when the user is not on that team.
	GetTeamRank(ctx context.Context, discordId, team string, exclude []string) (int, *models.LedgerRecord, error)

	// --- Link tokens ---
	CreateLinkToken(ctx context.Context, token, discordId string) error

	// --- Lifecycle ---
	Close()
}
