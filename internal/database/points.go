package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"moola-wars-bot/internal/store"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// AdjustPoints credits (positive delta) or fines (negative delta) a user's
// canonical row and returns the new balance. The read and write run in one
// transaction so concurrent adjustments serialize.
func (s *Service) AdjustPoints(ctx context.Context, discordId string, delta decimal.Decimal) (decimal.Decimal, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return decimal.Zero, fmt.Errorf("unable to begin transaction: %w", err)
	}
	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			zap.L().Warn("Failed to roll back points transaction", zap.Error(err))
		}
	}()

	var rowId int64
	var points string
	err = tx.QueryRowContext(ctx, queryGetPointsForUpdate, discordId).Scan(&rowId, &points)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return decimal.Zero, store.ErrRecordNotFound
		}
		return decimal.Zero, fmt.Errorf("unable to read points for %s: %w", discordId, err)
	}

	current, err := decimal.NewFromString(points)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid points value %q for user %s: %w", points, discordId, err)
	}

	next := current.Add(delta)
	if next.IsNegative() {
		next = decimal.Zero
	}

	if _, err := tx.ExecContext(ctx, queryUpdatePoints, next.String(), rowId); err != nil {
		return decimal.Zero, fmt.Errorf("unable to update points for %s: %w", discordId, err)
	}

	if err := tx.Commit(); err != nil {
		return decimal.Zero, fmt.Errorf("unable to commit points update: %w", err)
	}

	zap.L().Info("Adjusted points",
		zap.String("discord_id", discordId),
		zap.String("delta", delta.String()),
		zap.String("balance", next.String()))
	return next, nil
}
