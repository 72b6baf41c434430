package database

import (
	"context"
	"fmt"

	"moola-wars-bot/internal/store"

	"go.uber.org/zap"
)

// CreateLinkToken stores a one-time wallet-link token for a user.
func (s *Service) CreateLinkToken(ctx context.Context, token, discordId string) error {
	if token == "" || discordId == "" {
		return fmt.Errorf("token and discord id cannot be empty")
	}

	result, err := s.db.ExecContext(ctx, queryInsertToken, token, discordId)
	if err != nil {
		zap.L().Error("Failed to insert link token", zap.String("discord_id", discordId), zap.Error(err))
		return fmt.Errorf("unable to insert link token: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("unable to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return store.ErrDuplicateToken
	}

	zap.L().Info("Link token created", zap.String("discord_id", discordId))
	return nil
}
