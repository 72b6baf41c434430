package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"moola-wars-bot/internal/models"
	"moola-wars-bot/internal/store"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(sc rowScanner) (models.LedgerRecord, error) {
	var rec models.LedgerRecord
	var points string
	if err := sc.Scan(&rec.DiscordId, &rec.Address, &points, &rec.Team, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
		return rec, err
	}
	parsed, err := decimal.NewFromString(points)
	if err != nil {
		return rec, fmt.Errorf("invalid points value %q for user %s: %w", points, rec.DiscordId, err)
	}
	rec.Points = parsed
	return rec, nil
}

// buildRecordFilter renders a RecordFilter into a WHERE clause and args.
func buildRecordFilter(filter store.RecordFilter) (string, []any) {
	clauses := []string{"discord_id IS NOT NULL", "discord_id != ''"}
	var args []any

	if filter.AddressNotNull {
		clauses = append(clauses, "address IS NOT NULL", "address != ''")
	}
	if filter.Team != "" {
		clauses = append(clauses, "team = ?")
		args = append(args, filter.Team)
	}
	if len(filter.ExcludeDiscordIds) > 0 {
		placeholders := strings.Repeat("?,", len(filter.ExcludeDiscordIds))
		clauses = append(clauses, fmt.Sprintf("discord_id NOT IN (%s)", placeholders[:len(placeholders)-1]))
		for _, id := range filter.ExcludeDiscordIds {
			args = append(args, id)
		}
	}

	return "WHERE " + strings.Join(clauses, " AND "), args
}

func (s *Service) QueryRecords(ctx context.Context, filter store.RecordFilter, offset, limit int) ([]models.LedgerRecord, int, error) {
	where, args := buildRecordFilter(filter)

	var total int
	countQuery := "SELECT COUNT(*) FROM users " + where
	if err := s.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		zap.L().Error("Failed to count ledger records", zap.Error(err))
		return nil, 0, fmt.Errorf("unable to count ledger records: %w", err)
	}

	pageQuery := fmt.Sprintf(`
		SELECT %s FROM users %s
		ORDER BY CAST(points AS REAL) DESC, discord_id
		LIMIT ? OFFSET ?`, recordColumns, where)
	pageArgs := append(append([]any{}, args...), limit, offset)

	rows, err := s.db.QueryContext(ctx, pageQuery, pageArgs...)
	if err != nil {
		zap.L().Error("Failed to query ledger records", zap.Error(err))
		return nil, 0, fmt.Errorf("unable to query ledger records: %w", err)
	}
	defer func(rows *sql.Rows) {
		if err := rows.Close(); err != nil {
			zap.L().Warn("Failed to close rows", zap.Error(err))
		}
	}(rows)

	var records []models.LedgerRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			zap.L().Error("Failed to scan ledger record", zap.Error(err))
			return nil, 0, fmt.Errorf("unable to scan ledger record: %w", err)
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		zap.L().Error("Error during record iteration", zap.Error(err))
		return nil, 0, fmt.Errorf("error iterating ledger records: %w", err)
	}

	zap.L().Debug("Retrieved ledger records",
		zap.Int("count", len(records)),
		zap.Int("total", total),
		zap.Int("offset", offset))
	return records, total, nil
}

func (s *Service) GetRecord(ctx context.Context, discordId string) (*models.LedgerRecord, error) {
	rec, err := scanRecord(s.db.QueryRowContext(ctx, queryGetRecord, discordId))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		zap.L().Error("Failed to query record", zap.String("discord_id", discordId), zap.Error(err))
		return nil, fmt.Errorf("unable to query record for %s: %w", discordId, err)
	}
	return &rec, nil
}

func (s *Service) FindVerifiedByDiscordId(ctx context.Context, discordId string) (*models.LedgerRecord, error) {
	rec, err := scanRecord(s.db.QueryRowContext(ctx, queryFindVerifiedByDiscordId, discordId))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		zap.L().Error("Failed to query verified record", zap.String("discord_id", discordId), zap.Error(err))
		return nil, fmt.Errorf("unable to query verified record for %s: %w", discordId, err)
	}
	return &rec, nil
}

func (s *Service) InsertRecord(ctx context.Context, discordId, address, team string) (*models.LedgerRecord, error) {
	if discordId == "" {
		return nil, fmt.Errorf("discord id cannot be empty")
	}

	zap.L().Info("Inserting ledger record",
		zap.String("discord_id", discordId),
		zap.String("team", team))

	if _, err := s.db.ExecContext(ctx, queryInsertRecord, discordId, address, team); err != nil {
		zap.L().Error("Failed to insert record", zap.String("discord_id", discordId), zap.Error(err))
		return nil, fmt.Errorf("unable to insert record: %w", err)
	}

	return s.GetRecord(ctx, discordId)
}

// GetTeamRank returns the 1-based points rank of a user within a team.
// Returns (0, nil, nil) when the user has no record on that team.
func (s *Service) GetTeamRank(ctx context.Context, discordId, team string, exclude []string) (int, *models.LedgerRecord, error) {
	rec, err := s.GetRecord(ctx, discordId)
	if err != nil {
		return 0, nil, err
	}
	if rec == nil || rec.Team != team {
		return 0, nil, nil
	}

	filter := store.RecordFilter{Team: team, ExcludeDiscordIds: exclude}
	where, args := buildRecordFilter(filter)
	rankQuery := "SELECT COUNT(*) FROM users " + where + " AND CAST(points AS REAL) > ?"
	pointsFloat, _ := rec.Points.Float64()
	args = append(args, pointsFloat)

	var ahead int
	if err := s.db.QueryRowContext(ctx, rankQuery, args...).Scan(&ahead); err != nil {
		zap.L().Error("Failed to compute team rank", zap.String("discord_id", discordId), zap.Error(err))
		return 0, nil, fmt.Errorf("unable to compute team rank: %w", err)
	}

	return ahead + 1, rec, nil
}
