package database

import (
	"context"
	"database/sql"
	"fmt"

	"moola-wars-bot/internal/models"
	"moola-wars-bot/internal/store"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

// Compile-time check: *Service must satisfy store.LedgerStore.
var _ store.LedgerStore = (*Service)(nil)

type Service struct {
	db *sql.DB
}

func NewService(ctx context.Context, cfg models.DatabaseConfig) (*Service, error) {
	// Validate configuration
	if cfg.Path == "" {
		return nil, fmt.Errorf("database path cannot be empty")
	}
	if cfg.MaxOpenConns <= 0 {
		return nil, fmt.Errorf("max open connections must be positive, got %d", cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns < 0 {
		return nil, fmt.Errorf("max idle connections cannot be negative, got %d", cfg.MaxIdleConns)
	}
	if cfg.PingTimeout <= 0 {
		return nil, fmt.Errorf("ping timeout must be positive, got %v", cfg.PingTimeout)
	}

	zap.L().Info("Opening SQLite database", zap.String("file", cfg.Path))
	db, err := sql.Open("sqlite3", cfg.Path+"?_journal_mode=WAL&_synchronous=NORMAL&_cache_size=1000")
	if err != nil {
		return nil, fmt.Errorf("unable to open database: %w", err)
	}

	// Set connection timeouts and limits
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	// Test connection with timeout
	pingCtx, cancel := context.WithTimeout(ctx, cfg.PingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			return nil, closeErr
		}
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	service := &Service{db: db}
	if err := service.initSchema(cfg.CreateDummyRows); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			return nil, closeErr
		}
		return nil, fmt.Errorf("unable to initialize schema: %w", err)
	}

	zap.L().Info("Database service initialized successfully")
	return service, nil
}

func (s *Service) Close() {
	if err := s.db.Close(); err != nil {
		zap.L().Warn("Failed to close database connection", zap.Error(err))
	}
}

func (s *Service) initSchema(createDummyRows bool) error {
	schema := `
	-- Points/wallet ledger. Deliberately no UNIQUE constraint on
	-- discord_id: the linking flow can race and leave duplicate rows;
	-- the snapshot engine deduplicates on read.
	CREATE TABLE IF NOT EXISTS users (
		discord_id TEXT NOT NULL,
		address TEXT,
		points TEXT NOT NULL DEFAULT '0',
		team TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_users_discord_id ON users(discord_id);
	CREATE INDEX IF NOT EXISTS idx_users_address ON users(address);
	CREATE INDEX IF NOT EXISTS idx_users_team ON users(team);

	-- One-time wallet-link tokens handed out by /wankme and /updatewallet.
	CREATE TABLE IF NOT EXISTS tokens (
		token TEXT PRIMARY KEY,
		discord_id TEXT NOT NULL,
		used BOOLEAN NOT NULL DEFAULT 0,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_tokens_discord_id ON tokens(discord_id);
	`

	_, err := s.db.Exec(schema)
	if err != nil {
		return err
	}

	// Insert a few rows for local testing if configured to do so
	if createDummyRows {
		rows := []struct {
			discordId string
			address   string
			team      string
		}{
			{"100000000000000001", "0x1111111111111111111111111111111111111111", models.TeamBullas},
			{"100000000000000002", "0x2222222222222222222222222222222222222222", models.TeamBeras},
			{"100000000000000003", "", models.TeamBullas},
		}

		for _, row := range rows {
			_, err := s.db.Exec(queryInsertRecord, row.discordId, row.address, row.team)
			if err != nil {
				zap.L().Error("Failed to insert dummy row", zap.String("discord_id", row.discordId), zap.Error(err))
			} else {
				zap.L().Info("Dummy row created", zap.String("discord_id", row.discordId))
			}
		}
	} else {
		zap.L().Info("Skipping dummy row creation (CREATE_DUMMY_ROWS=false)")
	}

	return nil
}
