package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"moola-wars-bot/internal/models"
)

func Load() (*models.Config, error) {
	connMaxLifetime, err := getEnvDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute)
	if err != nil {
		return nil, err
	}

	connMaxIdleTime, err := getEnvDuration("DB_CONN_MAX_IDLE_TIME", 30*time.Second)
	if err != nil {
		return nil, err
	}

	pingTimeout, err := getEnvDuration("DB_PING_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, err
	}

	verifyPollInterval, err := getEnvDuration("LINK_VERIFY_POLL_INTERVAL", 5*time.Second)
	if err != nil {
		return nil, err
	}

	verifyTimeout, err := getEnvDuration("LINK_VERIFY_TIMEOUT", 5*time.Minute)
	if err != nil {
		return nil, err
	}

	ledgerPageDelay, err := getEnvDuration("SNAPSHOT_LEDGER_PAGE_DELAY", time.Second)
	if err != nil {
		return nil, err
	}

	memberBatchDelay, err := getEnvDuration("SNAPSHOT_MEMBER_BATCH_DELAY", time.Second)
	if err != nil {
		return nil, err
	}

	return &models.Config{
		Database: models.DatabaseConfig{
			Path:            getEnvString("DATABASE_PATH", "moola.db"),
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: connMaxLifetime,
			ConnMaxIdleTime: connMaxIdleTime,
			PingTimeout:     pingTimeout,
			CreateDummyRows: getEnvBool("CREATE_DUMMY_ROWS", false),
		},
		Discord: models.DiscordConfig{
			BotToken:           os.Getenv("DISCORD_BOT_TOKEN"),
			GuildId:            os.Getenv("DISCORD_GUILD_ID"),
			RolesFile:          getEnvString("ROLES_FILE", "roles.yaml"),
			LinkBaseURL:        getEnvString("LINK_BASE_URL", ""),
			VerifyPollInterval: verifyPollInterval,
			VerifyTimeout:      verifyTimeout,
		},
		Snapshot: models.SnapshotConfig{
			LedgerPageSize:       getEnvInt("SNAPSHOT_LEDGER_PAGE_SIZE", 1000),
			LedgerPageDelay:      ledgerPageDelay,
			MemberBatchSize:      getEnvInt("SNAPSHOT_MEMBER_BATCH_SIZE", 1000),
			MemberBatchDelay:     memberBatchDelay,
			ReconcileConcurrency: getEnvInt("SNAPSHOT_RECONCILE_CONCURRENCY", 4),
			TempDir:              getEnvString("SNAPSHOT_TEMP_DIR", "temp"),
		},
	}, nil
}

func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	if value := os.Getenv(key); value != "" {
		duration, err := time.ParseDuration(value)
		if err != nil {
			return 0, fmt.Errorf("invalid duration for %s: %q (%w)", key, value, err)
		}
		return duration, nil
	}
	return defaultValue, nil
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
