package models

import "time"

// Config represents the application configuration
type Config struct {
	Database DatabaseConfig
	Discord  DiscordConfig
	Snapshot SnapshotConfig
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Path            string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	PingTimeout     time.Duration
	CreateDummyRows bool
}

// DiscordConfig holds gateway and linking-flow settings
type DiscordConfig struct {
	BotToken           string
	GuildId            string
	RolesFile          string
	LinkBaseURL        string
	VerifyPollInterval time.Duration
	VerifyTimeout      time.Duration
}

// SnapshotConfig holds snapshot engine tunables. The delays are
// rate-limit courtesy toward the external sources, not correctness
// requirements.
type SnapshotConfig struct {
	LedgerPageSize       int
	LedgerPageDelay      time.Duration
	MemberBatchSize      int
	MemberBatchDelay     time.Duration
	ReconcileConcurrency int
	TempDir              string
}
