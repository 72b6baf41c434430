package database

const (
	recordColumns = `discord_id, COALESCE(address, ''), points, COALESCE(team, ''), created_at, updated_at`

	// Record queries
	queryGetRecord = `
		SELECT ` + recordColumns + `
		FROM users
		WHERE discord_id = ?
		ORDER BY (address IS NOT NULL AND address != '') DESC, CAST(points AS REAL) DESC
		LIMIT 1`

	queryFindVerifiedByDiscordId = `
		SELECT ` + recordColumns + `
		FROM users
		WHERE discord_id = ? AND address IS NOT NULL AND address != ''
		ORDER BY CAST(points AS REAL) DESC
		LIMIT 1`

	queryInsertRecord = `
		INSERT INTO users (discord_id, address, team)
		VALUES (?, NULLIF(?, ''), NULLIF(?, ''))`

	queryGetPointsForUpdate = `
		SELECT rowid, points
		FROM users
		WHERE discord_id = ?
		ORDER BY (address IS NOT NULL AND address != '') DESC, CAST(points AS REAL) DESC
		LIMIT 1`

	queryUpdatePoints = `
		UPDATE users
		SET points = ?, updated_at = CURRENT_TIMESTAMP
		WHERE rowid = ?`

	// Token queries
	queryInsertToken = `
		INSERT OR IGNORE INTO tokens (token, discord_id, used) VALUES (?, ?, 0)`
)
