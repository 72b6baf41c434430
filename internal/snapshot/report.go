package snapshot

import (
	"strings"

	"moola-wars-bot/internal/models"
)

// reportHeader returns the fixed CSV header line. Field values are opaque
// IDs, wallet addresses, decimal numbers, and Y/N flags — none can
// contain a comma, so no quoting or escaping is applied anywhere.
func reportHeader(includeDiscordIds bool) string {
	columns := make([]string, 0, models.NumBadgeKinds+3)
	if includeDiscordIds {
		columns = append(columns, "discord_id")
	}
	columns = append(columns, "address", "points")
	for _, kind := range models.AllBadgeKinds {
		columns = append(columns, kind.Column())
	}
	return strings.Join(columns, ",")
}

func formatRow(row models.ClassifiedRow, includeDiscordIds bool) string {
	fields := make([]string, 0, models.NumBadgeKinds+3)
	if includeDiscordIds {
		fields = append(fields, row.DiscordId)
	}
	fields = append(fields, row.Address, row.Points.String())
	for _, kind := range models.AllBadgeKinds {
		fields = append(fields, flag(row.Badges.Has(kind)))
	}
	return strings.Join(fields, ",")
}

func flag(set bool) string {
	if set {
		return "Y"
	}
	return "N"
}

// buildReport renders the final row set as header + one line per row,
// newline-separated, no trailing newline.
func buildReport(rows []models.ClassifiedRow, includeDiscordIds bool) string {
	var b strings.Builder
	b.WriteString(reportHeader(includeDiscordIds))
	for _, row := range rows {
		b.WriteByte('\n')
		b.WriteString(formatRow(row, includeDiscordIds))
	}
	return b.String()
}
