package snapshot

import "moola-wars-bot/internal/models"

// pendingRow marks one NO_WALLET placeholder awaiting reverse
// reconciliation. The row index is fixed at append time so concurrent
// reconciliation lookups always target the original slot.
type pendingRow struct {
	rowIndex  int
	discordId string
}

// runState is the in-progress state of one snapshot run: the ordered row
// arena, the discord-id to row-slot index, the processed set, and the
// aggregate counters. Process-local only; discarded after assembly.
type runState struct {
	rows      []models.ClassifiedRow
	rowIndex  map[string]int
	processed map[string]struct{}
	pending   []pendingRow
	stats     models.SnapshotStats
}

func newRunState() *runState {
	return &runState{
		rowIndex:  make(map[string]int),
		processed: make(map[string]struct{}),
	}
}

// appendRow adds a row to the arena and returns its fixed slot index.
func (st *runState) appendRow(row models.ClassifiedRow) int {
	index := len(st.rows)
	st.rows = append(st.rows, row)
	st.rowIndex[row.DiscordId] = index
	return index
}

// overwriteRow replaces the row at a fixed slot in place. This is the
// only mutation path in the pipeline; it preserves row count and order.
func (st *runState) overwriteRow(index int, row models.ClassifiedRow) {
	st.rows[index] = row
}

func (st *runState) markProcessed(discordId string) {
	st.processed[discordId] = struct{}{}
}

func (st *runState) isProcessed(discordId string) bool {
	_, ok := st.processed[discordId]
	return ok
}
