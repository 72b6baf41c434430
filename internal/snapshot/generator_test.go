package snapshot

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"moola-wars-bot/internal/models"
	"moola-wars-bot/internal/roster"
	"moola-wars-bot/internal/store"

	"github.com/shopspring/decimal"
)

// fakeStore serves canned ledger pages and reconciliation lookups.
type fakeStore struct {
	mu       sync.Mutex
	records  []models.LedgerRecord
	verified map[string]models.LedgerRecord
	lookupBy map[string]int // reconciliation lookup counts
	fail     error          // forces FindVerifiedByDiscordId to fail
}

func newFakeStore(records ...models.LedgerRecord) *fakeStore {
	return &fakeStore{
		records:  records,
		verified: make(map[string]models.LedgerRecord),
		lookupBy: make(map[string]int),
	}
}

func (f *fakeStore) QueryRecords(_ context.Context, filter store.RecordFilter, offset, limit int) ([]models.LedgerRecord, int, error) {
	var matched []models.LedgerRecord
	for _, rec := range f.records {
		if filter.AddressNotNull && !rec.HasAddress() {
			continue
		}
		matched = append(matched, rec)
	}

	if offset >= len(matched) {
		return nil, len(matched), nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], len(matched), nil
}

func (f *fakeStore) GetRecord(_ context.Context, discordId string) (*models.LedgerRecord, error) {
	return nil, nil
}

func (f *fakeStore) FindVerifiedByDiscordId(_ context.Context, discordId string) (*models.LedgerRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lookupBy[discordId]++
	if f.fail != nil {
		return nil, f.fail
	}
	if rec, ok := f.verified[discordId]; ok {
		return &rec, nil
	}
	return nil, nil
}

func (f *fakeStore) InsertRecord(_ context.Context, discordId, address, team string) (*models.LedgerRecord, error) {
	return nil, nil
}

func (f *fakeStore) AdjustPoints(_ context.Context, discordId string, delta decimal.Decimal) (decimal.Decimal, error) {
	return decimal.Zero, nil
}

func (f *fakeStore) GetTeamRank(_ context.Context, discordId, team string, exclude []string) (int, *models.LedgerRecord, error) {
	return 0, nil, nil
}

func (f *fakeStore) CreateLinkToken(_ context.Context, token, discordId string) error {
	return nil
}

func (f *fakeStore) Close() {}

func (f *fakeStore) lookups(discordId string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lookupBy[discordId]
}

func testBadgeRoles() models.BadgeRoles {
	var b models.BadgeRoles
	for _, kind := range models.AllBadgeKinds {
		b[kind] = "role-" + kind.String()
	}
	return b
}

func identity(discordId string, badgeRoles ...string) models.Identity {
	roleIds := make(map[string]struct{}, len(badgeRoles))
	for _, r := range badgeRoles {
		roleIds[r] = struct{}{}
	}
	return models.Identity{
		DiscordId:   discordId,
		DisplayName: discordId,
		RoleIds:     roleIds,
	}
}

func testGenerator(t *testing.T, st *fakeStore, identities ...models.Identity) (*Generator, *roster.Roster) {
	t.Helper()
	gen := NewGenerator(st, nil, testBadgeRoles(), models.SnapshotConfig{
		LedgerPageSize:       2, // small pages exercise pagination
		ReconcileConcurrency: 2,
	})
	return gen, roster.New(identities)
}

func reportLines(t *testing.T, report string) []string {
	t.Helper()
	lines := strings.Split(report, "\n")
	if len(lines) == 0 {
		t.Fatal("Report has no header")
	}
	return lines[1:]
}

func findLine(lines []string, discordId string) string {
	for _, line := range lines {
		if strings.HasPrefix(line, discordId+",") {
			return line
		}
	}
	return ""
}

func TestGenerate_ClassifiesVerifiedMembers(t *testing.T) {
	st := newFakeStore(
		record("user1", "0xaaa", 100),
		record("user2", "0xbbb", 50),
		record("ghost", "0xccc", 10), // not in roster
	)
	gen, ros := testGenerator(t, st,
		identity("user1", "role-wl", "role-ml_winner"),
		identity("user2", "role-free_mint"),
		identity("lurker"), // no badges, no wallet
	)

	result, err := gen.Generate(context.Background(), "guild1", ros, true)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	lines := reportLines(t, result.Report)
	if len(lines) != 2 {
		t.Fatalf("Expected 2 rows, got %d: %q", len(lines), result.Report)
	}

	if got := findLine(lines, "user1"); got != "user1,0xaaa,100,Y,N,N,Y,N,N" {
		t.Errorf("user1 row mismatch: %s", got)
	}
	if got := findLine(lines, "user2"); got != "user2,0xbbb,50,N,N,N,N,Y,N" {
		t.Errorf("user2 row mismatch: %s", got)
	}

	if result.Stats.TotalProcessed != 2 {
		t.Errorf("Expected 2 processed, got %d", result.Stats.TotalProcessed)
	}
	if result.Stats.Totals[models.BadgeWL] != 1 {
		t.Errorf("Expected 1 wl holder, got %d", result.Stats.Totals[models.BadgeWL])
	}
	if result.Stats.Totals[models.BadgeMLWinner] != 1 {
		t.Errorf("Expected 1 ml_winner holder, got %d", result.Stats.Totals[models.BadgeMLWinner])
	}
}

func TestGenerate_SkipsBadgelessVerifiedMembers(t *testing.T) {
	st := newFakeStore(record("user1", "0xaaa", 100))
	gen, ros := testGenerator(t, st, identity("user1")) // no badge roles

	result, err := gen.Generate(context.Background(), "guild1", ros, true)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if lines := reportLines(t, result.Report); len(lines) != 0 {
		t.Errorf("Expected no rows for badge-less member, got %q", lines)
	}
	if result.Stats.TotalProcessed != 0 {
		t.Errorf("Expected 0 processed, got %d", result.Stats.TotalProcessed)
	}
}

func TestGenerate_EmitsNoWalletPlaceholder(t *testing.T) {
	st := newFakeStore() // empty ledger
	gen, ros := testGenerator(t, st, identity("orphan", "role-wl", "role-wl_winner"))

	result, err := gen.Generate(context.Background(), "guild1", ros, true)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	lines := reportLines(t, result.Report)
	if got := findLine(lines, "orphan"); got != "orphan,NO_WALLET,0,Y,Y,N,N,N,N" {
		t.Errorf("Placeholder row mismatch: %s", got)
	}

	if result.Stats.NoWallet[models.BadgeWL] != 1 {
		t.Errorf("Expected 1 wl no-wallet, got %d", result.Stats.NoWallet[models.BadgeWL])
	}
	if result.Stats.Totals[models.BadgeWL] != 0 {
		t.Errorf("Expected 0 wl totals, got %d", result.Stats.Totals[models.BadgeWL])
	}
	if st.lookups("orphan") != 1 {
		t.Errorf("Expected one reconciliation lookup, got %d", st.lookups("orphan"))
	}
}

func TestGenerate_ReconciliationUpgradesPlaceholder(t *testing.T) {
	// The bulk read misses the user but a fresh lookup finds a linked row:
	// the placeholder is upgraded in place with the found address/points.
	st := newFakeStore()
	st.verified["orphan"] = record("orphan", "0xlate", 77)
	gen, ros := testGenerator(t, st, identity("orphan", "role-ml"))

	result, err := gen.Generate(context.Background(), "guild1", ros, true)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	lines := reportLines(t, result.Report)
	if got := findLine(lines, "orphan"); got != "orphan,0xlate,77,N,N,Y,N,N,N" {
		t.Errorf("Upgraded row mismatch: %s", got)
	}

	// Counters were frozen before the pass; the upgrade must not move them.
	if result.Stats.NoWallet[models.BadgeML] != 1 {
		t.Errorf("Expected no-wallet counter unchanged, got %d", result.Stats.NoWallet[models.BadgeML])
	}
	if result.Stats.Totals[models.BadgeML] != 0 {
		t.Errorf("Expected totals counter unchanged, got %d", result.Stats.Totals[models.BadgeML])
	}
}

func TestGenerate_ReconciliationKeepsPlaceholderOnFailure(t *testing.T) {
	st := newFakeStore()
	st.verified["orphan"] = record("orphan", "0xlate", 77)
	st.fail = errors.New("store unavailable")
	gen, ros := testGenerator(t, st, identity("orphan", "role-ml"))

	result, err := gen.Generate(context.Background(), "guild1", ros, true)
	if err != nil {
		t.Fatalf("Generate should absorb lookup failures, got: %v", err)
	}

	lines := reportLines(t, result.Report)
	if got := findLine(lines, "orphan"); !strings.Contains(got, models.NoWallet) {
		t.Errorf("Expected placeholder kept on lookup failure, got %s", got)
	}
}

func TestGenerate_ReconciliationPreservesRowCountAndOrder(t *testing.T) {
	st := newFakeStore(record("user1", "0xaaa", 100))
	st.verified["orphan2"] = record("orphan2", "0xbbb", 5)
	gen, ros := testGenerator(t, st,
		identity("user1", "role-wl"),
		identity("orphan1", "role-wl"),
		identity("orphan2", "role-wl"),
	)

	result, err := gen.Generate(context.Background(), "guild1", ros, true)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	lines := reportLines(t, result.Report)
	if len(lines) != 3 {
		t.Fatalf("Expected 3 rows, got %d", len(lines))
	}

	// Verified rows first in ledger order, then orphans in roster order;
	// the upgraded orphan keeps its original slot.
	wantOrder := []string{"user1", "orphan1", "orphan2"}
	for i, id := range wantOrder {
		if !strings.HasPrefix(lines[i], id+",") {
			t.Errorf("Position %d: expected %s, got %s", i, id, lines[i])
		}
	}
	if !strings.Contains(lines[2], "0xbbb") {
		t.Errorf("Expected orphan2 upgraded in place, got %s", lines[2])
	}
}

func TestGenerate_DeduplicatesLedgerRows(t *testing.T) {
	st := newFakeStore(
		record("user1", "0xlow", 10),
		record("user1", "0xhigh", 90),
	)
	gen, ros := testGenerator(t, st, identity("user1", "role-free_mint_winner"))

	result, err := gen.Generate(context.Background(), "guild1", ros, true)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	lines := reportLines(t, result.Report)
	if len(lines) != 1 {
		t.Fatalf("Expected 1 row after dedup, got %d", len(lines))
	}
	if got := findLine(lines, "user1"); got != "user1,0xhigh,90,N,N,N,N,N,Y" {
		t.Errorf("Dedup winner mismatch: %s", got)
	}
}

func TestGenerate_PaginatesLedgerFetch(t *testing.T) {
	// Five linked records against a page size of two forces three pages.
	st := newFakeStore(
		record("u1", "0x1", 1),
		record("u2", "0x2", 2),
		record("u3", "0x3", 3),
		record("u4", "0x4", 4),
		record("u5", "0x5", 5),
	)
	gen, ros := testGenerator(t, st,
		identity("u1", "role-wl"),
		identity("u2", "role-wl"),
		identity("u3", "role-wl"),
		identity("u4", "role-wl"),
		identity("u5", "role-wl"),
	)

	result, err := gen.Generate(context.Background(), "guild1", ros, true)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if result.Stats.TotalProcessed != 5 {
		t.Errorf("Expected all 5 records classified, got %d", result.Stats.TotalProcessed)
	}
}

func TestGenerate_WithoutDiscordIds(t *testing.T) {
	st := newFakeStore(record("user1", "0xaaa", 100))
	gen, ros := testGenerator(t, st, identity("user1", "role-wl"))

	result, err := gen.Generate(context.Background(), "guild1", ros, false)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if strings.Contains(result.Report, "user1") {
		t.Errorf("Report should not contain discord ids: %q", result.Report)
	}
	if !strings.Contains(result.Report, "0xaaa") {
		t.Errorf("Report should still contain the address: %q", result.Report)
	}
}
