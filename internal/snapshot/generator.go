package snapshot

import (
	"context"
	"fmt"

	"moola-wars-bot/internal/common"
	"moola-wars-bot/internal/models"
	"moola-wars-bot/internal/roster"
	"moola-wars-bot/internal/store"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Generator produces membership snapshot reports: it cross-references the
// full guild roster against the points/wallet ledger, deduplicates
// conflicting rows, classifies every member into badge-eligibility
// buckets, repairs no-wallet misclassifications with a reverse-lookup
// pass, and renders the result as a CSV plus aggregate statistics.
type Generator struct {
	store  store.LedgerStore
	source roster.Source
	badges models.BadgeRoles
	cfg    models.SnapshotConfig

	// OnProgress, when set, receives human-readable progress updates
	// during the bulk fetch phases. Surfaces use it for status messages.
	OnProgress func(message string)
}

func NewGenerator(ledger store.LedgerStore, source roster.Source, badges models.BadgeRoles, cfg models.SnapshotConfig) *Generator {
	if cfg.LedgerPageSize <= 0 {
		cfg.LedgerPageSize = 1000
	}
	if cfg.ReconcileConcurrency <= 0 {
		cfg.ReconcileConcurrency = 1
	}
	return &Generator{
		store:  ledger,
		source: source,
		badges: badges,
		cfg:    cfg,
	}
}

// Result is one completed snapshot run.
type Result struct {
	Report string
	Stats  models.SnapshotStats
}

// Generate runs one full snapshot for a guild. When ros is nil the roster
// is fetched from the configured source, concurrently with the ledger
// bulk read; callers that already hold a roster can pass it in.
//
// A bulk read that cannot complete aborts the whole run — no partial
// report is ever returned. Per-item failures degrade into skipped records
// or NO_WALLET placeholders instead.
func (g *Generator) Generate(ctx context.Context, guildId string, ros *roster.Roster, includeDiscordIds bool) (*Result, error) {
	var records []models.LedgerRecord

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		var err error
		records, err = g.fetchAllRecords(groupCtx)
		return err
	})
	if ros == nil {
		group.Go(func() error {
			var err error
			ros, err = g.source.ListAllMembers(groupCtx, guildId)
			return err
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	deduped := DedupRecords(records)
	zap.L().Info("Deduplicated ledger records",
		zap.Int("fetched", len(records)),
		zap.Int("distinct", len(deduped)),
		zap.Int("roster_members", ros.Len()))

	// Stage order matters: classification must fully complete before the
	// orphan scan, and the orphan scan before reconciliation.
	st := newRunState()
	classifyVerified(st, ros, deduped, g.badges)
	detectOrphans(st, ros, g.badges)
	g.reconcileOrphans(ctx, st, ros)

	g.progress(fmt.Sprintf("Assembling report with %d rows...", len(st.rows)))
	report := buildReport(st.rows, includeDiscordIds)

	zap.L().Info("Snapshot complete",
		zap.Int("rows", len(st.rows)),
		zap.Int("processed", st.stats.TotalProcessed))
	return &Result{Report: report, Stats: st.stats}, nil
}

// fetchAllRecords pages through every wallet-linked ledger row, points
// descending, pausing between pages. The first page also yields the total
// match count that drives the loop.
func (g *Generator) fetchAllRecords(ctx context.Context) ([]models.LedgerRecord, error) {
	var all []models.LedgerRecord
	pacer := common.NewPacer(g.cfg.LedgerPageDelay)
	offset := 0

	for {
		if err := pacer.Wait(ctx); err != nil {
			return nil, err
		}

		page, total, err := g.store.QueryRecords(ctx, store.RecordFilter{AddressNotNull: true}, offset, g.cfg.LedgerPageSize)
		if err != nil {
			return nil, fmt.Errorf("unable to fetch ledger page at offset %d: %w", offset, err)
		}

		all = append(all, page...)
		offset += len(page)
		g.progress(fmt.Sprintf("Fetching data... retrieved %d of %d users", len(all), total))

		if len(page) == 0 || offset >= total {
			return all, nil
		}
	}
}

func (g *Generator) progress(message string) {
	if g.OnProgress != nil {
		g.OnProgress(message)
	}
}
