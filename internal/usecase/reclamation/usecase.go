package reclamation

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/LavaJover/shvark-deal-service/internal/clock"
	"github.com/LavaJover/shvark-deal-service/internal/domain"
	"github.com/LavaJover/shvark-deal-service/internal/infrastructure/metrics"
)

const (
	DefaultReclaimAfter = 24 * time.Hour
	DefaultBatchSize    = 5000
	DefaultLeaseTTL     = 10 * time.Minute

	publishTimeout = 5 * time.Second
)

type ReclamationUsecase interface {
	Sweep(ctx context.Context) (*SweepReport, error)
}

type SweepReport struct {
	Scanned     int
	Reclaimed   int
	FailedDeals []string
	// Skipped is set when another replica holds the sweep lease.
	Skipped  bool
	Duration time.Duration
}

type DefaultReclamationUsecase struct {
	Tx             domain.Transactor
	DealRepo       domain.DealRepository
	RedemptionRepo domain.RedemptionRepository
	Lease          domain.Lease
	Clock          clock.Clock
	Publisher      domain.EventPublisher
	Metrics        *metrics.DealMetrics

	ReclaimAfter time.Duration
	BatchSize    int
	LeaseTTL     time.Duration
}

func NewDefaultReclamationUsecase(
	tx domain.Transactor,
	dealRepo domain.DealRepository,
	redemptionRepo domain.RedemptionRepository,
	lease domain.Lease,
	clk clock.Clock,
	eventPublisher domain.EventPublisher,
	dealMetrics *metrics.DealMetrics,
	reclaimAfter time.Duration,
	batchSize int,
	leaseTTL time.Duration,
) *DefaultReclamationUsecase {
	if clk == nil {
		clk = clock.NewSystem()
	}
	if reclaimAfter <= 0 {
		reclaimAfter = DefaultReclaimAfter
	}
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	if leaseTTL <= 0 {
		leaseTTL = DefaultLeaseTTL
	}
	return &DefaultReclamationUsecase{
		Tx:             tx,
		DealRepo:       dealRepo,
		RedemptionRepo: redemptionRepo,
		Lease:          lease,
		Clock:          clk,
		Publisher:      eventPublisher,
		Metrics:        dealMetrics,
		ReclaimAfter:   reclaimAfter,
		BatchSize:      batchSize,
		LeaseTTL:       leaseTTL,
	}
}

// Sweep expires PENDING redemptions older than ReclaimAfter and gives their
// held capacity back to the deals. Each deal is reclaimed in its own
// transaction; a failing deal is logged and skipped for the rest of the sweep.
func (uc *DefaultReclamationUsecase) Sweep(ctx context.Context) (*SweepReport, error) {
	started := time.Now()
	report := &SweepReport{}

	if uc.Lease != nil {
		acquired, err := uc.Lease.TryAcquire(ctx, uc.LeaseTTL)
		if err != nil {
			return nil, fmt.Errorf("sweep lease: %w", err)
		}
		if !acquired {
			slog.Info("reclamation sweep skipped, lease held elsewhere")
			report.Skipped = true
			return report, nil
		}
		defer func() {
			if err := uc.Lease.Release(context.WithoutCancel(ctx)); err != nil {
				slog.Warn("failed to release sweep lease", "error", err.Error())
			}
		}()
	}

	now := uc.Clock.Now()
	cutoff := now.Add(-uc.ReclaimAfter)
	failed := make(map[string]struct{})

	for {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		stale, err := uc.RedemptionRepo.FindStalePending(ctx, cutoff, uc.BatchSize, report.FailedDeals...)
		if err != nil {
			return report, fmt.Errorf("find stale redemptions: %w", err)
		}
		report.Scanned += len(stale)

		reclaimedInBatch, failedInBatch := 0, 0
		for _, group := range groupByDeal(stale) {
			if _, skip := failed[group.dealID]; skip {
				continue
			}
			n, err := uc.reclaimGroup(ctx, group, now)
			if err != nil {
				slog.Error("failed to reclaim deal group", "deal_id", group.dealID, "redemptions", len(group.ids), "error", err.Error())
				failed[group.dealID] = struct{}{}
				report.FailedDeals = append(report.FailedDeals, group.dealID)
				failedInBatch++
				continue
			}
			reclaimedInBatch += n
			if n > 0 {
				uc.publishReclaimed(ctx, group.dealID, n, now)
			}
		}
		report.Reclaimed += reclaimedInBatch

		// Failed deals are excluded from the next scan, so a batch that only
		// failed still moves the sweep forward.
		if len(stale) < uc.BatchSize || (reclaimedInBatch == 0 && failedInBatch == 0) {
			break
		}
	}

	report.Duration = time.Since(started)
	if uc.Metrics != nil {
		uc.Metrics.RecordSweep(report.Reclaimed, len(report.FailedDeals), report.Duration.Seconds())
	}
	slog.Info("reclamation sweep finished",
		"scanned", report.Scanned,
		"reclaimed", report.Reclaimed,
		"failed_deals", len(report.FailedDeals),
		"duration", report.Duration,
	)
	return report, nil
}

// reclaimGroup expires the group's rows that are still PENDING and restores
// exactly that many uses to the deal.
func (uc *DefaultReclamationUsecase) reclaimGroup(ctx context.Context, group dealGroup, now time.Time) (int, error) {
	var reclaimed int
	err := uc.Tx.WithTx(ctx, func(ctx context.Context) error {
		n, err := uc.RedemptionRepo.ExpireRedemptions(ctx, group.ids, now)
		if err != nil {
			return err
		}
		if n == 0 {
			return nil
		}
		if err := uc.DealRepo.RestoreUses(ctx, group.dealID, n, now); err != nil {
			return err
		}
		reclaimed = n
		return nil
	})
	if err != nil {
		return 0, err
	}
	return reclaimed, nil
}

type dealGroup struct {
	dealID string
	ids    []string
}

// groupByDeal orders groups by deal id so concurrent sweeps lock deals in the
// same order.
func groupByDeal(redemptions []*domain.Redemption) []dealGroup {
	byDeal := make(map[string][]string)
	for _, r := range redemptions {
		byDeal[r.DealID] = append(byDeal[r.DealID], r.ID)
	}

	groups := make([]dealGroup, 0, len(byDeal))
	for dealID, ids := range byDeal {
		groups = append(groups, dealGroup{dealID: dealID, ids: ids})
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].dealID < groups[j].dealID })
	return groups
}

func (uc *DefaultReclamationUsecase) publishReclaimed(ctx context.Context, dealID string, n int, at time.Time) {
	if uc.Publisher == nil {
		return
	}
	go func(event domain.RedemptionEvent) {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
		defer cancel()
		if err := uc.Publisher.PublishRedemptionEvent(ctx, event); err != nil {
			slog.Error("failed to publish reclaim event", "deal_id", event.DealID, "error", err.Error())
		}
	}(domain.RedemptionEvent{
		Type:       domain.RedemptionReclaimed,
		DealID:     dealID,
		Reclaimed:  n,
		OccurredAt: at,
	})
}
