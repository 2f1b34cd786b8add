package redemption

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/LavaJover/shvark-deal-service/internal/domain"
)

// CompleteReservation turns a PENDING redemption into a COMPLETED one. A
// reservation older than ReclaimAfter belongs to the sweeper and is refused.
func (uc *DefaultRedemptionUsecase) CompleteReservation(ctx context.Context, redemptionID string) (*domain.Redemption, error) {
	now := uc.Clock.Now()
	var redemption *domain.Redemption

	err := uc.Tx.WithTx(ctx, func(ctx context.Context) error {
		var err error
		redemption, err = uc.lockPending(ctx, redemptionID)
		if err != nil {
			return err
		}
		if !now.Before(redemption.CreatedAt.Add(uc.ReclaimAfter)) {
			return domain.ErrReservationExpired
		}

		if err := uc.transition(ctx, redemption, domain.RedemptionCompleted, now); err != nil {
			return err
		}
		confirmed, err := uc.DealRepo.ConfirmReservedUse(ctx, redemption.DealID, now)
		if err != nil {
			return err
		}
		if !confirmed {
			return uc.counterMismatch(ctx, redemption)
		}

		redeemedAt := now
		redemption.RedeemedAt = &redeemedAt
		return nil
	})
	if err != nil {
		if isBusinessError(err) {
			return nil, err
		}
		if errors.Is(err, domain.ErrCounterMismatch) {
			if uc.Metrics != nil {
				uc.Metrics.RecordError(opComplete)
			}
			return nil, fmt.Errorf("%s: %w", opComplete, domain.ErrCounterMismatch)
		}
		return nil, uc.internal(opComplete, err)
	}

	uc.recordOutcome(opComplete, outcomeCompleted)
	uc.publishRedemption(ctx, redemptionEvent(domain.RedemptionConfirmed, redemption, now))
	return redemption, nil
}

// counterMismatch logs the deal's counters when confirming a reservation finds
// no held use to move into used_count.
func (uc *DefaultRedemptionUsecase) counterMismatch(ctx context.Context, redemption *domain.Redemption) error {
	attrs := []any{"deal_id", redemption.DealID, "redemption_id", redemption.ID}
	if deal, err := uc.DealRepo.GetDealByID(ctx, redemption.DealID); err == nil {
		attrs = append(attrs,
			"max_uses", deal.MaxUses,
			"used_count", deal.UsedCount,
			"remaining_uses", deal.RemainingUses,
			"version", deal.Version,
		)
	} else {
		attrs = append(attrs, "lookup_error", err.Error())
	}
	slog.Error("reserved use missing from deal counters", attrs...)
	return fmt.Errorf("deal %s: %w", redemption.DealID, domain.ErrCounterMismatch)
}

// CancelReservation releases the unit held by a PENDING redemption.
func (uc *DefaultRedemptionUsecase) CancelReservation(ctx context.Context, redemptionID string) (*domain.Redemption, error) {
	now := uc.Clock.Now()
	var redemption *domain.Redemption

	err := uc.Tx.WithTx(ctx, func(ctx context.Context) error {
		var err error
		redemption, err = uc.lockPending(ctx, redemptionID)
		if err != nil {
			return err
		}
		if err := uc.transition(ctx, redemption, domain.RedemptionCancelled, now); err != nil {
			return err
		}
		return uc.DealRepo.RestoreUses(ctx, redemption.DealID, 1, now)
	})
	if err != nil {
		if isBusinessError(err) {
			return nil, err
		}
		return nil, uc.internal(opCancel, err)
	}

	uc.recordOutcome(opCancel, outcomeCancelled)
	uc.publishRedemption(ctx, redemptionEvent(domain.RedemptionCanceled, redemption, now))
	return redemption, nil
}

func (uc *DefaultRedemptionUsecase) lockPending(ctx context.Context, redemptionID string) (*domain.Redemption, error) {
	redemption, err := uc.RedemptionRepo.GetRedemptionByIDForUpdate(ctx, redemptionID)
	if err != nil {
		return nil, err
	}
	if redemption.Status != domain.RedemptionPending {
		return nil, fmt.Errorf("redemption %s is %s: %w", redemption.ID, redemption.Status, domain.ErrRedemptionNotPending)
	}
	return redemption, nil
}

func (uc *DefaultRedemptionUsecase) transition(ctx context.Context, redemption *domain.Redemption, to domain.RedemptionStatus, now time.Time) error {
	moved, err := uc.RedemptionRepo.TransitionStatus(ctx, redemption.ID, redemption.Status, to, now)
	if err != nil {
		return err
	}
	if !moved {
		return fmt.Errorf("redemption %s changed concurrently: %w", redemption.ID, domain.ErrRedemptionNotPending)
	}
	redemption.Status = to
	redemption.UpdatedAt = now
	return nil
}
