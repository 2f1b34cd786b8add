package redemption

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/LavaJover/shvark-deal-service/internal/domain"
)

const (
	opRedeem   = "redeem"
	opReserve  = "reserve"
	opValidate = "validate"
	opComplete = "complete"
	opCancel   = "cancel"

	outcomeCompleted = "completed"
	outcomeReserved  = "reserved"
	outcomeValid     = "valid"
	outcomeRejected  = "rejected"
	outcomeCancelled = "cancelled"

	publishTimeout = 5 * time.Second
)

func isBusinessError(err error) bool {
	return errors.Is(err, domain.ErrRedemptionNotFound) ||
		errors.Is(err, domain.ErrRedemptionNotPending) ||
		errors.Is(err, domain.ErrReservationExpired)
}

// internal logs the storage failure and hides it from the caller.
func (uc *DefaultRedemptionUsecase) internal(op string, err error) error {
	slog.Error("redemption operation failed", "operation", op, "error", err.Error())
	if uc.Metrics != nil {
		uc.Metrics.RecordError(op)
	}
	return fmt.Errorf("%s: %w", op, domain.ErrInternal)
}

func (uc *DefaultRedemptionUsecase) recordAttempt(op string, eval Evaluation) {
	if uc.Metrics == nil {
		return
	}
	if !eval.Valid {
		codes := make([]string, len(eval.Reasons))
		for i, r := range eval.Reasons {
			codes[i] = string(r.Code)
		}
		uc.Metrics.RecordRedemption(op, outcomeRejected, codes)
		return
	}

	outcome := outcomeCompleted
	switch op {
	case opReserve:
		outcome = outcomeReserved
	case opValidate:
		outcome = outcomeValid
	}
	uc.Metrics.RecordRedemption(op, outcome, nil)
}

func (uc *DefaultRedemptionUsecase) recordOutcome(op, outcome string) {
	if uc.Metrics == nil {
		return
	}
	uc.Metrics.RecordRedemption(op, outcome, nil)
}

func (uc *DefaultRedemptionUsecase) recordDiscount(discountType domain.DiscountType, amount float64) {
	if uc.Metrics == nil {
		return
	}
	uc.Metrics.RecordDiscount(string(discountType), amount)
}

func (uc *DefaultRedemptionUsecase) recordDuration(op string, d time.Duration) {
	if uc.Metrics == nil {
		return
	}
	uc.Metrics.RecordRedeemDuration(op, d.Seconds())
}

// publishRedemption sends the event in the background once the change is
// committed.
func (uc *DefaultRedemptionUsecase) publishRedemption(ctx context.Context, event domain.RedemptionEvent) {
	if uc.Publisher == nil {
		return
	}
	go func(event domain.RedemptionEvent) {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
		defer cancel()
		if err := uc.Publisher.PublishRedemptionEvent(ctx, event); err != nil {
			slog.Error("failed to publish redemption event", "type", event.Type, "redemption_id", event.RedemptionID, "error", err.Error())
		}
	}(event)
}
