package deal

import (
	"context"
	"log/slog"
	"time"

	"github.com/LavaJover/shvark-deal-service/internal/domain"
)

const publishTimeout = 5 * time.Second

func dealEvent(eventType domain.DealEventType, deal *domain.Deal, at time.Time) domain.DealEvent {
	return domain.DealEvent{
		Type:          eventType,
		DealID:        deal.ID,
		RestaurantID:  deal.RestaurantID,
		IsActive:      deal.IsActive,
		RemainingUses: deal.RemainingUses,
		OccurredAt:    at,
	}
}

func (uc *DefaultDealUsecase) publishDeal(ctx context.Context, event domain.DealEvent) {
	if uc.Publisher == nil {
		return
	}
	go func(event domain.DealEvent) {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
		defer cancel()
		if err := uc.Publisher.PublishDealEvent(ctx, event); err != nil {
			slog.Error("failed to publish deal event", "type", event.Type, "deal_id", event.DealID, "error", err.Error())
		}
	}(event)
}

func (uc *DefaultDealUsecase) recordActivation(deal *domain.Deal) {
	if uc.Metrics == nil {
		return
	}
	uc.Metrics.RecordActivation(deal.RestaurantID, deal.IsActive)
}

func (uc *DefaultDealUsecase) recordQuotaRejection(qe *domain.QuotaExceededError) {
	slog.Info("deal activation refused", "tier", qe.Tier, "limit", qe.Limit, "current", qe.CurrentCount)
	if uc.Metrics == nil {
		return
	}
	uc.Metrics.RecordQuotaRejection(string(qe.Tier))
}

func (uc *DefaultDealUsecase) logInternal(op string, err error) {
	slog.Error("deal operation failed", "operation", op, "error", err.Error())
	if uc.Metrics == nil {
		return
	}
	uc.Metrics.RecordError(op)
}
