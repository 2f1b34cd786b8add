package redemption

import (
	"context"
	"fmt"
	"time"

	"github.com/LavaJover/shvark-deal-service/internal/domain"
	redemptiondto "github.com/LavaJover/shvark-deal-service/internal/usecase/dto/redemption"
	"github.com/google/uuid"
)

func (uc *DefaultRedemptionUsecase) Redeem(ctx context.Context, input *redemptiondto.RedeemInput) (*redemptiondto.RedeemOutput, error) {
	return uc.place(ctx, input, opRedeem)
}

// Reserve holds one unit of the deal's capacity for the customer and leaves
// the redemption PENDING until it is completed, cancelled or reclaimed.
func (uc *DefaultRedemptionUsecase) Reserve(ctx context.Context, input *redemptiondto.RedeemInput) (*redemptiondto.RedeemOutput, error) {
	return uc.place(ctx, input, opReserve)
}

func (uc *DefaultRedemptionUsecase) place(ctx context.Context, input *redemptiondto.RedeemInput, op string) (*redemptiondto.RedeemOutput, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	started := time.Now()
	defer func() { uc.recordDuration(op, time.Since(started)) }()

	// A pending reservation already takes one of the customer's slots.
	countStatuses := []domain.RedemptionStatus{domain.RedemptionCompleted}
	if op == opReserve {
		countStatuses = append(countStatuses, domain.RedemptionPending)
	}

	now := uc.Clock.Now()
	var (
		out  *redemptiondto.RedeemOutput
		eval Evaluation
		deal *domain.Deal
	)
	err := uc.Tx.WithTx(ctx, func(ctx context.Context) error {
		var err error
		eval, deal, err = uc.loadAndEvaluate(ctx, input, now, true, countStatuses...)
		if err != nil {
			return err
		}
		if !eval.Valid {
			out = &redemptiondto.RedeemOutput{Reasons: eval.Reasons}
			return nil
		}

		var took bool
		if op == opReserve {
			took, err = uc.DealRepo.ReserveUse(ctx, deal.ID, now)
		} else {
			took, err = uc.DealRepo.ConsumeUse(ctx, deal.ID, now)
		}
		if err != nil {
			return err
		}
		if !took {
			eval.Valid = false
			eval.Reasons = []domain.Reason{reason(domain.ReasonDealExhausted, "deal has no remaining uses")}
			out = &redemptiondto.RedeemOutput{Reasons: eval.Reasons}
			return nil
		}

		redemption := uc.newRedemption(input, eval, now, op)
		if err := uc.RedemptionRepo.CreateRedemption(ctx, redemption); err != nil {
			return err
		}

		out = &redemptiondto.RedeemOutput{
			Redemption:     redemption,
			DiscountAmount: eval.DiscountAmount,
			FinalAmount:    eval.FinalAmount,
		}
		return nil
	})
	if err != nil {
		return nil, uc.internal(op, err)
	}

	uc.recordAttempt(op, eval)
	if out.Succeeded() {
		if op == opRedeem {
			uc.recordDiscount(deal.DiscountType, eval.DiscountAmount)
		}
		uc.publishRedemption(ctx, redemptionEvent(eventTypeFor(op), out.Redemption, now))
	}
	return out, nil
}

func (uc *DefaultRedemptionUsecase) newRedemption(input *redemptiondto.RedeemInput, eval Evaluation, now time.Time, op string) *domain.Redemption {
	redemption := &domain.Redemption{
		ID:               uuid.New().String(),
		VerificationCode: uc.newVerificationCode(),
		DealID:           input.DealID,
		CustomerID:       input.CustomerID,
		OrderAmount:      input.OrderAmount,
		DiscountAmount:   eval.DiscountAmount,
		FinalAmount:      eval.FinalAmount,
		Status:           domain.RedemptionPending,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if op == opRedeem {
		redeemedAt := now
		redemption.Status = domain.RedemptionCompleted
		redemption.RedeemedAt = &redeemedAt
	}
	if input.Location != nil {
		redemption.Location = &domain.LocationSnapshot{
			Latitude:       input.Location.Latitude,
			Longitude:      input.Location.Longitude,
			DistanceMeters: eval.DistanceMeters,
			Verified:       eval.LocationVerified,
		}
	}
	return redemption
}

func eventTypeFor(op string) domain.RedemptionEventType {
	if op == opReserve {
		return domain.RedemptionReserved
	}
	return domain.RedemptionRedeemed
}

func redemptionEvent(eventType domain.RedemptionEventType, r *domain.Redemption, at time.Time) domain.RedemptionEvent {
	return domain.RedemptionEvent{
		Type:             eventType,
		RedemptionID:     r.ID,
		DealID:           r.DealID,
		CustomerID:       r.CustomerID,
		VerificationCode: r.VerificationCode,
		OrderAmount:      r.OrderAmount,
		DiscountAmount:   r.DiscountAmount,
		FinalAmount:      r.FinalAmount,
		OccurredAt:       at,
	}
}

func (uc *DefaultRedemptionUsecase) GetRedemption(ctx context.Context, redemptionID string) (*domain.Redemption, error) {
	redemption, err := uc.RedemptionRepo.GetRedemptionByID(ctx, redemptionID)
	if err != nil {
		if isBusinessError(err) {
			return nil, err
		}
		return nil, uc.internal("get_redemption", fmt.Errorf("get redemption %s: %w", redemptionID, err))
	}
	return redemption, nil
}
