package redemption

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"github.com/LavaJover/shvark-deal-service/internal/domain"
	redemptiondto "github.com/LavaJover/shvark-deal-service/internal/usecase/dto/redemption"
)

func validateInput(input *redemptiondto.RedeemInput) error {
	if input == nil || strings.TrimSpace(input.DealID) == "" || strings.TrimSpace(input.CustomerID) == "" {
		return domain.ErrInvalidRedeemRequest
	}
	if math.IsNaN(input.OrderAmount) || math.IsInf(input.OrderAmount, 0) || input.OrderAmount <= 0 {
		return domain.ErrInvalidOrderAmount
	}
	if loc := input.Location; loc != nil {
		if loc.Latitude < -90 || loc.Latitude > 90 || loc.Longitude < -180 || loc.Longitude > 180 {
			return domain.ErrInvalidRedeemRequest
		}
	}
	return nil
}

// loadAndEvaluate reads everything the evaluator needs and runs it. With
// forUpdate the deal row stays locked until the caller's transaction ends.
// countStatuses selects which of the customer's redemptions count towards the
// per-user limit.
func (uc *DefaultRedemptionUsecase) loadAndEvaluate(
	ctx context.Context,
	input *redemptiondto.RedeemInput,
	now time.Time,
	forUpdate bool,
	countStatuses ...domain.RedemptionStatus,
) (Evaluation, *domain.Deal, error) {
	getDeal := uc.DealRepo.GetDealByID
	if forUpdate {
		getDeal = uc.DealRepo.GetDealByIDForUpdate
	}

	deal, err := getDeal(ctx, input.DealID)
	if err != nil && !errors.Is(err, domain.ErrDealNotFound) {
		return Evaluation{}, nil, err
	}

	evalInput := EvaluationInput{
		Deal:        deal,
		Code:        input.Code,
		OrderAmount: input.OrderAmount,
		Now:         now,
	}
	if input.Location != nil {
		evalInput.Location = &domain.GeoPoint{Latitude: input.Location.Latitude, Longitude: input.Location.Longitude}
	}

	if deal != nil {
		restaurant, err := uc.RestaurantRepo.GetRestaurantByID(ctx, deal.RestaurantID)
		switch {
		case errors.Is(err, domain.ErrRestaurantNotFound):
			// No projection yet: no coordinates, so no geofence.
		case err != nil:
			return Evaluation{}, nil, err
		default:
			evalInput.Restaurant = restaurant
		}

		count, err := uc.RedemptionRepo.CountCustomerRedemptions(ctx, deal.ID, input.CustomerID, countStatuses...)
		if err != nil {
			return Evaluation{}, nil, err
		}
		evalInput.CustomerRedemptions = count
	}

	return uc.Evaluator.Evaluate(evalInput), deal, nil
}

func (uc *DefaultRedemptionUsecase) Validate(ctx context.Context, input *redemptiondto.RedeemInput) (*redemptiondto.ValidateOutput, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	eval, _, err := uc.loadAndEvaluate(ctx, input, uc.Clock.Now(), false, domain.RedemptionCompleted)
	if err != nil {
		return nil, uc.internal("validate", err)
	}
	uc.recordAttempt(opValidate, eval)

	out := &redemptiondto.ValidateOutput{
		IsValid:        eval.Valid,
		Reasons:        eval.Reasons,
		DistanceMeters: eval.DistanceMeters,
	}
	if eval.Valid {
		out.ComputedDiscount = &redemptiondto.ComputedDiscount{
			DiscountAmount: eval.DiscountAmount,
			FinalAmount:    eval.FinalAmount,
		}
	}
	return out, nil
}
