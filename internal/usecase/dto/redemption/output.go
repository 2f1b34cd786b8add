package redemptiondto

import "github.com/LavaJover/shvark-deal-service/internal/domain"

// RedeemOutput carries either the stored redemption or the reasons it was refused.
type RedeemOutput struct {
	Redemption     *domain.Redemption
	DiscountAmount float64
	FinalAmount    float64
	Reasons        []domain.Reason
}

func (o *RedeemOutput) Succeeded() bool {
	return o.Redemption != nil && len(o.Reasons) == 0
}

type ValidateOutput struct {
	IsValid          bool
	Reasons          []domain.Reason
	ComputedDiscount *ComputedDiscount
	DistanceMeters   *float64
}

type ComputedDiscount struct {
	DiscountAmount float64
	FinalAmount    float64
}
