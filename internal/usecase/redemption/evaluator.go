package redemption

import (
	"fmt"
	"time"

	"github.com/LavaJover/shvark-deal-service/internal/domain"
	"github.com/shopspring/decimal"
)

const DefaultGeofenceRadiusMeters = 100.0

var (
	hundred = decimal.NewFromInt(100)
	half    = decimal.NewFromFloat(0.5)
)

// EvaluationInput is everything the evaluator looks at. Deal is nil when no
// deal with the requested id exists.
type EvaluationInput struct {
	Deal                *domain.Deal
	Restaurant          *domain.Restaurant
	Code                string
	CustomerRedemptions int
	OrderAmount         float64
	Location            *domain.GeoPoint
	Now                 time.Time
}

type Evaluation struct {
	Valid            bool
	Reasons          []domain.Reason
	DiscountAmount   float64
	FinalAmount      float64
	DistanceMeters   *float64
	LocationVerified bool
}

// Evaluator decides whether a redemption is allowed and what it costs. It
// never touches storage, so Validate and Redeem share it unchanged.
type Evaluator struct {
	GeofenceRadiusMeters float64
}

func NewEvaluator(geofenceRadiusMeters float64) *Evaluator {
	if geofenceRadiusMeters <= 0 {
		geofenceRadiusMeters = DefaultGeofenceRadiusMeters
	}
	return &Evaluator{GeofenceRadiusMeters: geofenceRadiusMeters}
}

func (e *Evaluator) Evaluate(in EvaluationInput) Evaluation {
	var out Evaluation
	deal := in.Deal

	// An empty code is rejected before the deal is looked at, so the answer
	// is the same whether the deal exists or not.
	switch {
	case in.Code == "":
		return reject(out, domain.ReasonInvalidCode, "deal code is required")
	case deal == nil, in.Code != deal.Code:
		return reject(out, domain.ReasonDealNotFound, "deal not found")
	}

	if !deal.IsActive || deal.ApprovalStatus != domain.ApprovalApproved {
		out.Reasons = append(out.Reasons, reason(domain.ReasonDealInactive, "deal is not active"))
	}
	if in.Now.Before(deal.StartsAt) {
		out.Reasons = append(out.Reasons, reason(domain.ReasonDealNotStarted,
			fmt.Sprintf("deal starts at %s", deal.StartsAt.Format(time.RFC3339))))
	}
	if !in.Now.Before(deal.ExpiresAt) {
		out.Reasons = append(out.Reasons, reason(domain.ReasonDealExpired,
			fmt.Sprintf("deal expired at %s", deal.ExpiresAt.Format(time.RFC3339))))
	}
	if deal.RemainingUses <= 0 {
		out.Reasons = append(out.Reasons, reason(domain.ReasonDealExhausted, "deal has no remaining uses"))
	}
	if in.CustomerRedemptions >= deal.PerUserLimit {
		out.Reasons = append(out.Reasons, reason(domain.ReasonUserLimitExceeded,
			fmt.Sprintf("customer already redeemed this deal %d time(s), limit is %d", in.CustomerRedemptions, deal.PerUserLimit)))
	}
	if in.OrderAmount < deal.MinOrderAmount {
		out.Reasons = append(out.Reasons, reason(domain.ReasonMinimumOrderNotMet,
			fmt.Sprintf("minimum order amount is %.2f", deal.MinOrderAmount)))
	}

	out.LocationVerified = true
	if restaurantPoint, ok := in.Restaurant.Location(); ok && in.Location != nil {
		distance := domain.DistanceMeters(*in.Location, restaurantPoint)
		out.DistanceMeters = &distance
		if distance > e.GeofenceRadiusMeters {
			out.LocationVerified = false
			out.Reasons = append(out.Reasons, reason(domain.ReasonLocationNotVerified,
				fmt.Sprintf("customer is %.0fm from the restaurant, must be within %.0fm", distance, e.GeofenceRadiusMeters)))
		}
	}

	if len(out.Reasons) > 0 {
		return out
	}

	out.Valid = true
	out.DiscountAmount, out.FinalAmount = ComputeDiscount(deal.DiscountType, deal.DiscountValue, in.OrderAmount)
	return out
}

// ComputeDiscount returns the discount and the amount left to pay, both
// rounded half away from zero to cents and kept within [0, orderAmount].
func ComputeDiscount(discountType domain.DiscountType, value, orderAmount float64) (float64, float64) {
	order := decimal.NewFromFloat(orderAmount)
	if !order.IsPositive() {
		return 0, 0
	}

	var discount decimal.Decimal
	switch discountType {
	case domain.DiscountPercentage:
		discount = order.Mul(decimal.NewFromFloat(value)).Div(hundred)
	case domain.DiscountFixed:
		discount = decimal.Min(decimal.NewFromFloat(value), order)
	case domain.DiscountBuyOneGetOne:
		discount = order.Mul(half)
	default:
		discount = decimal.Zero
	}

	discount = clamp(discount.Round(2), order)
	final := clamp(order.Sub(discount).Round(2), order)
	return discount.InexactFloat64(), final.InexactFloat64()
}

func clamp(v, upper decimal.Decimal) decimal.Decimal {
	if v.IsNegative() {
		return decimal.Zero
	}
	if v.GreaterThan(upper) {
		return upper
	}
	return v
}

func reject(out Evaluation, code domain.ReasonCode, message string) Evaluation {
	out.Reasons = append(out.Reasons, reason(code, message))
	return out
}

func reason(code domain.ReasonCode, message string) domain.Reason {
	return domain.Reason{Code: code, Message: message}
}
