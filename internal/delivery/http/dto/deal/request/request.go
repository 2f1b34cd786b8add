package request

import "time"

type CreateDealRequest struct {
	RestaurantID   string     `json:"restaurant_id" validate:"required,max=64"`
	Code           string     `json:"code" validate:"omitempty,max=32"`
	Title          string     `json:"title" validate:"required,max=255"`
	Description    string     `json:"description" validate:"max=2000"`
	DiscountType   string     `json:"discount_type" validate:"required,oneof=PERCENTAGE FIXED BUY_ONE_GET_ONE"`
	DiscountValue  float64    `json:"discount_value" validate:"gte=0"`
	MinOrderAmount float64    `json:"min_order_amount" validate:"gte=0"`
	MaxUses        int        `json:"max_uses" validate:"required,gt=0"`
	PerUserLimit   int        `json:"per_user_limit" validate:"omitempty,gt=0"`
	StartsAt       *time.Time `json:"starts_at"`
	ExpiresAt      *time.Time `json:"expires_at" validate:"required"`
}

// RedeemRequest is shared by redeem, validate and reservation calls. An empty
// code is not a request error; it is reported as INVALID_CODE.
type RedeemRequest struct {
	Code        string           `json:"code" validate:"max=64"`
	CustomerID  string           `json:"customer_id" validate:"required,max=64"`
	OrderAmount float64          `json:"order_amount" validate:"gt=0"`
	Location    *LocationRequest `json:"location"`
}

type LocationRequest struct {
	Latitude  float64 `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude float64 `json:"longitude" validate:"gte=-180,lte=180"`
}
