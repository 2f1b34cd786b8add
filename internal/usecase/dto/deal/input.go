package dealdto

import "time"

type CreateDealInput struct {
	RestaurantID string
	// Code is generated when empty.
	Code        string
	Title       string
	Description string
	DiscountParams
	CapacityParams
	StartsAt  time.Time
	ExpiresAt time.Time
}

type DiscountParams struct {
	DiscountType   string
	DiscountValue  float64
	MinOrderAmount float64
}

type CapacityParams struct {
	MaxUses      int
	PerUserLimit int
}
