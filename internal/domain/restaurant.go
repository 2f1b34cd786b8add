package domain

import (
	"context"
	"time"
)

type SubscriptionTier string

const (
	TierStarter SubscriptionTier = "STARTER"
	TierGrowth  SubscriptionTier = "GROWTH"
)

// Restaurant is a local projection of the merchant record. The engine never
// writes it except when syncing from restaurant events.
type Restaurant struct {
	ID               string
	SubscriptionTier SubscriptionTier
	Latitude         *float64
	Longitude        *float64
	UpdatedAt        time.Time
}

func (r *Restaurant) Location() (GeoPoint, bool) {
	if r == nil || r.Latitude == nil || r.Longitude == nil {
		return GeoPoint{}, false
	}
	return GeoPoint{Latitude: *r.Latitude, Longitude: *r.Longitude}, true
}

// TierLimits maps a subscription tier to the maximum number of concurrently
// active deals. Tiers missing from the table are unlimited.
type TierLimits map[SubscriptionTier]int

func DefaultTierLimits() TierLimits {
	return TierLimits{
		TierStarter: 1,
		TierGrowth:  3,
	}
}

func (t TierLimits) Limit(tier SubscriptionTier) (int, bool) {
	limit, ok := t[tier]
	return limit, ok
}

type RestaurantRepository interface {
	GetRestaurantByID(ctx context.Context, restaurantID string) (*Restaurant, error)
	// GetRestaurantByIDForUpdate locks the restaurant row, serialising quota
	// checks for the same restaurant.
	GetRestaurantByIDForUpdate(ctx context.Context, restaurantID string) (*Restaurant, error)
	UpsertRestaurant(ctx context.Context, restaurant *Restaurant) error
}
