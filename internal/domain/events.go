package domain

import (
	"context"
	"time"
)

type DealEventType string

const (
	DealActivated   DealEventType = "deal.activated"
	DealDeactivated DealEventType = "deal.deactivated"
	DealCreated     DealEventType = "deal.created"
)

type DealEvent struct {
	Type          DealEventType `json:"type"`
	DealID        string        `json:"deal_id"`
	RestaurantID  string        `json:"restaurant_id"`
	IsActive      bool          `json:"is_active"`
	RemainingUses int           `json:"remaining_uses"`
	OccurredAt    time.Time     `json:"occurred_at"`
}

type RedemptionEventType string

const (
	RedemptionRedeemed  RedemptionEventType = "redemption.redeemed"
	RedemptionReserved  RedemptionEventType = "redemption.reserved"
	RedemptionConfirmed RedemptionEventType = "redemption.completed"
	RedemptionCanceled  RedemptionEventType = "redemption.cancelled"
	RedemptionReclaimed RedemptionEventType = "redemption.reclaimed"
)

type RedemptionEvent struct {
	Type             RedemptionEventType `json:"type"`
	RedemptionID     string              `json:"redemption_id,omitempty"`
	DealID           string              `json:"deal_id"`
	CustomerID       string              `json:"customer_id,omitempty"`
	VerificationCode string              `json:"verification_code,omitempty"`
	OrderAmount      float64             `json:"order_amount,omitempty"`
	DiscountAmount   float64             `json:"discount_amount,omitempty"`
	FinalAmount      float64             `json:"final_amount,omitempty"`
	Reclaimed        int                 `json:"reclaimed,omitempty"`
	OccurredAt       time.Time           `json:"occurred_at"`
}

// RestaurantEvent is consumed from the restaurants service to keep the local
// projection current.
type RestaurantEvent struct {
	RestaurantID     string   `json:"restaurant_id"`
	SubscriptionTier string   `json:"subscription_tier"`
	Latitude         *float64 `json:"latitude"`
	Longitude        *float64 `json:"longitude"`
}

type EventPublisher interface {
	PublishDealEvent(ctx context.Context, event DealEvent) error
	PublishRedemptionEvent(ctx context.Context, event RedemptionEvent) error
}
