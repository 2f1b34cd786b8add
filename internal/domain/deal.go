package domain

import (
	"context"
	"time"
)

type DiscountType string

const (
	DiscountPercentage   DiscountType = "PERCENTAGE"
	DiscountFixed        DiscountType = "FIXED"
	DiscountBuyOneGetOne DiscountType = "BUY_ONE_GET_ONE"
)

func (t DiscountType) Valid() bool {
	switch t {
	case DiscountPercentage, DiscountFixed, DiscountBuyOneGetOne:
		return true
	}
	return false
}

type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "PENDING"
	ApprovalApproved ApprovalStatus = "APPROVED"
	ApprovalRejected ApprovalStatus = "REJECTED"
)

// DealStatus is the merchant-facing lifecycle of a deal. Only ACTIVE deals
// occupy a slot of the restaurant's tier quota.
type DealStatus string

const (
	DealStatusDraft  DealStatus = "DRAFT"
	DealStatusActive DealStatus = "ACTIVE"
	DealStatusPaused DealStatus = "PAUSED"
)

type Deal struct {
	ID             string
	Code           string
	RestaurantID   string
	Title          string
	Description    string
	DiscountType   DiscountType
	DiscountValue  float64
	MinOrderAmount float64
	MaxUses        int
	UsedCount      int
	RemainingUses  int
	PerUserLimit   int
	StartsAt       time.Time
	ExpiresAt      time.Time
	IsActive       bool
	Status         DealStatus
	ApprovalStatus ApprovalStatus
	Version        int64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// InWindow reports whether now falls in [StartsAt, ExpiresAt).
func (d *Deal) InWindow(now time.Time) bool {
	return !now.Before(d.StartsAt) && now.Before(d.ExpiresAt)
}

func (d *Deal) IsRedeemable(now time.Time) bool {
	return d.IsActive &&
		d.ApprovalStatus == ApprovalApproved &&
		d.InWindow(now) &&
		d.RemainingUses > 0
}

// OccupiesSlot reports whether the deal counts against its restaurant's
// concurrently active deal quota.
func (d *Deal) OccupiesSlot(now time.Time) bool {
	return d.IsActive && d.Status == DealStatusActive && d.ExpiresAt.After(now)
}

type DealRepository interface {
	CreateDeal(ctx context.Context, deal *Deal) error
	GetDealByID(ctx context.Context, dealID string) (*Deal, error)
	// GetDealByIDForUpdate locks the deal row until the surrounding transaction ends.
	GetDealByIDForUpdate(ctx context.Context, dealID string) (*Deal, error)
	CountActiveDeals(ctx context.Context, restaurantID, excludeDealID string, now time.Time) (int, error)
	SetDealActivation(ctx context.Context, dealID string, isActive bool, status DealStatus, at time.Time) error

	// Counter writes. Each is a single conditional UPDATE; the bool result is
	// false when the condition did not hold and nothing was written.
	ConsumeUse(ctx context.Context, dealID string, at time.Time) (bool, error)
	ReserveUse(ctx context.Context, dealID string, at time.Time) (bool, error)
	ConfirmReservedUse(ctx context.Context, dealID string, at time.Time) (bool, error)
	RestoreUses(ctx context.Context, dealID string, n int, at time.Time) error
}
