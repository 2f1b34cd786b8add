package domain

import (
	"context"
	"time"
)

type RedemptionStatus string

const (
	RedemptionPending   RedemptionStatus = "PENDING"
	RedemptionCompleted RedemptionStatus = "COMPLETED"
	RedemptionCancelled RedemptionStatus = "CANCELLED"
	RedemptionExpired   RedemptionStatus = "EXPIRED"
)

// CanTransition reports whether the redemption state machine allows from -> to.
// Only PENDING has outgoing edges.
func (s RedemptionStatus) CanTransition(to RedemptionStatus) bool {
	if s != RedemptionPending {
		return false
	}
	switch to {
	case RedemptionCompleted, RedemptionCancelled, RedemptionExpired:
		return true
	}
	return false
}

// LocationSnapshot is the customer's reading taken at redemption time.
type LocationSnapshot struct {
	Latitude       float64
	Longitude      float64
	DistanceMeters *float64
	Verified       bool
}

type Redemption struct {
	ID               string
	VerificationCode string
	DealID           string
	CustomerID       string
	OrderAmount      float64
	DiscountAmount   float64
	FinalAmount      float64
	Status           RedemptionStatus
	Location         *LocationSnapshot
	CreatedAt        time.Time
	RedeemedAt       *time.Time
	UpdatedAt        time.Time
}

type RedemptionRepository interface {
	CreateRedemption(ctx context.Context, redemption *Redemption) error
	GetRedemptionByID(ctx context.Context, redemptionID string) (*Redemption, error)
	GetRedemptionByIDForUpdate(ctx context.Context, redemptionID string) (*Redemption, error)
	CountCustomerRedemptions(ctx context.Context, dealID, customerID string, statuses ...RedemptionStatus) (int, error)
	// TransitionStatus moves a redemption from one status to another and
	// reports false if the row was no longer in the expected status.
	TransitionStatus(ctx context.Context, redemptionID string, from, to RedemptionStatus, at time.Time) (bool, error)
	// FindStalePending returns the oldest PENDING rows created before
	// createdBefore, leaving out rows of the excluded deals.
	FindStalePending(ctx context.Context, createdBefore time.Time, limit int, excludeDealIDs ...string) ([]*Redemption, error)
	// ExpireRedemptions marks the still-PENDING rows among ids as EXPIRED and
	// returns how many rows changed.
	ExpireRedemptions(ctx context.Context, ids []string, at time.Time) (int, error)
}

// Transactor runs fn in a single storage transaction. Repositories called
// with the context passed to fn take part in that transaction.
type Transactor interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}
