package domain

import (
	"errors"
	"fmt"
)

var (
	ErrDealNotFound         = errors.New("deal not found")
	ErrRestaurantNotFound   = errors.New("restaurant not found")
	ErrRedemptionNotFound   = errors.New("redemption not found")
	ErrInvalidDeal          = errors.New("invalid deal")
	ErrInvalidOrderAmount   = errors.New("order amount must be positive")
	ErrInvalidRedeemRequest = errors.New("invalid redemption request")
	ErrRedemptionNotPending = errors.New("redemption is not pending")
	ErrReservationExpired   = errors.New("reservation expired")
	ErrDuplicateDealCode    = errors.New("deal code already exists")
	// ErrCounterMismatch means a deal's counters do not account for a
	// reservation that is still PENDING.
	ErrCounterMismatch = errors.New("deal counters out of sync with reservations")
	ErrInternal             = errors.New("internal error")
)

// QuotaExceededError is returned when activating a deal would put the
// restaurant over its tier's concurrently active deal limit.
type QuotaExceededError struct {
	Tier         SubscriptionTier
	Limit        int
	CurrentCount int
}

func (e *QuotaExceededError) Error() string {
	return fmt.Sprintf("quota exceeded: tier %s allows %d active deals, %d already active", e.Tier, e.Limit, e.CurrentCount)
}

// Deficit is how many active deals must be deactivated (or tier slots added)
// before one more deal can be activated.
func (e *QuotaExceededError) Deficit() int {
	return e.CurrentCount - e.Limit + 1
}

func IsQuotaExceeded(err error) (*QuotaExceededError, bool) {
	var qe *QuotaExceededError
	if errors.As(err, &qe) {
		return qe, true
	}
	return nil, false
}
