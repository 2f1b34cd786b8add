package testutil

import (
	"context"
	"sync"

	"github.com/LavaJover/shvark-deal-service/internal/domain"
)

// EventRecorder is an in-memory domain.EventPublisher.
type EventRecorder struct {
	mu          sync.Mutex
	deals       []domain.DealEvent
	redemptions []domain.RedemptionEvent
}

func (r *EventRecorder) PublishDealEvent(_ context.Context, event domain.DealEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deals = append(r.deals, event)
	return nil
}

func (r *EventRecorder) PublishRedemptionEvent(_ context.Context, event domain.RedemptionEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.redemptions = append(r.redemptions, event)
	return nil
}

func (r *EventRecorder) DealEvents() []domain.DealEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.DealEvent(nil), r.deals...)
}

func (r *EventRecorder) RedemptionEvents() []domain.RedemptionEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.RedemptionEvent(nil), r.redemptions...)
}

// HasRedemptionEvent reports whether an event of type t was published.
func (r *EventRecorder) HasRedemptionEvent(t domain.RedemptionEventType) bool {
	for _, e := range r.RedemptionEvents() {
		if e.Type == t {
			return true
		}
	}
	return false
}

func (r *EventRecorder) HasDealEvent(t domain.DealEventType) bool {
	for _, e := range r.DealEvents() {
		if e.Type == t {
			return true
		}
	}
	return false
}
