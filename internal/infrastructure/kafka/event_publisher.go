package publisher

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/LavaJover/shvark-deal-service/internal/domain"
)

// EventPublisher encodes engine events as JSON and routes them to their topics.
type EventPublisher struct {
	port            domain.PublisherPort
	dealTopic       string
	redemptionTopic string
}

func NewEventPublisher(port domain.PublisherPort, dealTopic, redemptionTopic string) *EventPublisher {
	return &EventPublisher{
		port:            port,
		dealTopic:       dealTopic,
		redemptionTopic: redemptionTopic,
	}
}

func (p *EventPublisher) PublishDealEvent(ctx context.Context, event domain.DealEvent) error {
	v, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal deal event: %w", err)
	}
	return p.port.Publish(ctx, p.dealTopic, domain.Message{Key: []byte(event.DealID), Value: v})
}

func (p *EventPublisher) PublishRedemptionEvent(ctx context.Context, event domain.RedemptionEvent) error {
	v, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal redemption event: %w", err)
	}
	return p.port.Publish(ctx, p.redemptionTopic, domain.Message{Key: []byte(event.DealID), Value: v})
}

var _ domain.EventPublisher = (*EventPublisher)(nil)
