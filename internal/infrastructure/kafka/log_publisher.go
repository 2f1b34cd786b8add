package publisher

import (
	"context"
	"log/slog"

	"github.com/LavaJover/shvark-deal-service/internal/domain"
)

// LogPublisher stands in for Kafka when it is disabled and only logs what
// would have been written.
type LogPublisher struct{}

func (LogPublisher) Publish(ctx context.Context, topic string, msgs ...domain.Message) error {
	for _, msg := range msgs {
		slog.DebugContext(ctx, "event not sent, kafka disabled",
			"topic", topic,
			"key", string(msg.Key),
			"payload", string(msg.Value),
		)
	}
	return nil
}

var _ domain.PublisherPort = LogPublisher{}
