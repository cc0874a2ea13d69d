package application

import (
	"context"

	"github.com/ammstro/service-pricing/internal/kafka"
)

// EventPublisher is the outbound port for the pricing change feed.
// *kafka.Producer satisfies it in production.
type EventPublisher interface {
	PublishEvent(ctx context.Context, topic string, event kafka.CloudEvent) error
}
