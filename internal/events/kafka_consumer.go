package events

import (
	"context"
	"strings"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/ammstro/service-pricing/internal/kafka"
)

// CatalogRefresher reloads the catalog read snapshot from the store.
type CatalogRefresher interface {
	Refresh(ctx context.Context) error
}

// ChangeFeedConsumer listens to pricing change events and keeps the local
// catalog snapshot fresh. Remote and local writes race without coordination;
// whichever load happens last wins, matching the store's own semantics.
type ChangeFeedConsumer struct {
	consumer  *kafka.Consumer
	refresher CatalogRefresher
	logger    *zap.Logger
}

// NewChangeFeedConsumer creates a consumer for the pricing change feed.
func NewChangeFeedConsumer(
	brokers []string,
	groupID string,
	refresher CatalogRefresher,
	logger *zap.Logger,
) *ChangeFeedConsumer {
	consumer := kafka.NewConsumer(brokers, groupID, TopicPricingEvents, logger)
	return &ChangeFeedConsumer{
		consumer:  consumer,
		refresher: refresher,
		logger:    logger,
	}
}

// Start begins consuming change events. It blocks until the context is
// cancelled.
func (c *ChangeFeedConsumer) Start(ctx context.Context) error {
	return c.consumer.Consume(ctx, c.handleMessage)
}

// handleMessage routes incoming change events.
func (c *ChangeFeedConsumer) handleMessage(ctx context.Context, msg kafkago.Message) error {
	cloudEvent, err := kafka.ParseCloudEvent(msg.Value)
	if err != nil {
		c.logger.Error("failed to parse cloud event from pricing topic",
			zap.Error(err),
			zap.String("raw", string(msg.Value)),
		)
		return err
	}

	c.logger.Debug("received pricing event",
		zap.String("type", cloudEvent.Type),
		zap.String("id", cloudEvent.ID),
	)

	switch {
	case strings.EqualFold(cloudEvent.Type, CatalogUpdated):
		return c.handleCatalogUpdated(ctx, cloudEvent)

	default:
		// Discount and announcement listings always read the store directly.
		return nil
	}
}

// handleCatalogUpdated refreshes the catalog snapshot.
func (c *ChangeFeedConsumer) handleCatalogUpdated(ctx context.Context, ce kafka.CloudEvent) error {
	var event CatalogUpdatedEvent
	if err := ce.ParseData(&event); err != nil {
		c.logger.Error("failed to parse CatalogUpdatedEvent data", zap.Error(err))
		return err
	}

	if err := c.refresher.Refresh(ctx); err != nil {
		c.logger.Error("failed to refresh catalog snapshot", zap.Error(err))
		return err
	}

	c.logger.Debug("catalog snapshot refreshed",
		zap.String("operation", event.Operation),
		zap.String("module_key", event.ModuleKey),
	)
	return nil
}

// Close closes the underlying Kafka consumer.
func (c *ChangeFeedConsumer) Close() error {
	return c.consumer.Close()
}
