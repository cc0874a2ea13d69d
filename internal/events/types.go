package events

import (
	"time"

	"github.com/google/uuid"
)

// Topic and event type constants for the pricing change feed.
const (
	TopicPricingEvents = "pricing.events"

	CatalogUpdated      = "com.ammstro.pricing.catalog.updated"
	DiscountUpdated     = "com.ammstro.pricing.discount.updated"
	AnnouncementUpdated = "com.ammstro.pricing.announcement.updated"
)

// CatalogUpdatedEvent is published after any catalog mutation.
type CatalogUpdatedEvent struct {
	Operation  string    `json:"operation"`
	ModuleKey  string    `json:"module_key,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// DiscountUpdatedEvent is published after any discount registry mutation.
type DiscountUpdatedEvent struct {
	Operation  string    `json:"operation"`
	Code       string    `json:"code"`
	OccurredAt time.Time `json:"occurred_at"`
}

// AnnouncementUpdatedEvent is published after any announcement mutation.
type AnnouncementUpdatedEvent struct {
	Operation      string    `json:"operation"`
	AnnouncementID uuid.UUID `json:"announcement_id"`
	OccurredAt     time.Time `json:"occurred_at"`
}
