// Package events publishes domain events for downstream consumers
// (fulfillment, analytics). Publishing is best effort: checkout never fails
// because the broker is down.
package events

import "context"

// Subjects relative to the configured prefix.
const (
	SubjectOrderCreated = "order.created"
)

// OrderCreatedEvent is published after a checkout commits.
type OrderCreatedEvent struct {
	OrderID    string           `json:"order_id"`
	UserID     string           `json:"user_id"`
	TotalCents int64            `json:"total_cents"`
	Items      []OrderItemEvent `json:"items"`
}

// OrderItemEvent is one line of an OrderCreatedEvent.
type OrderItemEvent struct {
	BookID         string `json:"book_id"`
	Title          string `json:"title"`
	Quantity       int32  `json:"quantity"`
	UnitPriceCents int32  `json:"unit_price_cents"`
}

// Publisher emits domain events.
type Publisher interface {
	// PublishOrderCreated emits an order.created event.
	PublishOrderCreated(ctx context.Context, event OrderCreatedEvent) error

	// Close releases broker resources.
	Close()
}
