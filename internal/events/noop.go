package events

import "context"

// NoopPublisher discards all events. Used when no broker is configured.
type NoopPublisher struct{}

var _ Publisher = (*NoopPublisher)(nil)

// NewNoopPublisher returns a publisher that does nothing.
func NewNoopPublisher() *NoopPublisher {
	return &NoopPublisher{}
}

func (*NoopPublisher) PublishOrderCreated(context.Context, OrderCreatedEvent) error { return nil }

func (*NoopPublisher) Close() {}
