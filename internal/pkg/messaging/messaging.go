// Package messaging publishes storefront events to a message broker.
package messaging

import "context"

// Publisher is the port for emitting events. Publishing is always
// fire-and-forget from the caller's perspective: a broker failure must
// never fail the business operation that produced the event.
type Publisher interface {
	Publish(ctx context.Context, key string, event any) error
}

// Nop discards every event. Used when no broker is configured.
type Nop struct{}

func (Nop) Publish(ctx context.Context, key string, event any) error { return nil }
