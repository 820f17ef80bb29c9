package core

import "context"

// Broker is the transport that produces the messages a Router dispatches.
// Each broker plugin implements it.
type Broker interface {
	Publish(ctx context.Context, topic string, msg Message) error
	Subscribe(ctx context.Context, topic string, handler Handler) error
	Close() error
}
