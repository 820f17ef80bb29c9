package mock

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/miladsoleymani/eventsys/core"
)

// Broker is a test double for core.Broker. Subscriptions block until their
// context ends; Deliver pushes a message into a subscribed handler.
type Broker struct {
	mu           sync.Mutex
	published    []PublishedMessage
	handlers     map[string]core.Handler
	ready        chan struct{}
	want         int
	SubscribeErr error
	PublishErr   error
	closed       bool
}

// PublishedMessage records a message sent through Publish.
type PublishedMessage struct {
	Topic   string
	Message core.Message
}

// NewBroker returns a Broker. WaitSubscribed(n) can be used to wait until n
// subscriptions are active.
func NewBroker() *Broker {
	return &Broker{
		handlers: make(map[string]core.Handler),
		ready:    make(chan struct{}, 64),
	}
}

func (b *Broker) Publish(_ context.Context, topic string, msg core.Message) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return core.ErrBrokerClosed
	}
	if b.PublishErr != nil {
		return b.PublishErr
	}
	b.published = append(b.published, PublishedMessage{Topic: topic, Message: msg})
	return nil
}

func (b *Broker) Subscribe(ctx context.Context, topic string, handler core.Handler) error {
	b.mu.Lock()
	if b.SubscribeErr != nil {
		err := b.SubscribeErr
		b.mu.Unlock()
		return err
	}
	b.handlers[topic] = handler
	b.mu.Unlock()
	b.ready <- struct{}{}

	<-ctx.Done()
	return nil
}

// WaitSubscribed blocks until n Subscribe calls have registered or ctx ends.
func (b *Broker) WaitSubscribed(ctx context.Context, n int) error {
	for i := 0; i < n; i++ {
		select {
		case <-b.ready:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

func (b *Broker) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	return nil
}

// Deliver simulates an incoming message on a subscribed topic.
func (b *Broker) Deliver(ctx context.Context, topic string, msg core.Message) error {
	b.mu.Lock()
	h, ok := b.handlers[topic]
	b.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %q", core.ErrNoHandler, topic)
	}
	return h(ctx, msg)
}

// Topics returns the subscribed topics in sorted order.
func (b *Broker) Topics() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, 0, len(b.handlers))
	for t := range b.handlers {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// Published returns all messages sent via Publish.
func (b *Broker) Published() []PublishedMessage {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]PublishedMessage, len(b.published))
	copy(out, b.published)
	return out
}

// IsClosed reports whether Close was called.
func (b *Broker) IsClosed() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.closed
}
