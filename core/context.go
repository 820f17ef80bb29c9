package core

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// Context is the handler context for a single dispatched call.
// It carries the Request and Payload that extractors read from, the router's
// Codec, and the response methods (Ack, Nack, Republish).
type Context interface {
	// Context returns the underlying context.Context.
	Context() context.Context

	// SetContext replaces the underlying context.Context.
	SetContext(ctx context.Context)

	// Request returns the id/event pair of this call.
	Request() *Request

	// Payload returns the payload lent to extractors for this call.
	Payload() *Payload

	// Codec returns the router's configured Codec.
	Codec() Codec

	// Logger returns a logger annotated with the request id and event.
	Logger() *zap.Logger

	// Message returns the raw underlying Message.
	Message() Message

	// Header returns a single header value by key.
	Header(key string) string

	// Bind decodes the payload into v with the router's Codec.
	Bind(v any) error

	// Ack acknowledges the message (commits offset / removes from queue).
	Ack() error

	// Nack negatively acknowledges the message (triggers redelivery).
	Nack() error

	// Republish sends the current message to a different topic.
	Republish(topic string) error

	// Set stores a key-value pair in the context store.
	Set(key string, val any)

	// Get retrieves a value from the context store.
	Get(key string) (any, bool)
}

// HandlerFunc is the function signature for routed handlers.
// Handlers rarely read the payload themselves; Handler1 and Handler2 build a
// HandlerFunc from extractors.
type HandlerFunc func(c Context) error

// MiddlewareFunc wraps a HandlerFunc to add cross-cutting behavior.
type MiddlewareFunc func(HandlerFunc) HandlerFunc

type eventContext struct {
	ctx     context.Context
	msg     Message
	req     *Request
	payload Payload
	broker  Broker
	codec   Codec
	logger  *zap.Logger
	store   map[string]any
	mu      sync.RWMutex
}

// ContextConfig holds what NewContext needs besides the message itself.
type ContextConfig struct {
	Broker Broker
	Codec  Codec
	Logger *zap.Logger
}

// NewContext creates a Context for msg delivered on event.
// This is called internally by the Router for each incoming message.
// A nil msg yields an empty request id and a None payload.
func NewContext(ctx context.Context, msg Message, event Event, cfg ContextConfig) Context {
	var id string
	if msg != nil {
		id = msg.ID()
	}
	req := NewRequest(event, id)
	logger := cfg.Logger
	if logger == nil {
		logger = zap.L()
	}
	return &eventContext{
		ctx:     ctx,
		msg:     msg,
		req:     req,
		payload: PayloadFromMessage(msg),
		broker:  cfg.Broker,
		codec:   cfg.Codec,
		logger:  logger.With(zap.String("request_id", req.ID()), zap.String("event", string(event))),
		store:   make(map[string]any),
	}
}

func (c *eventContext) Context() context.Context { return c.ctx }

func (c *eventContext) SetContext(ctx context.Context) { c.ctx = ctx }

func (c *eventContext) Request() *Request { return c.req }

func (c *eventContext) Payload() *Payload { return &c.payload }

func (c *eventContext) Codec() Codec { return c.codec }

func (c *eventContext) Logger() *zap.Logger { return c.logger }

func (c *eventContext) Message() Message { return c.msg }

func (c *eventContext) Header(key string) string {
	if c.msg == nil {
		return ""
	}
	return c.msg.Headers()[key]
}

func (c *eventContext) Bind(v any) error {
	if c.codec == nil {
		return fmt.Errorf("eventsys: no codec configured")
	}
	buf, ok := c.payload.Bytes()
	if !ok {
		return missingPayload(c.req)
	}
	if err := c.codec.Decode(buf, v); err != nil {
		return decodeError(c.codec.Name(), err)
	}
	return nil
}

func (c *eventContext) Ack() error {
	if c.msg == nil {
		return nil
	}
	if err := c.msg.Ack(); err != nil {
		return fmt.Errorf("eventsys: ack: %w", err)
	}
	return nil
}

func (c *eventContext) Nack() error {
	if c.msg == nil {
		return nil
	}
	if err := c.msg.Nack(); err != nil {
		return fmt.Errorf("eventsys: nack: %w", err)
	}
	return nil
}

func (c *eventContext) Republish(topic string) error {
	if c.broker == nil {
		return ErrNoBroker
	}
	if c.msg == nil {
		return fmt.Errorf("eventsys: republish to %q: no message", topic)
	}
	if err := c.broker.Publish(c.ctx, topic, c.msg); err != nil {
		return fmt.Errorf("eventsys: republish to %q: %w", topic, err)
	}
	return nil
}

func (c *eventContext) Set(key string, val any) {
	c.mu.Lock()
	c.store[key] = val
	c.mu.Unlock()
}

func (c *eventContext) Get(key string) (any, bool) {
	c.mu.RLock()
	val, ok := c.store[key]
	c.mu.RUnlock()
	return val, ok
}
