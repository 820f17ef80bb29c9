package core

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// Router registers handlers for event patterns and hands every delivered
// message to the matching handler with a fresh Request and Payload.
type Router struct {
	broker      Broker
	codec       Codec
	logger      *zap.Logger
	middlewares []MiddlewareFunc
	routes      map[string]HandlerFunc
	matcher     TopicMatcher
	mu          sync.RWMutex
	started     bool
}

// New creates a Router bound to the given Broker.
// It uses DefaultMatcher for event matching and JSONCodec for decoding.
func New(b Broker) *Router {
	return &Router{
		broker:  b,
		codec:   JSONCodec{},
		logger:  zap.L(),
		routes:  make(map[string]HandlerFunc),
		matcher: DefaultMatcher{},
	}
}

// SetMatcher replaces the event matcher. Must be called before Start.
func (r *Router) SetMatcher(m TopicMatcher) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.matcher = m
}

// SetCodec selects the payload decoding mode for the whole router.
// Must be called before handlers capture Codec() and before Start.
func (r *Router) SetCodec(c Codec) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.codec = c
}

// Codec returns the configured payload codec.
func (r *Router) Codec() Codec {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.codec
}

// SetLogger replaces the router logger.
func (r *Router) SetLogger(l *zap.Logger) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logger = l
}

// Use registers global middleware. Given middleware [A, B], the call order is
// A -> B -> handler.
func (r *Router) Use(m MiddlewareFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.middlewares = append(r.middlewares, m)
}

// Handle registers a handler for an event pattern.
func (r *Router) Handle(pattern string, h HandlerFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.routes[pattern] = h
}

// Publish sends a message to the given topic through the broker.
func (r *Router) Publish(ctx context.Context, topic string, msg Message) error {
	if r.broker == nil {
		return ErrNoBroker
	}
	return r.broker.Publish(ctx, topic, msg)
}

// Dispatch delivers msg in-process to the first route whose pattern matches
// event. Patterns are tried in no particular order; an exact match wins.
func (r *Router) Dispatch(ctx context.Context, event string, msg Message) error {
	r.mu.RLock()
	h, ok := r.lookup(event)
	mws := make([]MiddlewareFunc, len(r.middlewares))
	copy(mws, r.middlewares)
	cfg := ContextConfig{Broker: r.broker, Codec: r.codec, Logger: r.logger}
	r.mu.RUnlock()

	if !ok {
		return fmt.Errorf("%w: %q", ErrNoHandler, event)
	}
	return applyMiddleware(h, mws)(NewContext(ctx, msg, Event(event), cfg))
}

// lookup must be called with r.mu held.
func (r *Router) lookup(event string) (HandlerFunc, bool) {
	if h, ok := r.routes[event]; ok {
		return h, true
	}
	for pattern, h := range r.routes {
		if r.matcher.Match(pattern, event) {
			return h, true
		}
	}
	return nil, false
}

// Start subscribes to all registered patterns and begins consuming
// messages. It blocks until the context is cancelled or an error occurs.
func (r *Router) Start(ctx context.Context) error {
	r.mu.Lock()
	if r.broker == nil {
		r.mu.Unlock()
		return ErrNoBroker
	}
	if r.started {
		r.mu.Unlock()
		return ErrAlreadyStarted
	}
	r.started = true

	// Snapshot routes, middleware, and config under lock
	routes := make(map[string]HandlerFunc, len(r.routes))
	for k, v := range r.routes {
		routes[k] = v
	}
	mws := make([]MiddlewareFunc, len(r.middlewares))
	copy(mws, r.middlewares)
	broker := r.broker
	cfg := ContextConfig{Broker: broker, Codec: r.codec, Logger: r.logger}
	logger := r.logger
	r.mu.Unlock()

	var wg sync.WaitGroup
	errCh := make(chan error, len(routes))

	for pattern, handler := range routes {
		wrapped := applyMiddleware(handler, mws)
		event := Event(pattern)

		// Bridge from low-level Handler (broker subscription) to Context-based HandlerFunc
		bridge := func(c context.Context, msg Message) error {
			return wrapped(NewContext(c, msg, event, cfg))
		}

		wg.Add(1)
		go func(p string, h Handler) {
			defer wg.Done()
			logger.Debug("subscribing", zap.String("pattern", p))
			if err := broker.Subscribe(ctx, p, h); err != nil {
				errCh <- fmt.Errorf("eventsys: subscribe %q: %w", p, err)
			}
		}(pattern, bridge)
	}

	go func() {
		wg.Wait()
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		return broker.Close()
	case err := <-errCh:
		if err != nil {
			return err
		}
		// All subscriptions returned without error; wait for context
		<-ctx.Done()
		return broker.Close()
	}
}

// applyMiddleware wraps a handler with middleware in reverse order.
// Given middleware [A, B, C], the call order is A -> B -> C -> handler.
func applyMiddleware(h HandlerFunc, mws []MiddlewareFunc) HandlerFunc {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}
