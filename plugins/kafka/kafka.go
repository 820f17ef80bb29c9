package kafka

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/miladsoleymani/eventsys/broker"
	"github.com/miladsoleymani/eventsys/core"
)

func init() {
	broker.Register("kafka", func(cfg broker.Config) (core.Broker, error) {
		return New(cfg.Brokers, cfg.Group, optsFromConfig(cfg)...)
	})
}

// Broker carries events over Kafka topics.
//
// Publish goes through a single shared writer. Every Subscribe owns a reader;
// its offsets move only when a delivery is acknowledged, either by the
// handler or because the delivery could never be extracted.
type Broker struct {
	brokers []string
	group   string
	cfg     settings
	writer  *kafka.Writer

	mu      sync.Mutex
	readers []*kafka.Reader
	closed  bool
}

// New connects a Broker to the given bootstrap addresses. group may be empty,
// in which case readers start at the configured start offset and never commit.
func New(brokers []string, group string, fns ...Option) (*Broker, error) {
	if len(brokers) == 0 {
		return nil, errors.New("eventsys/kafka: no bootstrap address")
	}
	cfg := newSettings(fns)
	return &Broker{
		brokers: brokers,
		group:   group,
		cfg:     cfg,
		writer:  cfg.writer(brokers),
	}, nil
}

// Publish writes msg to topic. The message id travels in the request id
// header so consumers see the publisher's id instead of an offset.
func (b *Broker) Publish(ctx context.Context, topic string, msg core.Message) error {
	if b.isClosed() {
		return core.ErrBrokerClosed
	}
	if err := b.writer.WriteMessages(ctx, outbound(topic, msg)); err != nil {
		return fmt.Errorf("eventsys/kafka: publish to %q: %w", topic, err)
	}
	return nil
}

// Subscribe reads topic until ctx is done, passing each delivery to handler.
func (b *Broker) Subscribe(ctx context.Context, topic string, handler core.Handler) error {
	r := kafka.NewReader(b.cfg.reader(b.brokers, topic, b.group))

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		_ = r.Close()
		return core.ErrBrokerClosed
	}
	b.readers = append(b.readers, r)
	b.mu.Unlock()

	// offsets are only committed inside a consumer group
	committer := r
	if b.group == "" {
		committer = nil
	}

	logger := b.cfg.logger.With(zap.String("topic", topic))
	for {
		raw, err := r.FetchMessage(ctx)
		switch {
		case ctx.Err() != nil:
			return nil
		case err != nil:
			return fmt.Errorf("eventsys/kafka: fetch from %q: %w", topic, err)
		}

		msg := &message{raw: raw, reader: committer, ctx: ctx}
		broker.Settle(logger, msg, handler(ctx, msg), zap.Int("partition", raw.Partition))
	}
}

// Close flushes pending writes and stops every reader.
func (b *Broker) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true

	errs := []error{b.writer.Close()}
	for _, r := range b.readers {
		errs = append(errs, r.Close())
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("eventsys/kafka: close: %w", err)
	}
	return nil
}

func (b *Broker) isClosed() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.closed
}

func outbound(topic string, msg core.Message) kafka.Message {
	headers := make([]kafka.Header, 0, len(msg.Headers())+1)
	for k, v := range msg.Headers() {
		if k == RequestIDHeader {
			continue
		}
		headers = append(headers, kafka.Header{Key: k, Value: []byte(v)})
	}
	if id := msg.ID(); id != "" {
		headers = append(headers, kafka.Header{Key: RequestIDHeader, Value: []byte(id)})
	}
	if len(headers) == 0 {
		headers = nil
	}
	return kafka.Message{
		Topic:   topic,
		Key:     msg.Key(),
		Value:   msg.Value(),
		Headers: headers,
	}
}
