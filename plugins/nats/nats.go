package nats

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"go.uber.org/zap"

	"github.com/miladsoleymani/eventsys/broker"
	"github.com/miladsoleymani/eventsys/core"
)

func init() {
	broker.Register("nats", func(cfg broker.Config) (core.Broker, error) {
		if len(cfg.Brokers) == 0 {
			return nil, errors.New("eventsys/nats: no server URL")
		}
		return New(strings.Join(cfg.Brokers, ","), cfg.Group, optsFromConfig(cfg)...)
	})
}

// Broker carries events over NATS JetStream subjects.
//
// Each subscribed subject gets its own stream and a durable consumer with
// explicit acks. Published messages carry their id in Nats-Msg-Id, which
// JetStream uses for duplicate detection and consumers use as request id.
type Broker struct {
	conn  *nats.Conn
	js    jetstream.JetStream
	group string
	cfg   settings

	mu       sync.Mutex
	consumes []jetstream.ConsumeContext
	closed   bool
}

// New connects to url, which may list several servers separated by commas.
func New(url, group string, fns ...Option) (*Broker, error) {
	nc, err := nats.Connect(url)
	if err != nil {
		return nil, fmt.Errorf("eventsys/nats: connect to %q: %w", url, err)
	}
	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("eventsys/nats: jetstream: %w", err)
	}
	return &Broker{conn: nc, js: js, group: group, cfg: newSettings(fns)}, nil
}

func (b *Broker) Publish(ctx context.Context, topic string, msg core.Message) error {
	if b.isClosed() {
		return core.ErrBrokerClosed
	}
	if _, err := b.js.PublishMsg(ctx, outbound(topic, msg)); err != nil {
		return fmt.Errorf("eventsys/nats: publish to %q: %w", topic, err)
	}
	return nil
}

// Subscribe consumes topic until ctx is done.
func (b *Broker) Subscribe(ctx context.Context, topic string, handler core.Handler) error {
	if b.isClosed() {
		return core.ErrBrokerClosed
	}

	stream, err := b.js.CreateOrUpdateStream(ctx, b.cfg.stream(topic))
	if err != nil {
		return fmt.Errorf("eventsys/nats: stream for %q: %w", topic, err)
	}
	durable := durableName(b.group, streamName(topic))
	cons, err := stream.CreateOrUpdateConsumer(ctx, b.cfg.consumer(durable))
	if err != nil {
		return fmt.Errorf("eventsys/nats: consumer %q: %w", durable, err)
	}

	logger := b.cfg.logger.With(zap.String("subject", topic), zap.String("durable", durable))
	cc, err := cons.Consume(func(m jetstream.Msg) {
		msg := &message{msg: m}
		broker.Settle(logger, msg, handler(ctx, msg))
	})
	if err != nil {
		return fmt.Errorf("eventsys/nats: consume %q: %w", durable, err)
	}

	b.mu.Lock()
	b.consumes = append(b.consumes, cc)
	b.mu.Unlock()

	<-ctx.Done()
	cc.Stop()
	return nil
}

// Close stops every consumer and closes the connection.
func (b *Broker) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true
	for _, cc := range b.consumes {
		cc.Stop()
	}
	b.conn.Close()
	return nil
}

func (b *Broker) isClosed() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.closed
}

func outbound(topic string, msg core.Message) *nats.Msg {
	nm := nats.NewMsg(topic)
	nm.Data = msg.Value()
	for k, v := range msg.Headers() {
		nm.Header.Set(k, v)
	}
	if id := msg.ID(); id != "" {
		nm.Header.Set(nats.MsgIdHdr, id)
	}
	return nm
}

// streamName turns a subject pattern into a legal stream name.
func streamName(subject string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '.', '*', '>':
			return '-'
		}
		return r
	}, subject)
}

func durableName(group, stream string) string {
	if group != "" {
		return group
	}
	return "eventsys-" + stream
}
