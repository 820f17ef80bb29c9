package rabbitmq

import (
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/miladsoleymani/eventsys/broker"
	"github.com/miladsoleymani/eventsys/core"
)

// Option tunes a RabbitMQ Broker.
type Option func(*settings)

type settings struct {
	exchange      string
	exchangeType  string
	routingKey    string
	durable       bool
	autoDelete    bool
	exclusive     bool
	prefetchCount int
	requeueOnNack bool
	logger        *zap.Logger
}

// The default exchange routes by queue name, so topic doubles as both.
func newSettings(fns []Option) settings {
	s := settings{
		exchangeType:  amqp.ExchangeDirect,
		durable:       true,
		prefetchCount: 10,
		requeueOnNack: true,
		logger:        zap.L(),
	}
	for _, fn := range fns {
		fn(&s)
	}
	return s
}

func (s settings) bindingKey(topic string) string {
	if s.routingKey != "" {
		return s.routingKey
	}
	return topic
}

func (s settings) publishing(msg core.Message) amqp.Publishing {
	p := amqp.Publishing{
		MessageId: msg.ID(),
		Body:      msg.Value(),
	}
	if h := msg.Headers(); len(h) > 0 {
		p.Headers = make(amqp.Table, len(h))
		for k, v := range h {
			p.Headers[k] = v
		}
	}
	if s.durable {
		p.DeliveryMode = amqp.Persistent
	}
	return p
}

// WithExchange publishes through and binds queues to the named exchange.
// kind is one of the amqp.Exchange* constants.
func WithExchange(name, kind string) Option {
	return func(s *settings) { s.exchange, s.exchangeType = name, kind }
}

// WithRoutingKey fixes the routing key instead of using the topic.
func WithRoutingKey(key string) Option { return func(s *settings) { s.routingKey = key } }

// WithDurable makes queues, exchanges and published messages survive a restart.
func WithDurable(d bool) Option { return func(s *settings) { s.durable = d } }

func WithPrefetchCount(n int) Option { return func(s *settings) { s.prefetchCount = n } }

// WithRequeueOnNack decides whether retryable failures go back on the queue.
// Without a dead-letter exchange a false value discards them.
func WithRequeueOnNack(requeue bool) Option { return func(s *settings) { s.requeueOnNack = requeue } }

func WithAutoDelete(d bool) Option { return func(s *settings) { s.autoDelete = d } }

func WithLogger(l *zap.Logger) Option { return func(s *settings) { s.logger = l } }

func optsFromConfig(cfg broker.Config) []Option {
	var opts []Option
	if cfg.Logger != nil {
		opts = append(opts, WithLogger(cfg.Logger))
	}
	if ex, ok := cfg.Extra["exchange"].(string); ok {
		kind, _ := cfg.Extra["exchange_type"].(string)
		if kind == "" {
			kind = amqp.ExchangeDirect
		}
		opts = append(opts, WithExchange(ex, kind))
	}
	if rk, ok := cfg.Extra["routing_key"].(string); ok {
		opts = append(opts, WithRoutingKey(rk))
	}
	if n, ok := cfg.Extra["prefetch_count"].(int); ok {
		opts = append(opts, WithPrefetchCount(n))
	}
	if v, ok := cfg.Extra["requeue"].(bool); ok {
		opts = append(opts, WithRequeueOnNack(v))
	}
	return opts
}
