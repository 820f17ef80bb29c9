package nats

import (
	"time"

	"github.com/nats-io/nats.go/jetstream"
	"go.uber.org/zap"

	"github.com/miladsoleymani/eventsys/broker"
)

// Option tunes a NATS Broker.
type Option func(*settings)

type settings struct {
	maxMsgs    int64
	maxBytes   int64
	maxAge     time.Duration
	replicas   int
	retention  jetstream.RetentionPolicy
	storage    jetstream.StorageType
	ackWait    time.Duration
	maxDeliver int
	logger     *zap.Logger
}

func newSettings(fns []Option) settings {
	s := settings{
		maxMsgs:    -1,
		maxBytes:   -1,
		replicas:   1,
		retention:  jetstream.LimitsPolicy,
		storage:    jetstream.FileStorage,
		ackWait:    30 * time.Second,
		maxDeliver: 5,
		logger:     zap.L(),
	}
	for _, fn := range fns {
		fn(&s)
	}
	return s
}

func (s settings) stream(subject string) jetstream.StreamConfig {
	return jetstream.StreamConfig{
		Name:      streamName(subject),
		Subjects:  []string{subject},
		MaxMsgs:   s.maxMsgs,
		MaxBytes:  s.maxBytes,
		MaxAge:    s.maxAge,
		Replicas:  s.replicas,
		Retention: s.retention,
		Storage:   s.storage,
	}
}

// consumer settles deliveries explicitly; a Nak from a retryable failure
// counts against maxDeliver.
func (s settings) consumer(durable string) jetstream.ConsumerConfig {
	return jetstream.ConsumerConfig{
		Durable:    durable,
		AckPolicy:  jetstream.AckExplicitPolicy,
		AckWait:    s.ackWait,
		MaxDeliver: s.maxDeliver,
	}
}

func WithMaxMessages(n int64) Option { return func(s *settings) { s.maxMsgs = n } }

func WithMaxBytes(n int64) Option { return func(s *settings) { s.maxBytes = n } }

// WithMaxAge expires stream messages older than d. Zero keeps them forever.
func WithMaxAge(d time.Duration) Option { return func(s *settings) { s.maxAge = d } }

func WithReplicas(n int) Option { return func(s *settings) { s.replicas = n } }

func WithRetention(r jetstream.RetentionPolicy) Option { return func(s *settings) { s.retention = r } }

// WithStorage selects file or memory storage for created streams.
func WithStorage(st jetstream.StorageType) Option { return func(s *settings) { s.storage = st } }

// WithAckWait is how long the server waits for a settle before redelivering.
func WithAckWait(d time.Duration) Option { return func(s *settings) { s.ackWait = d } }

func WithMaxDeliver(n int) Option { return func(s *settings) { s.maxDeliver = n } }

func WithLogger(l *zap.Logger) Option { return func(s *settings) { s.logger = l } }

func optsFromConfig(cfg broker.Config) []Option {
	var opts []Option
	if cfg.Logger != nil {
		opts = append(opts, WithLogger(cfg.Logger))
	}
	if v, ok := cfg.Extra["max_deliver"].(int); ok {
		opts = append(opts, WithMaxDeliver(v))
	}
	if v, ok := cfg.Extra["replicas"].(int); ok {
		opts = append(opts, WithReplicas(v))
	}
	if v, ok := cfg.Extra["storage"].(string); ok && v == "memory" {
		opts = append(opts, WithStorage(jetstream.MemoryStorage))
	}
	return opts
}
