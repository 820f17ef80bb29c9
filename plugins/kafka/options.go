package kafka

import (
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/miladsoleymani/eventsys/broker"
)

// Option tunes a Kafka Broker.
type Option func(*settings)

type settings struct {
	balancer    kafka.Balancer
	batchSize   int
	async       bool
	minBytes    int
	maxBytes    int
	maxWait     time.Duration
	startOffset int64
	dialer      *kafka.Dialer
	logger      *zap.Logger
}

func newSettings(fns []Option) settings {
	s := settings{
		balancer:    &kafka.LeastBytes{},
		batchSize:   100,
		minBytes:    1,
		maxBytes:    10 << 20,
		maxWait:     500 * time.Millisecond,
		startOffset: kafka.LastOffset,
		logger:      zap.L(),
	}
	for _, fn := range fns {
		fn(&s)
	}
	return s
}

func (s settings) writer(brokers []string) *kafka.Writer {
	w := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Balancer:     s.balancer,
		BatchSize:    s.batchSize,
		Async:        s.async,
		RequiredAcks: kafka.RequireAll,
	}
	if s.dialer != nil {
		w.Transport = &kafka.Transport{TLS: s.dialer.TLS, SASL: s.dialer.SASLMechanism}
	}
	return w
}

func (s settings) reader(brokers []string, topic, group string) kafka.ReaderConfig {
	rc := kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    topic,
		GroupID:  group,
		MinBytes: s.minBytes,
		MaxBytes: s.maxBytes,
		MaxWait:  s.maxWait,
		Dialer:   s.dialer,
	}
	if group == "" {
		rc.StartOffset = s.startOffset
	}
	return rc
}

// WithBalancer picks the partition balancer used by Publish.
func WithBalancer(b kafka.Balancer) Option { return func(s *settings) { s.balancer = b } }

func WithBatchSize(n int) Option { return func(s *settings) { s.batchSize = n } }

// WithAsync makes Publish return before the write is acknowledged.
func WithAsync(async bool) Option { return func(s *settings) { s.async = async } }

func WithMaxBytes(n int) Option { return func(s *settings) { s.maxBytes = n } }

func WithMaxWait(d time.Duration) Option { return func(s *settings) { s.maxWait = d } }

// WithStartOffset applies only to readers without a consumer group.
func WithStartOffset(offset int64) Option { return func(s *settings) { s.startOffset = offset } }

// WithDialer supplies TLS and SASL settings for both readers and the writer.
func WithDialer(d *kafka.Dialer) Option { return func(s *settings) { s.dialer = d } }

func WithLogger(l *zap.Logger) Option { return func(s *settings) { s.logger = l } }

func optsFromConfig(cfg broker.Config) []Option {
	var opts []Option
	if cfg.Logger != nil {
		opts = append(opts, WithLogger(cfg.Logger))
	}
	if v, ok := cfg.Extra["async"].(bool); ok {
		opts = append(opts, WithAsync(v))
	}
	if v, ok := cfg.Extra["batch_size"].(int); ok {
		opts = append(opts, WithBatchSize(v))
	}
	if v, ok := cfg.Extra["max_bytes"].(int); ok {
		opts = append(opts, WithMaxBytes(v))
	}
	if v, ok := cfg.Extra["start_offset"].(string); ok && v == "first" {
		opts = append(opts, WithStartOffset(kafka.FirstOffset))
	}
	return opts
}
