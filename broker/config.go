package broker

import "go.uber.org/zap"

// Config holds broker-agnostic configuration.
// Broker plugins extract the fields they need.
type Config struct {
	// Brokers is a list of broker addresses (e.g., "localhost:9092").
	Brokers []string

	// Topic is the default topic or queue name.
	Topic string

	// Group is the consumer group ID.
	Group string

	// Logger receives consume-loop failures. Nil means zap.L().
	Logger *zap.Logger

	// Extra holds plugin-specific configuration.
	Extra map[string]any
}
