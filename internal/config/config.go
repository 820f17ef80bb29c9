// Package config loads process configuration from environment variables.
package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"

	"github.com/miladsoleymani/eventsys/broker"
	"github.com/miladsoleymani/eventsys/core"
)

const logPrefix = "config:Load"

// Config holds eventsys process configuration.
type Config struct {
	// Broker is the registered plugin name: kafka, nats or rabbitmq.
	Broker  string   `envconfig:"EVENTSYS_BROKER" default:"kafka"`
	Brokers []string `envconfig:"EVENTSYS_BROKERS" default:"localhost:9092"`
	Group   string   `envconfig:"EVENTSYS_GROUP" default:"eventsys"`

	// Codec selects the payload decoding mode: json, sonic, yaml or binary.
	Codec string `envconfig:"EVENTSYS_CODEC" default:"json"`
	// ValidatePayloads runs struct validation after decoding.
	ValidatePayloads bool `envconfig:"EVENTSYS_VALIDATE" default:"false"`

	MetricsAddr string `envconfig:"EVENTSYS_METRICS_ADDR" default:":9090"`

	LogLevel       string `envconfig:"LOG_LEVEL" default:"info"`
	LogDevelopment bool   `envconfig:"LOG_DEVELOPMENT" default:"false"`
}

// Load reads configuration from the environment.
func Load() (*Config, error) {
	var c Config
	if err := envconfig.Process("", &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks the fields that have no usable default.
func (c *Config) Validate() error {
	if c.Broker == "" {
		return fmt.Errorf("%s - EVENTSYS_BROKER is required", logPrefix)
	}
	if len(c.Brokers) == 0 {
		return fmt.Errorf("%s - EVENTSYS_BROKERS must list at least one address", logPrefix)
	}
	if _, err := core.CodecByName(c.Codec); err != nil {
		return fmt.Errorf("%s - EVENTSYS_CODEC: %w", logPrefix, err)
	}
	return nil
}

// NewCodec returns the configured codec, wrapped for validation if enabled.
func (c *Config) NewCodec() (core.Codec, error) {
	codec, err := core.CodecByName(c.Codec)
	if err != nil {
		return nil, err
	}
	if c.ValidatePayloads {
		codec = core.ValidatingCodec(codec)
	}
	return codec, nil
}

// BrokerConfig returns the plugin-agnostic broker configuration.
func (c *Config) BrokerConfig() broker.Config {
	return broker.Config{
		Brokers: c.Brokers,
		Group:   c.Group,
	}
}
