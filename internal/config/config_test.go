package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "kafka", c.Broker)
	assert.Equal(t, []string{"localhost:9092"}, c.Brokers)
	assert.Equal(t, "json", c.Codec)
	assert.False(t, c.ValidatePayloads)
	assert.Equal(t, "info", c.LogLevel)
	assert.NoError(t, c.Validate())
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("EVENTSYS_BROKER", "nats")
	t.Setenv("EVENTSYS_BROKERS", "nats://a:4222,nats://b:4222")
	t.Setenv("EVENTSYS_GROUP", "billing")
	t.Setenv("EVENTSYS_CODEC", "binary")
	t.Setenv("EVENTSYS_VALIDATE", "true")

	c, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "nats", c.Broker)
	assert.Equal(t, []string{"nats://a:4222", "nats://b:4222"}, c.Brokers)

	bc := c.BrokerConfig()
	assert.Equal(t, "billing", bc.Group)
	assert.Len(t, bc.Brokers, 2)

	codec, err := c.NewCodec()
	require.NoError(t, err)
	assert.Equal(t, "binary+validate", codec.Name())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"unknown codec", func(c *Config) { c.Codec = "xml" }, "EVENTSYS_CODEC"},
		{"no broker", func(c *Config) { c.Broker = "" }, "EVENTSYS_BROKER"},
		{"no addresses", func(c *Config) { c.Brokers = nil }, "EVENTSYS_BROKERS"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Load()
			require.NoError(t, err)
			tt.mutate(c)
			err = c.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
