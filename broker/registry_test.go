package broker_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/miladsoleymani/eventsys/broker"
	"github.com/miladsoleymani/eventsys/core"
	"github.com/miladsoleymani/eventsys/internal/mock"
)

func TestRegisterAndCreate(t *testing.T) {
	var seen broker.Config
	broker.Register("memory-test", func(cfg broker.Config) (core.Broker, error) {
		seen = cfg
		return mock.NewBroker(), nil
	})

	b, err := broker.Create("memory-test", broker.Config{Brokers: []string{"x"}, Group: "g"})
	require.NoError(t, err)
	assert.NotNil(t, b)
	assert.Equal(t, "g", seen.Group)
	assert.Contains(t, broker.Names(), "memory-test")
}

func TestCreate_Unknown(t *testing.T) {
	_, err := broker.Create("carrier-pigeon", broker.Config{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "carrier-pigeon")
}
