package rabbitmq

import (
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"

	"github.com/miladsoleymani/eventsys/broker"
	"github.com/miladsoleymani/eventsys/internal/mock"
)

func TestMessage_ID(t *testing.T) {
	withID := &message{delivery: amqp.Delivery{MessageId: "m-1", DeliveryTag: 9}}
	assert.Equal(t, "m-1", withID.ID())

	tagOnly := &message{delivery: amqp.Delivery{DeliveryTag: 9}}
	assert.Equal(t, "9", tagOnly.ID())
}

func TestMessage_Headers(t *testing.T) {
	m := &message{delivery: amqp.Delivery{
		RoutingKey: "user.sign_in",
		Headers:    amqp.Table{"trace": "t-1", "attempt": int32(2), "raw": []byte("b")},
	}}
	assert.Equal(t, map[string]string{"trace": "t-1", "attempt": "2", "raw": "b"}, m.Headers())
	assert.Equal(t, []byte("user.sign_in"), m.Key())
}

func TestSettings_Publishing(t *testing.T) {
	src := mock.NewMessage("req-5", []byte("body"))
	src.H = map[string]string{"trace": "t-1"}

	p := newSettings(nil).publishing(src)
	assert.Equal(t, "req-5", p.MessageId)
	assert.Equal(t, []byte("body"), p.Body)
	assert.Equal(t, amqp.Table{"trace": "t-1"}, p.Headers)
	assert.Equal(t, amqp.Persistent, p.DeliveryMode)

	transient := newSettings([]Option{WithDurable(false)}).publishing(mock.NewMessage("", nil))
	assert.Nil(t, transient.Headers)
	assert.Zero(t, transient.DeliveryMode)
}

func TestSettings_BindingKey(t *testing.T) {
	assert.Equal(t, "user.note", newSettings(nil).bindingKey("user.note"))
	assert.Equal(t, "fixed", newSettings([]Option{WithRoutingKey("fixed")}).bindingKey("user.note"))
}

func TestOptsFromConfig(t *testing.T) {
	s := newSettings(optsFromConfig(broker.Config{Extra: map[string]any{
		"exchange":       "events",
		"exchange_type":  amqp.ExchangeTopic,
		"prefetch_count": 50,
		"requeue":        false,
	}}))
	assert.Equal(t, "events", s.exchange)
	assert.Equal(t, amqp.ExchangeTopic, s.exchangeType)
	assert.Equal(t, 50, s.prefetchCount)
	assert.False(t, s.requeueOnNack)

	plain := newSettings(optsFromConfig(broker.Config{Extra: map[string]any{"exchange": "events"}}))
	assert.Equal(t, amqp.ExchangeDirect, plain.exchangeType)
}
