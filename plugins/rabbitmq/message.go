package rabbitmq

import (
	"fmt"
	"strconv"

	amqp "github.com/rabbitmq/amqp091-go"
)

type message struct {
	delivery amqp.Delivery
	requeue  bool
}

// ID is the publisher's MessageId, or the channel delivery tag when unset.
func (m *message) ID() string {
	if m.delivery.MessageId != "" {
		return m.delivery.MessageId
	}
	return strconv.FormatUint(m.delivery.DeliveryTag, 10)
}

func (m *message) Key() []byte   { return []byte(m.delivery.RoutingKey) }
func (m *message) Value() []byte { return m.delivery.Body }

// Headers stringifies non-string AMQP table values.
func (m *message) Headers() map[string]string {
	h := make(map[string]string, len(m.delivery.Headers))
	for k, v := range m.delivery.Headers {
		switch s := v.(type) {
		case string:
			h[k] = s
		case []byte:
			h[k] = string(s)
		default:
			h[k] = fmt.Sprint(v)
		}
	}
	return h
}

func (m *message) Ack() error {
	if err := m.delivery.Ack(false); err != nil {
		return fmt.Errorf("eventsys/rabbitmq: ack %s: %w", m.ID(), err)
	}
	return nil
}

func (m *message) Nack() error {
	if err := m.delivery.Nack(false, m.requeue); err != nil {
		return fmt.Errorf("eventsys/rabbitmq: nack %s: %w", m.ID(), err)
	}
	return nil
}
