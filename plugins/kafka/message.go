package kafka

import (
	"context"
	"fmt"

	"github.com/segmentio/kafka-go"
)

// RequestIDHeader carries the publisher's message id across Kafka.
const RequestIDHeader = "eventsys-request-id"

// message is one fetched record. Ack commits its offset through the reader
// that fetched it.
type message struct {
	raw    kafka.Message
	reader *kafka.Reader
	ctx    context.Context
}

// ID is the publisher's request id header, or topic/partition/offset.
func (m *message) ID() string {
	for _, h := range m.raw.Headers {
		if h.Key == RequestIDHeader && len(h.Value) > 0 {
			return string(h.Value)
		}
	}
	return fmt.Sprintf("%s/%d/%d", m.raw.Topic, m.raw.Partition, m.raw.Offset)
}

func (m *message) Key() []byte   { return m.raw.Key }
func (m *message) Value() []byte { return m.raw.Value }

func (m *message) Headers() map[string]string {
	h := make(map[string]string, len(m.raw.Headers))
	for _, kh := range m.raw.Headers {
		h[kh.Key] = string(kh.Value)
	}
	return h
}

func (m *message) Ack() error {
	if m.reader == nil {
		return nil
	}
	if err := m.reader.CommitMessages(m.ctx, m.raw); err != nil {
		return fmt.Errorf("eventsys/kafka: commit %s: %w", m.ID(), err)
	}
	return nil
}

// Nack leaves the offset where it is; the record comes back after a
// rebalance or restart.
func (m *message) Nack() error { return nil }
