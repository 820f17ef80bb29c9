package nats

import (
	"fmt"
	"strconv"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

type message struct {
	msg jetstream.Msg
}

// ID is the Nats-Msg-Id header, else stream:sequence, else the subject.
func (m *message) ID() string {
	if id := m.msg.Headers().Get(nats.MsgIdHdr); id != "" {
		return id
	}
	if md, err := m.msg.Metadata(); err == nil {
		return md.Stream + ":" + strconv.FormatUint(md.Sequence.Stream, 10)
	}
	return m.msg.Subject()
}

func (m *message) Key() []byte   { return []byte(m.msg.Subject()) }
func (m *message) Value() []byte { return m.msg.Data() }

// Headers keeps the first value of each multi-valued header.
func (m *message) Headers() map[string]string {
	raw := m.msg.Headers()
	h := make(map[string]string, len(raw))
	for k, v := range raw {
		if len(v) > 0 {
			h[k] = v[0]
		}
	}
	return h
}

func (m *message) Ack() error {
	if err := m.msg.Ack(); err != nil {
		return fmt.Errorf("eventsys/nats: ack %s: %w", m.ID(), err)
	}
	return nil
}

// Nack asks the server for redelivery, bounded by the consumer's MaxDeliver.
func (m *message) Nack() error {
	if err := m.msg.Nak(); err != nil {
		return fmt.Errorf("eventsys/nats: nak %s: %w", m.ID(), err)
	}
	return nil
}
