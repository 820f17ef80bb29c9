package nats

import (
	"testing"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/miladsoleymani/eventsys/broker"
	"github.com/miladsoleymani/eventsys/internal/mock"
)

func TestStreamName(t *testing.T) {
	tests := map[string]string{
		"user.sign_in": "user-sign_in",
		"user.*":       "user--",
		"user.>":       "user--",
		"plain":        "plain",
	}
	for in, want := range tests {
		assert.Equal(t, want, streamName(in), in)
	}
}

func TestDurableName(t *testing.T) {
	assert.Equal(t, "workers", durableName("workers", "user-note"))
	assert.Equal(t, "eventsys-user-note", durableName("", "user-note"))
}

func TestOutbound(t *testing.T) {
	src := mock.NewMessage("req-3", []byte("hi"))
	src.H = map[string]string{"trace": "t-1"}

	nm := outbound("user.note", src)
	assert.Equal(t, "user.note", nm.Subject)
	assert.Equal(t, []byte("hi"), nm.Data)
	assert.Equal(t, "t-1", nm.Header.Get("trace"))
	assert.Equal(t, "req-3", nm.Header.Get(nats.MsgIdHdr))

	anon := outbound("user.note", mock.NewMessage("", nil))
	assert.Empty(t, anon.Header.Get(nats.MsgIdHdr))
}

func TestSettings(t *testing.T) {
	logger := zap.NewNop()
	s := newSettings(optsFromConfig(broker.Config{
		Logger: logger,
		Extra:  map[string]any{"max_deliver": 2, "storage": "memory"},
	}))
	assert.Same(t, logger, s.logger)

	sc := s.stream("user.*")
	assert.Equal(t, "user--", sc.Name)
	assert.Equal(t, []string{"user.*"}, sc.Subjects)
	assert.Equal(t, jetstream.MemoryStorage, sc.Storage)

	cc := s.consumer("workers")
	assert.Equal(t, "workers", cc.Durable)
	assert.Equal(t, jetstream.AckExplicitPolicy, cc.AckPolicy)
	assert.Equal(t, 2, cc.MaxDeliver)
	assert.Equal(t, 30*time.Second, cc.AckWait)
}
