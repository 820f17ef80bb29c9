package broker_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/miladsoleymani/eventsys/broker"
	"github.com/miladsoleymani/eventsys/core"
	"github.com/miladsoleymani/eventsys/internal/mock"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want broker.Disposition
	}{
		{"nil", nil, broker.Handled},
		{"missing payload", core.ErrMissingPayload, broker.Dropped},
		{"decode", &core.SystemError{Kind: core.KindDecode, Msg: "json"}, broker.Dropped},
		{"wrapped decode", fmt.Errorf("handler: %w", &core.SystemError{Kind: core.KindDecode}), broker.Dropped},
		{"internal", core.NewInternalError("db down"), broker.Redeliver},
		{"canceled", core.IntoSystemError(context.Canceled), broker.Redeliver},
		{"foreign", errors.New("boom"), broker.Redeliver},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, broker.Classify(tt.err))
		})
	}
}

func TestSettle(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		want       broker.Disposition
		wantAcked  bool
		wantNacked bool
		wantLog    string
	}{
		{"handled", nil, broker.Handled, false, false, ""},
		{"dropped", core.ErrMissingPayload, broker.Dropped, true, false, "dropping undecodable message"},
		{"redeliver", errors.New("boom"), broker.Redeliver, false, true, "handler failed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obs, logs := observer.New(zapcore.DebugLevel)
			msg := mock.NewMessage("m-1", []byte("x"))

			got := broker.Settle(zap.New(obs), msg, tt.err, zap.String("topic", "user.note"))
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantAcked, msg.Acked)
			assert.Equal(t, tt.wantNacked, msg.Nacked)

			if tt.wantLog == "" {
				assert.Zero(t, logs.Len())
				return
			}
			entries := logs.FilterMessage(tt.wantLog).All()
			require.Len(t, entries, 1)
			assert.Equal(t, "m-1", entries[0].ContextMap()["request_id"])
			assert.Equal(t, "user.note", entries[0].ContextMap()["topic"])
			assert.Equal(t, tt.want.String(), entries[0].ContextMap()["disposition"])
		})
	}
}

func TestSettle_AckFailureIsLogged(t *testing.T) {
	obs, logs := observer.New(zapcore.DebugLevel)
	msg := mock.NewMessage("m-2", nil)
	msg.AckErr = errors.New("channel closed")

	assert.Equal(t, broker.Dropped, broker.Settle(zap.New(obs), msg, core.ErrMissingPayload))
	assert.Equal(t, 1, logs.FilterMessage("ack failed").Len())
}
