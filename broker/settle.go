package broker

import (
	"errors"

	"go.uber.org/zap"

	"github.com/miladsoleymani/eventsys/core"
)

// Disposition is what a consume loop does with a delivery after its
// handler returned.
type Disposition int

const (
	// Handled means the handler succeeded. Acknowledging is up to the handler.
	Handled Disposition = iota
	// Dropped means the failure repeats on every redelivery of the same
	// bytes, so the delivery is acknowledged and discarded.
	Dropped
	// Redeliver means the failure may be transient and the delivery is
	// handed back to the broker.
	Redeliver
)

func (d Disposition) String() string {
	switch d {
	case Handled:
		return "handled"
	case Dropped:
		return "dropped"
	case Redeliver:
		return "redeliver"
	default:
		return "unknown"
	}
}

// Classify maps a handler error to a Disposition. A missing payload or a
// decode failure is deterministic for a given message; anything else,
// including foreign errors and recovered panics, is retried.
func Classify(err error) Disposition {
	if err == nil {
		return Handled
	}
	var se *core.SystemError
	if errors.As(err, &se) {
		switch se.Kind {
		case core.KindMissingPayload, core.KindDecode:
			return Dropped
		}
	}
	return Redeliver
}

// Settle classifies err, then acknowledges a dropped delivery or
// negatively acknowledges a retryable one. fields are added to the log entry.
func Settle(logger *zap.Logger, msg core.Message, err error, fields ...zap.Field) Disposition {
	d := Classify(err)
	if d == Handled {
		return d
	}

	fields = append(fields,
		zap.String("request_id", msg.ID()),
		zap.Stringer("disposition", d),
		zap.Error(err),
	)
	switch d {
	case Dropped:
		logger.Warn("dropping undecodable message", fields...)
		if aerr := msg.Ack(); aerr != nil {
			logger.Error("ack failed", zap.String("request_id", msg.ID()), zap.Error(aerr))
		}
	case Redeliver:
		logger.Warn("handler failed", fields...)
		if nerr := msg.Nack(); nerr != nil {
			logger.Error("nack failed", zap.String("request_id", msg.ID()), zap.Error(nerr))
		}
	}
	return d
}
