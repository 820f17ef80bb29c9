package core

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

var (
	// ErrBrokerClosed is returned when operations are attempted on a closed broker.
	ErrBrokerClosed = errors.New("eventsys: broker is closed")

	// ErrNoHandler is returned when no handler matches the incoming event.
	ErrNoHandler = errors.New("eventsys: no handler registered for event")

	// ErrAlreadyStarted is returned when Start is called on a running router.
	ErrAlreadyStarted = errors.New("eventsys: router already started")

	// ErrNoBroker is returned when a router is created without a broker.
	ErrNoBroker = errors.New("eventsys: broker is nil")
)

// ErrorKind classifies a SystemError.
type ErrorKind int

const (
	KindInternal ErrorKind = iota
	KindMissingPayload
	KindDecode
	KindCanceled
)

func (k ErrorKind) String() string {
	switch k {
	case KindMissingPayload:
		return "missing_payload"
	case KindDecode:
		return "decode"
	case KindCanceled:
		return "canceled"
	default:
		return "internal"
	}
}

// SystemError is the single error type extraction failures are reported as.
type SystemError struct {
	Kind ErrorKind
	Msg  string
	Err  error
}

// Sentinels for errors.Is; they match any SystemError of the same kind.
var (
	ErrMissingPayload = &SystemError{Kind: KindMissingPayload, Msg: "expected payload"}
	ErrDecode         = &SystemError{Kind: KindDecode, Msg: "decode failed"}
)

// NewInternalError creates a KindInternal error with a free-form message.
func NewInternalError(msg string) *SystemError {
	return &SystemError{Kind: KindInternal, Msg: msg}
}

func (e *SystemError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("eventsys: %s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("eventsys: %s: %s", e.Kind, e.Msg)
}

func (e *SystemError) Unwrap() error { return e.Err }

func (e *SystemError) Is(target error) bool {
	t, ok := target.(*SystemError)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// SystemErrorConverter is implemented by extractor-specific errors that know
// how to describe themselves as a SystemError.
type SystemErrorConverter interface {
	SystemError() *SystemError
}

// IntoSystemError converts any error into a *SystemError. It returns nil for nil.
func IntoSystemError(err error) *SystemError {
	if err == nil {
		return nil
	}
	var se *SystemError
	if errors.As(err, &se) {
		return se
	}
	var conv SystemErrorConverter
	if errors.As(err, &conv) {
		if converted := conv.SystemError(); converted != nil {
			return converted
		}
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return &SystemError{Kind: KindCanceled, Msg: "extraction interrupted", Err: err}
	}
	return &SystemError{Kind: KindInternal, Msg: err.Error(), Err: err}
}

func missingPayload(req *Request) *SystemError {
	if req != nil {
		zap.L().Warn("expected payload",
			zap.String("event", string(req.Event())),
			zap.String("request_id", req.ID()),
		)
	}
	return &SystemError{Kind: KindMissingPayload, Msg: "expected payload"}
}

func decodeError(codec string, err error) *SystemError {
	return &SystemError{Kind: KindDecode, Msg: codec, Err: err}
}
