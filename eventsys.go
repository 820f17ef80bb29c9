// Package eventsys provides the top-level API: an event router whose handlers
// declare typed arguments that are extracted from each request's payload.
//
//	r := eventsys.New(b)
//	r.Handle("user.sign_in", eventsys.Handler1(eventsys.DataOf[SignIn](r.Codec()), signIn))
//	r.Start(ctx)
package eventsys

import (
	"github.com/miladsoleymani/eventsys/core"
)

// Re-export core types at the package level for ergonomic usage.
type (
	Message     = core.Message
	Broker      = core.Broker
	Router      = core.Router
	Context     = core.Context
	HandlerFunc = core.HandlerFunc
	Request     = core.Request
	Payload     = core.Payload
	Event       = core.Event
	Codec       = core.Codec
	SystemError = core.SystemError
)

// New creates a new Router bound to the given Broker.
func New(b Broker) *Router {
	return core.New(b)
}

// Text extracts the payload as lossy UTF-8 text.
func Text() core.Extractor[string] { return core.Text() }

// Unit extracts nothing and always succeeds.
func Unit() core.Extractor[struct{}] { return core.Unit() }

// DataOf extracts the payload decoded into T.
func DataOf[T any](c Codec) core.Extractor[core.Data[T]] { return core.DataOf[T](c) }

// Try turns a failing extraction into a value the handler inspects.
func Try[T any](inner core.Extractor[T]) core.Extractor[core.Result[T]] { return core.Try(inner) }

// Handler1 builds a handler taking one extracted argument.
func Handler1[A any](a core.Extractor[A], fn func(Context, A) error) HandlerFunc {
	return core.Handler1(a, fn)
}

// Handler2 builds a handler taking two extracted arguments.
func Handler2[A, B any](a core.Extractor[A], b core.Extractor[B], fn func(Context, A, B) error) HandlerFunc {
	return core.Handler2(a, b, fn)
}
