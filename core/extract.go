package core

import "context"

// Extractor turns a request and its payload into a value of type T.
//
// This is the only extension point for handler arguments: a new argument type
// becomes usable by implementing Extractor (or Extractable). Failures may use
// any error type; the router converts them with IntoSystemError.
type Extractor[T any] interface {
	Extract(req *Request, payload *Payload) *Future[T]
}

// ExtractorFunc adapts a function to the Extractor interface.
type ExtractorFunc[T any] func(req *Request, payload *Payload) *Future[T]

func (f ExtractorFunc[T]) Extract(req *Request, payload *Payload) *Future[T] {
	return f(req, payload)
}

// Extractable is implemented by types that populate themselves from a request.
//
//	type Caller struct{ ID string }
//
//	func (c *Caller) FromRequest(req *core.Request, _ *core.Payload) *core.Future[struct{}] {
//	    c.ID = req.ID()
//	    return core.Ready(struct{}{}, nil)
//	}
//
//	r.Handle("orders.created", core.Handler1(core.Self[Caller](), handleOrder))
type Extractable interface {
	FromRequest(req *Request, payload *Payload) *Future[struct{}]
}

// Self returns the Extractor for an Extractable type. Each extraction works on
// a freshly allocated T.
func Self[T any, PT interface {
	*T
	Extractable
}]() Extractor[T] {
	return ExtractorFunc[T](func(req *Request, payload *Payload) *Future[T] {
		v := new(T)
		return Then(PT(v).FromRequest(req, payload), func(_ struct{}, err error) (T, error) {
			if err != nil {
				var zero T
				return zero, err
			}
			return *v, nil
		})
	})
}

// Extract runs ex against req and payload and waits for the outcome.
// Any failure is returned as a *SystemError.
func Extract[T any](ctx context.Context, ex Extractor[T], req *Request, payload *Payload) (T, error) {
	v, err := ex.Extract(req, payload).Wait(ctx)
	if err != nil {
		var zero T
		return zero, IntoSystemError(err)
	}
	return v, nil
}
