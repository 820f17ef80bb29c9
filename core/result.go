package core

// Result holds the outcome of an inner extraction: either a value or the
// inner extractor's own error, unconverted.
type Result[T any] struct {
	Value T
	Err   error
}

func (r Result[T]) Ok() bool { return r.Err == nil }

// Unwrap returns the value and the inner error.
func (r Result[T]) Unwrap() (T, error) { return r.Value, r.Err }

// Try adapts inner so its failure becomes part of the extracted value.
// The returned extractor never fails; handlers branch on Result.Err.
func Try[T any](inner Extractor[T]) Extractor[Result[T]] {
	return ExtractorFunc[Result[T]](func(req *Request, payload *Payload) *Future[Result[T]] {
		return Then(inner.Extract(req, payload), func(v T, err error) (Result[T], error) {
			return Result[T]{Value: v, Err: err}, nil
		})
	})
}
