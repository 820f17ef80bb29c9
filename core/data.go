package core

// Data carries the decoded application payload of a call. It exists so a
// handler can ask for "the payload as T" distinctly from other extracted types.
type Data[T any] struct {
	Value T
}

func (d Data[T]) Get() T { return d.Value }

func (d *Data[T]) Ptr() *T { return &d.Value }

// IntoInner unwraps the decoded value.
func (d Data[T]) IntoInner() T { return d.Value }

// DataOf returns an extractor decoding the payload into T with codec.
// A None payload fails with a missing-payload error; a decode failure fails
// with a KindDecode error carrying the codec's diagnostic.
func DataOf[T any](codec Codec) Extractor[Data[T]] {
	return ExtractorFunc[Data[T]](func(req *Request, payload *Payload) *Future[Data[T]] {
		buf, ok := payload.Bytes()
		if !ok {
			return Ready(Data[T]{}, error(missingPayload(req)))
		}
		var d Data[T]
		if err := codec.Decode(buf, &d.Value); err != nil {
			return Ready(Data[T]{}, error(decodeError(codec.Name(), err)))
		}
		return Ready(d, nil)
	})
}
