package core

import "golang.org/x/sync/errgroup"

// Handler1 builds a HandlerFunc whose single argument is produced by a.
//
//	r.Handle("orders.created", core.Handler1(core.DataOf[Order](r.Codec()),
//	    func(c core.Context, order core.Data[Order]) error {
//	        // process order.Value...
//	        return c.Ack()
//	    }))
func Handler1[A any](a Extractor[A], fn func(c Context, a A) error) HandlerFunc {
	return func(c Context) error {
		av, err := Extract(c.Context(), a, c.Request(), c.Payload())
		if err != nil {
			return err
		}
		return fn(c, av)
	}
}

// Handler2 builds a HandlerFunc taking two extracted arguments. Both
// extractions are started in order, then awaited together; the first
// failure aborts the call.
func Handler2[A, B any](a Extractor[A], b Extractor[B], fn func(c Context, a A, b B) error) HandlerFunc {
	return func(c Context) error {
		fa := a.Extract(c.Request(), c.Payload())
		fb := b.Extract(c.Request(), c.Payload())

		var (
			av A
			bv B
		)
		g, ctx := errgroup.WithContext(c.Context())
		g.Go(func() error {
			v, err := fa.Wait(ctx)
			if err != nil {
				return IntoSystemError(err)
			}
			av = v
			return nil
		})
		g.Go(func() error {
			v, err := fb.Wait(ctx)
			if err != nil {
				return IntoSystemError(err)
			}
			bv = v
			return nil
		})
		if err := g.Wait(); err != nil {
			return err
		}
		return fn(c, av, bv)
	}
}
