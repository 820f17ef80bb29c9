package middleware

import (
	"fmt"
	"runtime"

	"go.uber.org/zap"

	"github.com/miladsoleymani/eventsys/core"
)

// Recovery returns middleware that recovers from panics in handlers and
// extractors, logs the stack trace, and returns the panic as an internal
// SystemError.
func Recovery() core.MiddlewareFunc {
	return func(next core.HandlerFunc) core.HandlerFunc {
		return func(c core.Context) (err error) {
			defer func() {
				if r := recover(); r != nil {
					buf := make([]byte, 4096)
					n := runtime.Stack(buf, false)
					c.Logger().Error("panic recovered",
						zap.Any("panic", r),
						zap.ByteString("stack", buf[:n]),
					)
					err = core.NewInternalError(fmt.Sprintf("panic recovered: %v", r))
				}
			}()
			return next(c)
		}
	}
}
