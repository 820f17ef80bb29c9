package middleware

import (
	"time"

	"go.uber.org/zap"

	"github.com/miladsoleymani/eventsys/core"
)

// Logging returns middleware that logs each call with its duration.
// Extraction failures are logged with their error kind.
func Logging() core.MiddlewareFunc {
	return func(next core.HandlerFunc) core.HandlerFunc {
		return func(c core.Context) error {
			start := time.Now()
			err := next(c)
			elapsed := time.Since(start)

			logger := c.Logger()
			if err == nil {
				logger.Info("handled", zap.Duration("elapsed", elapsed))
				return nil
			}
			fields := []zap.Field{zap.Duration("elapsed", elapsed), zap.Error(err)}
			if se := asSystemError(err); se != nil {
				fields = append(fields, zap.Stringer("kind", se.Kind))
			}
			logger.Error("handler failed", fields...)
			return err
		}
	}
}
