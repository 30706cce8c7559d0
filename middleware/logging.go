package middleware

import (
	"time"

	"go.uber.org/zap"

	"liveosc/message"
)

// Logging records every query with its address, duration, and outcome.
func Logging(logger *zap.Logger) Middleware {
	return func(next QueryFunc) QueryFunc {
		return func(addr string, args ...any) (message.Arguments, error) {
			start := time.Now()
			result, err := next(addr, args...)
			if err != nil {
				logger.Warn("query failed",
					zap.String("address", addr),
					zap.Duration("duration", time.Since(start)),
					zap.Error(err))
				return result, err
			}
			logger.Debug("query completed",
				zap.String("address", addr),
				zap.Duration("duration", time.Since(start)),
				zap.Int("args", len(result)))
			return result, nil
		}
	}
}
