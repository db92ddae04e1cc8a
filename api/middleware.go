package api

import (
	"time"

	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"
)

// RequestLogMiddleware emits one structured log line per completed request.
// Auth material never reaches the log: only method, path, status and timing
// are recorded.
func RequestLogMiddleware(logger *log.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			status := c.Response().Status
			if err != nil {
				if httpErr, ok := err.(*echo.HTTPError); ok {
					status = httpErr.Code
				}
			}

			entry := logger.WithFields(log.Fields{
				"method":      c.Request().Method,
				"path":        c.Path(),
				"status":      status,
				"duration_ms": durationToMillis(time.Since(start)),
			})
			if err != nil {
				entry.WithError(err).Error("request failed")
			} else {
				entry.Debug("request completed")
			}
			return err
		}
	}
}
