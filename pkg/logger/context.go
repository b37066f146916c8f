package logger

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// RequestIDKey is the header carrying the request ID.
const RequestIDKey = "X-Request-ID"

// FromContext returns the request-scoped logger stashed by the request ID
// middleware. When no middleware ran, it falls back to the global logger
// tagged with whatever request ID the context or headers still hold.
func FromContext(c echo.Context) *zap.Logger {
	if scoped, ok := c.Get("logger").(*zap.Logger); ok {
		return scoped
	}

	requestID, _ := c.Get("request_id").(string)
	if requestID == "" {
		requestID = c.Request().Header.Get(RequestIDKey)
	}
	if requestID == "" {
		requestID = "unknown"
	}
	return GetLogger().With(zap.String("request_id", requestID))
}
