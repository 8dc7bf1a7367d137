package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/packing-list-service/internal/domain/model"
	"github.com/guttosm/packing-list-service/internal/logger"
	"github.com/guttosm/packing-list-service/internal/service"
)

// RequestLogger writes one structured line per request and, when sink is
// set, stores the same data as a log entry.
func RequestLogger(sink service.LoggingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()
		level := levelForStatus(status)

		base := logger.Logger()
		event := base.Info()
		switch level {
		case "error":
			event = base.Error()
		case "warn":
			event = base.Warn()
		}
		event.
			Str("request_id", GetRequestID(c)).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status_code", status).
			Int64("duration_ms", latency.Milliseconds()).
			Str("ip", c.ClientIP()).
			Str("user_agent", c.Request.UserAgent()).
			Msg("HTTP request")

		dispatch(sink, &model.LogEntry{
			Timestamp:  time.Now().UTC(),
			Level:      level,
			Message:    "HTTP request",
			RequestID:  GetRequestID(c),
			Method:     c.Request.Method,
			Path:       c.Request.URL.Path,
			StatusCode: status,
			Duration:   latency.Milliseconds(),
			IP:         c.ClientIP(),
		})
	}
}

func levelForStatus(status int) string {
	switch {
	case status >= 500:
		return "error"
	case status >= 400:
		return "warn"
	default:
		return "info"
	}
}
