package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/packing-list-service/internal/domain/dto"
	"github.com/guttosm/packing-list-service/internal/i18n"
	"github.com/guttosm/packing-list-service/internal/logger"
)

// ErrorHandler logs errors attached to the context. Server side failures
// are logged at error level and client errors at debug level. A request
// that failed without writing a response gets a generic 500.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		last := c.Errors.Last()
		if last == nil {
			return
		}

		log := logger.Logger()
		event := log.Debug()
		if !c.Writer.Written() || c.Writer.Status() >= http.StatusInternalServerError {
			event = log.Error()
		}
		event.
			Str("request_id", GetRequestID(c)).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status_code", c.Writer.Status()).
			Err(last.Err).
			Msg("Request error")

		if !c.Writer.Written() {
			msg := i18n.Message(i18n.ErrKeyInternalError)
			c.JSON(http.StatusInternalServerError,
				dto.NewError(dto.ErrCodeInternal, msg).WithRequestID(GetRequestID(c)))
		}
	}
}
