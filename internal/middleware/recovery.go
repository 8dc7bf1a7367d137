package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/packing-list-service/internal/domain/dto"
	"github.com/guttosm/packing-list-service/internal/i18n"
	"github.com/guttosm/packing-list-service/internal/logger"
)

// Recovery turns a panic into a logged 500 response.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			log := logger.Logger()
			log.Error().
				Str("request_id", GetRequestID(c)).
				Str("path", c.Request.URL.Path).
				Interface("panic", rec).
				Msg("Recovered from panic")

			msg := i18n.Message(i18n.ErrKeyInternalError)
			c.AbortWithStatusJSON(http.StatusInternalServerError,
				dto.NewError(dto.ErrCodeInternal, msg).WithRequestID(GetRequestID(c)))
		}()
		c.Next()
	}
}
