package middleware

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/tylergagebaxley9-cpu/nextgear-espocrm-billing/internal/shared/apperr"
)

func Fail(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

// ErrorHandler turns errors attached via Fail into a JSON response once the
// chain unwinds. Handlers that already wrote a response are left alone.
func ErrorHandler(l *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}
		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err
		status := apperr.HTTPStatus(err)
		rid := GetRequestID(c)

		l.LogAttrs(c.Request.Context(), slog.LevelError, "request_failed",
			slog.String("request_id", rid),
			slog.Int("status", status),
			slog.Any("err", err),
		)

		c.AbortWithStatusJSON(status, gin.H{
			"error":      apperr.PublicMessage(err),
			"request_id": rid,
		})
	}
}
