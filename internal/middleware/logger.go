package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/gin-gonic/gin"

	"productcatalog/internal/pkg/response"
)

// RequestLogger logs every request, the errors handlers attached to the
// context, and recovers from panics with a generic 500.
func RequestLogger(logger *gecho.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		defer func() {
			if recovered := recover(); recovered != nil {
				logger.Error(logArgs("Panic recovered", c, start,
					gecho.Field("error", fmt.Sprintf("%v", recovered)),
					gecho.Field("stack", string(debug.Stack())),
				)...)
				response.Error(c, http.StatusInternalServerError, response.CodeInternalError, "Internal server error")
				return
			}

			for _, err := range c.Errors {
				logger.Error(logArgs("Request error", c, start, gecho.Field("error", err.Error()))...)
			}

			switch status := c.Writer.Status(); {
			case status >= http.StatusInternalServerError:
				logger.Error(logArgs("Request failed", c, start)...)
			case status >= http.StatusBadRequest:
				logger.Warn(logArgs("Request rejected", c, start)...)
			default:
				logger.Debug(logArgs("Request handled", c, start)...)
			}
		}()

		c.Next()
	}
}

// logArgs builds the argument list of one log call: the message, the
// request fields, then extra.
func logArgs(msg string, c *gin.Context, start time.Time, extra ...any) []any {
	args := []any{
		msg,
		gecho.Field("status", c.Writer.Status()),
		gecho.Field("method", c.Request.Method),
		gecho.Field("path", c.Request.URL.Path),
		gecho.Field("client_ip", c.ClientIP()),
		gecho.Field("request_id", requestID(c)),
		gecho.Field("latency_ms", time.Since(start).Milliseconds()),
	}
	return append(args, extra...)
}

func requestID(c *gin.Context) string {
	return c.GetHeader("X-Request-ID")
}
