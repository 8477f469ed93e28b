package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"profast-backend-go/internal/metrics"
)

// panicOperation labels recovered panics in the operation errors counter.
const panicOperation = "panic"

// RecoveryMiddleware turns a handler panic into a 500 response. The panic is
// logged with the request id assigned by RequestLogger and counted under the
// "panic" operation.
func RecoveryMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		panic("RecoveryMiddleware requires a non-nil zap.Logger instance")
	}
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			metrics.OperationErrorsTotal.WithLabelValues(panicOperation).Inc()

			route := c.FullPath()
			if route == "" {
				route = c.Request.URL.Path
			}
			logger.Error("Recovered from handler panic",
				zap.String("panic", fmt.Sprint(rec)),
				zap.String("route", route),
				zap.String("method", c.Request.Method),
				zap.String("request_id", c.Writer.Header().Get(RequestIDHeader)),
				zap.ByteString("stacktrace", debug.Stack()),
			)
			if c.Writer.Written() {
				c.Abort()
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal Server Error"})
		}()
		c.Next()
	}
}
