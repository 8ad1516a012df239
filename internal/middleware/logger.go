package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Logger writes one line per request once the handler chain has finished.
// 5xx responses are logged as errors and 4xx as warnings.
func Logger(logger *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := requestFields(c, time.Since(start))
		switch status := c.Writer.Status(); {
		case status >= http.StatusInternalServerError:
			logger.Errorw("HTTP request", fields...)
		case status >= http.StatusBadRequest:
			logger.Warnw("HTTP request", fields...)
		default:
			logger.Infow("HTTP request", fields...)
		}
	}
}

func requestFields(c *gin.Context, latency time.Duration) []any {
	req := c.Request
	fields := []any{
		"status", c.Writer.Status(),
		"method", req.Method,
		"path", req.URL.Path,
		"latency_ms", latency.Milliseconds(),
		"client_ip", c.ClientIP(),
		"user_agent", req.UserAgent(),
	}
	if route := c.FullPath(); route != "" {
		fields = append(fields, "route", route)
	}
	if req.URL.RawQuery != "" {
		fields = append(fields, "query", req.URL.RawQuery)
	}
	if id := GetRequestID(c); id != "" {
		fields = append(fields, "request_id", id)
	}
	if user, ok := CurrentUser(c); ok {
		fields = append(fields, "user_id", user.ID)
	}
	if size := c.Writer.Size(); size > 0 {
		fields = append(fields, "size", size)
	}
	if len(c.Errors) > 0 {
		fields = append(fields, "errors", c.Errors.String())
	}
	return fields
}
