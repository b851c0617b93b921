package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const loggerKey = "zapLogger"

// Logger 为每个请求派生带 Correlation ID 的日志器，并在结束时记录一条访问日志。
// 需挂在 CorrelationID 之后。
func Logger(base *zap.Logger) gin.HandlerFunc {
	if base == nil {
		base = zap.NewNop()
	}
	return func(c *gin.Context) {
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		requestLogger := base.With(
			zap.String("correlation_id", GetCorrelationID(c)),
			zap.String("method", c.Request.Method),
			zap.String("path", path),
		)
		c.Set(loggerKey, requestLogger)

		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}
		requestLogger.Info("request completed", fields...)
	}
}

// LoggerFromContext 返回请求日志器，缺失时返回 Nop。
func LoggerFromContext(c *gin.Context) *zap.Logger {
	if value, ok := c.Get(loggerKey); ok {
		if l, ok := value.(*zap.Logger); ok {
			return l
		}
	}
	return zap.NewNop()
}
