package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	LoggerKey       = "logger"
	RequestIDHeader = "X-Request-ID"
)

// RequestLogger stores a per-request child of base under LoggerKey and logs the completed request.
// The logged client IP is resolved the same way as for rate limiting.
func RequestLogger(base *zap.Logger, trustedProxies ...string) gin.HandlerFunc {
	resolver := newClientIPResolver(trustedProxies)
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Header(RequestIDHeader, requestID)

		logger := base.With(zap.String("requestId", requestID))
		c.Set(LoggerKey, logger)

		start := time.Now()
		c.Next()

		logger.Info("Request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.String("ip", resolver.clientIP(c)),
			zap.Duration("latency", time.Since(start)),
		)
	}
}
