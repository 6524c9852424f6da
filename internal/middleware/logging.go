package middleware

import (
	"time"

	"dine-reserve/internal/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const healthPath = "/health"

// LoggingMiddleware logs HTTP requests and responses with structured logging.
// Completion lines carry the :id path parameter and, on admin routes, the
// auth method.
func LoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method
		ip := c.ClientIP()

		log := logger.WithRequestID(GetRequestID(c))

		log.Debug("Incoming request",
			zap.String("method", method),
			zap.String("path", path),
			zap.String("ip", ip),
			zap.String("user_agent", c.Request.UserAgent()),
		)

		// Handle request
		c.Next()

		// Calculate latency
		latency := time.Since(start)
		statusCode := c.Writer.Status()

		// Log response
		fields := []zap.Field{
			zap.String("method", method),
			zap.String("path", path),
			zap.String("route", c.FullPath()),
			zap.String("ip", ip),
			zap.Int("status_code", statusCode),
			zap.Duration("latency", latency),
		}

		if id := c.Param("id"); id != "" {
			fields = append(fields, zap.String("target_id", id))
		}
		if authMethod := c.GetString(ContextAuthMethodKey); authMethod != "" {
			fields = append(fields, zap.String("auth_method", authMethod))
		}
		if errorMessage := c.Errors.ByType(gin.ErrorTypePrivate).String(); errorMessage != "" {
			fields = append(fields, zap.String("error", errorMessage))
		}

		switch {
		case statusCode >= 500:
			log.Error("Request completed with server error", fields...)
		case statusCode >= 400:
			log.Warn("Request completed with client error", fields...)
		case path == healthPath:
			log.Debug("Health check", fields...)
		default:
			log.Info("Request completed successfully", fields...)
		}
	}
}
