package middleware

import (
	"net/http"

	"dine-reserve/internal/logger"
	"dine-reserve/pkg/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// DefaultMaxRequestSize bounds JSON bodies; reservation and user payloads are tiny.
const DefaultMaxRequestSize = 1 << 20

// RequestSizeLimitMiddleware rejects bodies larger than maxSize bytes.
// Requests without a declared length are capped while the handler reads.
func RequestSizeLimitMiddleware(maxSize int64) gin.HandlerFunc {
	if maxSize <= 0 {
		maxSize = DefaultMaxRequestSize
	}

	return func(c *gin.Context) {
		// Bodyless methods pass straight through
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}

		if c.Request.ContentLength > maxSize {
			logger.Warn("Request body too large",
				zap.String("request_id", GetRequestID(c)),
				zap.String("path", c.Request.URL.Path),
				zap.Int64("content_length", c.Request.ContentLength),
				zap.Int64("limit", maxSize),
			)
			utils.ErrorResponse(c, http.StatusRequestEntityTooLarge, "Request body too large")
			c.Abort()
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxSize)
		c.Next()
	}
}
