package handler

import (
	"context"
	"net/http"
	"time"

	"dine-reserve/internal/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const healthCheckTimeout = 2 * time.Second

// HealthChecker reports whether the storage backend is reachable.
type HealthChecker func(ctx context.Context) error

type HealthHandler struct {
	check HealthChecker
}

func NewHealthHandler(check HealthChecker) *HealthHandler {
	return &HealthHandler{check: check}
}

func (h *HealthHandler) Health(c *gin.Context) {
	if h.check != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
		defer cancel()

		if err := h.check(ctx); err != nil {
			logger.Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":  "unhealthy",
				"message": "Storage connection failed",
			})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"message": "Service is running",
	})
}

// Root answers the bare liveness probe some hosts send to "/".
func (h *HealthHandler) Root(c *gin.Context) {
	c.String(http.StatusOK, "OK")
}
