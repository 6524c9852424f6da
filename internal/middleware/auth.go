package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"dine-reserve/internal/config"
	"dine-reserve/internal/logger"
	"dine-reserve/pkg/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	AdminSecretHeader = "X-Admin-Secret"

	ContextRoleKey       = "role"
	ContextEmailKey      = "email"
	ContextAuthMethodKey = "auth_method"
)

// AdminAuthMiddleware admits a request carrying either the shared admin
// secret header or a bearer token issued by the admin login endpoint.
func AdminAuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret := c.GetHeader(AdminSecretHeader); secret != "" {
			if cfg.Admin.Secret != "" &&
				subtle.ConstantTimeCompare([]byte(secret), []byte(cfg.Admin.Secret)) == 1 {
				c.Set(ContextRoleKey, utils.RoleAdmin)
				c.Set(ContextAuthMethodKey, "secret")
				c.Next()
				return
			}
			reject(c, "invalid admin secret")
			return
		}

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			reject(c, "missing credentials")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || cfg.JWT.Secret == "" {
			reject(c, "invalid authorization header format")
			return
		}

		claims, err := utils.ValidateToken(parts[1], cfg.JWT.Secret)
		if err != nil {
			reject(c, "invalid or expired token")
			return
		}

		c.Set(ContextEmailKey, claims.Email)
		c.Set(ContextRoleKey, claims.Role)
		c.Set(ContextAuthMethodKey, "jwt")

		c.Next()
	}
}

func reject(c *gin.Context, reason string) {
	logger.WithRequestID(GetRequestID(c)).Warn("Admin authentication failed",
		zap.String("reason", reason),
		zap.String("path", c.Request.URL.Path),
		zap.String("ip", c.ClientIP()),
	)
	utils.ErrorResponse(c, http.StatusUnauthorized, "Unauthorized")
	c.Abort()
}
