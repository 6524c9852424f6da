package middleware

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"dine-reserve/internal/config"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// OriginAllowed reports whether a browser origin may call the API. Explicit
// origins match exactly; otherwise the host must be a base domain or a
// preview host ending in the preview suffix and containing the marker.
func OriginAllowed(cfg *config.CORSConfig, origin string) bool {
	for _, allowed := range cfg.AllowedOrigins {
		if origin == allowed {
			return true
		}
	}

	u, err := url.Parse(origin)
	if err != nil || u.Hostname() == "" {
		return false
	}
	host := strings.ToLower(u.Hostname())

	for _, base := range cfg.AllowedBaseDomains {
		if host == strings.ToLower(base) {
			return true
		}
	}

	if cfg.PreviewHostSuffix != "" && cfg.PreviewHostMarker != "" &&
		strings.HasSuffix(host, cfg.PreviewHostSuffix) &&
		strings.Contains(host, cfg.PreviewHostMarker) {
		return true
	}

	return false
}

func CORSMiddleware(cfg *config.CORSConfig) gin.HandlerFunc {
	corsConfig := cors.Config{
		AllowOriginFunc: func(origin string) bool {
			return OriginAllowed(cfg, origin)
		},
		AllowMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions,
		},
		AllowHeaders: []string{
			"Origin", "Content-Type", "Accept", "Authorization", AdminSecretHeader, RequestIDHeader,
		},
		ExposeHeaders:    []string{RequestIDHeader},
		AllowCredentials: cfg.AllowCredentials,
		MaxAge:           time.Duration(cfg.MaxAge) * time.Second,
	}

	return cors.New(corsConfig)
}
