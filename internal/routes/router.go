package routes

import (
	"context"

	"dine-reserve/internal/config"
	"dine-reserve/internal/delivery/http/handler"
	"dine-reserve/internal/logger"
	"dine-reserve/internal/middleware"
	"dine-reserve/internal/usecase/reservation"
	"dine-reserve/internal/usecase/user"

	"github.com/gin-gonic/gin"
)

// Services bundles the use cases the HTTP layer exposes.
type Services struct {
	Reservations *reservation.Service
	Users        *user.Service
	Health       handler.HealthChecker
}

// SetupRoutes builds the gin engine. ctx bounds background work owned by
// the middleware chain.
func SetupRoutes(ctx context.Context, cfg *config.Config, services Services) *gin.Engine {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Add middleware in order: request ID, logging, security headers, CORS, request size limit, general rate limit
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.SecurityHeadersMiddleware(cfg.Server.Environment))
	router.Use(middleware.CORSMiddleware(&cfg.CORS))
	router.Use(middleware.RequestSizeLimitMiddleware(middleware.DefaultMaxRequestSize))
	router.Use(middleware.RateLimitMiddleware(ctx, cfg.RateLimit.GeneralRPS, cfg.RateLimit.GeneralBurst))

	healthHandler := handler.NewHealthHandler(services.Health)
	router.GET("/", healthHandler.Root)
	router.GET("/health", healthHandler.Health)

	admin := []gin.HandlerFunc{middleware.AdminAuthMiddleware(cfg), middleware.AdminOnly()}

	api := router.Group("/api")
	{
		handler.NewReservationHandler(services.Reservations).RegisterRoutes(api, admin...)
		handler.NewUserHandler(services.Users).RegisterRoutes(api, admin...)
	}

	logger.Info("All routes initialized")
	return router
}
