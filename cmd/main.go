package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dine-reserve/internal/config"
	"dine-reserve/internal/delivery/http/handler"
	domainReservation "dine-reserve/internal/domain/reservation"
	domainUser "dine-reserve/internal/domain/user"
	"dine-reserve/internal/infrastructure/cache"
	"dine-reserve/internal/infrastructure/database/memory"
	"dine-reserve/internal/infrastructure/database/postgres"
	"dine-reserve/internal/infrastructure/messaging"
	"dine-reserve/internal/logger"
	"dine-reserve/internal/routes"
	"dine-reserve/internal/usecase/reservation"
	"dine-reserve/internal/usecase/user"
	"dine-reserve/pkg/mqtt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type storage struct {
	reservations domainReservation.Repository
	users        domainUser.Repository
	health       handler.HealthChecker
	close        func() error
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("Failed to load configuration: " + err.Error() + "\n")
		os.Exit(1)
	}

	env := cfg.Server.Environment
	if env == "" {
		env = "development"
	}
	if err := logger.Init(env, cfg.Server.LogLevel); err != nil {
		os.Stderr.WriteString("Failed to initialize logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("environment", env),
		zap.String("storage", cfg.Storage.Driver),
		zap.String("events", cfg.Events.Driver),
		zap.Int("total_seats", cfg.Capacity.TotalSeats),
		zap.Int("total_tables", cfg.Capacity.TotalTables),
	)

	if cfg.Admin.Secret == "changeme" && env == "production" {
		logger.Warn("ADMIN_SECRET is set to its default value")
	}

	rootCtx, stop := context.WithCancel(context.Background())
	defer stop()

	store, err := openStorage(cfg)
	if err != nil {
		logger.Fatal("Failed to open storage", zap.Error(err))
	}
	defer func() {
		if err := store.close(); err != nil {
			logger.Error("Failed to close storage", zap.Error(err))
		}
	}()

	publisher, err := openPublisher(cfg)
	if err != nil {
		logger.Fatal("Failed to connect event publisher", zap.Error(err))
	}
	if publisher != nil {
		defer func() {
			if err := publisher.Close(); err != nil {
				logger.Error("Failed to close event publisher", zap.Error(err))
			}
		}()
	}

	var occupancyCache reservation.OccupancyCache
	if cfg.Redis.Addr != "" {
		rdb, err := cache.NewRedisClient(rootCtx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			logger.Warn("Redis unavailable, occupancy cache disabled", zap.Error(err))
		} else {
			defer closeRedis(rdb)
			occupancyCache = cache.NewOccupancyCache(rdb, cfg.Redis.OccupancyCacheTTL)
		}
	}

	userService := user.NewService(store.users, cfg)
	reservationService := reservation.NewService(
		store.reservations,
		userService,
		store.users,
		publisher,
		occupancyCache,
		reservation.Config{
			Capacity: domainReservation.Capacity{
				TotalSeats:  cfg.Capacity.TotalSeats,
				TotalTables: cfg.Capacity.TotalTables,
			},
			Timeout: cfg.Storage.RepositoryTimeout,
		},
	)

	router := routes.SetupRoutes(rootCtx, cfg, routes.Services{
		Reservations: reservationService,
		Users:        userService,
		Health:       store.health,
	})

	addr := net.JoinHostPort(cfg.Server.Host, cfg.Server.Port)

	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Server starting",
			zap.String("address", addr),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutdown Server ...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Failed to shutdown server", zap.Error(err))
	}

	logger.Info("Server exited properly")
}

func openStorage(cfg *config.Config) (*storage, error) {
	if cfg.Storage.Driver == "memory" {
		logger.Warn("Using in-memory storage, data is lost on restart")
		reservations := memory.NewReservationRepository()
		return &storage{
			reservations: reservations,
			users:        memory.NewUserRepository(),
			health:       reservations.Health,
			close:        func() error { return nil },
		}, nil
	}

	db, err := postgres.NewDB(cfg)
	if err != nil {
		return nil, err
	}
	return &storage{
		reservations: postgres.NewReservationRepository(db),
		users:        postgres.NewUserRepository(db),
		health:       db.Health,
		close:        db.Close,
	}, nil
}

// openPublisher returns nil when events are disabled
func openPublisher(cfg *config.Config) (domainReservation.EventPublisher, error) {
	switch cfg.Events.Driver {
	case "mqtt":
		p, err := messaging.NewMQTTPublisher(&mqtt.Config{
			Broker:               cfg.Events.MQTT.Broker,
			ClientID:             cfg.Events.MQTT.ClientID,
			Username:             cfg.Events.MQTT.Username,
			Password:             cfg.Events.MQTT.Password,
			CleanSession:         true,
			KeepAlive:            30,
			ConnectTimeout:       10,
			AutoReconnect:        true,
			MaxReconnectInterval: time.Minute,
		}, cfg.Events.TopicPrefix, cfg.Events.MQTT.QoS)
		if err != nil {
			return nil, err
		}
		return p, nil
	case "amqp":
		p, err := messaging.NewAMQPPublisher(cfg.Events.AMQP.URL, cfg.Events.AMQP.Exchange)
		if err != nil {
			return nil, err
		}
		return p, nil
	default:
		return nil, nil
	}
}

func closeRedis(rdb *redis.Client) {
	if err := rdb.Close(); err != nil {
		logger.Error("Failed to close redis client", zap.Error(err))
	}
}
