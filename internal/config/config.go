package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Storage   StorageConfig
	Database  DatabaseConfig
	Capacity  CapacityConfig
	Admin     AdminConfig
	JWT       JWTConfig
	RateLimit RateLimitConfig
	CORS      CORSConfig
	Redis     RedisConfig
	Events    EventsConfig
}

type ServerConfig struct {
	Port        string
	Host        string
	Environment string
	LogLevel    string // overrides the environment's default level when set
}

type StorageConfig struct {
	Driver            string // postgres or memory
	RepositoryTimeout time.Duration
}

type DatabaseConfig struct {
	Host        string
	Port        string
	User        string
	Password    string
	DBName      string
	SSLMode     string
	AutoMigrate bool
}

type CapacityConfig struct {
	TotalSeats  int
	TotalTables int
}

type AdminConfig struct {
	Secret   string
	Email    string
	Password string
}

type JWTConfig struct {
	Secret      string
	ExpiryHours int
}

type RateLimitConfig struct {
	GeneralRPS   float64 // Requests per second for general endpoints
	GeneralBurst int     // Burst size for general endpoints
}

type CORSConfig struct {
	AllowedOrigins     []string
	AllowedBaseDomains []string
	PreviewHostSuffix  string
	PreviewHostMarker  string
	AllowCredentials   bool
	MaxAge             int
}

type RedisConfig struct {
	Addr              string
	Password          string
	DB                int
	OccupancyCacheTTL time.Duration
}

type EventsConfig struct {
	Driver      string // none, mqtt or amqp
	TopicPrefix string
	MQTT        MQTTConfig
	AMQP        AMQPConfig
}

type MQTTConfig struct {
	Broker   string
	ClientID string
	Username string
	Password string
	QoS      int
}

type AMQPConfig struct {
	URL      string
	Exchange string
}

func setDefaults() {
	viper.SetDefault("SERVER_HOST", "0.0.0.0")
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("ENVIRONMENT", "development")

	viper.SetDefault("STORAGE_DRIVER", "postgres")
	viper.SetDefault("REPOSITORY_TIMEOUT", "5s")

	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_USER", "postgres")
	viper.SetDefault("DB_NAME", "dine_reserve")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("DB_AUTO_MIGRATE", true)

	viper.SetDefault("TOTAL_SEATS", 50)
	viper.SetDefault("TOTAL_TABLES", 15)

	viper.SetDefault("ADMIN_SECRET", "changeme")
	viper.SetDefault("JWT_EXPIRY_HOURS", 12)

	viper.SetDefault("RATE_LIMIT_GENERAL_RPS", 10)
	viper.SetDefault("RATE_LIMIT_GENERAL_BURST", 20)

	viper.SetDefault("CORS_ALLOWED_ORIGINS", "")
	viper.SetDefault("CORS_ALLOWED_BASE_DOMAINS", "dine-reserve.vercel.app,www.dine-reserve.vercel.app,localhost")
	viper.SetDefault("CORS_PREVIEW_HOST_SUFFIX", "vercel.app")
	viper.SetDefault("CORS_PREVIEW_HOST_MARKER", "dine-reserve")
	viper.SetDefault("CORS_ALLOW_CREDENTIALS", true)
	viper.SetDefault("CORS_MAX_AGE", 43200)

	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("OCCUPANCY_CACHE_TTL", "30s")

	viper.SetDefault("EVENTS_DRIVER", "none")
	viper.SetDefault("EVENTS_TOPIC_PREFIX", "dine-reserve")
	viper.SetDefault("MQTT_CLIENT_ID", "dine-reserve-api")
	viper.SetDefault("MQTT_QOS", 1)
	viper.SetDefault("AMQP_EXCHANGE", "dine-reserve.events")
}

func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AddConfigPath(".")
	if homeDir, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(homeDir)
	}
	viper.AutomaticEnv()
	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		log.Printf("Warning: config file not found: %v. Falling back to environment variables only.", err)
	}

	config := &Config{
		Server: ServerConfig{
			Port:        viper.GetString("SERVER_PORT"),
			Host:        viper.GetString("SERVER_HOST"),
			Environment: viper.GetString("ENVIRONMENT"),
			LogLevel:    strings.ToLower(viper.GetString("LOG_LEVEL")),
		},
		Storage: StorageConfig{
			Driver:            strings.ToLower(viper.GetString("STORAGE_DRIVER")),
			RepositoryTimeout: viper.GetDuration("REPOSITORY_TIMEOUT"),
		},
		Database: DatabaseConfig{
			Host:        viper.GetString("DB_HOST"),
			Port:        viper.GetString("DB_PORT"),
			User:        viper.GetString("DB_USER"),
			Password:    viper.GetString("DB_PASSWORD"),
			DBName:      viper.GetString("DB_NAME"),
			SSLMode:     viper.GetString("DB_SSLMODE"),
			AutoMigrate: viper.GetBool("DB_AUTO_MIGRATE"),
		},
		Capacity: CapacityConfig{
			TotalSeats:  viper.GetInt("TOTAL_SEATS"),
			TotalTables: viper.GetInt("TOTAL_TABLES"),
		},
		Admin: AdminConfig{
			Secret:   viper.GetString("ADMIN_SECRET"),
			Email:    viper.GetString("ADMIN_EMAIL"),
			Password: viper.GetString("ADMIN_PASSWORD"),
		},
		JWT: JWTConfig{
			Secret:      viper.GetString("JWT_SECRET"),
			ExpiryHours: viper.GetInt("JWT_EXPIRY_HOURS"),
		},
		RateLimit: RateLimitConfig{
			GeneralRPS:   viper.GetFloat64("RATE_LIMIT_GENERAL_RPS"),
			GeneralBurst: viper.GetInt("RATE_LIMIT_GENERAL_BURST"),
		},
		CORS: CORSConfig{
			AllowedOrigins:     splitList(viper.GetString("CORS_ALLOWED_ORIGINS")),
			AllowedBaseDomains: splitList(viper.GetString("CORS_ALLOWED_BASE_DOMAINS")),
			PreviewHostSuffix:  viper.GetString("CORS_PREVIEW_HOST_SUFFIX"),
			PreviewHostMarker:  viper.GetString("CORS_PREVIEW_HOST_MARKER"),
			AllowCredentials:   viper.GetBool("CORS_ALLOW_CREDENTIALS"),
			MaxAge:             viper.GetInt("CORS_MAX_AGE"),
		},
		Redis: RedisConfig{
			Addr:              viper.GetString("REDIS_ADDR"),
			Password:          viper.GetString("REDIS_PASSWORD"),
			DB:                viper.GetInt("REDIS_DB"),
			OccupancyCacheTTL: viper.GetDuration("OCCUPANCY_CACHE_TTL"),
		},
		Events: EventsConfig{
			Driver:      strings.ToLower(viper.GetString("EVENTS_DRIVER")),
			TopicPrefix: viper.GetString("EVENTS_TOPIC_PREFIX"),
			MQTT: MQTTConfig{
				Broker:   viper.GetString("MQTT_BROKER"),
				ClientID: viper.GetString("MQTT_CLIENT_ID"),
				Username: viper.GetString("MQTT_USERNAME"),
				Password: viper.GetString("MQTT_PASSWORD"),
				QoS:      viper.GetInt("MQTT_QOS"),
			},
			AMQP: AMQPConfig{
				URL:      viper.GetString("AMQP_URL"),
				Exchange: viper.GetString("AMQP_EXCHANGE"),
			},
		},
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate rejects configurations the server cannot start with
func (c *Config) Validate() error {
	if c.Capacity.TotalSeats <= 0 || c.Capacity.TotalTables <= 0 {
		return fmt.Errorf("invalid capacity: seats=%d tables=%d", c.Capacity.TotalSeats, c.Capacity.TotalTables)
	}
	switch c.Storage.Driver {
	case "postgres", "memory":
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.Storage.Driver)
	}
	switch c.Events.Driver {
	case "none", "mqtt", "amqp":
	default:
		return fmt.Errorf("unknown EVENTS_DRIVER %q", c.Events.Driver)
	}
	if c.Storage.RepositoryTimeout <= 0 {
		return fmt.Errorf("REPOSITORY_TIMEOUT must be positive")
	}
	if c.JWT.ExpiryHours <= 0 {
		c.JWT.ExpiryHours = 12
	}
	return nil
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
