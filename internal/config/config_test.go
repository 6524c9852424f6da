package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func validConfig() *Config {
	return &Config{
		Storage:  StorageConfig{Driver: "memory", RepositoryTimeout: time.Second},
		Capacity: CapacityConfig{TotalSeats: 50, TotalTables: 15},
		Events:   EventsConfig{Driver: "none"},
		JWT:      JWTConfig{ExpiryHours: 1},
	}
}

func TestValidate(t *testing.T) {
	assert.NoError(t, validConfig().Validate())

	cfg := validConfig()
	cfg.Capacity.TotalSeats = 0
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.Storage.Driver = "mongo"
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.Events.Driver = "kafka"
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.JWT.ExpiryHours = 0
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, 12, cfg.JWT.ExpiryHours)
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a.com", "b.com"}, splitList(" a.com, ,b.com "))
	assert.Nil(t, splitList(""))
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("TOTAL_SEATS", "20")
	t.Setenv("REPOSITORY_TIMEOUT", "2s")

	cfg, err := Load()

	assert.NoError(t, err)
	assert.Equal(t, "memory", cfg.Storage.Driver)
	assert.Equal(t, 20, cfg.Capacity.TotalSeats)
	assert.Equal(t, 15, cfg.Capacity.TotalTables)
	assert.Equal(t, 2*time.Second, cfg.Storage.RepositoryTimeout)
	assert.Equal(t, "changeme", cfg.Admin.Secret)
}
