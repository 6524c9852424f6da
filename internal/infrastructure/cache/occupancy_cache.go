package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	domainReservation "dine-reserve/internal/domain/reservation"
	"dine-reserve/internal/logger"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const occupancyKey = "dine-reserve:occupancy"

// redisStore is the subset of *redis.Client used here
type redisStore interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// OccupancyCache keeps the last occupancy snapshot in Redis. It only serves
// display reads; confirmation never consults it. Redis failures degrade to
// cache misses.
type OccupancyCache struct {
	rdb redisStore
	ttl time.Duration
}

// NewRedisClient initializes a redis client and checks connectivity
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, err
	}
	return rdb, nil
}

func NewOccupancyCache(rdb redisStore, ttl time.Duration) *OccupancyCache {
	return &OccupancyCache{rdb: rdb, ttl: ttl}
}

func (c *OccupancyCache) Get(ctx context.Context) (*domainReservation.Occupancy, bool) {
	raw, err := c.rdb.Get(ctx, occupancyKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		logger.Warn("Occupancy cache read failed", zap.Error(err))
		return nil, false
	}

	var occupancy domainReservation.Occupancy
	if err := json.Unmarshal(raw, &occupancy); err != nil {
		logger.Warn("Occupancy cache entry is corrupt", zap.Error(err))
		return nil, false
	}
	return &occupancy, true
}

func (c *OccupancyCache) Set(ctx context.Context, occupancy domainReservation.Occupancy) {
	b, err := json.Marshal(occupancy)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, occupancyKey, b, c.ttl).Err(); err != nil {
		logger.Warn("Occupancy cache write failed", zap.Error(err))
	}
}

func (c *OccupancyCache) Invalidate(ctx context.Context) {
	if err := c.rdb.Del(ctx, occupancyKey).Err(); err != nil {
		logger.Warn("Occupancy cache invalidation failed", zap.Error(err))
	}
}
