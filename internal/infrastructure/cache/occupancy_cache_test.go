package cache

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	domainReservation "dine-reserve/internal/domain/reservation"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRedis struct {
	mu   sync.Mutex
	data map[string]string
	ttl  time.Duration
	err  error
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{data: map[string]string{}}
}

func (f *fakeRedis) Get(_ context.Context, key string) *redis.StringCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return redis.NewStringResult("", f.err)
	}
	v, ok := f.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *fakeRedis) Set(_ context.Context, key string, value interface{}, ttl time.Duration) *redis.StatusCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return redis.NewStatusResult("", f.err)
	}
	f.data[key] = string(value.([]byte))
	f.ttl = ttl
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) Del(_ context.Context, keys ...string) *redis.IntCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return redis.NewIntResult(0, f.err)
	}
	var n int64
	for _, k := range keys {
		if _, ok := f.data[k]; ok {
			delete(f.data, k)
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

func TestOccupancyCache_RoundTrip(t *testing.T) {
	store := newFakeRedis()
	c := NewOccupancyCache(store, 30*time.Second)
	ctx := context.Background()

	_, ok := c.Get(ctx)
	assert.False(t, ok)

	want := domainReservation.Occupancy{TotalSeats: 50, OccupiedSeats: 55, VacantSeats: -5, PendingCount: 2}
	c.Set(ctx, want)

	got, ok := c.Get(ctx)
	require.True(t, ok)
	assert.Equal(t, want, *got)
	assert.Equal(t, 30*time.Second, store.ttl)

	c.Invalidate(ctx)
	_, ok = c.Get(ctx)
	assert.False(t, ok)
}

func TestOccupancyCache_FailuresAreMisses(t *testing.T) {
	store := newFakeRedis()
	store.err = errors.New("connection refused")
	c := NewOccupancyCache(store, time.Second)
	ctx := context.Background()

	c.Set(ctx, domainReservation.Occupancy{TotalSeats: 1})
	c.Invalidate(ctx)
	_, ok := c.Get(ctx)

	assert.False(t, ok)
}

func TestOccupancyCache_CorruptEntryIsMiss(t *testing.T) {
	store := newFakeRedis()
	store.data[occupancyKey] = "{not json"
	c := NewOccupancyCache(store, time.Second)

	_, ok := c.Get(context.Background())

	assert.False(t, ok)
}
