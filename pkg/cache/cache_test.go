package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-playground/assert/v2"
	"github.com/redis/go-redis/v9"
)

func newTestCache(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewRedisCache(client), mr
}

func TestSetAndGet(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	type payload struct {
		Symbol string  `json:"symbol"`
		Price  float64 `json:"price"`
	}

	err := c.Set(ctx, "price:AAPL", payload{Symbol: "AAPL", Price: 187.5}, time.Minute)
	assert.Equal(t, nil, err)

	var got payload
	err = c.Get(ctx, "price:AAPL", &got)
	assert.Equal(t, nil, err)
	assert.Equal(t, "AAPL", got.Symbol)
	assert.Equal(t, 187.5, got.Price)
}

func TestGetMissingKey(t *testing.T) {
	c, _ := newTestCache(t)

	var got string
	err := c.Get(context.Background(), "absent", &got)
	assert.Equal(t, ErrMiss, err)
}

func TestEntryExpires(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	err := c.Set(ctx, "short", "value", time.Minute)
	assert.Equal(t, nil, err)

	mr.FastForward(2 * time.Minute)

	var got string
	err = c.Get(ctx, "short", &got)
	assert.Equal(t, ErrMiss, err)
}

func TestDelete(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	c.Set(ctx, "key", "value", time.Minute)
	err := c.Delete(ctx, "key")
	assert.Equal(t, nil, err)

	var got string
	err = c.Get(ctx, "key", &got)
	assert.Equal(t, ErrMiss, err)
}
