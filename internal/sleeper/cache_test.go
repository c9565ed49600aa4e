package sleeper

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCacheExpiry(t *testing.T) {
	clock := &fakeClock{now: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	c := NewMemoryCache(clock.Now)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "/league/1", []byte(`{}`), time.Minute))

	data, ok, err := c.Get(ctx, "/league/1", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte(`{}`), data)

	clock.Advance(59 * time.Second)
	_, ok, _ = c.Get(ctx, "/league/1", time.Minute)
	assert.True(t, ok)

	clock.Advance(time.Second)
	_, ok, _ = c.Get(ctx, "/league/1", time.Minute)
	assert.False(t, ok, "entry must expire once age reaches ttl")

	n, _ := c.Len(ctx)
	assert.Equal(t, 1, n, "expired entries are not evicted")

	require.NoError(t, c.Clear(ctx))
	n, _ = c.Len(ctx)
	assert.Zero(t, n)
}

func TestRedisCache(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	c := NewRedisCache(rdb)
	ctx := context.Background()

	_, ok, err := c.Get(ctx, "/league/1", time.Hour)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, "/league/1", []byte(`{"name":"x"}`), time.Hour))
	require.NoError(t, c.Set(ctx, "/league/2", []byte(`{}`), time.Hour))
	mr.Set("unrelated", "keep")

	data, ok, err := c.Get(ctx, "/league/1", time.Hour)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.JSONEq(t, `{"name":"x"}`, string(data))
	assert.True(t, mr.Exists(KeyPrefix+"/league/1"))

	n, err := c.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	mr.FastForward(time.Hour)
	_, ok, err = c.Get(ctx, "/league/1", time.Hour)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, "/league/3", []byte(`{}`), time.Hour))
	require.NoError(t, c.Clear(ctx))
	n, err = c.Len(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.True(t, mr.Exists("unrelated"))
}

func TestDialRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb, err := DialRedis(context.Background(), mr.Addr(), "", 0)
	require.NoError(t, err)
	rdb.Close()

	_, err = DialRedis(context.Background(), "127.0.0.1:1", "", 0)
	assert.Error(t, err)
}
