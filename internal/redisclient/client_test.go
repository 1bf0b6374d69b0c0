package redisclient

import (
	"context"
	"os"
	"testing"
	"time"

	"campus-market/config"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("Integration test - requires redis (set REDIS_TEST_ADDR)")
	}
	c, err := NewClient(config.RedisConfig{Addr: addr, DB: 15})
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func TestReleaseLockScriptEmbedded(t *testing.T) {
	assert.Contains(t, releaseLockScript, `redis.call("GET", KEYS[1]) == ARGV[1]`)
	assert.Contains(t, releaseLockScript, `redis.call("DEL", KEYS[1])`)
}

func TestLock_ReleaseOnlyByOwner(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()
	key := "test-release-" + time.Now().Format("150405.000000")

	owner, err := c.AcquireLock(ctx, key, time.Minute)
	require.NoError(t, err)
	require.NotEmpty(t, owner)

	again, err := c.AcquireLock(ctx, key, time.Minute)
	require.NoError(t, err)
	assert.Empty(t, again, "lock is held")

	require.NoError(t, c.ReleaseLock(ctx, key, "someone-else"))
	held, err := c.Get(ctx, "lock:"+key)
	require.NoError(t, err)
	assert.Equal(t, owner, held)

	require.NoError(t, c.ReleaseLock(ctx, key, owner))
	_, err = c.Get(ctx, "lock:"+key)
	assert.ErrorIs(t, err, redis.Nil)
}

func TestLock_ExpiredOwnerDoesNotReleaseSuccessor(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()
	key := "test-expired-" + time.Now().Format("150405.000000")

	stale, err := c.AcquireLock(ctx, key, 50*time.Millisecond)
	require.NoError(t, err)
	time.Sleep(120 * time.Millisecond)

	current, err := c.AcquireLock(ctx, key, time.Minute)
	require.NoError(t, err)
	require.NotEmpty(t, current)

	require.NoError(t, c.ReleaseLock(ctx, key, stale))
	held, err := c.Get(ctx, "lock:"+key)
	require.NoError(t, err)
	assert.Equal(t, current, held)

	require.NoError(t, c.ReleaseLock(ctx, key, current))
}

func TestSet_KeepTTL(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()
	key := "test-keepttl-" + time.Now().Format("150405.000000")

	require.NoError(t, c.Set(ctx, key, "v1", time.Hour))
	require.NoError(t, c.Set(ctx, key, "v2", redis.KeepTTL))

	ttl, err := c.rdb.TTL(ctx, key).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, 59*time.Minute)
	require.NoError(t, c.Del(ctx, key))
}
