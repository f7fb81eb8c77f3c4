package rdx

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// These run against a real server and are skipped unless REDIS_ADDR is set.
func liveClient(t *testing.T) *Client {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	c := New(addr, os.Getenv("REDIS_PASSWORD"), 0)
	require.NoError(t, c.Ping(context.Background()))
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestGetMissingKeyIsEmpty(t *testing.T) {
	c := liveClient(t)
	val, err := c.RdxGet(context.Background(), "heritage:test:missing")
	require.NoError(t, err)
	assert.Empty(t, val)
}

func TestSetGetDel(t *testing.T) {
	c := liveClient(t)
	ctx := context.Background()
	key := "heritage:test:key"

	require.NoError(t, c.SetWithExpiry(ctx, key, "v1", time.Minute))
	val, err := c.RdxGet(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "v1", val)

	ok, err := c.Expire(ctx, key, time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, c.RdxDel(ctx, key))
	val, _ = c.RdxGet(ctx, key)
	assert.Empty(t, val)
}

func TestPublishSubscribe(t *testing.T) {
	c := liveClient(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	msgs := c.Subscribe(ctx, "heritage:test:events")
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, c.Publish(ctx, "heritage:test:events", []byte("ping")))

	select {
	case got := <-msgs:
		assert.Equal(t, "ping", string(got))
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for message")
	}
}
